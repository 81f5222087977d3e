package base

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/workctl/internal/config"
	"github.com/hashicorp-forge/workctl/pkg/work"
)

// InsecureWarning is printed whenever TLS verification is turned off.
const InsecureWarning = "WARNING: TLS certificate verification is disabled. " +
	"The server's identity is not being checked."

// ClientFlags are the flags shared by every command that talks to the
// server.
type ClientFlags struct {
	ConfigPath string
	Insecure   bool
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	LogLevel   string
}

// Register adds the shared flags to f.
func (cf *ClientFlags) Register(f *FlagSet) {
	f.StringVar(
		&cf.ConfigPath, "config", "",
		"Path to an HCL config file.",
	)
	f.BoolVar(
		&cf.Insecure, "insecure", false,
		"Disable TLS certificate verification. Accepts self-signed and\n"+
			"otherwise untrusted server certificates.",
	)
	f.DurationVar(
		&cf.Timeout, "timeout", 0,
		"Timeout for each HTTP request. 0 means no timeout.",
	)
	f.IntVar(
		&cf.Retries, "retries", 0,
		"Retry transport failures and 5xx responses up to this many times.\n"+
			"Login is never retried. 0 fails on the first error.",
	)
	f.DurationVar(
		&cf.RetryDelay, "retry-delay", 0,
		"Initial delay between retries (exponential backoff).",
	)
	f.StringVar(
		&cf.LogLevel, "log-level", "",
		"Log level: trace, debug, info, warn, error or off.",
	)
}

// LoadConfig builds the effective configuration. Precedence is flag, then
// environment, then config file, then defaults.
func (c *Command) LoadConfig(f *FlagSet, cf *ClientFlags) (*config.Config, error) {
	cfgPath := cf.ConfigPath
	if !f.IsSet("config") {
		if v, ok := c.lookupEnv()(config.EnvVar("config")); ok {
			cfgPath = v
		}
	}

	cfg, err := config.Load(c.fs(), cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(c.lookupEnv()); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}

	if f.IsSet("insecure") {
		verify := !cf.Insecure
		cfg.TLSVerify = &verify
	}
	if f.IsSet("timeout") {
		cfg.Timeout = cf.Timeout.String()
	}
	if f.IsSet("retries") {
		cfg.MaxRetries = cf.Retries
	}
	if f.IsSet("retry-delay") {
		cfg.RetryDelay = cf.RetryDelay.String()
	}
	if f.IsSet("log-level") {
		cfg.LogLevel = cf.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	c.Log.SetLevel(hclog.LevelFromString(cfg.NormalizedLogLevel()))
	return cfg, nil
}

// NewClient returns a REST client for server using cfg. It prints the
// insecure warning when TLS verification is disabled.
func (c *Command) NewClient(server string, cfg *config.Config) (*work.Client, error) {
	wc := &work.Config{
		BaseURL:    work.BaseURLFromServer(server),
		TLSVerify:  cfg.TLSVerify,
		Timeout:    cfg.TimeoutDuration(),
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelayDuration(),
		CustomerID: cfg.CustomerID,
		Logger:     c.Log,
	}

	client, err := work.NewClient(wc)
	if err != nil {
		return nil, err
	}

	if wc.InsecureSkipVerify() {
		c.UI.Warn(InsecureWarning)
		c.Log.Warn("TLS certificate verification disabled", "base_url", wc.BaseURL)
	}
	if wc.MaxRetries > 0 {
		c.Log.Info("retries enabled", "max_retries", wc.MaxRetries)
	}

	return client, nil
}
