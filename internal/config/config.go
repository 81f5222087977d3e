package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/iancoleman/strcase"
	"github.com/spf13/afero"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "WORKCTL_"

// Config contains the settings shared by every workctl command. Server and
// credentials are always given on the command line and never read from a
// file.
//
// Example configuration (HCL):
//
//	customer_id = "1"
//	database    = "ACTIVE"
//	tls_verify  = false
//	timeout     = "30s"
//	max_retries = 0
//	log_level   = "info"
type Config struct {
	// CustomerID is the customer segment of /api/v2 paths.
	CustomerID string `hcl:"customer_id,optional"`

	// Database overrides the database used for document number reservation.
	Database string `hcl:"database,optional"`

	// TLSVerify controls TLS certificate verification. Nil means verify.
	TLSVerify *bool `hcl:"tls_verify,optional"`

	// Timeout for each HTTP request, as a duration string. Empty means none.
	Timeout string `hcl:"timeout,optional"`

	// MaxRetries for transport failures and 5xx responses. 0 disables retries.
	MaxRetries int `hcl:"max_retries,optional"`

	// RetryDelay is the initial backoff interval, as a duration string.
	RetryDelay string `hcl:"retry_delay,optional"`

	// LogLevel is an hclog level name.
	LogLevel string `hcl:"log_level,optional"`
}

var logLevels = []interface{}{"trace", "debug", "info", "warn", "error", "off"}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "warn",
	}
}

// Load reads an HCL config file from fs on top of the defaults. An empty
// path returns the defaults.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fileCfg Config
	if err := hclsimple.Decode(path, src, nil, &fileCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	cfg.merge(&fileCfg)

	return cfg, nil
}

// merge copies every value set in other onto c.
func (c *Config) merge(other *Config) {
	if other.CustomerID != "" {
		c.CustomerID = other.CustomerID
	}
	if other.Database != "" {
		c.Database = other.Database
	}
	if other.TLSVerify != nil {
		v := *other.TLSVerify
		c.TLSVerify = &v
	}
	if other.Timeout != "" {
		c.Timeout = other.Timeout
	}
	if other.MaxRetries != 0 {
		c.MaxRetries = other.MaxRetries
	}
	if other.RetryDelay != "" {
		c.RetryDelay = other.RetryDelay
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}

// EnvVar returns the environment variable that overrides the named setting,
// e.g. "tls_verify" -> "WORKCTL_TLS_VERIFY".
func EnvVar(setting string) string {
	return EnvPrefix + strcase.ToScreamingSnake(setting)
}

// ApplyEnv overrides settings from environment variables found by lookup
// (usually os.LookupEnv). All malformed values are reported together.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var result *multierror.Error

	str := func(setting string, dst *string) {
		if v, ok := lookup(EnvVar(setting)); ok && v != "" {
			*dst = v
		}
	}
	str("customer_id", &c.CustomerID)
	str("database", &c.Database)
	str("timeout", &c.Timeout)
	str("retry_delay", &c.RetryDelay)
	str("log_level", &c.LogLevel)

	if v, ok := lookup(EnvVar("tls_verify")); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			result = multierror.Append(result,
				fmt.Errorf("%s: %w", EnvVar("tls_verify"), err))
		} else {
			c.TLSVerify = &b
		}
	}
	if v, ok := lookup(EnvVar("max_retries")); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			result = multierror.Append(result,
				fmt.Errorf("%s: %w", EnvVar("max_retries"), err))
		} else {
			c.MaxRetries = n
		}
	}

	return result.ErrorOrNil()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Timeout, validation.By(isDuration)),
		validation.Field(&c.RetryDelay, validation.By(isDuration)),
		validation.Field(&c.MaxRetries, validation.Min(0)),
		validation.Field(&c.LogLevel, validation.In(logLevels...)),
	)
}

func isDuration(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return errors.New("must be a duration such as 30s or 1m")
	}
	if d < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

// TimeoutDuration returns the parsed request timeout (zero when unset).
// Call Validate first.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// RetryDelayDuration returns the parsed retry delay (zero when unset).
// Call Validate first.
func (c *Config) RetryDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
	return d
}

// InsecureSkipVerify reports whether TLS verification was explicitly disabled.
func (c *Config) InsecureSkipVerify() bool {
	return c.TLSVerify != nil && !*c.TLSVerify
}

// NormalizedLogLevel returns the log level in lower case.
func (c *Config) NormalizedLogLevel() string {
	return strings.ToLower(strings.TrimSpace(c.LogLevel))
}
