package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/workctl.hcl", []byte(`
customer_id = "42"
database    = "ACTIVE"
tls_verify  = false
timeout     = "30s"
max_retries = 2
retry_delay = "250ms"
log_level   = "debug"
`), 0o644))

	cfg, err := Load(fs, "/etc/workctl.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "42", cfg.CustomerID)
	assert.Equal(t, "ACTIVE", cfg.Database)
	require.NotNil(t, cfg.TLSVerify)
	assert.True(t, cfg.InsecureSkipVerify())
	assert.Equal(t, 30*time.Second, cfg.TimeoutDuration())
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelayDuration())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.InsecureSkipVerify())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "c.hcl", []byte(`timeout = "5s"`), 0o644))

	cfg, err := Load(fs, "c.hcl")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "5s", cfg.Timeout)
	assert.Nil(t, cfg.TLSVerify)
}

func TestLoad_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.hcl", []byte(`timeout = `), 0o644))
	require.NoError(t, afero.WriteFile(fs, "unknown.hcl", []byte(`server = "x"`), 0o644))

	_, err := Load(fs, "missing.hcl")
	assert.ErrorContains(t, err, "error reading config file")

	_, err = Load(fs, "bad.hcl")
	assert.ErrorContains(t, err, "error parsing config file")

	// Server and credentials are not config file settings.
	_, err = Load(fs, "unknown.hcl")
	assert.Error(t, err)
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "WORKCTL_TLS_VERIFY", EnvVar("tls_verify"))
	assert.Equal(t, "WORKCTL_CUSTOMER_ID", EnvVar("customer_id"))
	assert.Equal(t, "WORKCTL_MAX_RETRIES", EnvVar("maxRetries"))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"WORKCTL_DATABASE":    "ARCHIVE",
		"WORKCTL_TLS_VERIFY":  "false",
		"WORKCTL_MAX_RETRIES": "3",
		"WORKCTL_LOG_LEVEL":   "trace",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	cfg.Database = "ACTIVE"
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, "ARCHIVE", cfg.Database)
	assert.True(t, cfg.InsecureSkipVerify())
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "trace", cfg.LogLevel)
}

func TestApplyEnv_AggregatesErrors(t *testing.T) {
	env := map[string]string{
		"WORKCTL_TLS_VERIFY":  "sometimes",
		"WORKCTL_MAX_RETRIES": "many",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	err := Default().ApplyEnv(lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WORKCTL_TLS_VERIFY")
	assert.Contains(t, err.Error(), "WORKCTL_MAX_RETRIES")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults"},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.Timeout = "soon" },
			wantErr: "Timeout",
		},
		{
			name:    "negative retry delay",
			mutate:  func(c *Config) { c.RetryDelay = "-1s" },
			wantErr: "RetryDelay",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.MaxRetries = -1 },
			wantErr: "MaxRetries",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: "LogLevel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
