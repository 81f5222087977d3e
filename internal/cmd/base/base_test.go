package base

import (
	"context"
	"errors"
	"flag"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/workctl/pkg/batch"
	"github.com/hashicorp-forge/workctl/pkg/work"
)

func testCommand(t *testing.T, env map[string]string) (*Command, *cli.MockUi, afero.Fs) {
	t.Helper()
	ui := cli.NewMockUi()
	fs := afero.NewMemMapFs()
	return &Command{
		UI:  ui,
		Log: hclog.NewNullLogger(),
		Fs:  fs,
		LookupEnv: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
		Context: context.Background(),
	}, ui, fs
}

func parseClientFlags(t *testing.T, args ...string) (*FlagSet, *ClientFlags) {
	t.Helper()
	f := NewFlagSet(flag.NewFlagSet("test", flag.ContinueOnError))
	cf := &ClientFlags{}
	cf.Register(f)
	require.NoError(t, f.Parse(args))
	return f, cf
}

func TestFlagSet_Help(t *testing.T) {
	f, _ := parseClientFlags(t)
	help := f.Help()

	assert.Contains(t, help, "Options:")
	assert.Contains(t, help, "-insecure=false")
	assert.Contains(t, help, "-retries=0")
	assert.Contains(t, help, "Login is never retried.")
}

func TestFlagSet_IsSet(t *testing.T) {
	f, _ := parseClientFlags(t, "-retries=0")
	assert.True(t, f.IsSet("retries"))
	assert.False(t, f.IsSet("insecure"))
}

func TestLoadConfig_Precedence(t *testing.T) {
	c, _, fs := testCommand(t, map[string]string{
		"WORKCTL_TIMEOUT":     "20s",
		"WORKCTL_MAX_RETRIES": "4",
	})
	require.NoError(t, afero.WriteFile(fs, "workctl.hcl", []byte(`
timeout     = "10s"
max_retries = 1
customer_id = "7"
tls_verify  = true
`), 0o644))

	f, cf := parseClientFlags(t, "-config=workctl.hcl", "-retries=2", "-insecure")
	cfg, err := c.LoadConfig(f, cf)
	require.NoError(t, err)

	assert.Equal(t, "7", cfg.CustomerID, "file over default")
	assert.Equal(t, 20*time.Second, cfg.TimeoutDuration(), "env over file")
	assert.Equal(t, 2, cfg.MaxRetries, "flag over env")
	assert.True(t, cfg.InsecureSkipVerify(), "flag over file")
}

func TestLoadConfig_ConfigPathFromEnv(t *testing.T) {
	c, _, fs := testCommand(t, map[string]string{"WORKCTL_CONFIG": "/etc/w.hcl"})
	require.NoError(t, afero.WriteFile(fs, "/etc/w.hcl", []byte(`database = "ACTIVE"`), 0o644))

	f, cf := parseClientFlags(t)
	cfg, err := c.LoadConfig(f, cf)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", cfg.Database)
}

func TestLoadConfig_Defaults(t *testing.T) {
	c, _, _ := testCommand(t, nil)
	f, cf := parseClientFlags(t)

	cfg, err := c.LoadConfig(f, cf)
	require.NoError(t, err)
	assert.Nil(t, cfg.TLSVerify)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	c, _, _ := testCommand(t, nil)
	f, cf := parseClientFlags(t, "-retries=-1")

	_, err := c.LoadConfig(f, cf)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestNewClient_WarnsWhenInsecure(t *testing.T) {
	c, ui, _ := testCommand(t, nil)
	verify := false

	f, cf := parseClientFlags(t, "-insecure")
	cfg, err := c.LoadConfig(f, cf)
	require.NoError(t, err)
	require.Equal(t, &verify, cfg.TLSVerify)

	client, err := c.NewClient("work.example.com", cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://work.example.com", client.BaseURL())
	assert.Contains(t, ui.ErrorWriter.String(), InsecureWarning)
}

func TestNewClient_NoWarningByDefault(t *testing.T) {
	c, ui, _ := testCommand(t, nil)
	f, cf := parseClientFlags(t)
	cfg, err := c.LoadConfig(f, cf)
	require.NoError(t, err)

	_, err = c.NewClient("work.example.com", cfg)
	require.NoError(t, err)
	assert.Empty(t, ui.ErrorWriter.String())
}

func TestUIWriter(t *testing.T) {
	ui := cli.NewMockUi()
	w := UIWriter(ui)

	_, err := w.Write([]byte("one\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("two\nthree\n"))
	require.NoError(t, err)

	assert.Equal(t, "one\ntwo\nthree\n", ui.OutputWriter.String())
}

func TestParseIntArgs(t *testing.T) {
	var start, count int
	err := ParseIntArgs(
		IntArg{Name: "start", Value: "-3", Target: &start},
		IntArg{Name: "count", Value: "4", Target: &count, NonNegative: true},
	)
	require.NoError(t, err)
	assert.Equal(t, -3, start)
	assert.Equal(t, 4, count)

	err = ParseIntArgs(
		IntArg{Name: "start", Value: "five", Target: &start},
		IntArg{Name: "count", Value: "-1", Target: &count, NonNegative: true},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `start must be an integer, got: "five"`)
	assert.Contains(t, err.Error(), "count must be non-negative, got: -1")
}

func TestReportError(t *testing.T) {
	cause := &work.ServerError{Op: "reserve-document-number", StatusCode: 500}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "auth",
			err:  &work.AuthError{Method: work.AuthNetwork, Err: &work.ServerError{Op: "network-login", StatusCode: 401}},
			want: "error (auth phase)",
		},
		{
			name: "first iteration",
			err:  &batch.IterationError{Op: "reserve-docnums", Index: 0, Completed: 0, Err: cause},
			want: "first request failed (request phase), nothing was done",
		},
		{
			name: "mid loop",
			err:  &batch.IterationError{Op: "create-folders", Index: 7, Completed: 2, Err: &work.ResponseShapeError{Op: "create-subfolder", Field: "data"}},
			want: "aborted after 2 completed (response phase)",
		},
		{
			name: "other",
			err:  errors.New("boom"),
			want: "error (request phase): boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ui, _ := testCommand(t, nil)
			assert.Equal(t, 1, c.ReportError(tt.err))
			assert.Contains(t, ui.ErrorWriter.String(), tt.want)
		})
	}
}
