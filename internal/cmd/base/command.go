package base

import (
	"context"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
)

// Command is embedded by every workctl command.
type Command struct {
	UI  cli.Ui
	Log hclog.Logger

	// Fs is where config files are read from.
	Fs afero.Fs

	// LookupEnv reads environment overrides. Tests replace it.
	LookupEnv func(string) (string, bool)

	// Context is cancelled on interrupt.
	Context context.Context
}

// NewCommand returns a base command writing to ui and logging to log, bound
// to the OS filesystem and environment.
func NewCommand(ctx context.Context, log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		UI:        ui,
		Log:       log,
		Fs:        afero.NewOsFs(),
		LookupEnv: os.LookupEnv,
		Context:   ctx,
	}
}

// Ctx returns the command context, or context.Background if none was set.
func (c *Command) Ctx() context.Context {
	if c.Context == nil {
		return context.Background()
	}
	return c.Context
}

func (c *Command) fs() afero.Fs {
	if c.Fs == nil {
		return afero.NewOsFs()
	}
	return c.Fs
}

func (c *Command) lookupEnv() func(string) (string, bool) {
	if c.LookupEnv == nil {
		return os.LookupEnv
	}
	return c.LookupEnv
}
