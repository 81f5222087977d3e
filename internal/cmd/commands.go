package cmd

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/workctl/internal/cmd/base"
	"github.com/hashicorp-forge/workctl/internal/cmd/commands/folders"
	"github.com/hashicorp-forge/workctl/internal/cmd/commands/login"
	"github.com/hashicorp-forge/workctl/internal/cmd/commands/reserve"
	"github.com/hashicorp-forge/workctl/internal/cmd/commands/version"
)

// initCommands returns the command factories keyed by subcommand name.
func initCommands(ctx context.Context, log hclog.Logger, ui cli.Ui) map[string]cli.CommandFactory {
	b := base.NewCommand(ctx, log, ui)

	return map[string]cli.CommandFactory{
		"login": func() (cli.Command, error) {
			return &login.Command{Command: b}, nil
		},
		"reserve-docnums": func() (cli.Command, error) {
			return &reserve.Command{Command: b}, nil
		},
		"create-folders": func() (cli.Command, error) {
			return &folders.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
