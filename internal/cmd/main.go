package cmd

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/workctl/internal/version"
)

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	cliName := filepath.Base(args[0])

	if len(args) == 2 &&
		(args[1] == "-version" ||
			args[1] == "-v") {
		args = []string{args[0], "version"}
	}

	return run(cliName, args[1:])
}

// MainSubcommand runs a single subcommand as if it were the whole program.
// The standalone binaries use it.
func MainSubcommand(subcommand string, args []string) int {
	cliName := filepath.Base(args[0])

	if len(args) == 2 &&
		(args[1] == "-version" ||
			args[1] == "-v") {
		return run(cliName, []string{"version"})
	}

	return run(cliName, append([]string{subcommand}, args[1:]...))
}

func run(cliName string, args []string) int {
	log := hclog.New(&hclog.LoggerOptions{
		Name:   cliName,
		Level:  hclog.Warn,
		Output: os.Stderr,
	})

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := &cli.CLI{
		Name:     cliName,
		Args:     args,
		Version:  version.HumanVersion(),
		Commands: initCommands(ctx, log, ui),
	}

	// Run the CLI
	exitCode, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	return exitCode
}
