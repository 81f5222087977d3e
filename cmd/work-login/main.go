// Command work-login is "workctl login" as a standalone binary.
package main

import (
	"os"

	"github.com/hashicorp-forge/workctl/internal/cmd"
)

func main() {
	os.Exit(cmd.MainSubcommand("login", os.Args))
}
