// Command work-create-folders is "workctl create-folders" as a standalone binary.
package main

import (
	"os"

	"github.com/hashicorp-forge/workctl/internal/cmd"
)

func main() {
	os.Exit(cmd.MainSubcommand("create-folders", os.Args))
}
