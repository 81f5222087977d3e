// Command work-reserve-docnums is "workctl reserve-docnums" as a standalone binary.
package main

import (
	"os"

	"github.com/hashicorp-forge/workctl/internal/cmd"
)

func main() {
	os.Exit(cmd.MainSubcommand("reserve-docnums", os.Args))
}
