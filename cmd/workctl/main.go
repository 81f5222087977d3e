package main

import (
	"os"

	"github.com/hashicorp-forge/workctl/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
