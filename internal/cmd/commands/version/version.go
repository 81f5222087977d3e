package version

import (
	"github.com/hashicorp-forge/workctl/internal/cmd/base"
	"github.com/hashicorp-forge/workctl/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version of this binary"
}

func (c *Command) Help() string {
	return `Usage: workctl version

  Prints the version of this binary.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.HumanVersion())
	return 0
}
