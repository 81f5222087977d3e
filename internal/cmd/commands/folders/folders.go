package folders

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/workctl/internal/cmd/base"
	"github.com/hashicorp-forge/workctl/pkg/batch"
	"github.com/hashicorp-forge/workctl/pkg/work"
)

// Command creates numbered subfolders under a container.
type Command struct {
	*base.Command

	clientFlags    base.ClientFlags
	flagCustomerID string
}

func (c *Command) Synopsis() string {
	return "Create numbered subfolders under a workspace or folder"
}

func (c *Command) Help() string {
	return `Usage: workctl create-folders [options] server userid password container_id start count

  Logs in, then creates count subfolders under container_id named
  "Folder #<start>" through "Folder #<start+count-1>", one after another,
  printing each created folder record as JSON.

  The database is the part of container_id before the first "!". Stops at
  the first failure. Folders created before it are not removed.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("create-folders", flag.ContinueOnError))

	f.StringVar(
		&c.flagCustomerID, "customer-id", "",
		"Customer id used in /api/v2 paths. Default: 1.",
	)
	c.clientFlags.Register(f)

	return f
}

func (c *Command) Run(args []string) int {
	logger, ui := c.Log, c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	args = f.Args()
	if len(args) != 6 {
		ui.Error(fmt.Sprintf("expected 6 arguments, got %d", len(args)))
		ui.Error(c.Help())
		return 1
	}
	server, containerID := args[0], args[3]
	creds := work.Credentials{UserID: args[1], Password: args[2]}

	var start, count int
	if err := base.ParseIntArgs(
		base.IntArg{Name: "start", Value: args[4], Target: &start},
		base.IntArg{Name: "count", Value: args[5], Target: &count, NonNegative: true},
	); err != nil {
		ui.Error(err.Error())
		return 1
	}
	if containerID == "" {
		ui.Error("container_id must not be empty")
		return 1
	}

	cfg, err := c.LoadConfig(f, &c.clientFlags)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	if c.flagCustomerID != "" {
		cfg.CustomerID = c.flagCustomerID
	}

	client, err := c.NewClient(server, cfg)
	if err != nil {
		ui.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	ctx := c.Ctx()
	session, err := client.Login(ctx, creds, work.AuthSession)
	if err != nil {
		return c.ReportError(err)
	}
	logger.Info("creating folders",
		"container", containerID,
		"database", work.DatabaseFromContainer(containerID),
		"start", start,
		"count", count)

	if _, err := batch.CreateFolders(ctx, client, batch.FolderOptions{
		Token:       session.Token,
		ContainerID: containerID,
		Start:       start,
		Count:       count,
		Logger:      logger,
	}, base.UIWriter(ui)); err != nil {
		return c.ReportError(err)
	}

	return 0
}
