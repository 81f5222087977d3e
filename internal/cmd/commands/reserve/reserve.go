package reserve

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/workctl/internal/cmd/base"
	"github.com/hashicorp-forge/workctl/pkg/batch"
	"github.com/hashicorp-forge/workctl/pkg/work"
)

// Command reserves document numbers in a loop.
type Command struct {
	*base.Command

	clientFlags  base.ClientFlags
	flagDatabase string
}

func (c *Command) Synopsis() string {
	return "Reserve sequential document numbers"
}

func (c *Command) Help() string {
	return `Usage: workctl reserve-docnums [options] server userid domain password count
       workctl reserve-docnums [options] server userid domain password scope client_id client_secret grant_type count

  Logs in, then reserves count document numbers one after another, printing
  each on its own line followed by a summary with the elapsed time.

  With five arguments network login is used and numbers are reserved in the
  user's preferred database. With nine arguments OAuth2 login is used and
  -database (or database in the config file) is required.

  Stops at the first failure. Numbers reserved before it stay reserved.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("reserve-docnums", flag.ContinueOnError))

	f.StringVar(
		&c.flagDatabase, "database", "",
		"Database to reserve numbers in. Overrides the login's preferred database.",
	)
	c.clientFlags.Register(f)

	return f
}

type arguments struct {
	server string
	method work.AuthMethod
	creds  work.Credentials
	count  int
}

func parseArgs(args []string) (*arguments, error) {
	a := &arguments{}
	switch len(args) {
	case 5:
		a.method = work.AuthNetwork
	case 9:
		a.method = work.AuthOAuth2
	default:
		return nil, fmt.Errorf("expected 5 or 9 arguments, got %d", len(args))
	}

	a.server = args[0]
	a.creds = work.Credentials{
		UserID:   args[1],
		Domain:   args[2],
		Password: args[3],
	}
	if a.method == work.AuthOAuth2 {
		a.creds.OAuth2 = &work.OAuth2Credentials{
			Scope:        args[4],
			ClientID:     args[5],
			ClientSecret: args[6],
			GrantType:    args[7],
		}
	}

	if err := base.ParseIntArgs(base.IntArg{
		Name:        "count",
		Value:       args[len(args)-1],
		Target:      &a.count,
		NonNegative: true,
	}); err != nil {
		return nil, err
	}
	return a, nil
}

func (c *Command) Run(args []string) int {
	logger, ui := c.Log, c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	a, err := parseArgs(f.Args())
	if err != nil {
		ui.Error(err.Error())
		ui.Error(c.Help())
		return 1
	}

	cfg, err := c.LoadConfig(f, &c.clientFlags)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	if c.flagDatabase != "" {
		cfg.Database = c.flagDatabase
	}
	if a.method == work.AuthOAuth2 && cfg.Database == "" {
		ui.Error("a database is required with OAuth2 login: set -database or database in the config file")
		return 1
	}

	client, err := c.NewClient(a.server, cfg)
	if err != nil {
		ui.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	ctx := c.Ctx()
	session, err := client.Login(ctx, a.creds, a.method)
	if err != nil {
		return c.ReportError(err)
	}

	database := cfg.Database
	if database == "" {
		database = session.PreferredDatabase
	}
	if database == "" {
		ui.Error("login returned no preferred database: set -database or database in the config file")
		return 1
	}
	logger.Info("reserving document numbers", "database", database, "count", a.count)

	if _, err := batch.ReserveNumbers(ctx, client, batch.ReserveOptions{
		Token:    session.Token,
		Database: database,
		Count:    a.count,
		Logger:   logger,
	}, base.UIWriter(ui)); err != nil {
		return c.ReportError(err)
	}

	return 0
}
