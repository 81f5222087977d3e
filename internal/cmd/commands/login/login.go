package login

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/workctl/internal/cmd/base"
	"github.com/hashicorp-forge/workctl/pkg/work"
)

// Command logs in and prints the resulting token.
type Command struct {
	*base.Command

	clientFlags base.ClientFlags
	flagMethod  string
}

func (c *Command) Synopsis() string {
	return "Log in to a Work server and print the auth token"
}

func (c *Command) Help() string {
	return `Usage: workctl login [options] server userid password
       workctl login -method=network [options] server userid domain password
       workctl login -method=oauth2 [options] server userid password scope client_id client_secret grant_type

  Exchanges credentials for an auth token and prints it on the first line
  of output. Network login also prints the user's preferred database.

  grant_type is "password" or "client_credentials".` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("login", flag.ContinueOnError))

	f.StringVar(
		&c.flagMethod, "method", string(work.AuthSession),
		"Login endpoint to use: session, network or oauth2.",
	)
	c.clientFlags.Register(f)

	return f
}

// credentialsFromArgs maps positional arguments to credentials for method.
func credentialsFromArgs(method work.AuthMethod, args []string) (server string, creds work.Credentials, err error) {
	want := map[work.AuthMethod]int{
		work.AuthSession: 3,
		work.AuthNetwork: 4,
		work.AuthOAuth2:  7,
	}[method]
	if len(args) != want {
		return "", creds, fmt.Errorf("%s login takes %d arguments, got %d", method, want, len(args))
	}

	switch method {
	case work.AuthSession:
		return args[0], work.Credentials{UserID: args[1], Password: args[2]}, nil
	case work.AuthNetwork:
		return args[0], work.Credentials{UserID: args[1], Domain: args[2], Password: args[3]}, nil
	default:
		return args[0], work.Credentials{
			UserID:   args[1],
			Password: args[2],
			OAuth2: &work.OAuth2Credentials{
				Scope:        args[3],
				ClientID:     args[4],
				ClientSecret: args[5],
				GrantType:    args[6],
			},
		}, nil
	}
}

func (c *Command) Run(args []string) int {
	logger, ui := c.Log, c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	method, err := work.ParseAuthMethod(c.flagMethod)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	server, creds, err := credentialsFromArgs(method, f.Args())
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
	client, err := c.NewClient(server, cfg)
	if err != nil {
		ui.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	session, err := client.Login(c.Ctx(), creds, method)
	if err != nil {
		return c.ReportError(err)
	}
	logger.Info("logged in", "method", session.Method, "server", client.BaseURL())

	ui.Output(session.Token)
	if session.PreferredDatabase != "" {
		ui.Output(fmt.Sprintf("preferred_database: %s", session.PreferredDatabase))
	}

	return 0
}
