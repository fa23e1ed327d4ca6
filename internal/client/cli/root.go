package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophforum/internal/client/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BuildInfo is stamped into the binary with -ldflags.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

// CLI is the cobra command tree plus the lazily opened App it runs against.
type CLI struct {
	v    *viper.Viper
	open Opener
	info BuildInfo

	cfg  *config.Config
	app  *App
	root *cobra.Command
}

func New(info BuildInfo, open Opener) *CLI {
	c := &CLI{v: config.NewViper(), open: open, info: info}
	c.root = c.newRootCmd()
	return c
}

func (c *CLI) Command() *cobra.Command {
	return c.root
}

// Execute runs the command line in args and closes the App if one was opened.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	c.root.SetArgs(args)
	err := c.root.ExecuteContext(ctx)

	if c.app != nil {
		if cerr := c.app.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		c.app = nil
	}
	return err
}

func (c *CLI) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gophforum",
		Short:         "Command-line client for the GophForum discussion board",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "path to a config file (json, yaml or toml)")
	pf.String("server", "", "base URL of the forum API")
	pf.String("grpc-addr", "", "address of the gRPC health endpoint (empty to probe over HTTP)")
	pf.String("db", "", "path to the local SQLite database")
	pf.Duration("timeout", 0, "per-request timeout")

	bind := map[string]string{
		config.KeyConfigFile:     "config",
		config.KeyServerURL:      "server",
		config.KeyGRPCAddr:       "grpc-addr",
		config.KeyDatabasePath:   "db",
		config.KeyRequestTimeout: "timeout",
	}
	for key, flag := range bind {
		_ = c.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		c.newSignupCmd(),
		c.newLoginCmd(),
		c.newLogoutCmd(),
		c.newMeCmd(),
		c.newAvatarCmd(),
		c.newPingCmd(),
		c.newCommunitiesCmd(),
		c.newPostsCmd(),
		c.newCommentsCmd(),
		c.newVersionCmd(),
	)

	return root
}

// appFor loads the configuration and opens the App on first use.
func (c *CLI) appFor(cmd *cobra.Command) (*App, error) {
	if c.app != nil {
		return c.app, nil
	}

	cfg, err := config.Load(c.v)
	if err != nil {
		return nil, err
	}

	app, err := c.open(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	if app.reader == nil {
		app.reader = bufio.NewReader(cmd.InOrStdin())
	}

	c.cfg, c.app = cfg, app
	return app, nil
}

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Build version: %s\n", orNA(c.info.Version))
			fmt.Fprintf(out, "Build date: %s\n", orNA(c.info.Date))
			fmt.Fprintf(out, "Build commit: %s\n", orNA(c.info.Commit))
		},
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
