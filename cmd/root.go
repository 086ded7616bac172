package cmd

import (
	"github.com/spf13/cobra"

	"github.com/repotrack/repotrack/cmd/collection"
	"github.com/repotrack/repotrack/internal/cmd"
	cmdopts "github.com/repotrack/repotrack/internal/cmd/options"
	"github.com/repotrack/repotrack/internal/flags"
)

var version = "dev" // Set at build time using -ldflags

// RootCmd should be used to represent the top-level 'repotrack' command.
type RootCmd struct {
	*cmd.BaseCmd
}

// Execute builds the command tree and runs it against os.Args.
func Execute() error {
	rootCmd, err := NewRootCmd(&RootCmd{BaseCmd: &cmd.BaseCmd{Version: version}})
	if err != nil {
		return err
	}

	return rootCmd.Execute()
}

// NewRootCmd creates the root command with every sub-command attached.
func NewRootCmd(c *RootCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:           "repotrack <command> [args]",
		Short:         "Track commit and release activity of repositories hosted on GitHub and GitLab",
		Long:          c.longDescription(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	flags.InitFlags(rootCmd.PersistentFlags())

	fns := []func(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error){
		NewInitCmd,
		NewDaemonCmd,
		NewRefreshCmd,
		collection.NewCmd,
	}

	for _, fn := range fns {
		tempCmd, err := fn(c.BaseCmd, opt...)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(tempCmd)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `'repotrack' groups repositories from GitHub and GitLab into collections and keeps
their latest commit and release dates up to date.

Collections can be managed directly from the command line, or served over HTTP with 'repotrack daemon'.`
}
