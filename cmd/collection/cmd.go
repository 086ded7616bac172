// Package collection provides the commands managing collections and the repositories they track.
package collection

import (
	"github.com/spf13/cobra"

	"github.com/repotrack/repotrack/internal/cmd"
	"github.com/repotrack/repotrack/internal/cmd/options"
)

// NewCmd creates the parent collection command.
func NewCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	cobraCmd := &cobra.Command{
		Use:   "collection",
		Short: "Manage collections of tracked repositories",
		Long: "Manage collections of tracked repositories.\n\n" +
			"Protected collections require their password to add or remove repositories, or to be deleted. " +
			"The password is read from the `--" + flagPassword + "` flag, or the `" + EnvVarPassword + "` environment variable.",
	}

	// Sub-commands for: repotrack collection.
	fns := []func(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error){
		NewAddCmd,    // add
		NewCreateCmd, // create
		NewDeleteCmd, // delete
		NewGetCmd,    // get
		NewListCmd,   // list
		NewRemoveCmd, // remove
	}

	for _, fn := range fns {
		tempCmd, err := fn(baseCmd, opt...)
		if err != nil {
			return nil, err
		}
		cobraCmd.AddCommand(tempCmd)
	}

	return cobraCmd, nil
}
