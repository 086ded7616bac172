package collection

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repotrack/repotrack/internal/app"
	"github.com/repotrack/repotrack/internal/cmd"
	"github.com/repotrack/repotrack/internal/cmd/options"
)

// RemoveCmd should be used to represent the 'collection remove' command.
type RemoveCmd struct {
	appCmd
	Password string
}

// NewRemoveCmd creates the remove command for collections.
func NewRemoveCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	base, err := newAppCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}

	c := &RemoveCmd{appCmd: base}

	cobraCmd := &cobra.Command{
		Use:   "remove <collection-id> <repository-id>",
		Short: "Stop tracking a repository in a collection",
		Long: "Stop tracking a repository in a collection.\n\n" +
			"The repository stays tracked by any other collection.",
		Args: cobra.ExactArgs(2),
		RunE: c.run,
	}

	passwordFlag(cobraCmd, &c.Password, "Password of the collection, when protected")

	return cobraCmd, nil
}

func (c *RemoveCmd) run(cobraCmd *cobra.Command, args []string) error {
	cred := credential(cobraCmd, c.Password)

	err := c.withApp(func(a *app.App) error {
		return a.Collections.RemoveRepository(cobraCmd.Context(), args[0], args[1], cred)
	})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(
		cobraCmd.OutOrStdout(),
		"✓ Repository '%s' removed from collection '%s'\n",
		args[1],
		args[0],
	); err != nil {
		return err
	}

	return nil
}
