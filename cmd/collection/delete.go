package collection

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repotrack/repotrack/internal/app"
	"github.com/repotrack/repotrack/internal/cmd"
	"github.com/repotrack/repotrack/internal/cmd/options"
)

// DeleteCmd should be used to represent the 'collection delete' command.
type DeleteCmd struct {
	appCmd
	Password string
}

// NewDeleteCmd creates the delete command for collections.
func NewDeleteCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	base, err := newAppCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}

	c := &DeleteCmd{appCmd: base}

	cobraCmd := &cobra.Command{
		Use:   "delete <collection-id>",
		Short: "Delete a collection",
		Long:  "Delete a collection. The repositories it tracked are kept.",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	passwordFlag(cobraCmd, &c.Password, "Password of the collection, when protected")

	return cobraCmd, nil
}

func (c *DeleteCmd) run(cobraCmd *cobra.Command, args []string) error {
	cred := credential(cobraCmd, c.Password)

	err := c.withApp(func(a *app.App) error {
		return a.Collections.Delete(cobraCmd.Context(), args[0], cred)
	})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(cobraCmd.OutOrStdout(), "✓ Collection '%s' deleted\n", args[0]); err != nil {
		return err
	}

	return nil
}
