package collection

import (
	"github.com/spf13/cobra"

	"github.com/repotrack/repotrack/internal/app"
	"github.com/repotrack/repotrack/internal/cmd"
	"github.com/repotrack/repotrack/internal/cmd/options"
	"github.com/repotrack/repotrack/internal/cmd/output"
	"github.com/repotrack/repotrack/internal/printer"
)

// CreateCmd should be used to represent the 'collection create' command.
type CreateCmd struct {
	appCmd
	Password string
	format   cmd.OutputFormat
	printer  output.Printer[printer.CollectionResult]
}

// NewCreateCmd creates the create command for collections.
func NewCreateCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	base, err := newAppCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}

	c := &CreateCmd{
		appCmd:  base,
		format:  cmd.FormatText,
		printer: printer.NewCollectionPrinter(),
	}

	cobraCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a collection",
		Long: "Create a collection with the given name.\n\n" +
			"When a password is supplied, it is required to modify or delete the collection.",
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	passwordFlag(cobraCmd, &c.Password, "Password protecting the collection")
	formatFlag(cobraCmd, &c.format)

	return cobraCmd, nil
}

func (c *CreateCmd) run(cobraCmd *cobra.Command, args []string) error {
	handler, err := cmd.FormatHandler(cobraCmd.OutOrStdout(), c.format, c.printer)
	if err != nil {
		return err
	}

	password := ""
	if cred := credential(cobraCmd, c.Password); cred != nil {
		password = *cred
	}

	err = c.withApp(func(a *app.App) error {
		created, err := a.Collections.Create(cobraCmd.Context(), args[0], password)
		if err != nil {
			return err
		}

		return handler.HandleResult(printer.NewCollectionResult(*created, nil))
	})
	if err != nil {
		return cmd.HandleError(handler, err)
	}

	return nil
}
