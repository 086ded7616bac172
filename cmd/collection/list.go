package collection

import (
	"github.com/spf13/cobra"

	"github.com/repotrack/repotrack/internal/app"
	"github.com/repotrack/repotrack/internal/cmd"
	"github.com/repotrack/repotrack/internal/cmd/options"
	"github.com/repotrack/repotrack/internal/cmd/output"
	"github.com/repotrack/repotrack/internal/printer"
)

// ListCmd should be used to represent the 'collection list' command.
type ListCmd struct {
	appCmd
	format  cmd.OutputFormat
	printer output.Printer[printer.CollectionResult]
}

// NewListCmd creates the list command for collections.
func NewListCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	base, err := newAppCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}

	c := &ListCmd{
		appCmd:  base,
		format:  cmd.FormatText,
		printer: printer.NewCollectionListPrinter(),
	}

	cobraCmd := &cobra.Command{
		Use:   "list",
		Short: "List collections",
		Long:  "List every collection, without the repositories they track.",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	formatFlag(cobraCmd, &c.format)

	return cobraCmd, nil
}

func (c *ListCmd) run(cobraCmd *cobra.Command, _ []string) error {
	handler, err := cmd.FormatHandler(cobraCmd.OutOrStdout(), c.format, c.printer)
	if err != nil {
		return err
	}

	err = c.withApp(func(a *app.App) error {
		collections, err := a.Collections.List(cobraCmd.Context())
		if err != nil {
			return err
		}

		results := make([]printer.CollectionResult, 0, len(collections))
		for _, col := range collections {
			results = append(results, printer.NewCollectionResult(col, nil))
		}

		return handler.HandleResults(results...)
	})
	if err != nil {
		return cmd.HandleError(handler, err)
	}

	return nil
}
