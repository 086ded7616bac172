package collection

import (
	"github.com/spf13/cobra"

	"github.com/repotrack/repotrack/internal/app"
	"github.com/repotrack/repotrack/internal/cmd"
	"github.com/repotrack/repotrack/internal/cmd/options"
	"github.com/repotrack/repotrack/internal/cmd/output"
	"github.com/repotrack/repotrack/internal/printer"
)

// GetCmd should be used to represent the 'collection get' command.
type GetCmd struct {
	appCmd
	Cached  bool
	format  cmd.OutputFormat
	printer output.Printer[printer.CollectionResult]
}

// NewGetCmd creates the get command for collections.
func NewGetCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	base, err := newAppCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}

	c := &GetCmd{
		appCmd:  base,
		format:  cmd.FormatText,
		printer: printer.NewCollectionPrinter(),
	}

	cobraCmd := &cobra.Command{
		Use:   "get <collection-id>",
		Short: "Show a collection and its repositories",
		Long: "Show a collection and its repositories.\n\n" +
			"Repositories are refreshed from their providers first. " +
			"Repositories which could not be refreshed are shown with their last known data and marked stale.",
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	cobraCmd.Flags().BoolVar(
		&c.Cached,
		flagCached,
		false,
		"Show the last known data without contacting providers",
	)
	formatFlag(cobraCmd, &c.format)

	return cobraCmd, nil
}

func (c *GetCmd) run(cobraCmd *cobra.Command, args []string) error {
	handler, err := cmd.FormatHandler(cobraCmd.OutOrStdout(), c.format, c.printer)
	if err != nil {
		return err
	}

	err = c.withApp(func(a *app.App) error {
		ctx := cobraCmd.Context()

		if c.Cached {
			col, err := a.Collections.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return handler.HandleResult(printer.NewCollectionResult(*col, nil))
		}

		col, report, err := a.Collections.GetRefreshed(ctx, args[0])
		if err != nil {
			return err
		}

		return handler.HandleResult(printer.NewCollectionResult(*col, &report))
	})
	if err != nil {
		return cmd.HandleError(handler, err)
	}

	return nil
}
