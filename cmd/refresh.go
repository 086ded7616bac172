package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repotrack/repotrack/internal/app"
	"github.com/repotrack/repotrack/internal/cmd"
	cmdopts "github.com/repotrack/repotrack/internal/cmd/options"
	"github.com/repotrack/repotrack/internal/cmd/output"
	"github.com/repotrack/repotrack/internal/config"
	"github.com/repotrack/repotrack/internal/printer"
)

// RefreshCmd should be used to represent the 'refresh' command.
type RefreshCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
	appOpts   []app.Option
	printer   output.Printer[printer.RefreshResult]
	format    cmd.OutputFormat
}

// NewRefreshCmd creates a newly configured (Cobra) command.
func NewRefreshCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &RefreshCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
		appOpts:   opts.AppOptions,
		printer:   &printer.RefreshPrinter{},
		format:    cmd.FormatText,
	}

	cobraCommand := &cobra.Command{
		Use:   "refresh",
		Short: "Refreshes every tracked repository once",
		Long: "Refreshes the latest commit and release dates of every tracked repository, " +
			"removing repositories which no longer exist upstream.\n\n" +
			"Repositories which cannot be refreshed keep their last known data and are listed in the summary.",
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	allowed := cmd.AllowedOutputFormats()
	cobraCommand.Flags().Var(
		&c.format,
		cmd.FlagNameFormat,
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCommand, nil
}

func (c *RefreshCmd) run(cobraCmd *cobra.Command, _ []string) error {
	handler, err := cmd.FormatHandler(cobraCmd.OutOrStdout(), c.format, c.printer)
	if err != nil {
		return err
	}

	a, err := c.OpenApp(c.cfgLoader, c.appOpts...)
	if err != nil {
		return cmd.HandleError(handler, err)
	}
	defer func() { _ = a.Close() }()

	ctx := cobraCmd.Context()

	repos, err := a.Store.TrackedRepositoriesAll(ctx)
	if err != nil {
		return cmd.HandleError(handler, err)
	}

	report := a.Reconciler.RefreshAll(ctx, repos)

	return handler.HandleResult(printer.NewRefreshResult(report))
}
