package collection

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repotrack/repotrack/internal/app"
	"github.com/repotrack/repotrack/internal/cmd"
	"github.com/repotrack/repotrack/internal/cmd/options"
	"github.com/repotrack/repotrack/internal/cmd/output"
	"github.com/repotrack/repotrack/internal/domain"
	"github.com/repotrack/repotrack/internal/printer"
)

// AddCmd should be used to represent the 'collection add' command.
type AddCmd struct {
	appCmd
	Password string
	Provider string
	format   cmd.OutputFormat
	printer  output.Printer[printer.RepositoryResult]
}

// NewAddCmd creates the add command for collections.
func NewAddCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	base, err := newAppCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}

	c := &AddCmd{
		appCmd:  base,
		format:  cmd.FormatText,
		printer: printer.NewRepositoryPrinter(""),
	}

	cobraCmd := &cobra.Command{
		Use:   "add <collection-id> <owner>/<name>",
		Short: "Track a repository in a collection",
		Long: "Track a repository in a collection.\n\n" +
			"The repository must exist on its provider. Tracking a repository twice has no effect.",
		Args: cobra.ExactArgs(2),
		RunE: c.run,
	}

	providers := make([]string, 0, len(domain.Providers()))
	for _, p := range domain.Providers() {
		providers = append(providers, p.String())
	}

	cobraCmd.Flags().StringVar(
		&c.Provider,
		flagProvider,
		domain.ProviderGitHub.String(),
		fmt.Sprintf("Provider hosting the repository (one of: %s)", strings.Join(providers, ", ")),
	)
	passwordFlag(cobraCmd, &c.Password, "Password of the collection, when protected")
	formatFlag(cobraCmd, &c.format)

	return cobraCmd, nil
}

func (c *AddCmd) run(cobraCmd *cobra.Command, args []string) error {
	handler, err := cmd.FormatHandler(cobraCmd.OutOrStdout(), c.format, c.printer)
	if err != nil {
		return err
	}

	p, err := domain.ParseProvider(c.Provider)
	if err != nil {
		return cmd.HandleError(handler, err)
	}

	owner, name, err := parseFullName(args[1])
	if err != nil {
		return cmd.HandleError(handler, err)
	}

	cred := credential(cobraCmd, c.Password)

	err = c.withApp(func(a *app.App) error {
		repo, err := a.Collections.AddRepository(cobraCmd.Context(), args[0], name, owner, p, cred)
		if err != nil {
			return err
		}

		return handler.HandleResult(printer.NewRepositoryResult(*repo))
	})
	if err != nil {
		return cmd.HandleError(handler, err)
	}

	return nil
}

// parseFullName splits "owner/name" into its parts.
func parseFullName(value string) (string, string, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(value), "/")
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)

	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository '%s', expected <owner>/<name>", value)
	}

	return owner, name, nil
}
