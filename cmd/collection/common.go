package collection

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/repotrack/repotrack/internal/app"
	"github.com/repotrack/repotrack/internal/cmd"
	"github.com/repotrack/repotrack/internal/cmd/options"
	"github.com/repotrack/repotrack/internal/config"
)

const (
	flagPassword = "password"
	flagProvider = "provider"
	flagCached   = "cached"

	// EnvVarPassword supplies the collection password when the flag is not set.
	EnvVarPassword = "REPOTRACK_COLLECTION_PASSWORD"
)

// appCmd is embedded by every collection command that wires the application.
type appCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
	appOpts   []app.Option
}

func newAppCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (appCmd, error) {
	opts, err := options.NewOptions(opt...)
	if err != nil {
		return appCmd{}, err
	}

	return appCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
		appOpts:   opts.AppOptions,
	}, nil
}

// withApp wires the application, runs fn against it and releases it.
func (c appCmd) withApp(fn func(a *app.App) error) error {
	a, err := c.OpenApp(c.cfgLoader, c.appOpts...)
	if err != nil {
		return err
	}

	fnErr := fn(a)
	if err := a.Close(); err != nil && fnErr == nil {
		return fmt.Errorf("failed to close application: %w", err)
	}

	return fnErr
}

// passwordFlag registers the password flag on cobraCmd.
func passwordFlag(cobraCmd *cobra.Command, password *string, usage string) {
	cobraCmd.Flags().StringVar(password, flagPassword, "", usage)
}

// credential resolves the collection password, the flag taking precedence over the environment.
// A nil credential means none was supplied.
func credential(cobraCmd *cobra.Command, password string) *string {
	if cobraCmd.Flags().Changed(flagPassword) {
		return &password
	}
	if env, ok := os.LookupEnv(EnvVarPassword); ok {
		return &env
	}

	return nil
}

// formatFlag registers the output format flag on cobraCmd.
func formatFlag(cobraCmd *cobra.Command, format *cmd.OutputFormat) {
	allowed := cmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		format,
		cmd.FlagNameFormat,
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)
}
