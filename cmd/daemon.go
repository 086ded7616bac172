package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/repotrack/repotrack/internal/app"
	"github.com/repotrack/repotrack/internal/cmd"
	cmdopts "github.com/repotrack/repotrack/internal/cmd/options"
	"github.com/repotrack/repotrack/internal/config"
	"github.com/repotrack/repotrack/internal/daemon"
	"github.com/repotrack/repotrack/internal/flags"
)

const (
	flagDev  = "dev"
	flagAddr = "addr"

	devAddr = "localhost:8090"
)

// DaemonCmd should be used to represent the 'daemon' command.
type DaemonCmd struct {
	*cmd.BaseCmd
	Dev       bool
	Addr      string
	cfgLoader config.Loader
	appOpts   []app.Option
}

// NewDaemonCmd creates a newly configured (Cobra) command.
func NewDaemonCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &DaemonCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
		appOpts:   opts.AppOptions,
	}

	cobraCommand := &cobra.Command{
		Use:   "daemon [--dev] [--addr]",
		Short: "Serves the repotrack HTTP API",
		Long: "Serves the repotrack HTTP API until interrupted.\n\n" +
			"The bind address defaults to the `api.addr` setting of the configuration file.",
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	cobraCommand.Flags().BoolVar(
		&c.Dev,
		flagDev,
		false,
		fmt.Sprintf("Run the daemon in development-focused mode, bound to %s", devAddr),
	)

	cobraCommand.Flags().StringVar(
		&c.Addr,
		flagAddr,
		"",
		"Address for the daemon to bind, overriding the configuration file (not applicable in --dev mode)",
	)

	cobraCommand.MarkFlagsMutuallyExclusive(flagDev, flagAddr)

	return cobraCommand, nil
}

// run is configured (via NewDaemonCmd) to be called by the Cobra framework when the command is executed.
func (c *DaemonCmd) run(cmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	a, err := c.OpenApp(c.cfgLoader, c.appOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("Failed to close application", "error", err)
		}
	}()

	addr := c.bindAddr(a.Config.API.Addr)
	if c.Dev {
		logger.Info("Development-focused mode", "addr", addr)
	}

	deps, err := daemon.NewDependencies(logger, addr, a.Collections)
	if err != nil {
		return err
	}

	d, err := daemon.NewDaemon(deps, daemon.WithAPIOptions(daemon.APIOptionsFromConfig(a.Config.API)...))
	if err != nil {
		return fmt.Errorf("failed to create repotrack daemon instance: %w", err)
	}

	daemonCtx, daemonCtxCancel := signal.NotifyContext(
		cmd.Context(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer daemonCtxCancel()

	if c.Dev {
		banner := fmt.Sprintf("repotrack daemon running in 'dev' mode.\n\n"+
			"  Local API:\thttp://%s/api/v1\n"+
			"  OpenAPI UI:\thttp://%s/docs\n"+
			"  Config file:\t%s\n"+
			"  Database:\t%s\n",
			addr, addr, flags.ConfigFile, a.Config.Database.Path)

		if flags.LogPath != "" {
			banner += fmt.Sprintf("  Log file:\t%s => (%s)\n", flags.LogPath, flags.LogLevel)
		}

		banner += "\nPress Ctrl+C to stop.\n\n"
		if _, err := fmt.Fprint(cmd.OutOrStdout(), banner); err != nil {
			return err
		}
	}

	if err := d.StartAndManage(daemonCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Daemon exited with error", "error", err)
		return err
	}

	logger.Info("Daemon shut down")

	return nil
}

// bindAddr resolves the address to bind, flags taking precedence over the configuration file.
func (c *DaemonCmd) bindAddr(configured string) string {
	switch {
	case c.Dev:
		return devAddr
	case strings.TrimSpace(c.Addr) != "":
		return strings.TrimSpace(c.Addr)
	default:
		return configured
	}
}
