package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/repotrack/repotrack/internal/app"
	"github.com/repotrack/repotrack/internal/config"
	"github.com/repotrack/repotrack/internal/flags"
)

// AppName is the name used for the root logger and CLI.
const AppName = "repotrack"

// BaseCmd carries state shared by every command.
type BaseCmd struct {
	// Version is reported to providers in the User-Agent header.
	Version string

	logger hclog.Logger
}

// SetLogger overrides the logger built from flags.
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// Logger returns the logger configured by the global log flags, building it on first use.
func (c *BaseCmd) Logger() (hclog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}

	level := strings.ToLower(strings.TrimSpace(flags.LogLevel))
	if level == "" {
		level = flags.DefaultLogLevel
	}
	if hclog.LevelFromString(level) == hclog.NoLevel {
		return nil, fmt.Errorf("invalid log level '%s'", flags.LogLevel)
	}

	var output io.Writer = io.Discard
	if path := strings.TrimSpace(flags.LogPath); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", path, err)
		}
		output = f
	}

	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:   AppName,
		Level:  hclog.LevelFromString(level),
		Output: output,
	})

	return c.logger, nil
}

// LoadConfig loads the configuration file named by the global config flag.
func (c *BaseCmd) LoadConfig(loader config.Loader) (*config.Config, error) {
	if loader == nil {
		return nil, fmt.Errorf("config loader cannot be nil")
	}

	cfg, err := loader.Load(flags.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config file '%s': %w", flags.ConfigFile, err)
	}

	return cfg, nil
}

// OpenApp loads configuration and wires the application.
// Callers must Close the returned App.
func (c *BaseCmd) OpenApp(loader config.Loader, opts ...app.Option) (*app.App, error) {
	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}

	cfg, err := c.LoadConfig(loader)
	if err != nil {
		return nil, err
	}

	if c.Version != "" {
		opts = append([]app.Option{app.WithVersion(c.Version)}, opts...)
	}

	return app.New(logger, cfg, opts...)
}
