package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/repotrack/repotrack/internal/app"
	"github.com/repotrack/repotrack/internal/cmd"
	cmdopts "github.com/repotrack/repotrack/internal/cmd/options"
	"github.com/repotrack/repotrack/internal/config"
)

// stubLoader implements config.Loader, returning the same configuration whatever the path.
type stubLoader struct {
	cfg *config.Config
	err error
}

func (s *stubLoader) Load(_ string) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cfg, nil
}

// stubInitializer records the paths it was asked to initialize.
type stubInitializer struct {
	paths []string
	err   error
}

func (s *stubInitializer) Init(path string) error {
	s.paths = append(s.paths, path)
	return s.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(dir, "repotrack.db")
	cfg.Cache.Path = filepath.Join(dir, "cache.db")

	return cfg
}

func testBaseCmd() *cmd.BaseCmd {
	base := &cmd.BaseCmd{Version: "test"}
	base.SetLogger(hclog.NewNullLogger())
	return base
}

// fakeProvider points the GitHub provider of cfg at handler and returns matching command options.
func fakeProvider(t *testing.T, cfg *config.Config, handler http.HandlerFunc) []cmdopts.CmdOption {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.Providers.GitHub = config.ProviderConfigSection{BaseURL: srv.URL}

	return []cmdopts.CmdOption{
		cmdopts.WithConfigLoader(&stubLoader{cfg: cfg}),
		cmdopts.WithAppOptions(app.WithHTTPClient(srv.Client())),
	}
}

func executeCmd(ctx context.Context, c *cobra.Command, args ...string) (string, error) {
	var stdout bytes.Buffer
	c.SetOut(&stdout)
	c.SetErr(io.Discard)
	c.SetArgs(args)
	c.SilenceUsage = true

	err := c.ExecuteContext(ctx)

	return stdout.String(), err
}
