package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	cmdopts "github.com/repotrack/repotrack/internal/cmd/options"
	"github.com/repotrack/repotrack/internal/config"
	"github.com/repotrack/repotrack/internal/flags"
)

func setConfigFile(t *testing.T, path string) {
	t.Helper()

	previous := flags.ConfigFile
	flags.ConfigFile = path
	t.Cleanup(func() { flags.ConfigFile = previous })
}

func TestInitCmd_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	setConfigFile(t, path)

	initializer := &stubInitializer{}
	c, err := NewInitCmd(testBaseCmd(), cmdopts.WithConfigInitializer(initializer))
	require.NoError(t, err)

	out, err := executeCmd(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, "✓ Config file created: "+path+"\n", out)
	require.Equal(t, []string{path}, initializer.paths)
}

func TestInitCmd_DefaultPathIsWorkingDirectory(t *testing.T) {
	setConfigFile(t, flags.DefaultConfigFile)

	initializer := &stubInitializer{}
	c, err := NewInitCmd(testBaseCmd(), cmdopts.WithConfigInitializer(initializer))
	require.NoError(t, err)

	_, err = executeCmd(context.Background(), c)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(cwd, flags.DefaultConfigFile)}, initializer.paths)
}

func TestInitCmd_Error(t *testing.T) {
	setConfigFile(t, filepath.Join(t.TempDir(), "custom.toml"))

	c, err := NewInitCmd(testBaseCmd(), cmdopts.WithConfigInitializer(&stubInitializer{err: errors.New("boom")}))
	require.NoError(t, err)

	_, err = executeCmd(context.Background(), c)
	require.EqualError(t, err, "error initializing repotrack configuration: boom")
}

func TestInitCmd_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repotrack.toml")
	setConfigFile(t, path)

	c, err := NewInitCmd(testBaseCmd())
	require.NoError(t, err)

	_, err = executeCmd(context.Background(), c)
	require.NoError(t, err)
	require.FileExists(t, path)

	cfg, err := (&config.DefaultLoader{}).Load(path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultAPIAddr, cfg.API.Addr)

	// A second run refuses to overwrite the file.
	c, err = NewInitCmd(testBaseCmd())
	require.NoError(t, err)

	_, err = executeCmd(context.Background(), c)
	require.Error(t, err)
}

func TestInitCmd_Args(t *testing.T) {
	c, err := NewInitCmd(testBaseCmd(), cmdopts.WithConfigInitializer(&stubInitializer{}))
	require.NoError(t, err)

	_, err = executeCmd(context.Background(), c, "extra")
	require.Error(t, err)
}
