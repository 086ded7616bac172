package options

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/repotrack/repotrack/internal/app"
	"github.com/repotrack/repotrack/internal/config"
)

type fakeLoader struct {
	config.Loader
}

type fakeInitializer struct {
	config.Initializer
}

func TestNewOptions_Defaults(t *testing.T) {
	t.Parallel()

	opts, err := NewOptions()
	require.NoError(t, err)

	require.IsType(t, &config.DefaultLoader{}, opts.ConfigLoader)
	require.IsType(t, &config.DefaultLoader{}, opts.ConfigInitializer)
	require.Empty(t, opts.AppOptions)
}

func TestNewOptions_Overrides(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{}
	initializer := &fakeInitializer{}

	opts, err := NewOptions(
		WithConfigLoader(loader),
		nil,
		WithConfigInitializer(initializer),
		WithAppOptions(app.WithHTTPClient(http.DefaultClient)),
		WithAppOptions(app.WithVersion("1.0.0")),
	)
	require.NoError(t, err)

	require.Same(t, loader, opts.ConfigLoader)
	require.Same(t, initializer, opts.ConfigInitializer)
	require.Len(t, opts.AppOptions, 2)
}

func TestNewOptions_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewOptions(WithConfigLoader(nil))
	require.EqualError(t, err, "config loader cannot be nil")

	_, err = NewOptions(WithConfigInitializer(nil))
	require.EqualError(t, err, "config initializer cannot be nil")

	boom := errors.New("boom")
	_, err = NewOptions(func(*CmdOptions) error { return boom })
	require.ErrorIs(t, err, boom)
}
