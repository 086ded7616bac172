// Package app builds the object graph shared by the daemon and the CLI commands.
package app

import (
	stdErrors "errors"
	"fmt"
	"io"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/repotrack/repotrack/internal/cache"
	"github.com/repotrack/repotrack/internal/collection"
	"github.com/repotrack/repotrack/internal/config"
	"github.com/repotrack/repotrack/internal/domain"
	"github.com/repotrack/repotrack/internal/provider"
	"github.com/repotrack/repotrack/internal/reconcile"
	"github.com/repotrack/repotrack/internal/store"
)

// App holds the wired components of repotrack.
// New should be used to create instances of App, and Close must be called once it is no longer needed.
type App struct {
	Config      *config.Config
	Store       *store.Store
	Cache       *cache.Cache
	Dispatcher  *provider.Dispatcher
	Reconciler  *reconcile.Reconciler
	Collections *collection.Service

	closers []io.Closer
	logger  hclog.Logger
}

// New opens storage and wires every component from cfg.
func New(logger hclog.Logger, cfg *config.Config, opts ...Option) (*App, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	options, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		logger: logger.Named("app"),
	}

	if err := a.build(logger, options); err != nil {
		_ = a.Close()
		return nil, err
	}

	return a, nil
}

func (a *App) build(logger hclog.Logger, options Options) error {
	cfg := a.Config

	s, err := store.Open(logger, cfg.Database.Path)
	if err != nil {
		return err
	}
	a.Store = s
	a.closers = append(a.closers, s)

	backend, err := a.cacheBackend()
	if err != nil {
		return err
	}

	a.Cache, err = cache.NewCache(logger, backend)
	if err != nil {
		return err
	}

	dispatcherOpts := []provider.Option{
		provider.WithUserAgent("repotrack/" + options.version),
	}
	if options.httpClient != nil {
		dispatcherOpts = append(dispatcherOpts, provider.WithHTTPClient(options.httpClient))
	}
	for _, p := range domain.Providers() {
		section := cfg.Providers.Provider(p)
		dispatcherOpts = append(dispatcherOpts, provider.WithProviderConfig(p, provider.Config{
			BaseURL:  section.BaseURL,
			Username: section.Username,
			Token:    section.Token,
		}))
	}

	a.Dispatcher, err = provider.NewDispatcher(logger, a.Cache, dispatcherOpts...)
	if err != nil {
		return err
	}

	a.Reconciler, err = reconcile.NewReconciler(
		logger,
		a.Dispatcher,
		a.Store,
		reconcile.WithConcurrency(cfg.Refresh.Concurrency),
		reconcile.WithTimeout(cfg.Refresh.Timeout.Duration()),
	)
	if err != nil {
		return err
	}

	a.Collections, err = collection.NewService(logger, a.Store, a.Reconciler, options.collectionOpts...)
	if err != nil {
		return err
	}

	a.logger.Debug(
		"Application wired",
		"database", cfg.Database.Path,
		"cacheBackend", cfg.Cache.Backend,
		"refreshConcurrency", cfg.Refresh.Concurrency,
	)

	return nil
}

func (a *App) cacheBackend() (cache.Backend, error) {
	switch a.Config.Cache.Backend {
	case config.CacheBackendDatabase:
		return a.Store, nil
	case config.CacheBackendBolt:
		b, err := cache.NewBoltBackend(a.Config.Cache.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, b)
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend '%s'", a.Config.Cache.Backend)
	}
}

// Close releases storage held by the application, in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	return stdErrors.Join(errs...)
}
