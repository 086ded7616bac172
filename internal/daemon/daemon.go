// Package daemon runs the repotrack HTTP API as a long-lived process.
package daemon

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// Daemon serves the API until it is told to stop.
// NewDaemon should be used to create instances of Daemon.
type Daemon struct {
	apiServer *APIServer
	logger    hclog.Logger
}

// NewDaemon creates a Daemon from validated dependencies.
func NewDaemon(deps Dependencies, opt ...Option) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid daemon dependencies: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid daemon options: %w", err)
	}

	apiDeps, err := NewAPIDependencies(deps.Logger, deps.Collections, deps.APIAddr)
	if err != nil {
		return nil, err
	}

	apiServer, err := NewAPIServer(apiDeps, opts.APIOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon API server: %w", err)
	}

	return &Daemon{
		apiServer: apiServer,
		logger:    deps.Logger.Named("daemon"),
	}, nil
}

// StartAndManage runs the daemon until ctx is canceled, returning the context's error after a graceful shutdown.
func (d *Daemon) StartAndManage(ctx context.Context) error {
	d.logger.Info("Starting daemon")

	err := d.apiServer.Start(ctx)

	d.logger.Info("Daemon stopped")

	return err
}
