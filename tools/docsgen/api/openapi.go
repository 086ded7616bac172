//go:build docsgen_api

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/repotrack/repotrack/internal/api"
	"github.com/repotrack/repotrack/internal/domain"
	"github.com/repotrack/repotrack/internal/perms"
	"github.com/repotrack/repotrack/internal/reconcile"
)

// docsManager satisfies contracts.CollectionManager, only route definitions are needed to build the document.
type docsManager struct{}

func (docsManager) Create(context.Context, string, string) (*domain.Collection, error) {
	return nil, nil
}

func (docsManager) List(context.Context) ([]domain.Collection, error) { return nil, nil }

func (docsManager) Get(context.Context, string) (*domain.Collection, error) { return nil, nil }

func (docsManager) GetRefreshed(context.Context, string) (*domain.Collection, reconcile.Report, error) {
	return nil, reconcile.Report{}, nil
}

func (docsManager) AddRepository(
	context.Context,
	string,
	string,
	string,
	domain.Provider,
	*string,
) (*domain.Repository, error) {
	return nil, nil
}

func (docsManager) RemoveRepository(context.Context, string, string, *string) error { return nil }

func (docsManager) Delete(context.Context, string, *string) error { return nil }

// main writes the OpenAPI document of the repotrack API.
// It assumes it is run from the repository root.
func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "repotrack.docsgen.api",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	outputPath := "./docs/api/openapi.yaml"

	// Same router setup as the daemon.
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)
	router := humachi.New(mux, huma.DefaultConfig("repotrack docs", api.APIVersion))

	apiPathPrefix, err := api.RegisterRoutes(router, logger, &docsManager{})
	if err != nil {
		logger.Error("failed to register API routes", "error", err)
		os.Exit(1)
	}

	logger.Info("Routes registered", "prefix", apiPathPrefix)

	yamlBytes, err := router.OpenAPI().YAML()
	if err != nil {
		logger.Error("failed to generate OpenAPI YAML", "error", err)
		os.Exit(1)
	}

	docsDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(docsDir, perms.RegularDir); err != nil {
		logger.Error("failed to create docs directory", "path", docsDir, "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, yamlBytes, perms.RegularFile); err != nil {
		logger.Error("failed to write OpenAPI spec", "path", outputPath, "error", err)
		os.Exit(1)
	}

	logger.Info("OpenAPI spec generated", "path", outputPath, "size", fmt.Sprintf("%d bytes", len(yamlBytes)))
}
