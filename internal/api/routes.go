package api

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/repotrack/repotrack/internal/contracts"
)

// APIVersion is the version used in the OpenAPI spec and URL paths.
const APIVersion = "v1"

// RegisterRoutes registers all API routes on the provided Huma router.
// Returns the API path prefix (e.g., "/api/v1") under which the routes are created.
func RegisterRoutes(router huma.API, logger hclog.Logger, collections contracts.CollectionManager) (string, error) {
	if router == nil || reflect.ValueOf(router).IsNil() {
		return "", fmt.Errorf("router cannot be nil")
	}
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return "", fmt.Errorf("logger cannot be nil")
	}
	if collections == nil || reflect.ValueOf(collections).IsNil() {
		return "", fmt.Errorf("collection manager cannot be nil")
	}

	apiPathPrefix, err := url.JoinPath("/api", router.OpenAPI().Info.Version)
	if err != nil {
		return "", fmt.Errorf("failed to construct API path prefix: %w", err)
	}

	versionedGroup := huma.NewGroup(router, apiPathPrefix)
	RegisterStatusRoutes(versionedGroup, "/status")
	RegisterCollectionRoutes(versionedGroup, logger.Named("api"), collections, "/collections")

	return apiPathPrefix, nil
}
