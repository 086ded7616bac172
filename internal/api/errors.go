package api

import (
	stdErrors "errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/repotrack/repotrack/internal/errors"
)

// MapError maps application domain errors to appropriate HTTP status codes.
//
// This function is the central place where domain errors from internal/errors are converted to HTTP responses.
// Every error defined there should have an explicit case here, otherwise it will default to 500.
//
// Mapping guidelines:
//   - 400: Client errors (bad input, invalid requests)
//   - 401: Missing or wrong collection password
//   - 404: Resource not found errors
//   - 503: Provider failures, carrying the provider's human-readable cause
//   - 500: Unexpected internal errors (default case)
//
// Don't forget to add test cases to TestMapError (internal/api/errors_test.go).
func MapError(logger hclog.Logger, err error) huma.StatusError {
	switch {
	case stdErrors.Is(err, errors.ErrBadRequest):
		return huma.Error400BadRequest(err.Error())
	case stdErrors.Is(err, errors.ErrUnauthorized):
		return huma.Error401Unauthorized(err.Error())
	case stdErrors.Is(err, errors.ErrCollectionNotFound):
		return huma.Error404NotFound(err.Error())
	case stdErrors.Is(err, errors.ErrRepositoryNotFound):
		return huma.Error404NotFound(err.Error())
	case stdErrors.Is(err, errors.ErrProviderUnavailable):
		logger.Warn("Provider unavailable", "error", err)
		return huma.Error503ServiceUnavailable(err.Error())
	default:
		logger.Error("Unexpected error handling request", "error", err)
		return huma.Error500InternalServerError("Internal server error")
	}
}
