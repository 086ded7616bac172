// Package errors defines domain-level errors used throughout the application.
// These errors represent business logic failures and are mapped to appropriate HTTP status codes at the API boundary.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be handled when returned from API endpoints.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
//
// Don't forget to:
// 1. Add your error to MapError (internal/api/errors.go)
// 2. Add a test case to TestMapError (internal/api/errors_test.go)
// 3. Consider if existing handler tests need updates
package errors

import (
	"errors"
)

var (
	// ErrBadRequest indicates that the client provided invalid input or made a malformed request.
	// This typically results from validation failures or incorrect request parameters.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrCollectionNotFound indicates that the requested collection does not exist.
	// Recommended to map to HTTP 404 Not Found.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrRepositoryNotFound indicates that a repository does not exist upstream,
	// or is not tracked by the collection an operation was performed on.
	// Recommended to map to HTTP 404 Not Found.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrUnauthorized indicates that a protected collection was presented a missing or wrong password.
	// Operations failing with this error have no side effects.
	// Recommended to map to HTTP 401 Unauthorized.
	ErrUnauthorized = errors.New("wrong collection password")

	// ErrProviderUnavailable indicates that a hosting provider could not be used to answer a request.
	// This covers bad credentials, rate limiting, repeated failed authentication and any unexpected status.
	// It is never retried by this application.
	// Recommended to map to HTTP 503 Service Unavailable.
	ErrProviderUnavailable = errors.New("provider unavailable")
)
