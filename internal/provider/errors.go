package provider

import (
	"fmt"

	"github.com/repotrack/repotrack/internal/domain"
	"github.com/repotrack/repotrack/internal/errors"
)

// Error describes why a provider could not answer a request.
// It always matches errors.ErrProviderUnavailable when inspected with errors.Is.
type Error struct {
	// Provider that failed.
	Provider domain.Provider

	// StatusCode is the HTTP status the provider answered with, zero when no response was received.
	StatusCode int

	// Cause is the human-readable description returned to API clients.
	Cause string

	// Err is the underlying transport or decoding error, if any.
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	return e.Cause
}

// Unwrap allows errors.Is to match both the sentinel and the underlying error.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{errors.ErrProviderUnavailable}
	}
	return []error{errors.ErrProviderUnavailable, e.Err}
}

func badCredentials(p domain.Provider, status int) *Error {
	return &Error{
		Provider:   p,
		StatusCode: status,
		Cause:      fmt.Sprintf("Bad credentials to %s API.", p.DisplayName()),
	}
}

func rateLimited(p domain.Provider, status int) *Error {
	return &Error{
		Provider:   p,
		StatusCode: status,
		Cause:      fmt.Sprintf("Exceeded rate limit to %s API.", p.DisplayName()),
	}
}

func tooManyAuthAttempts(p domain.Provider, status int) *Error {
	return &Error{
		Provider:   p,
		StatusCode: status,
		Cause:      fmt.Sprintf("Too many unsuccessful authentication attempts to %s API.", p.DisplayName()),
	}
}

func unknownError(p domain.Provider, status int, err error) *Error {
	return &Error{
		Provider:   p,
		StatusCode: status,
		Cause:      fmt.Sprintf("Unknown error occurred while connecting to %s API.", p.DisplayName()),
		Err:        err,
	}
}
