package config

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigLoadFailed wraps every failure to read, decode or validate the configuration file.
	ErrConfigLoadFailed = errors.New("failed to load configuration")

	// ErrInvalidValue is returned for a key whose value cannot be used.
	ErrInvalidValue = errors.New("invalid configuration value")

	// ErrMissingValue is returned for a required key left empty.
	ErrMissingValue = errors.New("missing configuration value")
)

// NewErrInvalidValue reports key as set to an unusable value.
func NewErrInvalidValue(key string, value string) error {
	return fmt.Errorf("%w: %s = '%s'", ErrInvalidValue, key, value)
}

// NewErrMissingValue reports key as empty, with the condition under which it is required.
func NewErrMissingValue(key string, when string) error {
	if when == "" {
		return fmt.Errorf("%w: %s", ErrMissingValue, key)
	}

	return fmt.Errorf("%w: %s (required %s)", ErrMissingValue, key, when)
}
