package collection

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Options contains optional configuration for the Service.
type Options struct {
	hashCost int
}

// Option defines a functional option for configuring the Service.
type Option func(*Options) error

// NewOptions creates Options with defaults and applies the given options.
func NewOptions(opts ...Option) (Options, error) {
	o := Options{hashCost: bcrypt.DefaultCost}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}

	return o, nil
}

// WithHashCost sets the bcrypt cost used when hashing collection passwords.
func WithHashCost(cost int) Option {
	return func(o *Options) error {
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return fmt.Errorf("hash cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
		}
		o.hashCost = cost
		return nil
	}
}
