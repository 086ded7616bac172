package reconcile

import (
	"fmt"
	"time"
)

const (
	// DefaultConcurrency is the default number of repositories refreshed at the same time.
	DefaultConcurrency = 8

	// DefaultTimeout is the default time allowed for refreshing a single repository.
	DefaultTimeout = 30 * time.Second
)

// Options contains optional configuration for the Reconciler.
type Options struct {
	concurrency int
	timeout     time.Duration
}

// Option defines a functional option for configuring the Reconciler.
type Option func(*Options) error

// NewOptions creates Options with defaults and applies the given options.
func NewOptions(opts ...Option) (Options, error) {
	o := Options{
		concurrency: DefaultConcurrency,
		timeout:     DefaultTimeout,
	}

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

// WithConcurrency bounds the number of repositories refreshed in parallel.
func WithConcurrency(n int) Option {
	return func(o *Options) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		o.concurrency = n
		return nil
	}
}

// WithTimeout bounds the time spent refreshing a single repository.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		o.timeout = d
		return nil
	}
}
