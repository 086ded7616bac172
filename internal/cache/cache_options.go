package cache

import (
	"fmt"
	"time"
)

// Option defines a functional option for configuring Cache.
type Option func(*Options) error

// Options contains optional configuration for the cache.
type Options struct {
	// clock supplies the creation time for stored rows.
	clock func() time.Time
}

func NewOptions(opts ...Option) (Options, error) {
	// Default options.
	o := Options{
		clock: time.Now,
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

// WithClock sets the function used to timestamp stored responses.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) error {
		if clock == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		o.clock = clock
		return nil
	}
}
