package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/repotrack/repotrack/internal/collection"
)

// Options contains optional configuration for the App.
type Options struct {
	version        string
	httpClient     *http.Client
	collectionOpts []collection.Option
}

// Option defines a functional option for configuring the App.
type Option func(*Options) error

// NewOptions creates Options with defaults and applies the given options.
func NewOptions(opts ...Option) (Options, error) {
	o := Options{version: "dev"}

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

// WithVersion sets the version reported to providers in the User-Agent header.
func WithVersion(version string) Option {
	return func(o *Options) error {
		version = strings.TrimSpace(version)
		if version == "" {
			return fmt.Errorf("version cannot be empty")
		}
		o.version = version
		return nil
	}
}

// WithHTTPClient sets the client used to talk to providers.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) error {
		if client == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		o.httpClient = client
		return nil
	}
}

// WithCollectionOptions passes options through to the collection service.
func WithCollectionOptions(opts ...collection.Option) Option {
	return func(o *Options) error {
		o.collectionOpts = append(o.collectionOpts, opts...)
		return nil
	}
}
