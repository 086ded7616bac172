package provider

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/repotrack/repotrack/internal/domain"
)

// DefaultRequestTimeout bounds a single provider request when no client is supplied.
const DefaultRequestTimeout = 30 * time.Second

// Config holds connection settings for a single provider.
type Config struct {
	// BaseURL is the API root, the provider default is used when empty.
	BaseURL string

	// Username and Token are sent as HTTP basic credentials when both are set.
	Username string
	Token    string
}

// HasCredentials reports whether both parts of the credential pair are configured.
func (c Config) HasCredentials() bool {
	return c.Username != "" && c.Token != ""
}

// Options contains optional configuration for the Dispatcher.
type Options struct {
	client    *http.Client
	userAgent string
	providers map[domain.Provider]Config
}

// Option defines a functional option for configuring the Dispatcher.
type Option func(*Options) error

// NewOptions creates Options with defaults and applies the given options.
func NewOptions(opts ...Option) (Options, error) {
	o := defaultOptions()

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

func defaultOptions() Options {
	return Options{
		client:    &http.Client{Timeout: DefaultRequestTimeout},
		userAgent: "repotrack",
		providers: map[domain.Provider]Config{},
	}
}

// WithHTTPClient sets the client used for provider requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) error {
		if client == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		o.client = client
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent to providers.
func WithUserAgent(userAgent string) Option {
	return func(o *Options) error {
		userAgent = strings.TrimSpace(userAgent)
		if userAgent == "" {
			return fmt.Errorf("user agent cannot be empty")
		}
		o.userAgent = userAgent
		return nil
	}
}

// WithProviderConfig sets connection settings for a provider.
func WithProviderConfig(p domain.Provider, cfg Config) Option {
	return func(o *Options) error {
		if !p.Valid() {
			return fmt.Errorf("unsupported provider '%s'", p)
		}
		cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
		o.providers[p] = cfg
		return nil
	}
}
