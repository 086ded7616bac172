package daemon

import (
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/repotrack/repotrack/internal/api"
	"github.com/repotrack/repotrack/internal/config"
)

// APIOptions contains optional configuration for the API server.
// NewAPIOptions should be used to create instances of APIOptions.
type APIOptions struct {
	// CORS configuration for cross-origin requests.
	CORS CORSConfig

	// ShutdownTimeout specifies how long to wait for graceful shutdown.
	ShutdownTimeout time.Duration
}

// CORSConfig defines Cross-Origin Resource Sharing settings for the API server.
type CORSConfig struct {
	Enabled bool

	// AllowCredentials must be false when AllowOrigins contains "*".
	AllowCredentials bool

	AllowedHeaders []string
	AllowMethods   []string

	// AllowOrigins lists the origins which can access the API, ["*"] allows all.
	AllowOrigins []string

	ExposedHeaders []string

	// MaxAge specifies how long browsers can cache preflight responses.
	MaxAge time.Duration
}

// APIOption defines a functional option for configuring APIOptions.
// Options are applied in order, with later options overriding earlier ones.
type APIOption func(*APIOptions) error

// NewAPIOptions creates APIOptions with defaults, then applies opts in order.
func NewAPIOptions(opts ...APIOption) (APIOptions, error) {
	options := APIOptions{
		CORS: CORSConfig{
			AllowMethods:     DefaultCORSAllowMethods(),
			AllowedHeaders:   DefaultCORSAllowHeaders(),
			AllowCredentials: false,
			MaxAge:           config.DefaultCORSMaxAge,
		},
		ShutdownTimeout: config.DefaultShutdownTimeout,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return APIOptions{}, err
		}
	}

	return options, nil
}

// APIOptionsFromConfig converts the API section of the configuration file to options.
// Empty lists in the configuration keep the defaults.
func APIOptionsFromConfig(section config.APIConfigSection) []APIOption {
	cors := section.CORS

	opts := []APIOption{
		WithShutdownTimeout(section.Timeout.Shutdown.Duration()),
		WithCORSEnabled(cors.Enable),
		WithCORSAllowOrigins(cors.Origins),
		WithCORSAllowCredentials(cors.Credentials),
		WithCORSExposeHeaders(cors.ExposeHeaders),
		WithCORSMaxAge(cors.MaxAge.Duration()),
	}
	if len(cors.Methods) > 0 {
		opts = append(opts, WithCORSAllowMethods(cors.Methods))
	}
	if len(cors.Headers) > 0 {
		opts = append(opts, WithCORSAllowHeaders(cors.Headers))
	}

	return opts
}

func WithCORSEnabled(enabled bool) APIOption {
	return func(o *APIOptions) error {
		o.CORS.Enabled = enabled
		return nil
	}
}

// WithCORSAllowHeaders sets which request headers the client may send.
// The collection password header is always allowed.
func WithCORSAllowHeaders(headers []string) APIOption {
	return func(o *APIOptions) error {
		h := slices.Clone(headers)
		if !slices.Contains(h, api.HeaderCollectionPassword) {
			h = append(h, api.HeaderCollectionPassword)
		}
		o.CORS.AllowedHeaders = h
		return nil
	}
}

func WithCORSAllowOrigins(origins []string) APIOption {
	return func(o *APIOptions) error {
		o.CORS.AllowOrigins = slices.Clone(origins)
		return nil
	}
}

func WithCORSAllowMethods(methods []string) APIOption {
	return func(o *APIOptions) error {
		o.CORS.AllowMethods = slices.Clone(methods)
		return nil
	}
}

func WithCORSAllowCredentials(allowed bool) APIOption {
	return func(o *APIOptions) error {
		o.CORS.AllowCredentials = allowed
		return nil
	}
}

func WithCORSExposeHeaders(headers []string) APIOption {
	return func(o *APIOptions) error {
		o.CORS.ExposedHeaders = slices.Clone(headers)
		return nil
	}
}

func WithCORSMaxAge(maxAge time.Duration) APIOption {
	return func(o *APIOptions) error {
		if maxAge < 0 {
			return fmt.Errorf("CORS max age cannot be negative, got %v", maxAge)
		}
		o.CORS.MaxAge = maxAge
		return nil
	}
}

// WithShutdownTimeout configures how long to wait for graceful shutdown.
func WithShutdownTimeout(timeout time.Duration) APIOption {
	return func(o *APIOptions) error {
		if timeout <= 0 {
			return fmt.Errorf("shutdown timeout must be positive, got %v", timeout)
		}
		o.ShutdownTimeout = timeout
		return nil
	}
}

// DefaultCORSAllowHeaders returns the headers required for API interaction.
func DefaultCORSAllowHeaders() []string {
	return []string{
		"Accept",
		"Accept-Language",
		"Content-Language",
		"Content-Type",
		api.HeaderCollectionPassword,
	}
}

// DefaultCORSAllowMethods returns the HTTP methods used by the API.
func DefaultCORSAllowMethods() []string {
	return []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodDelete,
		http.MethodOptions,
	}
}

// validateAddr checks if the address is a valid "host:port" string.
func validateAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address format: %w", err)
	}

	if port == "" {
		return fmt.Errorf("address missing port")
	}

	if _, err := strconv.Atoi(port); err != nil {
		if _, err := net.LookupPort("tcp", port); err != nil {
			return fmt.Errorf("invalid address port: %s", port)
		}
	}

	return nil
}
