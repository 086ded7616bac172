package config

import (
	"github.com/repotrack/repotrack/internal/domain"
)

var _ Provider = (*DefaultLoader)(nil)

type Loader interface {
	Load(path string) (*Config, error)
}

type Initializer interface {
	Init(path string) error
}

type Provider interface {
	Initializer
	Loader
}

// DefaultLoader loads configuration from TOML files, applying environment overrides.
type DefaultLoader struct{}

// CacheBackend names a response cache storage implementation.
type CacheBackend string

const (
	// CacheBackendDatabase stores cached responses in the main SQLite database.
	CacheBackendDatabase CacheBackend = "database"

	// CacheBackendBolt stores cached responses in a dedicated bbolt file.
	CacheBackendBolt CacheBackend = "bolt"
)

// Config represents the .repotrack.toml file structure.
//
// NOTE: if you add/remove fields you must review Default, validate and the template written by Init.
type Config struct {
	API       APIConfigSection       `json:"api" toml:"api" yaml:"api"`
	Database  DatabaseConfigSection  `json:"database" toml:"database" yaml:"database"`
	Cache     CacheConfigSection     `json:"cache" toml:"cache" yaml:"cache"`
	Refresh   RefreshConfigSection   `json:"refresh" toml:"refresh" yaml:"refresh"`
	Providers ProvidersConfigSection `json:"providers" toml:"providers" yaml:"providers"`

	configFilePath string `toml:"-"`
}

// APIConfigSection contains API server configuration settings.
type APIConfigSection struct {
	// Address to bind the API server (e.g., "0.0.0.0:8090")
	// Maps to CLI flag --addr
	Addr string `json:"addr" toml:"addr" yaml:"addr"`

	// Nested timeout configuration for API operations
	Timeout APITimeoutConfigSection `json:"timeout" toml:"timeout" yaml:"timeout"`

	// Nested CORS configuration for cross-origin requests
	CORS CORSConfigSection `json:"cors" toml:"cors" yaml:"cors"`
}

// APITimeoutConfigSection contains timeout settings for API operations.
type APITimeoutConfigSection struct {
	// Shutdown timeout for graceful API server shutdown
	Shutdown Duration `json:"shutdown" toml:"shutdown" yaml:"shutdown"`
}

// CORSConfigSection contains Cross-Origin Resource Sharing (CORS) configuration.
type CORSConfigSection struct {
	// Enable CORS support
	Enable bool `json:"enable" toml:"enable" yaml:"enable"`

	// Allowed origins for CORS requests
	Origins []string `json:"allowOrigins,omitempty" toml:"allow_origins,omitempty" yaml:"allow_origins,omitempty"`

	// Allowed HTTP methods for CORS requests
	Methods []string `json:"allowMethods,omitempty" toml:"allow_methods,omitempty" yaml:"allow_methods,omitempty"`

	// Allowed headers for CORS requests
	Headers []string `json:"allowHeaders,omitempty" toml:"allow_headers,omitempty" yaml:"allow_headers,omitempty"`

	// Headers exposed to the client
	ExposeHeaders []string `json:"exposeHeaders,omitempty" toml:"expose_headers,omitempty" yaml:"expose_headers,omitempty"`

	// Allow credentials in CORS requests
	Credentials bool `json:"allowCredentials" toml:"allow_credentials" yaml:"allow_credentials"`

	// Maximum age for CORS preflight cache
	MaxAge Duration `json:"maxAge" toml:"max_age" yaml:"max_age"`
}

// DatabaseConfigSection configures the SQLite database.
type DatabaseConfigSection struct {
	// Path of the database file, created if missing.
	Path string `json:"path" toml:"path" yaml:"path"`
}

// CacheConfigSection configures where provider responses are cached.
type CacheConfigSection struct {
	// Backend is either "database" or "bolt".
	Backend CacheBackend `json:"backend" toml:"backend" yaml:"backend"`

	// Path of the bbolt file, only used by the "bolt" backend.
	Path string `json:"path" toml:"path" yaml:"path"`
}

// RefreshConfigSection configures collection refreshes.
type RefreshConfigSection struct {
	// Concurrency is the maximum number of repositories refreshed at the same time.
	Concurrency int `json:"concurrency" toml:"concurrency" yaml:"concurrency"`

	// Timeout bounds the refresh of a single repository.
	Timeout Duration `json:"timeout" toml:"timeout" yaml:"timeout"`
}

// ProvidersConfigSection holds per provider connection settings.
type ProvidersConfigSection struct {
	GitHub ProviderConfigSection `json:"github" toml:"github" yaml:"github"`
	GitLab ProviderConfigSection `json:"gitlab" toml:"gitlab" yaml:"gitlab"`
}

// ProviderConfigSection contains the connection settings of a single provider.
type ProviderConfigSection struct {
	// BaseURL is the API root of the provider.
	BaseURL string `json:"baseUrl" toml:"base_url" yaml:"base_url"`

	// Username and Token are used for HTTP basic authentication when both are set.
	Username string `json:"username,omitempty" toml:"username" yaml:"username,omitempty"`
	Token    string `json:"-" toml:"token" yaml:"-"`
}

// Provider returns the settings configured for p.
func (p ProvidersConfigSection) Provider(provider domain.Provider) ProviderConfigSection {
	switch provider {
	case domain.ProviderGitHub:
		return p.GitHub
	case domain.ProviderGitLab:
		return p.GitLab
	default:
		return ProviderConfigSection{}
	}
}

// FilePath returns the path the configuration was loaded from, empty when defaults were used.
func (c *Config) FilePath() string {
	return c.configFilePath
}
