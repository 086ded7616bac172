package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/repotrack/repotrack/internal/perms"
	"github.com/repotrack/repotrack/internal/provider"
)

const (
	// Env vars overriding provider credentials.
	EnvVarGitHubUsername = "REPOTRACK_GITHUB_USERNAME"
	EnvVarGitHubToken    = "REPOTRACK_GITHUB_TOKEN"
	EnvVarGitLabUsername = "REPOTRACK_GITLAB_USERNAME"
	EnvVarGitLabToken    = "REPOTRACK_GITLAB_TOKEN"

	// Defaults
	DefaultAPIAddr          = "0.0.0.0:8090"
	DefaultShutdownTimeout  = 5 * time.Second
	DefaultDatabasePath     = "repotrack.db"
	DefaultBoltCachePath    = "repotrack-cache.db"
	DefaultRefreshTimeout   = 30 * time.Second
	DefaultRefreshWorkers   = 8
	DefaultCORSMaxAge       = 5 * time.Minute
	defaultConfigPermission = perms.RegularFile
)

// template is written by Init.
const template = `# repotrack configuration

[api]
addr = "0.0.0.0:8090"

[api.timeout]
shutdown = "5s"

[api.cors]
enable = false
# allow_origins = ["http://localhost:3000"]

[database]
path = "repotrack.db"

[cache]
# "database" keeps cached provider responses in the database, "bolt" in a separate file.
backend = "database"
path = "repotrack-cache.db"

[refresh]
concurrency = 8
timeout = "30s"

# Credentials can also be provided with REPOTRACK_GITHUB_USERNAME and REPOTRACK_GITHUB_TOKEN.
[providers.github]
base_url = "https://api.github.com"
username = ""
token = ""

# Credentials can also be provided with REPOTRACK_GITLAB_USERNAME and REPOTRACK_GITLAB_TOKEN.
[providers.gitlab]
base_url = "https://gitlab.com/api/v4"
username = ""
token = ""
`

// Default returns the configuration used for anything a config file does not set.
func Default() *Config {
	return &Config{
		API: APIConfigSection{
			Addr:    DefaultAPIAddr,
			Timeout: APITimeoutConfigSection{Shutdown: Duration(DefaultShutdownTimeout)},
			CORS:    CORSConfigSection{MaxAge: Duration(DefaultCORSMaxAge)},
		},
		Database: DatabaseConfigSection{Path: DefaultDatabasePath},
		Cache: CacheConfigSection{
			Backend: CacheBackendDatabase,
			Path:    DefaultBoltCachePath,
		},
		Refresh: RefreshConfigSection{
			Concurrency: DefaultRefreshWorkers,
			Timeout:     Duration(DefaultRefreshTimeout),
		},
		Providers: ProvidersConfigSection{
			GitHub: ProviderConfigSection{BaseURL: provider.GitHubBaseURL},
			GitLab: ProviderConfigSection{BaseURL: provider.GitLabBaseURL},
		},
	}
}

// Init creates the base skeleton configuration file for repotrack.
func (d *DefaultLoader) Init(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(template), defaultConfigPermission); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load reads the configuration file at path on top of the defaults.
// A missing file is not an error, the defaults are used.
// Environment variables override provider credentials from the file.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	cfg := Default()

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
		}
		cfg.configFilePath = path
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid configuration (%s): %w", ErrConfigLoadFailed, path, err)
	}

	return cfg, nil
}

// applyEnv overrides provider credentials with any that are set in the environment.
func (c *Config) applyEnv() {
	overrides := []struct {
		key    string
		target *string
	}{
		{EnvVarGitHubUsername, &c.Providers.GitHub.Username},
		{EnvVarGitHubToken, &c.Providers.GitHub.Token},
		{EnvVarGitLabUsername, &c.Providers.GitLab.Username},
		{EnvVarGitLabToken, &c.Providers.GitLab.Token},
	}

	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.key)); v != "" {
			*o.target = v
		}
	}
}

// validate checks every section, reporting all problems at once.
func (c *Config) validate() error {
	var errs []error

	if _, _, err := net.SplitHostPort(c.API.Addr); err != nil {
		errs = append(errs, NewErrInvalidValue("api.addr", c.API.Addr))
	}
	if c.API.Timeout.Shutdown <= 0 {
		errs = append(errs, NewErrInvalidValue("api.timeout.shutdown", c.API.Timeout.Shutdown.String()))
	}
	if c.API.CORS.Enable && len(c.API.CORS.Origins) == 0 {
		errs = append(errs, NewErrMissingValue("api.cors.allow_origins", "when CORS is enabled"))
	}
	if c.API.CORS.MaxAge < 0 {
		errs = append(errs, NewErrInvalidValue("api.cors.max_age", c.API.CORS.MaxAge.String()))
	}

	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, NewErrMissingValue("database.path", ""))
	}

	switch c.Cache.Backend {
	case CacheBackendDatabase:
	case CacheBackendBolt:
		if strings.TrimSpace(c.Cache.Path) == "" {
			errs = append(errs, NewErrMissingValue("cache.path", "for the bolt backend"))
		}
	default:
		errs = append(errs, NewErrInvalidValue("cache.backend", string(c.Cache.Backend)))
	}

	if c.Refresh.Concurrency < 1 {
		errs = append(errs, NewErrInvalidValue("refresh.concurrency", fmt.Sprint(c.Refresh.Concurrency)))
	}
	if c.Refresh.Timeout <= 0 {
		errs = append(errs, NewErrInvalidValue("refresh.timeout", c.Refresh.Timeout.String()))
	}

	errs = append(errs, c.Providers.GitHub.validate("providers.github")...)
	errs = append(errs, c.Providers.GitLab.validate("providers.gitlab")...)

	return errors.Join(errs...)
}

func (p ProviderConfigSection) validate(prefix string) []error {
	var errs []error

	u, err := url.Parse(p.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, NewErrInvalidValue(prefix+".base_url", p.BaseURL))
	}

	if (p.Username == "") != (p.Token == "") {
		errs = append(errs, fmt.Errorf("%s: username and token must be set together", prefix))
	}

	return errs
}
