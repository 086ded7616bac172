// Package flags holds the persistent flags shared by every repotrack command.
package flags

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const (
	EnvVarConfigFile = "REPOTRACK_CONFIG_FILE"
	EnvVarLogPath    = "REPOTRACK_LOG_PATH"
	EnvVarLogLevel   = "REPOTRACK_LOG_LEVEL"

	DefaultConfigFile = ".repotrack.toml"
	DefaultLogPath    = ""
	DefaultLogLevel   = "info"

	FlagNameConfigFile = "config-file"
	FlagNameLogPath    = "log-path"
	FlagNameLogLevel   = "log-level"
)

var (
	ConfigFile string
	LogPath    string
	LogLevel   string
)

// globalFlag binds a persistent flag to one of the package variables.
type globalFlag struct {
	target *string
	name   string
	envVar string
	def    string
	usage  string

	// lower normalizes the environment value to lower case.
	lower bool
}

func globalFlags() []globalFlag {
	return []globalFlag{
		{
			target: &ConfigFile,
			name:   FlagNameConfigFile,
			envVar: EnvVarConfigFile,
			def:    DefaultConfigFile,
			usage:  "path to config file",
		},
		{
			target: &LogPath,
			name:   FlagNameLogPath,
			envVar: EnvVarLogPath,
			def:    DefaultLogPath,
			usage:  "path to generated log file",
		},
		{
			target: &LogLevel,
			name:   FlagNameLogLevel,
			envVar: EnvVarLogLevel,
			def:    DefaultLogLevel,
			usage:  "log level for repotrack logs (trace, debug, info, warn, error, off)",
			lower:  true,
		},
	}
}

// InitFlags registers the global flags on fs.
// Values already set take precedence, then environment variables, then defaults.
func InitFlags(fs *pflag.FlagSet) {
	for _, f := range globalFlags() {
		f.register(fs)
	}
}

func (f globalFlag) register(fs *pflag.FlagSet) {
	if *f.target == "" {
		*f.target = f.seed()
	}
	fs.StringVar(f.target, f.name, *f.target, f.usage)
}

// seed returns the trimmed environment value, or the default when it is blank.
func (f globalFlag) seed() string {
	v := strings.TrimSpace(os.Getenv(f.envVar))
	if v == "" {
		return f.def
	}
	if f.lower {
		return strings.ToLower(v)
	}
	return v
}
