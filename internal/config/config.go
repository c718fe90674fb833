package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// EnvPrefix is the prefix used for all configuration environment variables
const EnvPrefix = "GITPROVISION"

// Branch resolution strategies
const (
	// StrategyStderr detects a missing branch from the checkout error output
	StrategyStderr = "stderr"
	// StrategyRefs looks the branch up in the cloned repository's refs first
	StrategyRefs = "refs"
)

// Log output formats
const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
)

// Config holds the runtime settings for a provisioning run.
// Values come from GITPROVISION_* environment variables and may be
// overridden by command-line flags. Nothing is ever written back.
type Config struct {
	// GitBinary is the git executable to invoke.
	// Env: GITPROVISION_GIT_BINARY (default: git)
	GitBinary string `envconfig:"GIT_BINARY" default:"git"`

	// BaseDir is the directory the local copy is created in.
	// Env: GITPROVISION_BASE_DIR (default: current directory)
	BaseDir string `envconfig:"BASE_DIR"`

	// Strict enables repository location shape validation.
	// Env: GITPROVISION_STRICT (default: true)
	Strict bool `envconfig:"STRICT" default:"true"`

	// BranchStrategy selects how a missing branch is detected (stderr or refs).
	// Env: GITPROVISION_BRANCH_STRATEGY (default: stderr)
	BranchStrategy string `envconfig:"BRANCH_STRATEGY" default:"stderr"`

	// LogLevel is the log verbosity level.
	// Env: GITPROVISION_LOG_LEVEL (default: info)
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogFormat is the log output format (pretty or json).
	// Env: GITPROVISION_LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
}

// DefaultConfig provides default configuration values
func DefaultConfig() *Config {
	return &Config{
		GitBinary:      "git",
		Strict:         true,
		BranchStrategy: StrategyStderr,
		LogLevel:       "info",
		LogFormat:      FormatPretty,
	}
}

// Load reads the configuration from the environment and validates it
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.MergeDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeDefaults merges default values for unset fields
func (c *Config) MergeDefaults() {
	defaults := DefaultConfig()
	if c.GitBinary == "" {
		c.GitBinary = defaults.GitBinary
	}
	if c.BranchStrategy == "" {
		c.BranchStrategy = defaults.BranchStrategy
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = defaults.LogFormat
	}
	c.BranchStrategy = strings.ToLower(c.BranchStrategy)
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.LogFormat = strings.ToLower(c.LogFormat)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.GitBinary == "" {
		return fmt.Errorf("git binary cannot be empty")
	}
	switch c.BranchStrategy {
	case StrategyStderr, StrategyRefs:
	default:
		return fmt.Errorf("invalid branch strategy %q, expected %q or %q", c.BranchStrategy, StrategyStderr, StrategyRefs)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	switch c.LogFormat {
	case FormatPretty, FormatJSON:
	default:
		return fmt.Errorf("invalid log format %q, expected %q or %q", c.LogFormat, FormatPretty, FormatJSON)
	}
	return nil
}
