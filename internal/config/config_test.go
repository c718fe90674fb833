package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "git", cfg.GitBinary)
	assert.Empty(t, cfg.BaseDir)
	assert.True(t, cfg.Strict)
	assert.Equal(t, StrategyStderr, cfg.BranchStrategy)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, FormatPretty, cfg.LogFormat)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultConfig(), cfg)
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"GITPROVISION_GIT_BINARY":      "/usr/local/bin/git",
				"GITPROVISION_BASE_DIR":        "/tmp/work",
				"GITPROVISION_STRICT":          "false",
				"GITPROVISION_BRANCH_STRATEGY": "REFS",
				"GITPROVISION_LOG_LEVEL":       "Debug",
				"GITPROVISION_LOG_FORMAT":      "json",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/usr/local/bin/git", cfg.GitBinary)
				assert.Equal(t, "/tmp/work", cfg.BaseDir)
				assert.False(t, cfg.Strict)
				assert.Equal(t, StrategyRefs, cfg.BranchStrategy)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, FormatJSON, cfg.LogFormat)
			},
		},
		{
			name:        "malformed bool",
			env:         map[string]string{"GITPROVISION_STRICT": "sometimes"},
			expectError: true,
		},
		{
			name:        "unknown strategy",
			env:         map[string]string{"GITPROVISION_BRANCH_STRATEGY": "guess"},
			expectError: true,
		},
		{
			name:        "unknown log format",
			env:         map[string]string{"GITPROVISION_LOG_FORMAT": "xml"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty git binary", mutate: func(c *Config) { c.GitBinary = "" }, wantErr: true},
		{name: "bad level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "refs strategy", mutate: func(c *Config) { c.BranchStrategy = StrategyRefs }},
		{name: "fatal level", mutate: func(c *Config) { c.LogLevel = "fatal" }},
		{name: "panic level", mutate: func(c *Config) { c.LogLevel = "panic" }},
		{name: "disabled level", mutate: func(c *Config) { c.LogLevel = "disabled" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMergeDefaults(t *testing.T) {
	cfg := &Config{LogFormat: "JSON"}
	cfg.MergeDefaults()

	assert.Equal(t, "git", cfg.GitBinary)
	assert.Equal(t, StrategyStderr, cfg.BranchStrategy)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, FormatJSON, cfg.LogFormat)
}
