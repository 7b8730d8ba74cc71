// Package config handles configuration loading and management for maestro.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ckeeney/maestro/internal/manifest"
)

// Config holds all configuration for maestro.
type Config struct {
	Anthropic    AnthropicConfig    `mapstructure:"anthropic"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Manifest     ManifestConfig     `mapstructure:"manifest"`
	Archive      ArchiveConfig      `mapstructure:"archive"`
	TUI          TUIConfig          `mapstructure:"tui"`
	Debug        bool               `mapstructure:"debug"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	// Model is the default model for specialists whose card names none.
	Model string `mapstructure:"model"`
	// UseBedrock routes calls through AWS Bedrock instead of the direct API.
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// OrchestratorConfig holds per-request orchestration settings.
type OrchestratorConfig struct {
	// Timeout bounds one request end to end. Zero means unbounded.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxConcurrent caps how many specialist calls run at once.
	MaxConcurrent int `mapstructure:"max_concurrent"`
	// MaxRetries is the total attempts per step, including the first.
	MaxRetries int `mapstructure:"max_retries"`
	// AttributeSources heads fused sections with specialist names.
	AttributeSources bool `mapstructure:"attribute_sources"`
}

// ManifestConfig holds specialist roster settings.
type ManifestConfig struct {
	// Path locates the roster manifest.
	Path string `mapstructure:"path"`
}

// ArchiveConfig holds session archive settings.
type ArchiveConfig struct {
	// Path locates the SQLite archive database.
	Path string `mapstructure:"path"`
	// RetentionDays is how long archived sessions are kept by purge.
	RetentionDays int `mapstructure:"retention_days"`
}

// TUIConfig holds TUI display settings.
type TUIConfig struct {
	RefreshRate time.Duration `mapstructure:"refresh_rate"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (MAESTRO_*, ANTHROPIC_API_KEY)
// 2. Project config (.maestro.yaml in current directory or parent)
// 3. User config (~/.config/maestro/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.SetEnvPrefix("MAESTRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Map specific environment variables
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("orchestrator.timeout", cfg.Orchestrator.Timeout.String())
	v.Set("orchestrator.max_concurrent", cfg.Orchestrator.MaxConcurrent)
	v.Set("orchestrator.max_retries", cfg.Orchestrator.MaxRetries)
	v.Set("orchestrator.attribute_sources", cfg.Orchestrator.AttributeSources)
	v.Set("manifest.path", cfg.Manifest.Path)
	v.Set("archive.path", cfg.Archive.Path)
	v.Set("archive.retention_days", cfg.Archive.RetentionDays)
	v.Set("tui.refresh_rate", cfg.TUI.RefreshRate.String())
	v.Set("debug", cfg.Debug)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Anthropic defaults
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	// Orchestration defaults
	v.SetDefault("orchestrator.timeout", "2m")
	v.SetDefault("orchestrator.max_concurrent", 4)
	v.SetDefault("orchestrator.max_retries", 3)
	v.SetDefault("orchestrator.attribute_sources", false)

	// Roster defaults
	v.SetDefault("manifest.path", manifest.DefaultPath)

	// Archive defaults
	v.SetDefault("archive.path", ".maestro/sessions.db")
	v.SetDefault("archive.retention_days", 30)

	// TUI defaults
	v.SetDefault("tui.refresh_rate", "100ms")

	// Debug defaults
	v.SetDefault("debug", false)
}

// getUserConfigDir returns the XDG config directory for maestro.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "maestro")
	}

	// Fall back to ~/.config/maestro
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "maestro")
	}
	return filepath.Join(home, ".config", "maestro")
}

// findProjectConfig searches for .maestro.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".maestro.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			APIKey: "",
		},
		Orchestrator: OrchestratorConfig{
			Timeout:       2 * time.Minute,
			MaxConcurrent: 4,
			MaxRetries:    3,
		},
		Manifest: ManifestConfig{
			Path: manifest.DefaultPath,
		},
		Archive: ArchiveConfig{
			Path:          ".maestro/sessions.db",
			RetentionDays: 30,
		},
		TUI: TUIConfig{
			RefreshRate: 100 * time.Millisecond,
		},
	}
}
