package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ckeeney/maestro/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify maestro configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/maestro/config.yaml
Project-specific overrides can be placed in .maestro.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("anthropic.api_key: %s\n", config.MaskAPIKey(cfg.Anthropic.APIKey))
	fmt.Printf("anthropic.model: %s\n", orDefault(cfg.Anthropic.Model))
	fmt.Printf("anthropic.use_bedrock: %t\n", cfg.Anthropic.UseBedrock)
	fmt.Printf("anthropic.aws_region: %s\n", orDefault(cfg.Anthropic.AWSRegion))
	fmt.Printf("anthropic.aws_profile: %s\n", orDefault(cfg.Anthropic.AWSProfile))
	fmt.Printf("orchestrator.timeout: %s\n", cfg.Orchestrator.Timeout)
	fmt.Printf("orchestrator.max_concurrent: %d\n", cfg.Orchestrator.MaxConcurrent)
	fmt.Printf("orchestrator.max_retries: %d\n", cfg.Orchestrator.MaxRetries)
	fmt.Printf("orchestrator.attribute_sources: %t\n", cfg.Orchestrator.AttributeSources)
	fmt.Printf("manifest.path: %s\n", cfg.Manifest.Path)
	fmt.Printf("archive.path: %s\n", cfg.Archive.Path)
	fmt.Printf("archive.retention_days: %d\n", cfg.Archive.RetentionDays)
	fmt.Printf("tui.refresh_rate: %s\n", cfg.TUI.RefreshRate)
	fmt.Printf("debug: %t\n", cfg.Debug)
}

func orDefault(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		return config.MaskAPIKey(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return orDefault(cfg.Anthropic.Model), nil
	case "anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseBedrock), nil
	case "anthropic.aws_region":
		return orDefault(cfg.Anthropic.AWSRegion), nil
	case "anthropic.aws_profile":
		return orDefault(cfg.Anthropic.AWSProfile), nil
	case "orchestrator.timeout":
		return cfg.Orchestrator.Timeout.String(), nil
	case "orchestrator.max_concurrent":
		return strconv.Itoa(cfg.Orchestrator.MaxConcurrent), nil
	case "orchestrator.max_retries":
		return strconv.Itoa(cfg.Orchestrator.MaxRetries), nil
	case "orchestrator.attribute_sources":
		return strconv.FormatBool(cfg.Orchestrator.AttributeSources), nil
	case "manifest.path":
		return cfg.Manifest.Path, nil
	case "archive.path":
		return cfg.Archive.Path, nil
	case "archive.retention_days":
		return strconv.Itoa(cfg.Archive.RetentionDays), nil
	case "tui.refresh_rate":
		return cfg.TUI.RefreshRate.String(), nil
	case "debug":
		return strconv.FormatBool(cfg.Debug), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_bedrock: %w", err)
		}
		cfg.Anthropic.UseBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "orchestrator.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for timeout: %w", err)
		}
		cfg.Orchestrator.Timeout = d
	case "orchestrator.max_concurrent":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_concurrent: %w", err)
		}
		cfg.Orchestrator.MaxConcurrent = n
	case "orchestrator.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_retries: %w", err)
		}
		cfg.Orchestrator.MaxRetries = n
	case "orchestrator.attribute_sources":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for attribute_sources: %w", err)
		}
		cfg.Orchestrator.AttributeSources = b
	case "manifest.path":
		cfg.Manifest.Path = value
	case "archive.path":
		cfg.Archive.Path = value
	case "archive.retention_days":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for retention_days: %w", err)
		}
		cfg.Archive.RetentionDays = n
	case "tui.refresh_rate":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for refresh_rate: %w", err)
		}
		cfg.TUI.RefreshRate = d
	case "debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for debug: %w", err)
		}
		cfg.Debug = b
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
