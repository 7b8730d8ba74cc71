package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ckeeney/maestro/internal/config"
	"github.com/ckeeney/maestro/internal/manifest"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a maestro workspace",
	Long: `Initialize a directory for use with maestro.

This command sets up everything needed to run maestro:
  - Checks for an Anthropic API key
  - Writes the default specialist manifest
  - Creates a .maestro.yaml config template
  - Adds the .maestro directory to .gitignore when in a git repository

The directory argument is optional and defaults to the current directory.

Examples:
  maestro init              # Initialize current directory
  maestro init ./myproject  # Initialize specific directory
  maestro init --force      # Rewrite the manifest even if it exists`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Rewrite the manifest and config template even if they exist")
}

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", absPath, err)
	}

	fmt.Printf("Initializing maestro in %s...\n\n", absPath)

	// API key check
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	apiKey, keyErr := config.GetAPIKey(cfg)
	switch {
	case keyErr == nil && apiKey != "":
		printStatus("✓", fmt.Sprintf("Anthropic API key found (%s)", config.GetAPIKeySource(cfg)), color.FgGreen)
	case cfg.Anthropic.UseBedrock:
		printStatus("✓", "AWS Bedrock configured; no API key needed", color.FgGreen)
	default:
		printStatus("⚠", "No Anthropic API key set (you can set it later)", color.FgYellow)
	}

	// Specialist manifest
	manifestPath := filepath.Join(absPath, manifest.DefaultPath)
	if initForce {
		if err := os.Remove(manifestPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing existing manifest: %w", err)
		}
	}
	if _, err := os.Stat(manifestPath); err == nil {
		printStatus("✓", "Specialist manifest exists", color.FgGreen)
	} else {
		if err := manifest.WriteDefault(manifestPath); err != nil {
			return fmt.Errorf("writing specialist manifest: %w", err)
		}
		printStatus("✓", fmt.Sprintf("Wrote default specialist manifest to %s", manifest.DefaultPath), color.FgGreen)
	}

	// Project config template
	if err := createProjectConfig(absPath, initForce); err != nil {
		return fmt.Errorf("creating project config: %w", err)
	}
	printStatus("✓", "Created .maestro.yaml template", color.FgGreen)

	// Keep the archive and logs out of version control
	if _, err := os.Stat(filepath.Join(absPath, ".git")); err == nil {
		if err := updateGitignore(absPath); err != nil {
			return fmt.Errorf("updating .gitignore: %w", err)
		}
		printStatus("✓", "Updated .gitignore with maestro entries", color.FgGreen)
	}

	fmt.Printf("\n%s maestro initialization complete!\n\n", color.GreenString("✓"))
	fmt.Println("Next steps:")
	if keyErr != nil && !cfg.Anthropic.UseBedrock {
		fmt.Println("  1. Set your API key:")
		fmt.Println("     export ANTHROPIC_API_KEY=your-key-here")
		fmt.Println()
	}
	fmt.Println("  2. Ask the specialists:")
	fmt.Println("     maestro ask \"your request here\"")
	fmt.Println("     # or: maestro (for interactive mode)")
	fmt.Println()
	fmt.Println("  3. Learn more:")
	fmt.Println("     maestro --help")

	return nil
}

// createProjectConfig creates the .maestro.yaml template.
func createProjectConfig(repoPath string, force bool) error {
	configPath := filepath.Join(repoPath, ".maestro.yaml")

	if _, err := os.Stat(configPath); err == nil && !force {
		return nil
	}

	template := `# Maestro Project Configuration
# This file overrides defaults from ~/.config/maestro/config.yaml

# anthropic:
#   model: claude-sonnet-4-20250514
#   use_bedrock: false

# orchestrator:
#   timeout: 2m
#   max_concurrent: 4
#   max_retries: 3
#   attribute_sources: false

# manifest:
#   path: .maestro/specialists.yaml

# archive:
#   path: .maestro/sessions.db
#   retention_days: 30
`

	return os.WriteFile(configPath, []byte(template), 0644)
}

// updateGitignore adds maestro entries to .gitignore if not present.
func updateGitignore(repoPath string) error {
	gitignorePath := filepath.Join(repoPath, ".gitignore")

	var existingContent string
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existingContent = string(data)
	}

	maestroEntries := []string{
		".maestro/sessions.db*",
		".maestro/logs/",
	}

	needsUpdate := false
	for _, entry := range maestroEntries {
		if !strings.Contains(existingContent, entry) {
			needsUpdate = true
			break
		}
	}

	if !needsUpdate {
		return nil
	}

	var newContent strings.Builder
	newContent.WriteString(existingContent)

	if len(existingContent) > 0 && !strings.HasSuffix(existingContent, "\n") {
		newContent.WriteString("\n")
	}

	newContent.WriteString("\n# Maestro\n")
	for _, entry := range maestroEntries {
		if !strings.Contains(existingContent, entry) {
			newContent.WriteString(entry + "\n")
		}
	}

	return os.WriteFile(gitignorePath, []byte(newContent.String()), 0644)
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
