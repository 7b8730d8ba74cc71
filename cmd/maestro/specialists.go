package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ckeeney/maestro/internal/config"
	"github.com/ckeeney/maestro/internal/manifest"
	"github.com/ckeeney/maestro/pkg/models"
)

var specialistsCmd = &cobra.Command{
	Use:   "specialists",
	Short: "Show the specialist roster",
	Long: `Show the specialist roster maestro routes requests across.

The roster comes from the manifest file when one exists, otherwise the
built-in defaults. Edit the manifest to change weights, priorities, or
which specialists are enabled; interactive mode picks up edits between
requests.`,
	RunE: runSpecialists,
}

func runSpecialists(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	roster, err := manifest.LoadOrDefault(cfg.Manifest.Path)
	if err != nil {
		return fmt.Errorf("load specialist manifest: %w", err)
	}

	if _, err := os.Stat(cfg.Manifest.Path); err == nil {
		fmt.Printf("Roster from %s:\n\n", cfg.Manifest.Path)
	} else {
		fmt.Printf("Built-in roster (run 'maestro init' to write %s):\n\n", cfg.Manifest.Path)
	}

	fmt.Printf("  %-10s %-10s %-28s %-7s %-9s %s\n", "ID", "NAME", "MODEL", "WEIGHT", "PRIORITY", "SPECIALIZATIONS")
	faint := color.New(color.Faint)
	for _, s := range roster {
		model := s.Model
		if model == "" {
			model = "(default)"
		}
		line := fmt.Sprintf("  %-10s %-10s %-28s %-7.2f %-9d %s",
			s.ID, s.Name, model, s.Weight, s.Priority, formatSpecializations(s.Specializations))
		if s.Enabled {
			fmt.Println(line)
		} else {
			faint.Printf("%s (disabled)\n", line)
		}
	}

	return nil
}

func formatSpecializations(tags []models.Specialization) string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = string(tag)
	}
	return strings.Join(names, ",")
}
