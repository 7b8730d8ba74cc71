// Package manifest loads the specialist roster from a YAML file.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/ckeeney/maestro/pkg/models"
)

// DefaultPath is where maestro looks for a roster manifest, relative
// to the working directory.
const DefaultPath = ".maestro/specialists.yaml"

// specialistEntry is one item of the manifest's specialists list.
type specialistEntry struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Model           string   `yaml:"model"`
	Specializations []string `yaml:"specializations"`
	Weight          float64  `yaml:"weight"`
	Priority        int      `yaml:"priority"`
	// Enabled defaults to true when omitted.
	Enabled   *bool `yaml:"enabled"`
	MaxTokens int64 `yaml:"max_tokens"`
}

// manifestFile represents the manifest document structure.
type manifestFile struct {
	Specialists []specialistEntry `yaml:"specialists"`
}

// Load reads and validates the roster manifest at path.
func Load(path string) ([]models.Specialist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse validates manifest bytes and converts them to specialist cards.
// Entries keep their manifest order, which becomes registration order.
func Parse(data []byte) ([]models.Specialist, error) {
	var mf manifestFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(mf.Specialists) == 0 {
		return nil, fmt.Errorf("manifest lists no specialists")
	}

	seen := make(map[string]bool, len(mf.Specialists))
	roster := make([]models.Specialist, 0, len(mf.Specialists))
	for i, entry := range mf.Specialists {
		if entry.ID == "" {
			return nil, fmt.Errorf("specialist %d: id is required", i)
		}
		if seen[entry.ID] {
			return nil, fmt.Errorf("specialist %q: duplicate id", entry.ID)
		}
		seen[entry.ID] = true

		if entry.Weight < 0 || entry.Weight > 1 {
			return nil, fmt.Errorf("specialist %q: weight %v outside [0,1]", entry.ID, entry.Weight)
		}
		if entry.MaxTokens < 0 {
			return nil, fmt.Errorf("specialist %q: max_tokens must not be negative", entry.ID)
		}

		tags := make([]models.Specialization, 0, len(entry.Specializations))
		for _, raw := range entry.Specializations {
			tag := models.Specialization(raw)
			if !tag.Valid() {
				return nil, fmt.Errorf("specialist %q: unknown specialization %q", entry.ID, raw)
			}
			tags = append(tags, tag)
		}

		name := entry.Name
		if name == "" {
			name = entry.ID
		}
		enabled := true
		if entry.Enabled != nil {
			enabled = *entry.Enabled
		}

		roster = append(roster, models.Specialist{
			ID:              entry.ID,
			Name:            name,
			Model:           entry.Model,
			Specializations: tags,
			Weight:          entry.Weight,
			Priority:        entry.Priority,
			Enabled:         enabled,
			MaxTokens:       entry.MaxTokens,
		})
	}
	return roster, nil
}

// LoadOrDefault loads the manifest at path, falling back to the
// built-in roster when no file exists. A malformed manifest is still
// an error so a typo cannot silently swap the roster.
func LoadOrDefault(path string) ([]models.Specialist, error) {
	roster, err := Load(path)
	if os.IsNotExist(err) {
		return DefaultRoster(), nil
	}
	return roster, err
}

// WriteDefault writes the built-in roster to path as a starter
// manifest, creating parent directories as needed. An existing file is
// left untouched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	mf := manifestFile{}
	for _, card := range DefaultRoster() {
		tags := make([]string, 0, len(card.Specializations))
		for _, tag := range card.Specializations {
			tags = append(tags, string(tag))
		}
		enabled := card.Enabled
		mf.Specialists = append(mf.Specialists, specialistEntry{
			ID:              card.ID,
			Name:            card.Name,
			Model:           card.Model,
			Specializations: tags,
			Weight:          card.Weight,
			Priority:        card.Priority,
			Enabled:         &enabled,
			MaxTokens:       card.MaxTokens,
		})
	}

	data, err := yaml.Marshal(&mf)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create manifest directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
