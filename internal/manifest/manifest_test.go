package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ckeeney/maestro/pkg/models"
)

const sampleManifest = `specialists:
  - id: sage
    name: Sage
    model: claude-opus-4-1-20250805
    specializations: [text, reasoning, thinking]
    weight: 0.9
    priority: 2
  - id: scout
    model: claude-3-5-haiku-20241022
    specializations: [text]
    weight: 0.4
    priority: 1
    max_tokens: 2048
  - id: benched
    specializations: [text]
    weight: 0.5
    priority: 9
    enabled: false
`

func TestParse(t *testing.T) {
	roster, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(roster) != 3 {
		t.Fatalf("len(roster) = %d, want 3", len(roster))
	}

	sage := roster[0]
	if sage.ID != "sage" || sage.Name != "Sage" {
		t.Errorf("sage card = %+v", sage)
	}
	wantTags := []models.Specialization{models.SpecText, models.SpecReasoning, models.SpecThinking}
	if !reflect.DeepEqual(sage.Specializations, wantTags) {
		t.Errorf("sage tags = %v, want %v", sage.Specializations, wantTags)
	}
	if !sage.Enabled {
		t.Error("enabled should default to true when omitted")
	}

	scout := roster[1]
	if scout.Name != "scout" {
		t.Errorf("name should fall back to id, got %q", scout.Name)
	}
	if scout.MaxTokens != 2048 {
		t.Errorf("scout MaxTokens = %d, want 2048", scout.MaxTokens)
	}

	if roster[2].Enabled {
		t.Error("benched should be disabled")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "empty manifest",
			input:   "specialists: []\n",
			wantErr: "lists no specialists",
		},
		{
			name:    "missing id",
			input:   "specialists:\n  - name: Nameless\n    weight: 0.5\n",
			wantErr: "id is required",
		},
		{
			name:    "duplicate id",
			input:   "specialists:\n  - id: twin\n    weight: 0.5\n  - id: twin\n    weight: 0.5\n",
			wantErr: "duplicate id",
		},
		{
			name:    "weight out of range",
			input:   "specialists:\n  - id: heavy\n    weight: 1.5\n",
			wantErr: "outside [0,1]",
		},
		{
			name:    "negative max tokens",
			input:   "specialists:\n  - id: broke\n    weight: 0.5\n    max_tokens: -1\n",
			wantErr: "max_tokens",
		},
		{
			name:    "unknown specialization",
			input:   "specialists:\n  - id: odd\n    weight: 0.5\n    specializations: [telepathy]\n",
			wantErr: "unknown specialization",
		},
		{
			name:    "malformed yaml",
			input:   "specialists: [\n",
			wantErr: "parse manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Parse should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want fragment %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specialists.yaml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	roster, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(roster) != 3 {
		t.Errorf("len(roster) = %d, want 3", len(roster))
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specialists.yaml")

	roster, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}

	if !reflect.DeepEqual(roster, DefaultRoster()) {
		t.Error("missing manifest should fall back to the default roster")
	}
}

func TestLoadOrDefault_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specialists.yaml")
	if err := os.WriteFile(path, []byte("specialists: [\n"), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	if _, err := LoadOrDefault(path); err == nil {
		t.Fatal("a malformed manifest should not silently fall back to defaults")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "specialists.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	roster, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed on written manifest: %v", err)
	}
	if !reflect.DeepEqual(roster, DefaultRoster()) {
		t.Errorf("written roster differs from DefaultRoster()")
	}
}

func TestWriteDefault_KeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specialists.yaml")
	custom := []byte("specialists:\n  - id: sage\n    weight: 0.9\n")
	if err := os.WriteFile(path, custom, 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if string(data) != string(custom) {
		t.Error("WriteDefault overwrote an existing manifest")
	}
}

func TestDefaultRoster(t *testing.T) {
	roster := DefaultRoster()

	if len(roster) == 0 {
		t.Fatal("default roster should not be empty")
	}

	covered := make(map[models.Specialization]bool)
	seen := make(map[string]bool)
	for _, s := range roster {
		if s.ID == "" {
			t.Error("default specialist with empty id")
		}
		if seen[s.ID] {
			t.Errorf("duplicate default specialist id %q", s.ID)
		}
		seen[s.ID] = true
		if !s.Enabled {
			t.Errorf("default specialist %q should be enabled", s.ID)
		}
		if s.Weight < 0 || s.Weight > 1 {
			t.Errorf("default specialist %q weight %v outside [0,1]", s.ID, s.Weight)
		}
		for _, tag := range s.Specializations {
			if !tag.Valid() {
				t.Errorf("default specialist %q carries unknown tag %q", s.ID, tag)
			}
			covered[tag] = true
		}
	}

	allTags := []models.Specialization{
		models.SpecText, models.SpecCode, models.SpecData, models.SpecMultimodal,
		models.SpecReasoning, models.SpecThinking, models.SpecTool, models.SpecPlanning,
	}
	for _, tag := range allTags {
		if !covered[tag] {
			t.Errorf("no default specialist covers %q", tag)
		}
	}
}
