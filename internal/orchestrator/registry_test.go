package orchestrator

import (
	"errors"
	"testing"

	"github.com/ckeeney/maestro/pkg/models"
)

// newSpecialist builds an enabled specialist card for tests.
func newSpecialist(id string, weight float64, priority int, tags ...models.Specialization) models.Specialist {
	return models.Specialist{
		ID:              id,
		Name:            id,
		Model:           "model-" + id,
		Specializations: tags,
		Weight:          weight,
		Priority:        priority,
		Enabled:         true,
		MaxTokens:       4096,
	}
}

// newTestRegistry builds a registry from the given cards, failing the
// test on any registration error.
func newTestRegistry(t *testing.T, specialists ...models.Specialist) *Registry {
	t.Helper()
	reg := NewRegistry()
	for _, s := range specialists {
		if err := reg.Register(s); err != nil {
			t.Fatalf("Register(%s) = %v", s.ID, err)
		}
	}
	return reg
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	reg := newTestRegistry(t, newSpecialist("scout", 0.5, 1, models.SpecText))

	err := reg.Register(newSpecialist("scout", 0.9, 2, models.SpecCode))
	if err == nil {
		t.Fatal("Register with duplicate ID returned nil error")
	}

	var dup *DuplicateSpecialistError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %T, want *DuplicateSpecialistError", err)
	}
	if dup.ID != "scout" {
		t.Errorf("DuplicateSpecialistError.ID = %q, want %q", dup.ID, "scout")
	}

	// The original registration must survive the failed attempt.
	if got, _ := reg.Get("scout"); got.Weight != 0.5 {
		t.Errorf("Get(scout).Weight = %v, want 0.5", got.Weight)
	}
	if reg.Count() != 1 {
		t.Errorf("Count() = %d, want 1", reg.Count())
	}
}

func TestRegistryEnabledOrder(t *testing.T) {
	disabled := newSpecialist("sleeper", 0.5, 1, models.SpecText)
	disabled.Enabled = false

	reg := newTestRegistry(t,
		newSpecialist("gamma", 0.5, 3, models.SpecText),
		disabled,
		newSpecialist("alpha", 0.5, 1, models.SpecText),
		newSpecialist("beta", 0.5, 2, models.SpecText),
	)

	enabled := reg.Enabled()
	want := []string{"gamma", "alpha", "beta"}
	if len(enabled) != len(want) {
		t.Fatalf("Enabled() returned %d specialists, want %d", len(enabled), len(want))
	}
	for i, id := range want {
		if enabled[i].ID != id {
			t.Errorf("Enabled()[%d].ID = %q, want %q (registration order)", i, enabled[i].ID, id)
		}
	}
}

func TestRegistryFindBySpecialization(t *testing.T) {
	disabled := newSpecialist("offline", 0.5, 1, models.SpecCode)
	disabled.Enabled = false

	reg := newTestRegistry(t,
		newSpecialist("coder", 0.7, 1, models.SpecCode, models.SpecTool),
		newSpecialist("writer", 0.4, 2, models.SpecText),
		disabled,
		newSpecialist("hacker", 0.6, 3, models.SpecCode),
	)

	got := reg.FindBySpecialization(models.SpecCode)
	want := []string{"coder", "hacker"}
	if len(got) != len(want) {
		t.Fatalf("FindBySpecialization(code) returned %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("FindBySpecialization(code)[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}

	if got := reg.FindBySpecialization(models.SpecMultimodal); len(got) != 0 {
		t.Errorf("FindBySpecialization(multimodal) = %v, want empty", got)
	}
}

func TestRegistryGet(t *testing.T) {
	reg := newTestRegistry(t, newSpecialist("scout", 0.5, 1, models.SpecText))

	if s, ok := reg.Get("scout"); !ok || s.ID != "scout" {
		t.Errorf("Get(scout) = %+v, %v", s, ok)
	}
	if _, ok := reg.Get("ghost"); ok {
		t.Error("Get(ghost) reported a specialist that was never registered")
	}
}

func TestRegistryAll(t *testing.T) {
	disabled := newSpecialist("sleeper", 0.5, 1, models.SpecText)
	disabled.Enabled = false

	reg := newTestRegistry(t,
		newSpecialist("alpha", 0.5, 1, models.SpecText),
		disabled,
	)

	all := reg.All()
	if len(all) != 2 {
		t.Fatalf("All() returned %d specialists, want 2", len(all))
	}
	if all[0].ID != "alpha" || all[1].ID != "sleeper" {
		t.Errorf("All() order = [%s, %s], want [alpha, sleeper]", all[0].ID, all[1].ID)
	}
}
