package state

import (
	"errors"
	"testing"
	"time"

	"github.com/ckeeney/maestro/pkg/models"
)

func TestArchiveStore_CreateAndClose(t *testing.T) {
	db := setupTestDB(t)
	store := NewArchiveStore(db)

	sc, err := store.Create(models.Request{Input: "compare those two designs", UserID: "reviewer"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	active, err := db.GetSession(sc.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if active == nil {
		t.Fatal("session not archived on create")
	}
	if active.Status != SessionActive {
		t.Errorf("Status = %q, want %q", active.Status, SessionActive)
	}
	if active.Input != "compare those two designs" {
		t.Errorf("Input = %q", active.Input)
	}
	if active.UserID != "reviewer" {
		t.Errorf("UserID = %q, want %q", active.UserID, "reviewer")
	}

	sc.Analysis = models.Analysis{Complexity: 6}
	sc.MergeResults([]models.StepResult{
		{StepID: "step-1", SpecialistID: "sage", Phase: models.PhaseAnalysis, Content: "notes", Confidence: 0.8, Duration: 1500 * time.Millisecond},
		{StepID: "step-2", SpecialistID: "scout", Phase: models.PhaseAnalysis, Err: errors.New("overloaded"), Duration: 200 * time.Millisecond},
	})

	resp := &models.Response{
		Content:    "design B holds up better under churn",
		Confidence: 0.8,
		Metadata: models.ResponseMetadata{
			ModelsUsed:       []string{"claude-opus-4-1-20250805"},
			ProcessingTimeMS: 1700,
			PhaseCount:       2,
			StepCount:        2,
		},
	}
	if err := store.Close(sc, resp); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	got, err := db.GetSession(sc.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Status != SessionCompleted {
		t.Errorf("Status = %q, want %q", got.Status, SessionCompleted)
	}
	if got.Content != resp.Content {
		t.Errorf("Content = %q, want %q", got.Content, resp.Content)
	}
	if got.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", got.Confidence)
	}
	if got.Complexity != 6 {
		t.Errorf("Complexity = %d, want 6", got.Complexity)
	}
	if got.PhaseCount != 2 || got.StepCount != 2 {
		t.Errorf("counts = %d/%d, want 2/2", got.PhaseCount, got.StepCount)
	}
	if got.ProcessingMS != 1700 {
		t.Errorf("ProcessingMS = %d, want 1700", got.ProcessingMS)
	}
	if got.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}

	steps, err := db.StepsForSession(sc.ID)
	if err != nil {
		t.Fatalf("StepsForSession failed: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(steps))
	}
	if steps[0].SpecialistID != "sage" || !steps[0].Success {
		t.Errorf("step[0] = %+v", steps[0])
	}
	if steps[0].Phase != "analysis" {
		t.Errorf("step[0].Phase = %q, want %q", steps[0].Phase, "analysis")
	}
	if steps[0].DurationMS != 1500 {
		t.Errorf("step[0].DurationMS = %d, want 1500", steps[0].DurationMS)
	}
	if steps[1].Success || steps[1].Error != "overloaded" {
		t.Errorf("step[1] = %+v", steps[1])
	}
}

func TestArchiveStore_CloseWithoutResponse(t *testing.T) {
	db := setupTestDB(t)
	store := NewArchiveStore(db)

	sc, err := store.Create(models.Request{Input: "doomed request"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Close(sc, nil); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	got, err := db.GetSession(sc.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Status != SessionFailed {
		t.Errorf("Status = %q, want %q", got.Status, SessionFailed)
	}
	if got.Content != "" {
		t.Errorf("Content = %q, want empty", got.Content)
	}
	if got.CompletedAt == nil {
		t.Error("CompletedAt not set on failed session")
	}
}
