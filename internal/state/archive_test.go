package state

import (
	"testing"
	"time"
)

// createTestSession inserts an active session started at the given time.
func createTestSession(t *testing.T, db *DB, id string, startedAt time.Time) *ArchivedSession {
	t.Helper()
	s := &ArchivedSession{
		ID:        id,
		UserID:    "user-1",
		Input:     "why do caches go stale?",
		Status:    SessionActive,
		StartedAt: startedAt,
	}
	if err := db.CreateSession(s); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return s
}

func TestCreateSession(t *testing.T) {
	db := setupTestDB(t)
	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	createTestSession(t, db, "sess-1", started)

	got, err := db.GetSession("sess-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetSession returned nil for existing session")
	}
	if got.ID != "sess-1" {
		t.Errorf("ID = %q, want %q", got.ID, "sess-1")
	}
	if got.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", got.UserID, "user-1")
	}
	if got.Input != "why do caches go stale?" {
		t.Errorf("Input = %q", got.Input)
	}
	if got.Status != SessionActive {
		t.Errorf("Status = %q, want %q", got.Status, SessionActive)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
	}
	if got.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil", got.CompletedAt)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.GetSession("missing")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing session, got %+v", got)
	}
}

func TestFinishSession(t *testing.T) {
	db := setupTestDB(t)
	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	s := createTestSession(t, db, "sess-1", started)

	completed := started.Add(42 * time.Second)
	s.Status = SessionCompleted
	s.Content = "caches go stale when invalidation lags writes"
	s.Confidence = 0.82
	s.Complexity = 5
	s.PhaseCount = 3
	s.StepCount = 4
	s.ModelsUsed = []string{"claude-sonnet-4-20250514", "claude-opus-4-1-20250805"}
	s.ProcessingMS = 42000
	s.CompletedAt = &completed

	steps := []ArchivedStep{
		{StepID: "step-1", SpecialistID: "scout", Phase: "analysis", Success: true, Confidence: 0.6, Content: "first pass", DurationMS: 1200},
		{StepID: "step-2", SpecialistID: "sage", Phase: "reasoning", Success: false, Error: "rate limited", DurationMS: 300},
	}
	if err := db.FinishSession(s, steps); err != nil {
		t.Fatalf("FinishSession failed: %v", err)
	}

	got, err := db.GetSession("sess-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Status != SessionCompleted {
		t.Errorf("Status = %q, want %q", got.Status, SessionCompleted)
	}
	if got.Content != s.Content {
		t.Errorf("Content = %q, want %q", got.Content, s.Content)
	}
	if got.Confidence != 0.82 {
		t.Errorf("Confidence = %v, want 0.82", got.Confidence)
	}
	if got.Complexity != 5 {
		t.Errorf("Complexity = %d, want 5", got.Complexity)
	}
	if got.PhaseCount != 3 || got.StepCount != 4 {
		t.Errorf("counts = %d/%d, want 3/4", got.PhaseCount, got.StepCount)
	}
	if len(got.ModelsUsed) != 2 || got.ModelsUsed[0] != "claude-sonnet-4-20250514" {
		t.Errorf("ModelsUsed = %v", got.ModelsUsed)
	}
	if got.ProcessingMS != 42000 {
		t.Errorf("ProcessingMS = %d, want 42000", got.ProcessingMS)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completed) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, completed)
	}

	gotSteps, err := db.StepsForSession("sess-1")
	if err != nil {
		t.Fatalf("StepsForSession failed: %v", err)
	}
	if len(gotSteps) != 2 {
		t.Fatalf("got %d steps, want 2", len(gotSteps))
	}
	if gotSteps[0].StepID != "step-1" || gotSteps[1].StepID != "step-2" {
		t.Errorf("step order = %q, %q", gotSteps[0].StepID, gotSteps[1].StepID)
	}
	if gotSteps[0].SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want %q", gotSteps[0].SessionID, "sess-1")
	}
	if !gotSteps[0].Success || gotSteps[0].Confidence != 0.6 {
		t.Errorf("step-1 = %+v", gotSteps[0])
	}
	if gotSteps[1].Success || gotSteps[1].Error != "rate limited" {
		t.Errorf("step-2 = %+v", gotSteps[1])
	}
}

func TestFinishSession_ReplacesSteps(t *testing.T) {
	db := setupTestDB(t)
	s := createTestSession(t, db, "sess-1", time.Now().UTC())

	steps := []ArchivedStep{
		{StepID: "step-1", SpecialistID: "scout", Phase: "analysis", Success: false, Error: "timeout"},
	}
	if err := db.FinishSession(s, steps); err != nil {
		t.Fatalf("first FinishSession failed: %v", err)
	}

	// Finishing again with the same step ID must overwrite, not duplicate
	steps[0].Success = true
	steps[0].Error = ""
	steps[0].Content = "retry succeeded"
	if err := db.FinishSession(s, steps); err != nil {
		t.Fatalf("second FinishSession failed: %v", err)
	}

	gotSteps, err := db.StepsForSession("sess-1")
	if err != nil {
		t.Fatalf("StepsForSession failed: %v", err)
	}
	if len(gotSteps) != 1 {
		t.Fatalf("got %d steps, want 1", len(gotSteps))
	}
	if !gotSteps[0].Success || gotSteps[0].Content != "retry succeeded" {
		t.Errorf("step = %+v", gotSteps[0])
	}
}

func TestListSessions(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	createTestSession(t, db, "sess-old", base)
	createTestSession(t, db, "sess-mid", base.Add(time.Hour))
	createTestSession(t, db, "sess-new", base.Add(2*time.Hour))

	sessions, err := db.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("got %d sessions, want 3", len(sessions))
	}
	if sessions[0].ID != "sess-new" || sessions[1].ID != "sess-mid" || sessions[2].ID != "sess-old" {
		t.Errorf("order = %q, %q, %q", sessions[0].ID, sessions[1].ID, sessions[2].ID)
	}

	limited, err := db.ListSessions(2)
	if err != nil {
		t.Fatalf("ListSessions with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("got %d sessions, want 2", len(limited))
	}
	if limited[0].ID != "sess-new" || limited[1].ID != "sess-mid" {
		t.Errorf("limited order = %q, %q", limited[0].ID, limited[1].ID)
	}
}

func TestPurgeOldSessions(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	old := createTestSession(t, db, "sess-old", now.Add(-72*time.Hour))
	createTestSession(t, db, "sess-recent", now.Add(-time.Hour))

	// Give the old session step rows so the cascade is observable
	if err := db.FinishSession(old, []ArchivedStep{
		{StepID: "step-1", SpecialistID: "scout", Phase: "analysis", Success: true},
	}); err != nil {
		t.Fatalf("FinishSession failed: %v", err)
	}

	count, err := db.PurgeOldSessions(24 * time.Hour)
	if err != nil {
		t.Fatalf("PurgeOldSessions failed: %v", err)
	}
	if count != 1 {
		t.Errorf("purged %d sessions, want 1", count)
	}

	sessions, err := db.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "sess-recent" {
		t.Errorf("remaining sessions = %+v", sessions)
	}

	steps, err := db.StepsForSession("sess-old")
	if err != nil {
		t.Fatalf("StepsForSession failed: %v", err)
	}
	if len(steps) != 0 {
		t.Errorf("step results survived purge: %+v", steps)
	}
}

func TestMarkInterrupted(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	createTestSession(t, db, "sess-active", now.Add(-time.Hour))
	done := createTestSession(t, db, "sess-done", now.Add(-2*time.Hour))

	completed := now.Add(-90 * time.Minute)
	done.Status = SessionCompleted
	done.CompletedAt = &completed
	if err := db.FinishSession(done, nil); err != nil {
		t.Fatalf("FinishSession failed: %v", err)
	}

	count, err := db.MarkInterrupted()
	if err != nil {
		t.Fatalf("MarkInterrupted failed: %v", err)
	}
	if count != 1 {
		t.Errorf("marked %d sessions, want 1", count)
	}

	interrupted, err := db.GetSession("sess-active")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if interrupted.Status != SessionFailed {
		t.Errorf("Status = %q, want %q", interrupted.Status, SessionFailed)
	}
	if interrupted.CompletedAt == nil {
		t.Error("CompletedAt not set on interrupted session")
	}

	finished, err := db.GetSession("sess-done")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if finished.Status != SessionCompleted {
		t.Errorf("completed session changed status to %q", finished.Status)
	}
}
