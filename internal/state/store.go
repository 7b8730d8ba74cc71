package state

import (
	"fmt"
	"time"

	"github.com/ckeeney/maestro/internal/orchestrator"
	"github.com/ckeeney/maestro/pkg/models"
)

// ArchiveStore is an orchestrator session store that records every
// session in the SQLite archive. Session contexts themselves stay in
// memory; only outcomes are persisted.
type ArchiveStore struct {
	db  *DB
	mem *orchestrator.MemoryStore
}

var _ orchestrator.Store = (*ArchiveStore)(nil)

// NewArchiveStore creates an ArchiveStore over an opened database.
// The database must already be migrated.
func NewArchiveStore(db *DB) *ArchiveStore {
	return &ArchiveStore{
		db:  db,
		mem: orchestrator.NewMemoryStore(),
	}
}

// Create builds the session context and records the session as active.
func (s *ArchiveStore) Create(req models.Request) (*orchestrator.SessionContext, error) {
	sc, err := s.mem.Create(req)
	if err != nil {
		return nil, err
	}

	rec := &ArchivedSession{
		ID:        sc.ID,
		UserID:    req.UserID,
		Input:     req.Input,
		Status:    SessionActive,
		StartedAt: sc.StartTime,
	}
	if err := s.db.CreateSession(rec); err != nil {
		return nil, fmt.Errorf("archive session: %w", err)
	}
	return sc, nil
}

// Close records the session outcome and its step results. A nil
// response archives the session as failed.
func (s *ArchiveStore) Close(sc *orchestrator.SessionContext, resp *models.Response) error {
	now := time.Now()
	rec := &ArchivedSession{
		ID:          sc.ID,
		UserID:      sc.Request.UserID,
		Input:       sc.Request.Input,
		Status:      SessionFailed,
		Complexity:  sc.Analysis.Complexity,
		Degraded:    sc.Degraded,
		StartedAt:   sc.StartTime,
		CompletedAt: &now,
	}
	if resp != nil {
		rec.Status = SessionCompleted
		rec.Content = resp.Content
		rec.Confidence = resp.Confidence
		rec.PhaseCount = resp.Metadata.PhaseCount
		rec.StepCount = resp.Metadata.StepCount
		rec.ModelsUsed = resp.Metadata.ModelsUsed
		rec.ProcessingMS = resp.Metadata.ProcessingTimeMS
	}

	results := sc.Results()
	steps := make([]ArchivedStep, 0, len(results))
	for _, res := range results {
		step := ArchivedStep{
			SessionID:    sc.ID,
			StepID:       res.StepID,
			SpecialistID: res.SpecialistID,
			Phase:        string(res.Phase),
			Success:      res.Succeeded(),
			Confidence:   res.Confidence,
			Content:      res.Content,
			DurationMS:   res.Duration.Milliseconds(),
		}
		if res.Err != nil {
			step.Error = res.Err.Error()
		}
		steps = append(steps, step)
	}

	if err := s.db.FinishSession(rec, steps); err != nil {
		return fmt.Errorf("archive session outcome: %w", err)
	}
	return s.mem.Close(sc, resp)
}
