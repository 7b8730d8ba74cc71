package state

import (
	"io"
	"time"
)

// SessionArchive handles archived session persistence.
type SessionArchive interface {
	CreateSession(s *ArchivedSession) error
	FinishSession(s *ArchivedSession, steps []ArchivedStep) error
	GetSession(id string) (*ArchivedSession, error)
	ListSessions(limit int) ([]ArchivedSession, error)
	StepsForSession(sessionID string) ([]ArchivedStep, error)
	PurgeOldSessions(olderThan time.Duration) (int64, error)
	MarkInterrupted() (int64, error)
}

// Migrator handles database schema migrations.
// Separating this allows clients to depend only on migration functionality.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}

// Archive defines the interface for the session archive backend.
// It composes focused sub-interfaces for better modularity.
type Archive interface {
	io.Closer
	Migrator
	SessionArchive
}

// Compile-time verification that DB implements all interfaces.
var (
	_ Archive        = (*DB)(nil)
	_ Migrator       = (*DB)(nil)
	_ SessionArchive = (*DB)(nil)
)
