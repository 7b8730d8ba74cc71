package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SessionStatus represents the archived status of a session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// ArchivedSession is the archive record of one orchestration session.
type ArchivedSession struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	Input        string        `json:"input"`
	Status       SessionStatus `json:"status"`
	Content      string        `json:"content"`
	Confidence   float64       `json:"confidence"`
	Complexity   int           `json:"complexity"`
	PhaseCount   int           `json:"phase_count"`
	StepCount    int           `json:"step_count"`
	ModelsUsed   []string      `json:"models_used"`
	ProcessingMS int64         `json:"processing_ms"`
	Degraded     bool          `json:"degraded"`
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  *time.Time    `json:"completed_at"`
}

// ArchivedStep is the archive record of one executed step.
type ArchivedStep struct {
	SessionID    string  `json:"session_id"`
	StepID       string  `json:"step_id"`
	SpecialistID string  `json:"specialist_id"`
	Phase        string  `json:"phase"`
	Success      bool    `json:"success"`
	Confidence   float64 `json:"confidence"`
	Content      string  `json:"content"`
	Error        string  `json:"error"`
	DurationMS   int64   `json:"duration_ms"`
}

// CreateSession records a session as active when it starts.
func (db *DB) CreateSession(s *ArchivedSession) error {
	modelsUsed, _ := json.Marshal(s.ModelsUsed)

	_, err := db.Exec(`
		INSERT INTO sessions (id, user_id, input, status, models_used, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.ID, s.UserID, s.Input, string(s.Status), string(modelsUsed), formatTime(s.StartedAt))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FinishSession records a session's outcome and its step results in
// one transaction.
func (db *DB) FinishSession(s *ArchivedSession, steps []ArchivedStep) error {
	modelsUsed, _ := json.Marshal(s.ModelsUsed)
	var completedAt *string
	if s.CompletedAt != nil {
		str := formatTime(*s.CompletedAt)
		completedAt = &str
	}

	err := db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE sessions SET status = ?, content = ?, confidence = ?, complexity = ?,
				phase_count = ?, step_count = ?, models_used = ?, processing_ms = ?,
				degraded = ?, completed_at = ?
			WHERE id = ?
		`, string(s.Status), s.Content, s.Confidence, s.Complexity,
			s.PhaseCount, s.StepCount, string(modelsUsed), s.ProcessingMS,
			s.Degraded, completedAt, s.ID)
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}

		for _, step := range steps {
			_, err := tx.Exec(`
				INSERT OR REPLACE INTO step_results
					(session_id, step_id, specialist_id, phase, success, confidence, content, error, duration_ms)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, s.ID, step.StepID, step.SpecialistID, step.Phase, step.Success,
				step.Confidence, step.Content, step.Error, step.DurationMS)
			if err != nil {
				return fmt.Errorf("insert step result %s: %w", step.StepID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// GetSession retrieves an archived session by ID.
func (db *DB) GetSession(id string) (*ArchivedSession, error) {
	row := db.QueryRow(`
		SELECT id, user_id, input, status, content, confidence, complexity,
			phase_count, step_count, models_used, processing_ms, degraded,
			started_at, completed_at
		FROM sessions WHERE id = ?
	`, id)

	s, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// ListSessions lists archived sessions, most recent first. A limit of
// zero or less means no limit.
func (db *DB) ListSessions(limit int) ([]ArchivedSession, error) {
	query := `
		SELECT id, user_id, input, status, content, confidence, complexity,
			phase_count, step_count, models_used, processing_ms, degraded,
			started_at, completed_at
		FROM sessions ORDER BY started_at DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []ArchivedSession
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, nil
}

// StepsForSession lists the archived step results of one session in
// insertion order.
func (db *DB) StepsForSession(sessionID string) ([]ArchivedStep, error) {
	rows, err := db.Query(`
		SELECT session_id, step_id, specialist_id, phase, success, confidence, content, error, duration_ms
		FROM step_results WHERE session_id = ? ORDER BY rowid
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list step results: %w", err)
	}
	defer rows.Close()

	var steps []ArchivedStep
	for rows.Next() {
		var step ArchivedStep
		if err := rows.Scan(&step.SessionID, &step.StepID, &step.SpecialistID, &step.Phase,
			&step.Success, &step.Confidence, &step.Content, &step.Error, &step.DurationMS); err != nil {
			return nil, fmt.Errorf("scan step result: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// PurgeOldSessions deletes sessions older than the specified duration.
// Step results cascade. Returns the number of sessions deleted.
func (db *DB) PurgeOldSessions(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	cutoffStr := formatTime(cutoff)

	result, err := db.Exec(`
		DELETE FROM sessions WHERE started_at < ?
	`, cutoffStr)
	if err != nil {
		return 0, fmt.Errorf("purge old sessions: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	return count, nil
}

// MarkInterrupted marks sessions still recorded active as failed. A
// session left active means the process died before closing it.
// Returns the number of sessions marked.
func (db *DB) MarkInterrupted() (int64, error) {
	result, err := db.Exec(`
		UPDATE sessions SET status = ?, completed_at = ? WHERE status = ?
	`, string(SessionFailed), formatTime(time.Now()), string(SessionActive))
	if err != nil {
		return 0, fmt.Errorf("mark interrupted sessions: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	return count, nil
}

// scanSession scans one session row through the given scan function.
func scanSession(scan func(dest ...any) error) (*ArchivedSession, error) {
	var s ArchivedSession
	var modelsUsed string
	var startedAt string
	var completedAt sql.NullString
	err := scan(&s.ID, &s.UserID, &s.Input, &s.Status, &s.Content, &s.Confidence,
		&s.Complexity, &s.PhaseCount, &s.StepCount, &modelsUsed, &s.ProcessingMS,
		&s.Degraded, &startedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	json.Unmarshal([]byte(modelsUsed), &s.ModelsUsed)
	s.StartedAt, _ = parseTime(startedAt)
	s.CompletedAt = parseNullableTime(completedAt)
	return &s, nil
}
