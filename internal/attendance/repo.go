package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// MarkOutcome describes what marking a student present actually did.
type MarkOutcome string

const (
	// MarkCreated means no record existed; a present row was inserted.
	MarkCreated MarkOutcome = "created"
	// MarkUpdated means an absent row was promoted to present.
	MarkUpdated MarkOutcome = "updated"
	// MarkAlreadyPresent means the record was already present; no mutation.
	MarkAlreadyPresent MarkOutcome = "already_present"
)

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// MarkPresent idempotently records a present scan for (studentID, sessionID).
// Each branch is a single conditional write, so concurrent scans of the same
// student converge without duplicate rows: the conditional UPDATE only
// promotes an absent row, and the INSERT defers to the uniqueness constraint.
// Whichever statement loses its race affects zero rows and falls through to
// MarkAlreadyPresent.
func (r *Repository) MarkPresent(ctx context.Context, studentID, sessionID, teacherID string, now time.Time) (MarkOutcome, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE attendance SET status = 'present', scanned_at = $3
		WHERE student_id = $1 AND session_id = $2 AND status = 'absent'
	`, studentID, sessionID, now)
	if err != nil {
		return "", err
	}
	if n, err := res.RowsAffected(); err != nil {
		return "", err
	} else if n > 0 {
		return MarkUpdated, nil
	}

	res, err = r.db.ExecContext(ctx, `
		INSERT INTO attendance (id, student_id, session_id, teacher_id, status, scanned_at)
		VALUES ($1, $2, $3, $4, 'present', $5)
		ON CONFLICT (student_id, session_id) DO NOTHING
	`, uuid.NewString(), studentID, sessionID, teacherID, now)
	if err != nil {
		return "", err
	}
	if n, err := res.RowsAffected(); err != nil {
		return "", err
	} else if n > 0 {
		return MarkCreated, nil
	}
	return MarkAlreadyPresent, nil
}
