package mailer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Batch tracks one queued email run for a session.
type Batch struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	TeacherID string    `json:"teacher_id"`
	Origin    string    `json:"origin"`
	Status    string    `json:"status"` // queued | running | done | no_students
	Total     int       `json:"total"`
	Sent      int       `json:"sent"`
	Failed    int       `json:"failed"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists email batches and per-recipient deliveries.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateBatch enqueues a batch row in queued state.
func (r *Repository) CreateBatch(ctx context.Context, sessionID, teacherID, origin string) (Batch, error) {
	b := Batch{ID: uuid.NewString(), SessionID: sessionID, TeacherID: teacherID, Origin: origin, Status: "queued"}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO email_batches (id, session_id, teacher_id, origin)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, b.ID, b.SessionID, b.TeacherID, b.Origin)
	if err := row.Scan(&b.CreatedAt); err != nil {
		return Batch{}, err
	}
	return b, nil
}

// GetBatch returns a batch by id, or nil.
func (r *Repository) GetBatch(ctx context.Context, id string) (*Batch, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, session_id, teacher_id, origin, status, total, sent, failed, created_at
		FROM email_batches WHERE id = $1
	`, id)
	var b Batch
	if err := row.Scan(&b.ID, &b.SessionID, &b.TeacherID, &b.Origin, &b.Status, &b.Total, &b.Sent, &b.Failed, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// ClaimBatch moves a queued batch to running. Returns false when another
// worker already claimed it.
func (r *Repository) ClaimBatch(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE email_batches SET status = 'running' WHERE id = $1 AND status = 'queued'
	`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// FinishBatch records the final counts and status.
func (r *Repository) FinishBatch(ctx context.Context, id, status string, total, sent, failed int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE email_batches SET status = $2, total = $3, sent = $4, failed = $5 WHERE id = $1
	`, id, status, total, sent, failed)
	return err
}

// RecordDelivery stores one recipient's outcome.
func (r *Repository) RecordDelivery(ctx context.Context, batchID string, d Delivery) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO email_deliveries (batch_id, student_id, email, status, error)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (batch_id, student_id) DO UPDATE SET status = EXCLUDED.status, error = EXCLUDED.error
	`, batchID, d.StudentID, d.Email, d.Status, d.Error)
	return err
}
