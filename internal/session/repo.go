package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository persists sessions in Postgres. Provisioning queries touch the
// enrollment and attendance tables because session start owns seeding the
// baseline absent rows.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateSession inserts a new session owned by teacherID.
func (r *Repository) CreateSession(ctx context.Context, teacherID, name string) (Session, error) {
	s := Session{ID: uuid.NewString(), Name: name, TeacherID: teacherID}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO sessions (id, name, teacher_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, s.ID, s.Name, s.TeacherID)
	if err := row.Scan(&s.CreatedAt); err != nil {
		return Session{}, err
	}
	return s, nil
}

// GetSession returns a session by id, or nil when absent.
func (r *Repository) GetSession(ctx context.Context, id string) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, teacher_id, start_time, end_time, created_at
		FROM sessions WHERE id = $1
	`, id)
	var s Session
	if err := row.Scan(&s.ID, &s.Name, &s.TeacherID, &s.StartTime, &s.EndTime, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// ListSessions returns the teacher's sessions, newest first.
func (r *Repository) ListSessions(ctx context.Context, teacherID string) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, teacher_id, start_time, end_time, created_at
		FROM sessions WHERE teacher_id = $1
		ORDER BY created_at DESC
	`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.Name, &s.TeacherID, &s.StartTime, &s.EndTime, &s.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// StartSession sets start_time only if it is still null. The predicate is
// the concurrency boundary: two concurrent starts race on the database row,
// not on client-side state. Returns false when zero rows were affected.
func (r *Repository) StartSession(ctx context.Context, id string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET start_time = $2, end_time = NULL
		WHERE id = $1 AND start_time IS NULL
	`, id, now)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// StopSession sets end_time only if it is still null. Returns false when the
// session was already stopped.
func (r *Repository) StopSession(ctx context.Context, id string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET end_time = $2
		WHERE id = $1 AND end_time IS NULL AND start_time IS NOT NULL
	`, id, now)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// EnrolledStudentIDs returns the ids of students assigned to the session.
func (r *Repository) EnrolledStudentIDs(ctx context.Context, sessionID string) ([]string, error) {
	return r.scanIDs(ctx, `SELECT student_id FROM session_students WHERE session_id = $1`, sessionID)
}

// RecordedStudentIDs returns ids that already hold an attendance row for the
// session. Provisioning subtracts these to stay idempotent across reruns.
func (r *Repository) RecordedStudentIDs(ctx context.Context, sessionID string) ([]string, error) {
	return r.scanIDs(ctx, `SELECT student_id FROM attendance WHERE session_id = $1`, sessionID)
}

// InsertAbsentRows bulk-inserts baseline absent rows. ON CONFLICT DO NOTHING
// keeps a concurrent scan or a second provisioning run from failing the
// whole batch on the uniqueness constraint.
func (r *Repository) InsertAbsentRows(ctx context.Context, sessionID, teacherID string, studentIDs []string) (int, error) {
	inserted := 0
	for _, sid := range studentIDs {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO attendance (id, student_id, session_id, teacher_id, status)
			VALUES ($1, $2, $3, $4, 'absent')
			ON CONFLICT (student_id, session_id) DO NOTHING
		`, uuid.NewString(), sid, sessionID, teacherID)
		if err != nil {
			return inserted, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func (r *Repository) scanIDs(ctx context.Context, query, arg string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
