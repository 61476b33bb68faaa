package roster

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Repository persists students and session assignments in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateStudent inserts a student with a freshly minted QR token.
func (r *Repository) CreateStudent(ctx context.Context, name, email, rollNo string) (Student, error) {
	st := Student{
		ID:      uuid.NewString(),
		Name:    name,
		Email:   email,
		RollNo:  rollNo,
		QRToken: uuid.NewString(),
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (id, name, email, roll_no, qr_token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, st.ID, st.Name, st.Email, st.RollNo, st.QRToken)
	if err := row.Scan(&st.CreatedAt); err != nil {
		return Student{}, err
	}
	return st, nil
}

// GetStudent returns a student by id, or nil when absent.
func (r *Repository) GetStudent(ctx context.Context, id string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, roll_no, qr_token, created_at
		FROM students WHERE id = $1
	`, id)
	var st Student
	if err := row.Scan(&st.ID, &st.Name, &st.Email, &st.RollNo, &st.QRToken, &st.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// ListStudents returns all students, newest first.
func (r *Repository) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, roll_no, qr_token, created_at
		FROM students ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Email, &st.RollNo, &st.QRToken, &st.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, st)
	}
	return res, rows.Err()
}

// ListEnrolled returns the students assigned to a session.
func (r *Repository) ListEnrolled(ctx context.Context, sessionID string) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.email, s.roll_no, s.qr_token, s.created_at
		FROM students s
		JOIN session_students ss ON ss.student_id = s.id
		WHERE ss.session_id = $1
		ORDER BY s.roll_no
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Email, &st.RollNo, &st.QRToken, &st.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, st)
	}
	return res, rows.Err()
}

// Assign adds a student to a session. Assigning an already-assigned pair is
// a benign no-op.
func (r *Repository) Assign(ctx context.Context, sessionID, studentID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session_students (session_id, student_id)
		VALUES ($1, $2)
		ON CONFLICT (session_id, student_id) DO NOTHING
	`, sessionID, studentID)
	return err
}

// Unassign removes a student from a session. Removing an absent pair is a
// benign no-op.
func (r *Repository) Unassign(ctx context.Context, sessionID, studentID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM session_students WHERE session_id = $1 AND student_id = $2
	`, sessionID, studentID)
	return err
}
