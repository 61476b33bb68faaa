package report

import (
	"context"
	"database/sql"
	"time"
)

// Row is one attendance record joined with its student, in export order.
type Row struct {
	Name      string     `json:"name"`
	RollNo    string     `json:"roll_no"`
	Email     string     `json:"email"`
	Status    string     `json:"status"`
	ScannedAt *time.Time `json:"scanned_at,omitempty"`
}

// Summary carries the rows plus the present/absent tally.
type Summary struct {
	Rows    []Row `json:"rows"`
	Present int   `json:"present"`
	Absent  int   `json:"absent"`
}

// Repository reads attendance reports from Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SessionReport returns the attendance rows for a session with counts.
func (r *Repository) SessionReport(ctx context.Context, sessionID string) (Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.name, s.roll_no, s.email, a.status, a.scanned_at
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.session_id = $1
		ORDER BY a.created_at DESC
	`, sessionID)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	var sum Summary
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.Name, &row.RollNo, &row.Email, &row.Status, &row.ScannedAt); err != nil {
			return Summary{}, err
		}
		switch row.Status {
		case "present":
			sum.Present++
		case "absent":
			sum.Absent++
		}
		sum.Rows = append(sum.Rows, row)
	}
	return sum, rows.Err()
}
