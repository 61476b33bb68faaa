package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Teacher is an account that owns sessions and performs scans.
type Teacher struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository persists teacher accounts and refresh tokens in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateTeacher inserts a new account. The email must be unused.
func (r *Repository) CreateTeacher(ctx context.Context, name, email, passwordHash string) (Teacher, error) {
	t := Teacher{ID: uuid.NewString(), Name: name, Email: email, PasswordHash: passwordHash}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO teachers (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, t.ID, t.Name, t.Email, t.PasswordHash)
	if err := row.Scan(&t.CreatedAt); err != nil {
		return Teacher{}, err
	}
	return t, nil
}

// GetTeacherByEmail returns the account for a login attempt, or nil.
func (r *Repository) GetTeacherByEmail(ctx context.Context, email string) (*Teacher, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at FROM teachers WHERE email = $1
	`, email)
	var t Teacher
	if err := row.Scan(&t.ID, &t.Name, &t.Email, &t.PasswordHash, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// GetTeacher returns an account by id, or nil.
func (r *Repository) GetTeacher(ctx context.Context, id string) (*Teacher, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at FROM teachers WHERE id = $1
	`, id)
	var t Teacher
	if err := row.Scan(&t.ID, &t.Name, &t.Email, &t.PasswordHash, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// SaveRefreshToken stores a refresh token for rotation checks.
func (r *Repository) SaveRefreshToken(ctx context.Context, teacherID, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (teacher_id, token, expires_at)
		VALUES ($1, $2, $3)
	`, teacherID, token, expiresAt)
	return err
}

// RevokeRefreshToken marks a token revoked.
func (r *Repository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	return err
}

// RefreshTokenValid reports whether token is known, unexpired and unrevoked.
func (r *Repository) RefreshTokenValid(ctx context.Context, token string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM refresh_tokens
		WHERE token = $1 AND NOT revoked AND expires_at > NOW()
	`, token)
	var n int
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
