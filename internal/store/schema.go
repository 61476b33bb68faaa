package store

import "context"

// Migrate creates the schema if it does not exist yet. Idempotent; runs at
// startup so a fresh database is usable without external tooling.
func (d *DB) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS teachers (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS refresh_tokens (
		teacher_id UUID NOT NULL REFERENCES teachers(id),
		token      TEXT PRIMARY KEY,
		expires_at TIMESTAMPTZ NOT NULL,
		revoked    BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS students (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		roll_no    TEXT NOT NULL,
		qr_token   TEXT UNIQUE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		teacher_id UUID NOT NULL REFERENCES teachers(id),
		start_time TIMESTAMPTZ,
		end_time   TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS session_students (
		session_id UUID NOT NULL REFERENCES sessions(id),
		student_id UUID NOT NULL REFERENCES students(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (session_id, student_id)
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id         UUID PRIMARY KEY,
		student_id UUID NOT NULL REFERENCES students(id),
		session_id UUID NOT NULL REFERENCES sessions(id),
		teacher_id UUID NOT NULL REFERENCES teachers(id),
		status     TEXT NOT NULL DEFAULT 'absent',
		scanned_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (student_id, session_id)
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_session ON attendance(session_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_teacher   ON sessions(teacher_id);

	CREATE TABLE IF NOT EXISTS email_batches (
		id         UUID PRIMARY KEY,
		session_id UUID NOT NULL REFERENCES sessions(id),
		teacher_id UUID NOT NULL REFERENCES teachers(id),
		origin     TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'queued',
		total      INT NOT NULL DEFAULT 0,
		sent       INT NOT NULL DEFAULT 0,
		failed     INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS email_deliveries (
		batch_id   UUID NOT NULL REFERENCES email_batches(id),
		student_id UUID NOT NULL REFERENCES students(id),
		email      TEXT NOT NULL,
		status     TEXT NOT NULL,
		error      TEXT NOT NULL DEFAULT '',
		sent_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (batch_id, student_id)
	);
	`
	_, err := d.Client.ExecContext(ctx, schema)
	return err
}
