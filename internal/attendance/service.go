package attendance

import (
	"context"
	"fmt"
	"time"

	"classcheck/internal/roster"
	"classcheck/internal/scan"
	"classcheck/internal/session"
)

// SessionSource is the point lookup the validator needs from sessions.
type SessionSource interface {
	GetSession(ctx context.Context, id string) (*session.Session, error)
}

// StudentSource is the point lookup the validator needs from the roster.
type StudentSource interface {
	GetStudent(ctx context.Context, id string) (*roster.Student, error)
}

// Marker is the recorder's single conditional-write primitive.
type Marker interface {
	MarkPresent(ctx context.Context, studentID, sessionID, teacherID string, now time.Time) (MarkOutcome, error)
}

// ScanResult is what a successful scan produced.
type ScanResult struct {
	Outcome   MarkOutcome     `json:"outcome"`
	Student   roster.Student  `json:"student"`
	Session   session.Session `json:"session"`
	ScannedAt time.Time       `json:"scanned_at"`
}

// Service validates scanned payloads and records attendance.
type Service struct {
	sessions SessionSource
	students StudentSource
	marker   Marker
	now      func() time.Time
}

// NewService creates a scan service.
func NewService(sessions SessionSource, students StudentSource, marker Marker) *Service {
	return &Service{sessions: sessions, students: students, marker: marker, now: time.Now}
}

// Scan validates a parsed payload and marks attendance. Checks run in order
// and no write happens before all of them pass: session exists, session is
// active, student exists, presented token equals the stored token.
func (s *Service) Scan(ctx context.Context, callerID string, p scan.Payload) (ScanResult, error) {
	sess, err := s.sessions.GetSession(ctx, p.SessionID)
	if err != nil {
		return ScanResult{}, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return ScanResult{}, ErrSessionNotFound
	}
	if !sess.IsActive() {
		return ScanResult{}, &SessionNotActiveError{Name: sess.Name}
	}

	student, err := s.students.GetStudent(ctx, p.StudentID)
	if err != nil {
		return ScanResult{}, fmt.Errorf("load student: %w", err)
	}
	if student == nil {
		return ScanResult{}, ErrStudentNotFound
	}
	if student.QRToken != p.QRToken {
		return ScanResult{}, ErrTokenMismatch
	}

	now := s.now().UTC()
	outcome, err := s.marker.MarkPresent(ctx, student.ID, sess.ID, callerID, now)
	if err != nil {
		return ScanResult{}, fmt.Errorf("mark present: %w", err)
	}
	return ScanResult{Outcome: outcome, Student: *student, Session: *sess, ScannedAt: now}, nil
}
