package session

import (
	"errors"
	"time"
)

// Session is a bounded attendance-taking window owned by one teacher.
// Transitions are one-directional: not started, then active, then stopped.
type Session struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	TeacherID string     `json:"teacher_id"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsActive reports whether the session is currently accepting scans.
func (s Session) IsActive() bool {
	return s.StartTime != nil && s.EndTime == nil
}

var (
	// ErrNotFound is returned when no session exists for the given id.
	ErrNotFound = errors.New("session not found")
	// ErrAlreadyStarted guards against double-start races; the conditional
	// update affected zero rows because start_time was already set.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrNotActive is returned by the provisioning repair path when the
	// session has not started or has already stopped.
	ErrNotActive = errors.New("session not active")
)
