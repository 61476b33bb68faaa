package attendance

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when the scanned session id is unknown.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStudentNotFound is returned when the scanned student id is unknown.
	ErrStudentNotFound = errors.New("student not found")
	// ErrTokenMismatch is the anti-tamper check: the presented token does not
	// equal the student's stored token.
	ErrTokenMismatch = errors.New("qr token mismatch")
)

// SessionNotActiveError rejects scans against a session that has not started
// or has already stopped. It carries the session name for the operator.
type SessionNotActiveError struct {
	Name string
}

func (e *SessionNotActiveError) Error() string {
	return fmt.Sprintf("session %q is not active", e.Name)
}
