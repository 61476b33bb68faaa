package roster

import (
	"errors"
	"time"
)

// Student is an enrollable identity. QRToken is the per-student secret
// embedded in its QR code; it is minted at creation time as a random uuid
// and is never derived from the id or roll number.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	RollNo    string    `json:"roll_no"`
	QRToken   string    `json:"qr_token"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrNotFound is returned when no student exists for the given id.
var ErrNotFound = errors.New("student not found")
