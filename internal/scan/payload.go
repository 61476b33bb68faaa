package scan

import (
	"errors"
	"net/url"
	"strings"
)

// ErrMalformedPayload is returned when a decoded QR string matches none of
// the accepted shapes, or a required field is missing after parsing.
var ErrMalformedPayload = errors.New("malformed scan payload")

// Payload is the triple carried by every student QR code.
type Payload struct {
	StudentID string
	QRToken   string
	SessionID string
}

// ParsePayload decodes the raw text handed over by a QR reader. Accepted
// shapes, tried in order, first match wins:
//  1. absolute http/https URL with query parameters
//  2. path-relative string beginning with the scan path prefix
//  3. bare query string containing student_id=
//
// Pure function; no network or state access.
func ParsePayload(raw string) (Payload, error) {
	var u *url.URL
	var err error
	switch {
	case strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://"):
		u, err = url.Parse(raw)
	case strings.HasPrefix(raw, "/scan?"):
		u, err = url.Parse("http://localhost" + raw)
	case strings.Contains(raw, "student_id="):
		u, err = url.Parse("http://localhost/scan?" + raw)
	default:
		return Payload{}, ErrMalformedPayload
	}
	if err != nil {
		return Payload{}, ErrMalformedPayload
	}

	q := u.Query()
	p := Payload{
		StudentID: q.Get("student_id"),
		QRToken:   q.Get("qr"),
		SessionID: q.Get("session_id"),
	}
	if p.StudentID == "" || p.QRToken == "" || p.SessionID == "" {
		return Payload{}, ErrMalformedPayload
	}
	return p, nil
}
