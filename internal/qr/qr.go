package qr

import (
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

// ScanURL builds the payload URL embedded in a student's QR code. The query
// triple (student_id, qr, session_id) is the entire wire contract between
// QR generation and the scan side; the token is percent-encoded.
func ScanURL(origin, studentID, qrToken, sessionID string) string {
	return fmt.Sprintf("%s/scan?student_id=%s&qr=%s&session_id=%s",
		origin, url.QueryEscape(studentID), url.QueryEscape(qrToken), url.QueryEscape(sessionID))
}

// PNG renders a scan URL as a QR image.
func PNG(scanURL string, size int) ([]byte, error) {
	if size <= 0 {
		size = 300
	}
	return qrcode.Encode(scanURL, qrcode.Medium, size)
}
