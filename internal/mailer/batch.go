package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"log"
	"net/mail"

	"classcheck/internal/qr"
	"classcheck/internal/roster"
)

// BatchResult counts per-recipient outcomes; a failed recipient never aborts
// the rest of the batch.
type BatchResult struct {
	Total  int
	Sent   int
	Failed int
}

// Delivery is one recipient's outcome, for persistence.
type Delivery struct {
	StudentID string
	Email     string
	Status    string // sent | failed
	Error     string
}

// Batcher composes and sends one QR email per enrolled student.
type Batcher struct {
	sender Sender
}

// NewBatcher creates a batch mailer over the given sender.
func NewBatcher(sender Sender) *Batcher {
	return &Batcher{sender: sender}
}

// SendQRBatch mails each student their scan link and QR image for the
// session. Delivery outcomes are reported through record, called once per
// recipient.
func (b *Batcher) SendQRBatch(
	ctx context.Context,
	origin, sessionID, sessionName, teacherName, teacherEmail string,
	students []roster.Student,
	record func(Delivery),
) BatchResult {
	res := BatchResult{Total: len(students)}
	for _, st := range students {
		d := Delivery{StudentID: st.ID, Email: st.Email, Status: "sent"}
		if err := b.sender.Send(ctx, b.compose(origin, sessionID, sessionName, teacherName, teacherEmail, st)); err != nil {
			log.Printf("email to %s failed: %v", st.Email, err)
			d.Status = "failed"
			d.Error = err.Error()
			res.Failed++
		} else {
			res.Sent++
		}
		if record != nil {
			record(d)
		}
	}
	return res
}

func (b *Batcher) compose(origin, sessionID, sessionName, teacherName, teacherEmail string, st roster.Student) Message {
	scanURL := qr.ScanURL(origin, st.ID, st.QRToken, sessionID)

	msg := Message{
		To:      mail.Address{Name: st.Name, Address: st.Email},
		Subject: fmt.Sprintf("QR Code for %s", sessionName),
		TextContent: fmt.Sprintf(
			"Hello %s,\n\nHere is your QR code for the session: %s\nRoll Number: %s\nTeacher: %s\n\nOpen your QR code: %s\n\nBest regards,\n%s\n",
			st.Name, sessionName, st.RollNo, teacherName, scanURL, teacherName),
		HTMLContent: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; line-height: 1.6;">
<h2>Attendance QR Code</h2>
<p>Hello <strong>%s</strong>,</p>
<p>Here is your QR code for the session: <strong>%s</strong></p>
<p><strong>Roll Number:</strong> %s</p>
<p><strong>Teacher:</strong> %s</p>
<p><a href="%s" target="_blank">Open QR Code</a></p>
<p>Best regards,<br>%s</p>
</div>`,
			html.EscapeString(st.Name), html.EscapeString(sessionName), html.EscapeString(st.RollNo),
			html.EscapeString(teacherName), scanURL, html.EscapeString(teacherName)),
	}
	if teacherEmail != "" {
		msg.ReplyTo = &mail.Address{Name: teacherName, Address: teacherEmail}
	}
	if img, err := qr.PNG(scanURL, 300); err == nil {
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    "qr-code.png",
			ContentType: "image/png",
			Content:     base64.StdEncoding.EncodeToString(img),
		})
	} else {
		log.Printf("qr render for %s failed: %v", st.ID, err)
	}
	return msg
}
