package mailer

import (
	"context"
	"log"
	"net/mail"
)

// Attachment is an inline file; Content is base64-encoded.
type Attachment struct {
	Filename    string
	ContentType string
	Content     string
}

// Message is a single outbound email.
type Message struct {
	To          mail.Address
	ReplyTo     *mail.Address
	Subject     string
	TextContent string
	HTMLContent string
	Attachments []Attachment
}

// Sender delivers one message. Implementations must be safe for concurrent
// use; a failed send affects only its own recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ConsoleSender logs messages instead of delivering them. Default backend in
// dev when no SendGrid key is configured.
type ConsoleSender struct {
	Quiet bool
	Sent  []Message
}

// Send records the message and prints a summary line.
func (s *ConsoleSender) Send(_ context.Context, msg Message) error {
	s.Sent = append(s.Sent, msg)
	if !s.Quiet {
		log.Printf("email to %s: %s (%d attachments)", msg.To.Address, msg.Subject, len(msg.Attachments))
	}
	return nil
}
