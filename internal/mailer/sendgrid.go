package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridSender delivers mail through the SendGrid v3 API.
type SendgridSender struct {
	key  string
	from *sgmail.Email
}

// NewSendgridSender creates a sender with the given API key and from address.
func NewSendgridSender(key string, from mail.Address) *SendgridSender {
	return &SendgridSender{key: key, from: sgmail.NewEmail(from.Name, from.Address)}
}

// Send delivers one message synchronously so the caller can count failures.
func (s *SendgridSender) Send(ctx context.Context, msg Message) error {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	if msg.ReplyTo != nil {
		m.SetReplyTo(sgmail.NewEmail(msg.ReplyTo.Name, msg.ReplyTo.Address))
	}
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", msg.TextContent),
		sgmail.NewContent("text/html", msg.HTMLContent),
	)
	for _, at := range msg.Attachments {
		m.AddAttachment(&sgmail.Attachment{
			Content:     at.Content,
			Type:        at.ContentType,
			Filename:    at.Filename,
			Disposition: "attachment",
		})
	}

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
