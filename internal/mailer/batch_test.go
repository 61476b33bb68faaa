package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classcheck/internal/roster"
)

type flakySender struct {
	failFor map[string]bool
	sent    []Message
}

func (s *flakySender) Send(_ context.Context, msg Message) error {
	if s.failFor[msg.To.Address] {
		return errors.New("mailbox unavailable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestSendQRBatchCountsPartialFailures(t *testing.T) {
	students := []roster.Student{
		{ID: "a", Name: "Ada", Email: "ada@x.com", RollNo: "1", QRToken: "tok-a"},
		{ID: "b", Name: "Bob", Email: "bob@x.com", RollNo: "2", QRToken: "tok-b"},
		{ID: "c", Name: "Cyd", Email: "cyd@x.com", RollNo: "3", QRToken: "tok-c"},
	}
	sender := &flakySender{failFor: map[string]bool{"bob@x.com": true}}
	b := NewBatcher(sender)

	var deliveries []Delivery
	res := b.SendQRBatch(context.Background(), "https://app.example.com", "se-1", "Math 101",
		"Ms. Grace", "grace@x.com", students, func(d Delivery) { deliveries = append(deliveries, d) })

	assert.Equal(t, BatchResult{Total: 3, Sent: 2, Failed: 1}, res)
	require.Len(t, deliveries, 3)
	assert.Equal(t, "failed", deliveries[1].Status)
	assert.Contains(t, deliveries[1].Error, "mailbox unavailable")

	// a failure never aborts remaining sends
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "cyd@x.com", sender.sent[1].To.Address)
}

func TestComposeCarriesScanURLAndAttachment(t *testing.T) {
	sender := &ConsoleSender{Quiet: true}
	b := NewBatcher(sender)

	res := b.SendQRBatch(context.Background(), "https://app.example.com", "se-1", "Math 101",
		"Ms. Grace", "grace@x.com",
		[]roster.Student{{ID: "a", Name: "Ada", Email: "ada@x.com", RollNo: "1", QRToken: "tok+a=="}}, nil)
	assert.Equal(t, BatchResult{Total: 1, Sent: 1}, res)

	require.Len(t, sender.Sent, 1)
	msg := sender.Sent[0]
	assert.Equal(t, "QR Code for Math 101", msg.Subject)
	assert.True(t, strings.Contains(msg.HTMLContent, "qr=tok%2Ba%3D%3D"))
	assert.True(t, strings.Contains(msg.TextContent, "session_id=se-1"))
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "image/png", msg.Attachments[0].ContentType)
	require.NotNil(t, msg.ReplyTo)
	assert.Equal(t, "grace@x.com", msg.ReplyTo.Address)
}
