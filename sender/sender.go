package sender

import (
	"context"
	"time"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// EmailSender delivers one HTML mail.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (SendResult, error)
}

// Message is a rendered mail together with its audit type.
type Message struct {
	Type    string
	To      string
	Subject string
	Body    string
}

// Mailer is what services send mail through.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
