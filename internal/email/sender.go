package email

import "context"

// EmailSender delivers one plain-text message from the configured sender
// address.
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}
