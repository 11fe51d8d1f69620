package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const sendTimeout = 5 * time.Second

// SendAsync delivers message to recipient in the background. The returned
// channel is closed once the attempt finishes. Nothing is sent when sender
// is nil or recipient is blank.
func SendAsync(ctx context.Context, sender EmailSender, recipient string, message Message) <-chan struct{} {
	done := make(chan struct{})
	recipient = strings.TrimSpace(recipient)
	if sender == nil || recipient == "" || message.Subject == "" || message.Body == "" {
		close(done)
		return done
	}

	logger := log.Ctx(ctx)
	go func() {
		defer close(done)
		sendCtx, cancel := newEmailContext(ctx, sendTimeout)
		defer cancel()
		if err := sender.Send(sendCtx, recipient, message.Subject, message.Body); err != nil {
			logger.Error().Err(err).Str("subject", message.Subject).Msg("Failed to send booking email")
			return
		}
		logger.Info().Str("subject", message.Subject).Msg("Booking email sent")
	}()
	return done
}

// newEmailContext detaches parent from request cancellation while keeping its
// values, including the request logger.
func newEmailContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
