// Package drafts stores in-progress booking wizard sessions.
package drafts

import (
	"context"
	"errors"
	"time"

	"github.com/codr1/vistos/internal/booking"
)

var ErrNotFound = errors.New("draft not found")

// Draft is the coordinator-owned state of one wizard session.
type Draft struct {
	ID          string           `json:"id"`
	Step        string           `json:"step"`
	Data        booking.FormData `json:"data"`
	Errors      booking.Errors   `json:"errors,omitempty"`
	SubmittedAt *time.Time       `json:"submittedAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Submitted reports whether the draft was handed over for payment.
func (d Draft) Submitted() bool {
	return d.SubmittedAt != nil
}

// Store persists drafts between requests. Implementations are safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, id string) (Draft, error)
	Save(ctx context.Context, draft Draft) error
	Delete(ctx context.Context, id string) error
	// PurgeBefore removes drafts last updated before cutoff and returns how
	// many were removed.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int, error)
}
