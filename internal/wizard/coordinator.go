// Package wizard owns the booking form state of each session and applies the
// commands emitted by the booking steps.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codr1/vistos/internal/booking"
	"github.com/codr1/vistos/internal/drafts"
	"github.com/codr1/vistos/internal/metrics"
)

var (
	ErrAlreadySubmitted = errors.New("booking already submitted")
	ErrNotOnReview      = errors.New("booking can only be submitted from the review step")
	ErrUnknownField     = errors.New("unknown booking field")
	ErrSelectionField   = errors.New("appointment date and time are set through the calendar")
)

// Coordinator is the single owner of booking.FormData. Handlers never touch
// form data directly; they send commands through the coordinator.
type Coordinator struct {
	store        drafts.Store
	availability booking.Availability
	slots        booking.TimeSlots
	validator    *booking.Validator
	metrics      *metrics.WizardMetrics
	locks        *sessionLocks
	now          func() time.Time
	newID        func() string
}

type Option func(*Coordinator)

// WithMetrics records interactions on m.
func WithMetrics(m *metrics.WizardMetrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithIDGenerator overrides how new draft IDs are minted.
func WithIDGenerator(newID func() string) Option {
	return func(c *Coordinator) { c.newID = newID }
}

func NewCoordinator(store drafts.Store, availability booking.Availability, slots booking.TimeSlots, validator *booking.Validator, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:        store,
		availability: availability,
		slots:        slots,
		validator:    validator,
		locks:        newSessionLocks(),
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Availability() booking.Availability { return c.availability }

func (c *Coordinator) TimeSlots() booking.TimeSlots { return c.slots }

// Start creates an empty draft on the first step.
func (c *Coordinator) Start(ctx context.Context) (drafts.Draft, error) {
	now := c.now().UTC()
	draft := drafts.Draft{
		ID:        c.newID(),
		Step:      string(StepPersonal),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.store.Save(ctx, draft); err != nil {
		return drafts.Draft{}, fmt.Errorf("start draft: %w", err)
	}
	log.Ctx(ctx).Debug().Str("draft_id", draft.ID).Msg("Booking draft started")
	return draft, nil
}

// Load returns the draft for id, or drafts.ErrNotFound.
func (c *Coordinator) Load(ctx context.Context, id string) (drafts.Draft, error) {
	if id == "" {
		return drafts.Draft{}, drafts.ErrNotFound
	}
	return c.store.Get(ctx, id)
}

// LoadOrStart returns the draft for id, starting a new one when it is
// missing. created reports whether a new draft was made.
func (c *Coordinator) LoadOrStart(ctx context.Context, id string) (draft drafts.Draft, created bool, err error) {
	draft, err = c.Load(ctx, id)
	if err == nil {
		return draft, false, nil
	}
	if !errors.Is(err, drafts.ErrNotFound) {
		return drafts.Draft{}, false, err
	}
	draft, err = c.Start(ctx)
	return draft, err == nil, err
}

// Dispatch applies cmds to the draft's form data. Messages for edited fields
// are dropped; they are recomputed on the next navigation.
func (c *Coordinator) Dispatch(ctx context.Context, id string, cmds ...booking.UpdateField) (drafts.Draft, error) {
	for _, cmd := range cmds {
		field, ok := booking.ParseField(string(cmd.Field))
		if !ok {
			return drafts.Draft{}, fmt.Errorf("%w: %s", ErrUnknownField, cmd.Field)
		}
		// Only SelectDay and SelectTime may touch the appointment, so a new
		// date always clears the time and both stay within what is offered.
		if field == booking.FieldAppointmentDate || field == booking.FieldAppointmentTime {
			return drafts.Draft{}, fmt.Errorf("%w: %s", ErrSelectionField, field)
		}
	}
	return c.update(ctx, id, func(draft *drafts.Draft) error {
		c.apply(draft, cmds)
		return nil
	})
}

// SelectDay applies a click on day of the open month. accepted is false when
// the day is outside the allow-set; the draft is then returned unchanged.
func (c *Coordinator) SelectDay(ctx context.Context, id string, day int) (draft drafts.Draft, accepted bool, err error) {
	draft, err = c.update(ctx, id, func(d *drafts.Draft) error {
		cmds := c.availability.SelectDay(d.Data, day)
		accepted = cmds != nil
		c.apply(d, cmds)
		return nil
	})
	if err == nil {
		c.metrics.ObserveDaySelection(accepted)
	}
	return draft, accepted, err
}

// SelectTime applies a click on a time slot. accepted is false when no date
// is chosen yet or the slot is not offered.
func (c *Coordinator) SelectTime(ctx context.Context, id, slot string) (draft drafts.Draft, accepted bool, err error) {
	draft, err = c.update(ctx, id, func(d *drafts.Draft) error {
		cmds := c.slots.Select(d.Data, slot)
		accepted = cmds != nil
		c.apply(d, cmds)
		return nil
	})
	if err == nil {
		c.metrics.ObserveTimeSelection(accepted)
	}
	return draft, accepted, err
}

// Next validates the current step and advances when it has no errors.
func (c *Coordinator) Next(ctx context.Context, id string) (drafts.Draft, error) {
	return c.update(ctx, id, func(d *drafts.Draft) error {
		from := Step(d.Step)
		errs := c.validateStep(from, d.Data)
		if len(errs) > 0 {
			d.Errors = errs
			c.metrics.ObserveStepTransition(string(from), string(from.Next()), false)
			return nil
		}
		d.Errors = nil
		d.Step = string(from.Next())
		c.metrics.ObserveStepTransition(string(from), d.Step, true)
		return nil
	})
}

// Back moves to the previous step without validating.
func (c *Coordinator) Back(ctx context.Context, id string) (drafts.Draft, error) {
	return c.update(ctx, id, func(d *drafts.Draft) error {
		from := Step(d.Step)
		d.Errors = nil
		d.Step = string(from.Prev())
		c.metrics.ObserveStepTransition(string(from), d.Step, true)
		return nil
	})
}

// Submit validates the whole form from the review step and marks the draft
// as submitted. When a section fails the draft is sent back to the first
// step holding an error and the returned error is nil; callers check
// Submitted on the result.
func (c *Coordinator) Submit(ctx context.Context, id string) (drafts.Draft, error) {
	return c.update(ctx, id, func(d *drafts.Draft) error {
		if Step(d.Step) != StepReview {
			return ErrNotOnReview
		}
		for _, step := range Steps {
			if errs := c.validateStep(step, d.Data); len(errs) > 0 {
				d.Errors = errs
				d.Step = string(step)
				c.metrics.ObserveSubmission("invalid")
				return nil
			}
		}
		submittedAt := c.now().UTC()
		d.Errors = nil
		d.SubmittedAt = &submittedAt
		c.metrics.ObserveSubmission("submitted")
		return nil
	})
}

func (c *Coordinator) validateStep(step Step, data booking.FormData) booking.Errors {
	switch step {
	case StepPersonal:
		return c.validator.ValidatePersonal(data)
	case StepPassport:
		return c.validator.ValidatePassport(data)
	case StepTravel:
		return c.validator.ValidateAppointment(data)
	}
	return nil
}

func (c *Coordinator) apply(draft *drafts.Draft, cmds []booking.UpdateField) {
	if len(cmds) == 0 {
		return
	}
	draft.Data = booking.Apply(draft.Data, cmds...)
	for _, cmd := range cmds {
		delete(draft.Errors, cmd.Field)
		c.metrics.ObserveFieldUpdate(string(cmd.Field))
	}
}

func (c *Coordinator) update(ctx context.Context, id string, fn func(*drafts.Draft) error) (drafts.Draft, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	draft, err := c.Load(ctx, id)
	if err != nil {
		return drafts.Draft{}, err
	}
	if draft.Submitted() {
		return draft, ErrAlreadySubmitted
	}
	if _, ok := ParseStep(draft.Step); !ok {
		log.Ctx(ctx).Warn().Str("draft_id", id).Str("step", draft.Step).Msg("Draft has unknown step, resetting")
		draft.Step = string(StepPersonal)
	}

	if err := fn(&draft); err != nil {
		return draft, err
	}

	draft.UpdatedAt = c.now().UTC()
	if err := c.store.Save(ctx, draft); err != nil {
		return drafts.Draft{}, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}
