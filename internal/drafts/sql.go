package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/codr1/vistos/internal/booking"
	"github.com/codr1/vistos/internal/db"
)

const sqlQueryTimeout = 5 * time.Second

// SQLStore keeps drafts in the booking_drafts table.
type SQLStore struct {
	db *db.DB
}

func NewSQLStore(database *db.DB) *SQLStore {
	return &SQLStore{db: database}
}

func (s *SQLStore) Get(ctx context.Context, id string) (Draft, error) {
	ctx, cancel := context.WithTimeout(ctx, sqlQueryTimeout)
	defer cancel()

	var (
		draft       Draft
		formData    string
		errorsJSON  string
		submittedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, step, form_data, errors, submitted_at, created_at, updated_at
		FROM booking_drafts WHERE id = ?`,
		id,
	).Scan(&draft.ID, &draft.Step, &formData, &errorsJSON, &submittedAt, &draft.CreatedAt, &draft.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, fmt.Errorf("query draft: %w", err)
	}

	if err := json.Unmarshal([]byte(formData), &draft.Data); err != nil {
		return Draft{}, fmt.Errorf("decode draft form data: %w", err)
	}
	if err := json.Unmarshal([]byte(errorsJSON), &draft.Errors); err != nil {
		return Draft{}, fmt.Errorf("decode draft errors: %w", err)
	}
	if len(draft.Errors) == 0 {
		draft.Errors = nil
	}
	if submittedAt.Valid {
		t := submittedAt.Time.UTC()
		draft.SubmittedAt = &t
	}
	draft.CreatedAt = draft.CreatedAt.UTC()
	draft.UpdatedAt = draft.UpdatedAt.UTC()
	return draft, nil
}

func (s *SQLStore) Save(ctx context.Context, draft Draft) error {
	ctx, cancel := context.WithTimeout(ctx, sqlQueryTimeout)
	defer cancel()

	formData, err := json.Marshal(draft.Data)
	if err != nil {
		return fmt.Errorf("encode draft form data: %w", err)
	}
	errs := draft.Errors
	if errs == nil {
		errs = booking.Errors{}
	}
	errorsJSON, err := json.Marshal(errs)
	if err != nil {
		return fmt.Errorf("encode draft errors: %w", err)
	}

	var submittedAt sql.NullTime
	if draft.SubmittedAt != nil {
		submittedAt = sql.NullTime{Time: draft.SubmittedAt.UTC(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO booking_drafts (id, step, form_data, errors, submitted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			step = excluded.step,
			form_data = excluded.form_data,
			errors = excluded.errors,
			submitted_at = excluded.submitted_at,
			updated_at = excluded.updated_at`,
		draft.ID,
		draft.Step,
		string(formData),
		string(errorsJSON),
		submittedAt,
		draft.CreatedAt.UTC(),
		draft.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, sqlQueryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM booking_drafts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (s *SQLStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, sqlQueryTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM booking_drafts WHERE updated_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge drafts: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge drafts rows affected: %w", err)
	}
	return int(removed), nil
}
