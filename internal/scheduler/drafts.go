package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/codr1/vistos/internal/drafts"
)

const draftPurgeTimeout = time.Minute

// DraftPurgeJob is the name the stale-draft purge is registered under.
const DraftPurgeJob = "booking_draft_purge"

// RegisterDraftPurgeJob removes drafts idle for longer than ttl on the
// given cron schedule.
func (s *Service) RegisterDraftPurgeJob(store drafts.Store, ttl time.Duration, cronExpr string) error {
	if store == nil {
		return fmt.Errorf("draft purge job requires a store")
	}
	if ttl <= 0 {
		return fmt.Errorf("draft purge job requires a positive ttl")
	}

	jobLogger := log.With().
		Str("component", "draft_purge_job").
		Str("job_name", DraftPurgeJob).
		Logger()

	return s.AddJob(DraftPurgeJob, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), draftPurgeTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if _, err := PurgeStaleDrafts(ctx, store, time.Now().UTC(), ttl); err != nil {
			jobLogger.Error().Err(err).Msg("Failed to purge stale drafts")
		}
	}, gocron.WithSingletonMode(gocron.LimitModeReschedule))
}

// PurgeStaleDrafts deletes drafts last updated before now minus ttl.
func PurgeStaleDrafts(ctx context.Context, store drafts.Store, now time.Time, ttl time.Duration) (int, error) {
	cutoff := now.Add(-ttl)
	removed, err := store.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge drafts before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if removed > 0 {
		log.Ctx(ctx).Info().Int("removed", removed).Time("cutoff", cutoff).Msg("Purged stale booking drafts")
	}
	return removed, nil
}
