package scheduler

import (
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// LimiterPruneJob is the name the submission limiter sweep runs under.
const LimiterPruneJob = "submission_limiter_prune"

// LimiterPruneCron sweeps idle limiter counters every five minutes.
const LimiterPruneCron = "*/5 * * * *"

// Pruner drops expired in-memory counters.
type Pruner interface {
	Prune() int
}

// RegisterLimiterPruneJob sweeps p on the given cron schedule.
func (s *Service) RegisterLimiterPruneJob(p Pruner, cronExpr string) error {
	if p == nil {
		return fmt.Errorf("limiter prune job requires a pruner")
	}
	return s.AddJob(LimiterPruneJob, cronExpr, func() {
		if removed := p.Prune(); removed > 0 {
			log.Debug().Str("job_name", LimiterPruneJob).Int("removed", removed).Msg("Pruned idle rate limit counters")
		}
	}, gocron.WithSingletonMode(gocron.LimitModeReschedule))
}
