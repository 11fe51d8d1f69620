// Package scheduler runs the service's cron maintenance jobs.
package scheduler

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrStopped       = errors.New("scheduler stopped")
	ErrEmptyJobName  = errors.New("job name is required")
	ErrEmptyCronExpr = errors.New("cron expression is required")
	ErrDuplicateJob  = errors.New("job already registered")
	ErrUnknownJob    = errors.New("job not registered")
)

// Service owns a gocron scheduler and the jobs registered on it by name.
type Service struct {
	scheduler gocron.Scheduler

	mu      sync.Mutex
	jobs    map[string]gocron.Job
	stopped bool
}

// New creates a stopped scheduler. Jobs may be added before or after Start.
func New() (*Service, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					log.Error().
						Str("job_id", jobID.String()).
						Str("job_name", jobName).
						Interface("panic", recoverData).
						Msg("Scheduler job panicked")
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Service{scheduler: sched, jobs: make(map[string]gocron.Job)}, nil
}

// Start begins running registered jobs on their schedules.
func (s *Service) Start() {
	log.Info().Strs("jobs", s.Jobs()).Msg("Scheduler starting")
	s.scheduler.Start()
}

// Stop shuts the scheduler down. Further calls return the first result.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true
	log.Info().Msg("Scheduler stopping")
	return s.scheduler.Shutdown()
}

// Jobs lists registered job names in order.
func (s *Service) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RunNow triggers the named job outside its schedule.
func (s *Service) RunNow(name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return ErrStopped
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return job.RunNow()
}

// AddJob registers task under name on a five-field cron schedule.
func (s *Service) AddJob(name, cronExpr string, task func(), opts ...gocron.JobOption) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyJobName
	}
	if strings.TrimSpace(cronExpr) == "" {
		return ErrEmptyCronExpr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	jobLogger := log.With().Str("job_name", name).Str("cron", cronExpr).Logger()
	wrappedTask := func() {
		start := time.Now()
		jobLogger.Debug().Msg("Scheduler job started")
		task()
		jobLogger.Debug().Dur("duration", time.Since(start)).Msg("Scheduler job completed")
	}

	job, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(wrappedTask),
		append([]gocron.JobOption{gocron.WithName(name)}, opts...)...,
	)
	if err != nil {
		jobLogger.Error().Err(err).Msg("Failed to register scheduler job")
		return fmt.Errorf("register job %s: %w", name, err)
	}
	s.jobs[name] = job
	jobLogger.Info().Msg("Scheduler job registered")
	return nil
}
