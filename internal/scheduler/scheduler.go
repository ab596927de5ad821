// Package scheduler runs "commissioner mode": every loaded dynasty gets its
// Season Cycle Controller's AdvanceDay driven on a cron schedule, alongside
// any operator's HTTP calls (SPEC_FULL.md §2).
package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// Scheduler manages scheduled advance jobs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	logger    zerolog.Logger
}

// NewScheduler creates a new scheduler with no jobs. Jobs are registered by
// AddCronJob/AddIntervalJob, not built in — cmd/seasonctl wires one job per
// loaded dynasty after loading its Season Cycle Controller.
func NewScheduler(logger zerolog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	return &Scheduler{
		scheduler: s,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.scheduler.StartAsync()
	s.logger.Info().Msg("scheduler started")
	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info().Msg("scheduler stopped")
}

// AddCronJob adds a cron-scheduled job — used for commissioner-mode
// dynasties that advance on a wall-clock cadence (e.g. "advance one day
// every weekday morning").
func (s *Scheduler) AddCronJob(name, cronExpr string, fn func()) error {
	_, err := s.scheduler.Cron(cronExpr).Tag(name).Do(fn)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Str("cron", cronExpr).Msg("failed to add cron job")
		return err
	}
	s.logger.Info().Str("name", name).Str("cron", cronExpr).Msg("cron job added")
	return nil
}

// AddIntervalJob adds an interval-based job.
func (s *Scheduler) AddIntervalJob(name string, interval time.Duration, fn func()) error {
	_, err := s.scheduler.Every(interval).Tag(name).Do(fn)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Dur("interval", interval).Msg("failed to add interval job")
		return err
	}
	s.logger.Info().Str("name", name).Dur("interval", interval).Msg("interval job added")
	return nil
}

// RemoveJob removes every job carrying tag.
func (s *Scheduler) RemoveJob(tag string) error {
	err := s.scheduler.RemoveByTag(tag)
	if err != nil {
		s.logger.Error().Err(err).Str("tag", tag).Msg("failed to remove job")
		return err
	}
	s.logger.Info().Str("tag", tag).Msg("job removed")
	return nil
}

// Jobs returns all scheduled jobs.
func (s *Scheduler) Jobs() []*gocron.Job {
	return s.scheduler.Jobs()
}

// NextRun returns the next run time for a job.
func (s *Scheduler) NextRun(tag string) (time.Time, error) {
	jobs, err := s.scheduler.FindJobsByTag(tag)
	if err != nil || len(jobs) == 0 {
		return time.Time{}, err
	}
	return jobs[0].NextRun(), nil
}
