// Package scheduler drives the recurring and calendar jobs from a single
// timer loop. Jobs run one at a time (cooperative, no self-overlap); a job
// failure is logged and leaves the job scheduled, the next tick being the
// natural retry.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// JobFunc is invoked at every due time of its job.
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	interval time.Duration
	hour     int
	minute   int
	loc      *time.Location
	fn       JobFunc
	next     time.Time
}

// Scheduler runs registered jobs at their due times.
type Scheduler struct {
	jobs   []*job
	logger zerolog.Logger

	now func() time.Time
}

// New constructs an empty scheduler.
func New(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		logger: logger.With().Str("component", "scheduler").Logger(),
		now:    time.Now,
	}
}

// Every registers a fixed-interval job with ticks aligned to the interval.
func (s *Scheduler) Every(name string, interval time.Duration, fn JobFunc) {
	if interval <= 0 {
		panic("scheduler interval must be positive")
	}
	s.jobs = append(s.jobs, &job{name: name, interval: interval, fn: fn})
}

// DailyAt registers a calendar job firing once per day at hh:mm in loc.
func (s *Scheduler) DailyAt(name, hhmm string, loc *time.Location, fn JobFunc) error {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return fmt.Errorf("parse daily time %q: %w", hhmm, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	s.jobs = append(s.jobs, &job{name: name, hour: t.Hour(), minute: t.Minute(), loc: loc, fn: fn})
	return nil
}

// Run blocks, firing jobs at their due times until ctx is cancelled. In-flight
// work finishes before the loop observes cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.jobs) == 0 {
		return fmt.Errorf("no jobs registered")
	}

	for _, j := range s.jobs {
		j.next = s.nextRun(j, s.now())
		s.logger.Info().Str("job", j.name).Time("next", j.next).Msg("job registered")
	}

	for {
		due := s.earliest()
		delay := time.Until(due.next)
		if delay < 0 {
			delay = 0
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		s.logger.Debug().Str("job", due.name).Msg("executing job")
		if err := due.fn(ctx); err != nil {
			s.logger.Error().Err(err).Str("job", due.name).Msg("job failed")
		}

		due.next = s.nextRun(due, s.now())
	}
}

func (s *Scheduler) earliest() *job {
	next := s.jobs[0]
	for _, j := range s.jobs[1:] {
		if j.next.Before(next.next) {
			next = j
		}
	}
	return next
}

func (s *Scheduler) nextRun(j *job, now time.Time) time.Time {
	if j.interval > 0 {
		aligned := now.Truncate(j.interval)
		if !aligned.After(now) {
			aligned = aligned.Add(j.interval)
		}
		return aligned
	}

	local := now.In(j.loc)
	candidate := time.Date(local.Year(), local.Month(), local.Day(), j.hour, j.minute, 0, 0, j.loc)
	if !candidate.After(local) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}
