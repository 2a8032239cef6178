package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestRunRequiresJobs(t *testing.T) {
	s := New(noopLogger())
	if err := s.Run(context.Background()); err == nil {
		t.Fatal("empty scheduler should refuse to run")
	}
}

func TestRunFiresIntervalJob(t *testing.T) {
	s := New(noopLogger())

	var count int32
	s.Every("tick", 10*time.Millisecond, func(context.Context) error {
		atomic.AddInt32(&count, 1)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("run should return the context error, got %v", err)
	}
	if atomic.LoadInt32(&count) < 2 {
		t.Fatalf("job should fire repeatedly, fired %d times", count)
	}
}

func TestRunKeepsFailingJobScheduled(t *testing.T) {
	s := New(noopLogger())

	var count int32
	s.Every("flaky", 10*time.Millisecond, func(context.Context) error {
		atomic.AddInt32(&count, 1)
		return errors.New("boom")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_ = s.Run(ctx)
	if atomic.LoadInt32(&count) < 2 {
		t.Fatalf("a failing job should stay scheduled, fired %d times", count)
	}
}

func TestNextRunAlignsToInterval(t *testing.T) {
	s := New(noopLogger())
	j := &job{interval: 5 * time.Minute}

	now := time.Date(2026, 3, 3, 10, 2, 17, 0, time.UTC)
	next := s.nextRun(j, now)

	want := time.Date(2026, 3, 3, 10, 5, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("want aligned tick %s, got %s", want, next)
	}
}

func TestNextRunDailySameDay(t *testing.T) {
	s := New(noopLogger())
	j := &job{hour: 18, minute: 0, loc: time.UTC}

	now := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	next := s.nextRun(j, now)

	want := time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("want today 18:00, got %s", next)
	}
}

func TestNextRunDailyRollsOver(t *testing.T) {
	s := New(noopLogger())
	j := &job{hour: 8, minute: 0, loc: time.UTC}

	now := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	next := s.nextRun(j, now)

	want := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("a due time that already passed should roll to tomorrow, got %s", next)
	}
}

func TestDailyAtRejectsBadTime(t *testing.T) {
	s := New(noopLogger())
	if err := s.DailyAt("bad", "25:99", time.UTC, func(context.Context) error { return nil }); err == nil {
		t.Fatal("invalid hh:mm should be rejected")
	}
}
