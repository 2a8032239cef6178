// Package service wires sampling, classification, de-duplication, and
// dispatch into the scheduled alert pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"stock-move-alerts/internal/crossover"
	"stock-move-alerts/internal/dedup"
	"stock-move-alerts/internal/levels"
	"stock-move-alerts/internal/market"
	"stock-move-alerts/internal/notify"
	"stock-move-alerts/internal/storage"
)

// Sampler is the slice of the market sampler the engine needs.
type Sampler interface {
	CheckAll(ctx context.Context) []market.PriceSample
	CheckWeekend(ctx context.Context) []market.PriceSample
	Weekend() bool
}

// Options tune the alert pipeline.
type Options struct {
	// Cooldown is the dedup window: how long a (symbol, level) pair stays
	// suppressed after alerting.
	Cooldown time.Duration
	// MinInterval is the global minimum spacing between any two dispatched
	// alert messages, independent of which symbols triggered them.
	MinInterval time.Duration
}

// Engine runs the end-to-end alert pipeline.
type Engine struct {
	opts     Options
	sampler  Sampler
	store    dedup.Store
	notifier notify.Notifier
	tracker  *crossover.Tracker
	logger   zerolog.Logger

	now func() time.Time
}

// New constructs the alert engine. The tracker may be nil when crossover
// tracking is disabled.
func New(opts Options, sampler Sampler, store dedup.Store, notifier notify.Notifier, tracker *crossover.Tracker, logger zerolog.Logger) *Engine {
	if opts.Cooldown <= 0 {
		opts.Cooldown = 24 * time.Hour
	}

	return &Engine{
		opts:     opts,
		sampler:  sampler,
		store:    store,
		notifier: notifier,
		tracker:  tracker,
		logger:   logger.With().Str("component", "alert_engine").Logger(),
		now:      time.Now,
	}
}

type candidate struct {
	sample market.PriceSample
	level  int
	key    string
}

// CheckPriceMoves runs one tick of the price-move pipeline: sample the
// eligible universe, classify levels, drop already-alerted pairs, apply the
// global cooldown gate, then record and dispatch.
func (e *Engine) CheckPriceMoves(ctx context.Context) error {
	var samples []market.PriceSample
	if e.sampler.Weekend() {
		samples = e.sampler.CheckWeekend(ctx)
	} else {
		samples = e.sampler.CheckAll(ctx)
	}

	candidates := e.classify(ctx, samples)
	if len(candidates) == 0 {
		e.logger.Info().Msg("no new alert levels crossed")
		return nil
	}

	now := e.now().UTC()
	if withheld, remaining := e.cooldownGate(ctx, now); withheld {
		e.logger.Info().Dur("remaining", remaining).Int("withheld", len(candidates)).
			Msg("batch withheld by global cooldown")
		return nil
	}

	// Double-check protocol: re-check and write each record immediately
	// before dispatch so two overlapping runs cannot both pass the first
	// filter. The record stays even if the send fails; a suppressed repeat
	// is cheaper than a re-alert storm.
	dispatched := make([]market.PriceSample, 0, len(candidates))
	for _, c := range candidates {
		exists, err := e.store.Exists(ctx, c.key)
		if err != nil {
			e.logger.Error().Err(err).Str("key", c.key).Msg("dedup re-check failed; proceeding")
		}
		if exists {
			e.logger.Info().Str("key", c.key).Msg("suppressed by concurrent run")
			continue
		}
		if err := e.store.SetWithTTL(ctx, c.key, e.opts.Cooldown); err != nil {
			e.logger.Error().Err(err).Str("key", c.key).Msg("dedup record write failed")
		}
		e.logger.Info().Str("symbol", c.sample.Symbol).Int("level", c.level).Msg("alert level recorded")
		dispatched = append(dispatched, c.sample)
	}

	if len(dispatched) == 0 {
		return nil
	}

	message := notify.RenderMoveAlerts(dispatched, now)
	if err := e.notifier.Notify(ctx, message); err != nil {
		return fmt.Errorf("dispatch price-move alert: %w", err)
	}

	if err := e.store.SetValueWithTTL(ctx, dedup.LastDispatchKey, now.Format(time.RFC3339), e.opts.Cooldown); err != nil {
		e.logger.Error().Err(err).Msg("last-dispatch timestamp write failed")
	}

	e.logger.Info().Int("alerts", len(dispatched)).Msg("price-move alert dispatched")
	return nil
}

// classify assigns levels, drops level zero, and filters pairs that already
// alerted inside the cooldown window.
func (e *Engine) classify(ctx context.Context, samples []market.PriceSample) []candidate {
	candidates := make([]candidate, 0, len(samples))

	for _, s := range samples {
		level := levels.Level(s.ChangePercent, s.Category)
		if level == 0 {
			continue
		}

		key := dedup.AlertKey(s.Symbol, level)
		exists, err := e.store.Exists(ctx, key)
		if err != nil {
			e.logger.Error().Err(err).Str("key", key).Msg("dedup check failed; treating as new")
		}
		if exists {
			e.logger.Debug().Str("symbol", s.Symbol).Int("level", level).Msg("already alerted in window")
			continue
		}

		candidates = append(candidates, candidate{sample: s, level: level, key: key})
	}

	return candidates
}

// cooldownGate reports whether the whole batch must be withheld because the
// last successful dispatch is younger than the minimum spacing.
func (e *Engine) cooldownGate(ctx context.Context, now time.Time) (bool, time.Duration) {
	if e.opts.MinInterval <= 0 {
		return false, 0
	}

	value, ok, err := e.store.GetValue(ctx, dedup.LastDispatchKey)
	if err != nil {
		e.logger.Error().Err(err).Msg("last-dispatch read failed; gate open")
		return false, 0
	}
	if !ok {
		return false, 0
	}

	last, err := time.Parse(time.RFC3339, value)
	if err != nil {
		e.logger.Error().Err(err).Str("value", value).Msg("last-dispatch timestamp malformed; gate open")
		return false, 0
	}

	elapsed := now.Sub(last)
	if elapsed < e.opts.MinInterval {
		return true, e.opts.MinInterval - elapsed
	}
	return false, 0
}

// CheckCrossover runs one tick of the trend state machine: detect a crossover
// between the two latest closes, journal the trade, and notify. Insufficient
// history is indeterminate, not an error.
func (e *Engine) CheckCrossover(ctx context.Context) error {
	if e.tracker == nil {
		return nil
	}

	event, err := e.tracker.DetectCrossover(ctx)
	if errors.Is(err, crossover.ErrInsufficientHistory) {
		e.logger.Info().Err(err).Msg("crossover indeterminate")
		return nil
	}
	if err != nil {
		return fmt.Errorf("detect crossover: %w", err)
	}
	if event == crossover.EventNone {
		return nil
	}

	now := e.now().UTC()
	key := dedup.CrossoverKey(e.tracker.Symbol(), string(event), now)
	exists, err := e.store.Exists(ctx, key)
	if err != nil {
		e.logger.Error().Err(err).Str("key", key).Msg("crossover dedup check failed; proceeding")
	}
	if exists {
		return nil
	}

	status, err := e.tracker.CurrentStatus(ctx)
	if err != nil {
		return fmt.Errorf("crossover status: %w", err)
	}

	if err := e.store.SetWithTTL(ctx, key, e.opts.Cooldown); err != nil {
		e.logger.Error().Err(err).Str("key", key).Msg("crossover record write failed")
	}

	action := storage.ActionEnter
	if event == crossover.EventExit {
		action = storage.ActionExit
	}
	if _, err := e.tracker.RecordTrade(ctx, action, status.Price); err != nil {
		e.logger.Error().Err(err).Msg("trade journal write failed")
	}

	message := notify.RenderCrossover(event, status, e.tracker.Period())
	if err := e.notifier.Notify(ctx, message); err != nil {
		return fmt.Errorf("dispatch crossover alert: %w", err)
	}

	e.logger.Info().Str("event", string(event)).Msg("crossover alert dispatched")
	return nil
}

// CheckProximity emits the softer "getting close" warning when the price sits
// inside one of the proximity bands around the average.
func (e *Engine) CheckProximity(ctx context.Context) error {
	if e.tracker == nil {
		return nil
	}

	status, err := e.tracker.CurrentStatus(ctx)
	if errors.Is(err, crossover.ErrInsufficientHistory) {
		e.logger.Info().Err(err).Msg("proximity indeterminate")
		return nil
	}
	if err != nil {
		return fmt.Errorf("proximity status: %w", err)
	}

	level := crossover.ProximityLevel(status.DiffPercent)
	if level == 0 {
		return nil
	}

	key := dedup.ProximityKey(e.tracker.Symbol(), level)
	exists, err := e.store.Exists(ctx, key)
	if err != nil {
		e.logger.Error().Err(err).Str("key", key).Msg("proximity dedup check failed; proceeding")
	}
	if exists {
		return nil
	}

	if err := e.store.SetWithTTL(ctx, key, e.opts.Cooldown); err != nil {
		e.logger.Error().Err(err).Str("key", key).Msg("proximity record write failed")
	}

	message := notify.RenderProximity(level, status)
	if err := e.notifier.Notify(ctx, message); err != nil {
		return fmt.Errorf("dispatch proximity alert: %w", err)
	}

	e.logger.Info().Int("level", level).Msg("proximity alert dispatched")
	return nil
}
