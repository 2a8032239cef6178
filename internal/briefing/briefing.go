// Package briefing composes the calendar-scheduled market summaries. A
// briefing fires at most once per calendar day: the marker lives in the dedup
// store with a TTL, so the guarantee holds across restarts and overlapping
// schedule triggers.
package briefing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"stock-move-alerts/internal/crossover"
	"stock-move-alerts/internal/dedup"
	"stock-move-alerts/internal/market"
	"stock-move-alerts/internal/notify"
)

// SummarySource provides the full market snapshot.
type SummarySource interface {
	MarketSummary(ctx context.Context) []market.PriceSample
}

// Briefing kinds. The kind keys the once-per-day marker, so morning and
// evening briefings de-duplicate independently.
const (
	KindMorning = "morning"
	KindEvening = "evening"
)

// Options tune briefing behaviour.
type Options struct {
	MarkerTTL time.Duration
}

// Briefer assembles and dispatches daily market summaries.
type Briefer struct {
	opts     Options
	source   SummarySource
	tracker  *crossover.Tracker
	store    dedup.Store
	notifier notify.Notifier
	logger   zerolog.Logger

	now func() time.Time
}

// NewBriefer constructs a briefer. The tracker is optional; when present its
// status is appended to the summary.
func NewBriefer(opts Options, source SummarySource, tracker *crossover.Tracker, store dedup.Store, notifier notify.Notifier, logger zerolog.Logger) *Briefer {
	if opts.MarkerTTL <= 0 {
		opts.MarkerTTL = 12 * time.Hour
	}

	return &Briefer{
		opts:     opts,
		source:   source,
		tracker:  tracker,
		store:    store,
		notifier: notifier,
		logger:   logger.With().Str("component", "briefing").Logger(),
		now:      time.Now,
	}
}

// Send dispatches the briefing of the given kind unless it already ran today.
func (b *Briefer) Send(ctx context.Context, kind string) error {
	now := b.now()
	marker := dedup.BriefingKey(kind, now)

	done, err := b.store.Exists(ctx, marker)
	if err != nil {
		b.logger.Error().Err(err).Str("kind", kind).Msg("marker check failed; proceeding")
	}
	if done {
		b.logger.Info().Str("kind", kind).Msg("briefing already sent today")
		return nil
	}

	samples := b.source.MarketSummary(ctx)
	if len(samples) == 0 {
		return fmt.Errorf("briefing %s: no market data available", kind)
	}

	message := notify.RenderMarketSummary(samples, now)

	if b.tracker != nil {
		if section := b.trackerSection(ctx); section != "" {
			message += "\n\n" + section
		}
	}

	// Marker goes in before dispatch: a duplicate send is worse than a
	// missed one here, since the job reruns on the next trigger anyway.
	if err := b.store.SetWithTTL(ctx, marker, b.opts.MarkerTTL); err != nil {
		b.logger.Error().Err(err).Str("kind", kind).Msg("marker write failed")
	}

	if err := b.notifier.Notify(ctx, message); err != nil {
		return fmt.Errorf("dispatch briefing %s: %w", kind, err)
	}

	b.logger.Info().Str("kind", kind).Int("symbols", len(samples)).Msg("briefing sent")
	return nil
}

func (b *Briefer) trackerSection(ctx context.Context) string {
	status, err := b.tracker.CurrentStatus(ctx)
	if err != nil {
		b.logger.Warn().Err(err).Msg("tracker status unavailable for briefing")
		return ""
	}

	var entry *crossover.EntryPoint
	var unrealized *decimal.Decimal

	if status.Position == crossover.PositionLong {
		if ep, ok, err := b.tracker.FindEntryPoint(ctx); err == nil && ok {
			entry = &ep
		}
		if pct, ok, err := b.tracker.UnrealizedReturn(ctx, status.Price); err == nil && ok {
			unrealized = &pct
		}
	}

	trades, err := b.tracker.RecentTrades(ctx, 5)
	if err != nil {
		trades = nil
	}

	return notify.RenderTrackerStatus(b.tracker.Symbol(), status, entry, unrealized, trades)
}
