// Package crossover tracks a single instrument against a long simple moving
// average: which side the price sits on, how close it is to crossing, and the
// crossover events between consecutive closes.
package crossover

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"stock-move-alerts/internal/market"
	"stock-move-alerts/internal/storage"
)

// ErrInsufficientHistory signals that fewer closes exist than the averaging
// window needs. Status-dependent operations report this instead of guessing.
var ErrInsufficientHistory = errors.New("crossover: insufficient price history")

// Position is which side of the moving average the instrument sits on.
type Position string

const (
	PositionLong Position = "LONG"
	PositionFlat Position = "FLAT"
)

// Event is a crossover between two consecutive closes.
type Event string

const (
	EventEnter Event = "ENTER"
	EventExit  Event = "EXIT"
	EventNone  Event = "NONE"
)

var dec100 = decimal.NewFromInt(100)

// proximityBands are the softer pre-crossover warning thresholds, largest
// first.
var proximityBands = []int{7, 5, 3}

// HistoryProvider supplies the instrument's daily close history and its
// latest price.
type HistoryProvider interface {
	FetchDailyCloses(ctx context.Context, symbol, rng string) ([]market.Close, decimal.Decimal, error)
}

// Options parameterise the tracker.
type Options struct {
	Symbol       string
	Period       int
	HistoryRange string
}

// Tracker maintains the crossover state machine for one instrument.
type Tracker struct {
	opts    Options
	history HistoryProvider
	trades  storage.TradeStore
	logger  zerolog.Logger

	now func() time.Time
}

// NewTracker constructs a tracker. The trade store may be a memory store when
// no database is configured.
func NewTracker(opts Options, history HistoryProvider, trades storage.TradeStore, logger zerolog.Logger) *Tracker {
	if opts.Period <= 0 {
		opts.Period = 193
	}
	if opts.HistoryRange == "" {
		opts.HistoryRange = "3y"
	}

	return &Tracker{
		opts:    opts,
		history: history,
		trades:  trades,
		logger:  logger.With().Str("component", "crossover_tracker").Str("symbol", opts.Symbol).Logger(),
		now:     time.Now,
	}
}

// Symbol returns the tracked instrument.
func (t *Tracker) Symbol() string {
	return t.opts.Symbol
}

// Period returns the averaging window length.
func (t *Tracker) Period() int {
	return t.opts.Period
}

// Status is the current state of the instrument relative to its average.
type Status struct {
	At          time.Time
	Price       decimal.Decimal
	SMA         decimal.Decimal
	Position    Position
	DiffPercent decimal.Decimal
}

// CurrentStatus computes the instrument's position against the moving
// average. It fails closed with ErrInsufficientHistory when fewer than the
// averaging window of closes exist.
func (t *Tracker) CurrentStatus(ctx context.Context) (Status, error) {
	closes, current, err := t.fetchHistory(ctx)
	if err != nil {
		return Status{}, err
	}

	prices := closePrices(closes)
	sma, ok := SMA(prices, t.opts.Period)
	if !ok {
		return Status{}, fmt.Errorf("%w: have %d closes, need %d", ErrInsufficientHistory, len(prices), t.opts.Period)
	}

	if current.IsZero() {
		current = prices[len(prices)-1]
	}

	position := PositionFlat
	if current.GreaterThan(sma) {
		position = PositionLong
	}

	return Status{
		At:          t.now().UTC(),
		Price:       current,
		SMA:         sma,
		Position:    position,
		DiffPercent: current.Sub(sma).Div(sma).Mul(dec100),
	}, nil
}

// DetectCrossover compares the two most recent closes against their moving
// averages. The boundary close == sma counts as the flat side: ENTER requires
// a strict move above, EXIT triggers on <=.
func (t *Tracker) DetectCrossover(ctx context.Context) (Event, error) {
	closes, _, err := t.fetchHistory(ctx)
	if err != nil {
		return EventNone, err
	}

	prices := closePrices(closes)
	if len(prices) < t.opts.Period+1 {
		return EventNone, fmt.Errorf("%w: have %d closes, need %d", ErrInsufficientHistory, len(prices), t.opts.Period+1)
	}

	series := SMASeries(prices, t.opts.Period)

	last := len(prices) - 1
	currClose, prevClose := prices[last], prices[last-1]
	currSMA, prevSMA := series[last], series[last-1]
	if currSMA == nil || prevSMA == nil {
		return EventNone, ErrInsufficientHistory
	}

	prevAbove := prevClose.GreaterThan(*prevSMA)
	currAbove := currClose.GreaterThan(*currSMA)

	switch {
	case !prevAbove && currAbove:
		return EventEnter, nil
	case prevAbove && !currAbove:
		return EventExit, nil
	default:
		return EventNone, nil
	}
}

// ProximityLevel maps a percentage distance from the average onto the warning
// bands: the largest of {7,5,3} not exceeding |diff|, signed by side. Zero
// means the price is not within any band (|diff| below 3% is quiet, beyond 7%
// caps at ±7).
func ProximityLevel(diffPercent decimal.Decimal) int {
	abs := diffPercent.Abs()
	for _, band := range proximityBands {
		if abs.GreaterThanOrEqual(decimal.NewFromInt(int64(band))) {
			if diffPercent.Sign() < 0 {
				return -band
			}
			return band
		}
	}
	return 0
}

// RecordTrade appends an ENTER or EXIT to the journal. On EXIT the realized
// return is computed against the most recent prior ENTER; an EXIT with no
// prior ENTER is recorded without a realized return and logged as an anomaly.
func (t *Tracker) RecordTrade(ctx context.Context, action storage.TradeAction, price decimal.Decimal) (storage.TradeRecord, error) {
	record := storage.TradeRecord{
		TradedOn: t.now().UTC(),
		Action:   action,
		Price:    price,
	}

	if action == storage.ActionExit {
		entry, err := t.lastEnter(ctx)
		switch {
		case err != nil:
			return storage.TradeRecord{}, err
		case entry == nil:
			t.logger.Warn().Str("price", price.String()).Msg("exit recorded with no prior enter")
		default:
			realized := price.Sub(entry.Price).Div(entry.Price).Mul(dec100)
			record.RealizedPct = &realized
		}
	}

	stored, err := t.trades.AppendTrade(ctx, record)
	if err != nil {
		return storage.TradeRecord{}, fmt.Errorf("append trade: %w", err)
	}

	t.logger.Info().Str("action", string(action)).Str("price", price.String()).Msg("trade recorded")
	return stored, nil
}

// RecentTrades lists the latest journal entries, newest first.
func (t *Tracker) RecentTrades(ctx context.Context, limit int) ([]storage.TradeRecord, error) {
	return t.trades.ListRecentTrades(ctx, limit)
}

// UnrealizedReturn computes the return of the open position against the most
// recent ENTER, or ok=false when the journal shows no open position.
func (t *Tracker) UnrealizedReturn(ctx context.Context, current decimal.Decimal) (decimal.Decimal, bool, error) {
	last, err := t.trades.LastTrade(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Decimal{}, false, nil
	}
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	if last.Action != storage.ActionEnter {
		return decimal.Decimal{}, false, nil
	}
	return current.Sub(last.Price).Div(last.Price).Mul(dec100), true, nil
}

// EntryPoint is the most recent flat-to-long transition.
type EntryPoint struct {
	At    time.Time
	Price decimal.Decimal
}

// FindEntryPoint walks the history backward from the end to locate the most
// recent FLAT to LONG transition, reporting since when the current position
// has been open. When the whole computable history is LONG, the first close
// at which the average becomes computable counts as the entry. Returns
// ok=false when the instrument is currently flat.
func (t *Tracker) FindEntryPoint(ctx context.Context) (EntryPoint, bool, error) {
	closes, current, err := t.fetchHistory(ctx)
	if err != nil {
		return EntryPoint{}, false, err
	}

	prices := closePrices(closes)
	if len(prices) < t.opts.Period+1 {
		return EntryPoint{}, false, fmt.Errorf("%w: have %d closes, need %d", ErrInsufficientHistory, len(prices), t.opts.Period+1)
	}

	series := SMASeries(prices, t.opts.Period)

	lastSMA := series[len(series)-1]
	if current.IsZero() {
		current = prices[len(prices)-1]
	}
	if lastSMA == nil || !current.GreaterThan(*lastSMA) {
		return EntryPoint{}, false, nil
	}

	entryIdx := t.opts.Period - 1
	for i := len(prices) - 1; i > t.opts.Period-1; i-- {
		prevSMA, currSMA := series[i-1], series[i]
		if prevSMA == nil || currSMA == nil {
			continue
		}
		if !prices[i-1].GreaterThan(*prevSMA) && prices[i].GreaterThan(*currSMA) {
			entryIdx = i
			break
		}
	}

	return EntryPoint{At: closes[entryIdx].At, Price: prices[entryIdx]}, true, nil
}

func (t *Tracker) fetchHistory(ctx context.Context) ([]market.Close, decimal.Decimal, error) {
	closes, current, err := t.history.FetchDailyCloses(ctx, t.opts.Symbol, t.opts.HistoryRange)
	if err != nil {
		return nil, decimal.Decimal{}, fmt.Errorf("fetch close history: %w", err)
	}
	return closes, current, nil
}

// lastEnter finds the most recent ENTER in the journal, nil when none exists.
func (t *Tracker) lastEnter(ctx context.Context) (*storage.TradeRecord, error) {
	const page = 50

	trades, err := t.trades.ListRecentTrades(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	for i := range trades {
		if trades[i].Action == storage.ActionEnter {
			return &trades[i], nil
		}
	}
	return nil, nil
}

func closePrices(closes []market.Close) []decimal.Decimal {
	prices := make([]decimal.Decimal, len(closes))
	for i, c := range closes {
		prices[i] = c.Price
	}
	return prices
}
