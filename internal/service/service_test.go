package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"stock-move-alerts/internal/crossover"
	"stock-move-alerts/internal/dedup"
	"stock-move-alerts/internal/market"
	"stock-move-alerts/internal/storage"
)

type fakeSampler struct {
	weekend        bool
	samples        []market.PriceSample
	weekendSamples []market.PriceSample
}

func (f *fakeSampler) CheckAll(context.Context) []market.PriceSample {
	return f.samples
}

func (f *fakeSampler) CheckWeekend(context.Context) []market.PriceSample {
	return f.weekendSamples
}

func (f *fakeSampler) Weekend() bool { return f.weekend }

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, text)
	return nil
}

type fakeHistory struct {
	closes  []market.Close
	current decimal.Decimal
}

func (f *fakeHistory) FetchDailyCloses(context.Context, string, string) ([]market.Close, decimal.Decimal, error) {
	return f.closes, f.current, nil
}

func closesFrom(prices ...float64) []market.Close {
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	out := make([]market.Close, len(prices))
	for i, p := range prices {
		out[i] = market.Close{At: base.AddDate(0, 0, i), Price: decimal.NewFromFloat(p)}
	}
	return out
}

func moveSample(symbol string, pct float64, cat market.Category) market.PriceSample {
	return market.PriceSample{
		Symbol:        symbol,
		Name:          symbol,
		Current:       decimal.NewFromInt(100),
		ChangePercent: decimal.NewFromFloat(pct),
		Category:      cat,
	}
}

func newTestEngine(sampler Sampler, notifier *fakeNotifier, tracker *crossover.Tracker) (*Engine, dedup.Store) {
	store := dedup.NewLocalStore("", zerolog.Nop())
	e := New(Options{Cooldown: 24 * time.Hour, MinInterval: 30 * time.Minute}, sampler, store, notifier, tracker, zerolog.Nop())
	return e, store
}

func newTestTracker(closes []market.Close) *crossover.Tracker {
	return crossover.NewTracker(
		crossover.Options{Symbol: "TQQQ", Period: 3, HistoryRange: "3y"},
		&fakeHistory{closes: closes},
		storage.NewMemoryTradeStore(),
		zerolog.Nop(),
	)
}

func TestCheckPriceMovesDispatchesAndRecords(t *testing.T) {
	sampler := &fakeSampler{samples: []market.PriceSample{
		moveSample("^GSPC", -1.4, market.CategoryIndex),
		moveSample("NVDA", 6.2, market.CategoryStock),
	}}
	notifier := &fakeNotifier{}
	e, store := newTestEngine(sampler, notifier, nil)
	ctx := context.Background()

	if err := e.CheckPriceMoves(ctx); err != nil {
		t.Fatalf("check should succeed: %v", err)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("want one digest, got %d", len(notifier.messages))
	}

	for _, key := range []string{dedup.AlertKey("^GSPC", 1), dedup.AlertKey("NVDA", 5)} {
		if exists, _ := store.Exists(ctx, key); !exists {
			t.Fatalf("dedup record %s should be written", key)
		}
	}
	if _, ok, _ := store.GetValue(ctx, dedup.LastDispatchKey); !ok {
		t.Fatal("last-dispatch timestamp should be recorded")
	}
}

func TestCheckPriceMovesDropsLevelZero(t *testing.T) {
	sampler := &fakeSampler{samples: []market.PriceSample{
		moveSample("^GSPC", 0.8, market.CategoryIndex),
		moveSample("AAPL", 4.9, market.CategoryStock),
	}}
	notifier := &fakeNotifier{}
	e, _ := newTestEngine(sampler, notifier, nil)

	if err := e.CheckPriceMoves(context.Background()); err != nil {
		t.Fatalf("check should succeed: %v", err)
	}
	if len(notifier.messages) != 0 {
		t.Fatal("sub-threshold moves should not dispatch")
	}
}

func TestCheckPriceMovesSuppressesRepeats(t *testing.T) {
	sampler := &fakeSampler{samples: []market.PriceSample{
		moveSample("NVDA", 6.2, market.CategoryStock),
	}}
	notifier := &fakeNotifier{}
	e, _ := newTestEngine(sampler, notifier, nil)
	e.opts.MinInterval = 0
	ctx := context.Background()

	if err := e.CheckPriceMoves(ctx); err != nil {
		t.Fatalf("first check should succeed: %v", err)
	}
	if err := e.CheckPriceMoves(ctx); err != nil {
		t.Fatalf("second check should succeed: %v", err)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("same level should dispatch once, got %d messages", len(notifier.messages))
	}
}

func TestCheckPriceMovesNewLevelEscapesSuppression(t *testing.T) {
	sampler := &fakeSampler{samples: []market.PriceSample{
		moveSample("NVDA", 6.2, market.CategoryStock),
	}}
	notifier := &fakeNotifier{}
	e, _ := newTestEngine(sampler, notifier, nil)
	e.opts.MinInterval = 0
	ctx := context.Background()

	if err := e.CheckPriceMoves(ctx); err != nil {
		t.Fatalf("first check should succeed: %v", err)
	}

	// The move deepens past the next 5% step: a different key, not suppressed.
	sampler.samples = []market.PriceSample{moveSample("NVDA", 11.0, market.CategoryStock)}
	if err := e.CheckPriceMoves(ctx); err != nil {
		t.Fatalf("second check should succeed: %v", err)
	}
	if len(notifier.messages) != 2 {
		t.Fatalf("a new level should alert again, got %d messages", len(notifier.messages))
	}
}

func TestCheckPriceMovesGlobalCooldownWithholdsBatch(t *testing.T) {
	sampler := &fakeSampler{samples: []market.PriceSample{
		moveSample("NVDA", 6.2, market.CategoryStock),
	}}
	notifier := &fakeNotifier{}
	e, store := newTestEngine(sampler, notifier, nil)
	ctx := context.Background()

	base := time.Date(2026, 3, 3, 15, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }

	if err := e.CheckPriceMoves(ctx); err != nil {
		t.Fatalf("first check should succeed: %v", err)
	}

	// A brand-new level ten minutes later is withheld by the global spacing.
	sampler.samples = []market.PriceSample{moveSample("TSLA", 8.3, market.CategoryStock)}
	e.now = func() time.Time { return base.Add(10 * time.Minute) }
	if err := e.CheckPriceMoves(ctx); err != nil {
		t.Fatalf("second check should succeed: %v", err)
	}
	if len(notifier.messages) != 1 {
		t.Fatal("batch inside the spacing window should be withheld")
	}

	// Withholding writes no dedup record, so the alert fires once spacing
	// allows.
	if exists, _ := store.Exists(ctx, dedup.AlertKey("TSLA", 5)); exists {
		t.Fatal("withheld batch should leave no dedup record")
	}

	e.now = func() time.Time { return base.Add(31 * time.Minute) }
	if err := e.CheckPriceMoves(ctx); err != nil {
		t.Fatalf("third check should succeed: %v", err)
	}
	if len(notifier.messages) != 2 {
		t.Fatalf("alert should dispatch after the spacing window, got %d messages", len(notifier.messages))
	}
}

func TestCheckPriceMovesUsesWeekendUniverse(t *testing.T) {
	sampler := &fakeSampler{
		weekend:        true,
		samples:        []market.PriceSample{moveSample("NVDA", 6.2, market.CategoryStock)},
		weekendSamples: []market.PriceSample{moveSample("BTC-USD", 4.5, market.CategoryCrypto)},
	}
	notifier := &fakeNotifier{}
	e, store := newTestEngine(sampler, notifier, nil)
	ctx := context.Background()

	if err := e.CheckPriceMoves(ctx); err != nil {
		t.Fatalf("check should succeed: %v", err)
	}
	if exists, _ := store.Exists(ctx, dedup.AlertKey("BTC-USD", 4)); !exists {
		t.Fatal("weekend check should sample the weekend universe")
	}
	if exists, _ := store.Exists(ctx, dedup.AlertKey("NVDA", 5)); exists {
		t.Fatal("weekday universe should not be sampled on weekends")
	}
}

func TestCheckPriceMovesNotifyFailure(t *testing.T) {
	sampler := &fakeSampler{samples: []market.PriceSample{
		moveSample("NVDA", 6.2, market.CategoryStock),
	}}
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	e, store := newTestEngine(sampler, notifier, nil)
	ctx := context.Background()

	if err := e.CheckPriceMoves(ctx); err == nil {
		t.Fatal("dispatch failure should surface")
	}
	if _, ok, _ := store.GetValue(ctx, dedup.LastDispatchKey); ok {
		t.Fatal("failed dispatch should not advance the last-dispatch timestamp")
	}
}

func TestCheckCrossoverDispatchesOncePerDay(t *testing.T) {
	tracker := newTestTracker(closesFrom(10, 10, 10, 9, 12))
	notifier := &fakeNotifier{}
	e, _ := newTestEngine(&fakeSampler{}, notifier, tracker)
	ctx := context.Background()

	if err := e.CheckCrossover(ctx); err != nil {
		t.Fatalf("first check should succeed: %v", err)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("crossover should dispatch, got %d messages", len(notifier.messages))
	}

	if err := e.CheckCrossover(ctx); err != nil {
		t.Fatalf("second check should succeed: %v", err)
	}
	if len(notifier.messages) != 1 {
		t.Fatal("same-day crossover should be suppressed")
	}
}

func TestCheckCrossoverRecordsTrade(t *testing.T) {
	tracker := newTestTracker(closesFrom(10, 10, 10, 9, 12))
	e, _ := newTestEngine(&fakeSampler{}, &fakeNotifier{}, tracker)
	ctx := context.Background()

	if err := e.CheckCrossover(ctx); err != nil {
		t.Fatalf("check should succeed: %v", err)
	}

	trades, err := tracker.RecentTrades(ctx, 10)
	if err != nil {
		t.Fatalf("trade listing should succeed: %v", err)
	}
	if len(trades) != 1 || trades[0].Action != storage.ActionEnter {
		t.Fatalf("an ENTER trade should be journaled, got %+v", trades)
	}
}

func TestCheckCrossoverInsufficientHistory(t *testing.T) {
	tracker := newTestTracker(closesFrom(10, 11))
	notifier := &fakeNotifier{}
	e, _ := newTestEngine(&fakeSampler{}, notifier, tracker)

	if err := e.CheckCrossover(context.Background()); err != nil {
		t.Fatalf("indeterminate state is not an error: %v", err)
	}
	if len(notifier.messages) != 0 {
		t.Fatal("nothing should dispatch on insufficient history")
	}
}

func TestCheckCrossoverNilTracker(t *testing.T) {
	e, _ := newTestEngine(&fakeSampler{}, &fakeNotifier{}, nil)
	if err := e.CheckCrossover(context.Background()); err != nil {
		t.Fatalf("disabled tracker should be a no-op: %v", err)
	}
}

func TestCheckProximityDispatchesAndSuppresses(t *testing.T) {
	// Price sits about 5.2% above the 3-day average.
	tracker := newTestTracker(closesFrom(10, 10, 10.8))
	notifier := &fakeNotifier{}
	e, _ := newTestEngine(&fakeSampler{}, notifier, tracker)
	ctx := context.Background()

	if err := e.CheckProximity(ctx); err != nil {
		t.Fatalf("first check should succeed: %v", err)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("proximity warning should dispatch, got %d messages", len(notifier.messages))
	}

	if err := e.CheckProximity(ctx); err != nil {
		t.Fatalf("second check should succeed: %v", err)
	}
	if len(notifier.messages) != 1 {
		t.Fatal("same band should be suppressed inside the cooldown")
	}
}

func TestCheckProximityQuietInsideThreshold(t *testing.T) {
	// About 1% above the average: inside the quiet zone.
	tracker := newTestTracker(closesFrom(10, 10, 10.15))
	notifier := &fakeNotifier{}
	e, _ := newTestEngine(&fakeSampler{}, notifier, tracker)

	if err := e.CheckProximity(context.Background()); err != nil {
		t.Fatalf("check should succeed: %v", err)
	}
	if len(notifier.messages) != 0 {
		t.Fatal("distance below 3% should not warn")
	}
}
