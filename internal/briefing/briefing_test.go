package briefing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"stock-move-alerts/internal/dedup"
	"stock-move-alerts/internal/market"
)

type fakeSource struct {
	samples []market.PriceSample
}

func (f *fakeSource) MarketSummary(context.Context) []market.PriceSample {
	return f.samples
}

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

func summarySamples() []market.PriceSample {
	return []market.PriceSample{
		{
			Symbol:        "^GSPC",
			Name:          "S&P 500",
			Current:       decimal.NewFromInt(6100),
			ChangePercent: decimal.RequireFromString("0.42"),
			Category:      market.CategoryIndex,
		},
	}
}

func TestBriefingSendsOncePerDay(t *testing.T) {
	store := dedup.NewLocalStore("", zerolog.Nop())
	notifier := &fakeNotifier{}
	b := NewBriefer(Options{MarkerTTL: 12 * time.Hour}, &fakeSource{samples: summarySamples()}, nil, store, notifier, zerolog.Nop())
	ctx := context.Background()

	if err := b.Send(ctx, KindMorning); err != nil {
		t.Fatalf("first send should succeed: %v", err)
	}
	if err := b.Send(ctx, KindMorning); err != nil {
		t.Fatalf("repeat send should be a no-op: %v", err)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("morning briefing should send once, got %d", len(notifier.messages))
	}
	if !strings.Contains(notifier.messages[0], "S&P 500") {
		t.Fatalf("briefing should carry the summary:\n%s", notifier.messages[0])
	}
}

func TestBriefingKindsIndependent(t *testing.T) {
	store := dedup.NewLocalStore("", zerolog.Nop())
	notifier := &fakeNotifier{}
	b := NewBriefer(Options{}, &fakeSource{samples: summarySamples()}, nil, store, notifier, zerolog.Nop())
	ctx := context.Background()

	if err := b.Send(ctx, KindMorning); err != nil {
		t.Fatalf("morning send should succeed: %v", err)
	}
	if err := b.Send(ctx, KindEvening); err != nil {
		t.Fatalf("evening send should succeed: %v", err)
	}
	if len(notifier.messages) != 2 {
		t.Fatalf("morning and evening should not share a marker, got %d messages", len(notifier.messages))
	}
}

func TestBriefingNoData(t *testing.T) {
	store := dedup.NewLocalStore("", zerolog.Nop())
	b := NewBriefer(Options{}, &fakeSource{}, nil, store, &fakeNotifier{}, zerolog.Nop())

	if err := b.Send(context.Background(), KindMorning); err == nil {
		t.Fatal("empty snapshot should error")
	}

	// The marker must not be written on failure so the next trigger retries.
	marker := dedup.BriefingKey(KindMorning, time.Now())
	if exists, _ := store.Exists(context.Background(), marker); exists {
		t.Fatal("failed briefing should not mark the day done")
	}
}

func TestBriefingMarkerWrittenBeforeDispatch(t *testing.T) {
	store := dedup.NewLocalStore("", zerolog.Nop())
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	b := NewBriefer(Options{}, &fakeSource{samples: summarySamples()}, nil, store, notifier, zerolog.Nop())

	if err := b.Send(context.Background(), KindEvening); err == nil {
		t.Fatal("dispatch failure should surface")
	}

	marker := dedup.BriefingKey(KindEvening, time.Now())
	if exists, _ := store.Exists(context.Background(), marker); !exists {
		t.Fatal("marker should be written before dispatch")
	}
}
