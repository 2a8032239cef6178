package market

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

type fakeQuotes struct {
	quotes map[string]Quote
	errs   map[string]error
	calls  []string
}

func (f *fakeQuotes) FetchQuote(_ context.Context, symbol string) (Quote, error) {
	f.calls = append(f.calls, symbol)
	if err, ok := f.errs[symbol]; ok {
		return Quote{}, err
	}
	if q, ok := f.quotes[symbol]; ok {
		return q, nil
	}
	return Quote{Current: decimal.NewFromInt(100), PreviousClose: decimal.NewFromInt(100)}, nil
}

type fakeIndex struct {
	quote Quote
	calls int
}

func (f *fakeIndex) FetchIndex(context.Context, string) (Quote, error) {
	f.calls++
	return f.quote, nil
}

type fakeClock struct {
	us, kr, weekend bool
}

func (f *fakeClock) USMarketOpen() bool { return f.us }
func (f *fakeClock) KRMarketOpen() bool { return f.kr }
func (f *fakeClock) Weekend() bool      { return f.weekend }

func quote(current, previous int64) Quote {
	return Quote{Current: decimal.NewFromInt(current), PreviousClose: decimal.NewFromInt(previous)}
}

func TestSampleSkipsFailedSymbols(t *testing.T) {
	yahoo := &fakeQuotes{
		quotes: map[string]Quote{"AAPL": quote(110, 100)},
		errs:   map[string]error{"MSFT": errors.New("rate limited")},
	}
	s := NewSampler(yahoo, &fakeQuotes{}, &fakeIndex{}, &fakeClock{}, noopLogger())

	listings := []Listing{{Symbol: "AAPL", Name: "Apple"}, {Symbol: "MSFT", Name: "Microsoft"}}
	samples := s.Sample(context.Background(), listings, CategoryStock)

	if len(samples) != 1 {
		t.Fatalf("failed symbol should be skipped, want 1 sample, got %d", len(samples))
	}
	if samples[0].Symbol != "AAPL" {
		t.Fatalf("surviving sample should be AAPL, got %s", samples[0].Symbol)
	}
	if !samples[0].ChangePercent.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("100 -> 110 should be +10%%, got %s", samples[0].ChangePercent)
	}
}

func TestCheckAllRoutesProviders(t *testing.T) {
	yahoo := &fakeQuotes{}
	binance := &fakeQuotes{quotes: map[string]Quote{"BTCUSDT": quote(97000, 95000)}}
	naver := &fakeIndex{quote: quote(2650, 2600)}

	s := NewSampler(yahoo, binance, naver, &fakeClock{us: true, kr: true}, noopLogger())
	s.Sample(context.Background(), []Listing{{Symbol: "^KS11", Name: "KOSPI"}}, CategoryIndex)
	s.Sample(context.Background(), []Listing{{Symbol: "BTC-USD", Name: "Bitcoin"}}, CategoryCrypto)

	if naver.calls != 1 {
		t.Fatal("KOSPI should route to naver")
	}
	if len(binance.calls) != 1 || binance.calls[0] != "BTCUSDT" {
		t.Fatalf("BTC-USD should route to the BTCUSDT pair, got %v", binance.calls)
	}
	if len(yahoo.calls) != 0 {
		t.Fatalf("yahoo should not be consulted, got %v", yahoo.calls)
	}
}

func TestCheckAllGatesOnMarketHours(t *testing.T) {
	yahoo := &fakeQuotes{}
	binance := &fakeQuotes{quotes: map[string]Quote{"BTCUSDT": quote(97000, 95000)}}
	naver := &fakeIndex{quote: quote(2650, 2600)}

	// Both venues closed: only crypto should be sampled.
	s := NewSampler(yahoo, binance, naver, &fakeClock{}, noopLogger())
	samples := s.CheckAll(context.Background())

	if naver.calls != 0 {
		t.Fatal("KOSPI should not be sampled while KRX is closed")
	}
	if len(yahoo.calls) != 0 {
		t.Fatalf("US symbols should not be sampled while NYSE is closed, got %d calls", len(yahoo.calls))
	}
	if len(samples) != 1 || samples[0].Category != CategoryCrypto {
		t.Fatalf("only crypto should survive, got %d samples", len(samples))
	}
}

func TestCheckWeekendUniverse(t *testing.T) {
	yahoo := &fakeQuotes{quotes: map[string]Quote{"NQ=F": quote(21000, 20000)}}
	binance := &fakeQuotes{quotes: map[string]Quote{"BTCUSDT": quote(97000, 95000)}}
	naver := &fakeIndex{quote: quote(2650, 2600)}

	s := NewSampler(yahoo, binance, naver, &fakeClock{weekend: true}, noopLogger())
	samples := s.CheckWeekend(context.Background())

	if len(samples) != 2 {
		t.Fatalf("weekend universe is futures + crypto, got %d samples", len(samples))
	}
	if len(yahoo.calls) != 1 || yahoo.calls[0] != "NQ=F" {
		t.Fatalf("only NQ=F should hit yahoo on weekends, got %v", yahoo.calls)
	}
	if naver.calls != 0 {
		t.Fatal("KOSPI should not be sampled while KRX is closed")
	}
}

func TestCheckWeekendSamplesKOSPIWhenKRXOpen(t *testing.T) {
	// Monday 09:00-14:00 Seoul is still Sunday in New York: the weekend
	// predicate holds but the KRX session is trading.
	yahoo := &fakeQuotes{quotes: map[string]Quote{"NQ=F": quote(21000, 20000)}}
	binance := &fakeQuotes{quotes: map[string]Quote{"BTCUSDT": quote(97000, 95000)}}
	naver := &fakeIndex{quote: quote(2650, 2600)}

	s := NewSampler(yahoo, binance, naver, &fakeClock{weekend: true, kr: true}, noopLogger())
	samples := s.CheckWeekend(context.Background())

	if naver.calls != 1 {
		t.Fatal("KOSPI should be sampled during its open session despite the US weekend")
	}
	if len(samples) != 3 {
		t.Fatalf("weekend universe with KRX open is futures + crypto + KOSPI, got %d samples", len(samples))
	}
}

func TestSortByMagnitude(t *testing.T) {
	samples := []PriceSample{
		{Symbol: "A", ChangePercent: decimal.NewFromFloat(1.5)},
		{Symbol: "B", ChangePercent: decimal.NewFromFloat(-8.2)},
		{Symbol: "C", ChangePercent: decimal.NewFromFloat(3.1)},
	}
	sortByMagnitude(samples)

	if samples[0].Symbol != "B" || samples[1].Symbol != "C" || samples[2].Symbol != "A" {
		t.Fatalf("samples should sort by |change| descending, got %v %v %v",
			samples[0].Symbol, samples[1].Symbol, samples[2].Symbol)
	}
}
