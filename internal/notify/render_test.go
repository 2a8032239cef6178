package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stock-move-alerts/internal/crossover"
	"stock-move-alerts/internal/market"
	"stock-move-alerts/internal/storage"
)

func sample(symbol, name string, pct float64, cat market.Category) market.PriceSample {
	return market.PriceSample{
		Symbol:        symbol,
		Name:          name,
		Current:       decimal.NewFromInt(100),
		ChangePercent: decimal.NewFromFloat(pct),
		Category:      cat,
	}
}

func TestRenderMoveAlertsGroups(t *testing.T) {
	at := time.Date(2026, 3, 3, 14, 30, 0, 0, time.UTC)
	msg := RenderMoveAlerts([]market.PriceSample{
		sample("^GSPC", "S&P 500", -1.2, market.CategoryIndex),
		sample("NVDA", "NVIDIA", 6.1, market.CategoryStock),
		sample("TQQQ", "ProShares UltraPro QQQ", -10.5, market.CategoryETF),
	}, at)

	for _, want := range []string{"Indices / Crypto", "Large Caps", "3x Leveraged ETFs", "S&P 500", "NVIDIA", "(+6.10%)", "(-10.50%)"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("digest should contain %q:\n%s", want, msg)
		}
	}
}

func TestRenderMoveAlertsEmpty(t *testing.T) {
	if RenderMoveAlerts(nil, time.Now()) != "" {
		t.Fatal("no samples should render nothing")
	}
}

func TestRenderMoveAlertsOmitsEmptyGroups(t *testing.T) {
	msg := RenderMoveAlerts([]market.PriceSample{
		sample("BTC-USD", "Bitcoin", 4.2, market.CategoryCrypto),
	}, time.Now())

	if strings.Contains(msg, "Large Caps") || strings.Contains(msg, "Leveraged") {
		t.Fatalf("empty groups should be omitted:\n%s", msg)
	}
}

func TestRenderCrossover(t *testing.T) {
	status := crossover.Status{
		Price:       decimal.NewFromInt(50),
		SMA:         decimal.NewFromInt(48),
		Position:    crossover.PositionLong,
		DiffPercent: decimal.RequireFromString("4.17"),
	}

	msg := RenderCrossover(crossover.EventEnter, status, 193)
	if !strings.Contains(msg, "above the 193-day average") {
		t.Fatalf("enter message should name the window:\n%s", msg)
	}
	if !strings.Contains(msg, "$50.00") || !strings.Contains(msg, "$48.00") {
		t.Fatalf("message should carry price and average:\n%s", msg)
	}

	if RenderCrossover(crossover.EventNone, status, 193) != "" {
		t.Fatal("NONE should render nothing")
	}
}

func TestRenderProximityBelow(t *testing.T) {
	status := crossover.Status{
		Price:       decimal.NewFromInt(46),
		SMA:         decimal.NewFromInt(48),
		Position:    crossover.PositionLong,
		DiffPercent: decimal.RequireFromString("-4.2"),
	}

	msg := RenderProximity(-3, status)
	if !strings.Contains(msg, "within 3% below") {
		t.Fatalf("proximity message should name band and side:\n%s", msg)
	}
	if !strings.Contains(msg, "signals exit") {
		t.Fatalf("long position near a downward cross should hint at exit:\n%s", msg)
	}
}

func TestRenderTrackerStatus(t *testing.T) {
	realized := decimal.RequireFromString("12.5")
	unrealized := decimal.RequireFromString("8.3")
	entry := &crossover.EntryPoint{
		At:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Price: decimal.NewFromInt(42),
	}
	status := crossover.Status{
		At:          time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		Price:       decimal.NewFromInt(50),
		SMA:         decimal.NewFromInt(48),
		Position:    crossover.PositionLong,
		DiffPercent: decimal.RequireFromString("4.17"),
	}
	trades := []storage.TradeRecord{
		{TradedOn: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), Action: storage.ActionExit, Price: decimal.NewFromInt(45), RealizedPct: &realized},
	}

	msg := RenderTrackerStatus("TQQQ", status, entry, &unrealized, trades)
	for _, want := range []string{"TQQQ Trend Tracker", "Position: LONG", "Entered: 2026-01-15 at $42.00", "Unrealized: +8.30%", "EXIT @ $45.00 (+12.50%)"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("report should contain %q:\n%s", want, msg)
		}
	}
}
