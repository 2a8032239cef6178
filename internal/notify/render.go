package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stock-move-alerts/internal/crossover"
	"stock-move-alerts/internal/market"
	"stock-move-alerts/internal/storage"
)

// RenderMoveAlerts formats a price-move digest grouped by category.
func RenderMoveAlerts(samples []market.PriceSample, at time.Time) string {
	if len(samples) == 0 {
		return ""
	}

	var indices, stocks, etfs []market.PriceSample
	for _, s := range samples {
		switch s.Category {
		case market.CategoryIndex, market.CategoryCrypto:
			indices = append(indices, s)
		case market.CategoryStock:
			stocks = append(stocks, s)
		default:
			etfs = append(etfs, s)
		}
	}

	b := strings.Builder{}
	b.WriteString("<b>Price Move Alert</b>\n")
	b.WriteString(at.Format("2006-01-02 15:04") + "\n\n")

	writeGroup(&b, "Indices / Crypto", indices)
	writeGroup(&b, "Large Caps", stocks)
	writeGroup(&b, "3x Leveraged ETFs", etfs)

	return strings.TrimRight(b.String(), "\n")
}

func writeGroup(b *strings.Builder, title string, samples []market.PriceSample) {
	if len(samples) == 0 {
		return
	}
	fmt.Fprintf(b, "<b>%s</b>\n", title)
	for _, s := range samples {
		fmt.Fprintf(b, "%s %s (%s)\n", arrow(s.ChangePercent), s.Name, s.Symbol)
		fmt.Fprintf(b, "   $%s (%s%%)\n", s.Current.StringFixed(2), signed(s.ChangePercent))
	}
	b.WriteString("\n")
}

// RenderMarketSummary formats the daily briefing body from a full market
// snapshot.
func RenderMarketSummary(samples []market.PriceSample, at time.Time) string {
	if len(samples) == 0 {
		return ""
	}

	b := strings.Builder{}
	b.WriteString("<b>Market Summary</b>\n")
	b.WriteString(at.Format("2006-01-02 15:04") + "\n\n")

	for _, s := range samples {
		fmt.Fprintf(&b, "%s %s: %s (%s%%)\n",
			arrow(s.ChangePercent), s.Name, s.Current.StringFixed(2), signed(s.ChangePercent))
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderCrossover formats the hard ENTER/EXIT crossover notification.
func RenderCrossover(event crossover.Event, status crossover.Status, period int) string {
	b := strings.Builder{}

	switch event {
	case crossover.EventEnter:
		fmt.Fprintf(&b, "<b>Crossover: price moved above the %d-day average</b>\n\n", period)
	case crossover.EventExit:
		fmt.Fprintf(&b, "<b>Crossover: price dropped below the %d-day average</b>\n\n", period)
	default:
		return ""
	}

	writeTrackerLine(&b, status)
	return strings.TrimRight(b.String(), "\n")
}

// RenderProximity formats the softer pre-crossover warning for a signed
// proximity level.
func RenderProximity(level int, status crossover.Status) string {
	if level == 0 {
		return ""
	}

	b := strings.Builder{}
	side := "above"
	if level < 0 {
		side = "below"
	}
	band := level
	if band < 0 {
		band = -band
	}

	fmt.Fprintf(&b, "<b>Approaching the average: within %d%% %s</b>\n\n", band, side)
	writeTrackerLine(&b, status)

	if status.Position == crossover.PositionFlat && level > 0 {
		b.WriteString("\nA close above the average signals entry.")
	}
	if status.Position == crossover.PositionLong && level < 0 {
		b.WriteString("\nA close below the average signals exit.")
	}

	return b.String()
}

// RenderTrackerStatus formats the full tracker report: current state, entry
// point with unrealized return when long, and the recent trade journal.
func RenderTrackerStatus(symbol string, status crossover.Status, entry *crossover.EntryPoint, unrealized *decimal.Decimal, trades []storage.TradeRecord) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "<b>%s Trend Tracker</b>\n", symbol)
	b.WriteString(status.At.Format("2006-01-02") + "\n\n")

	writeTrackerLine(&b, status)

	if status.Position == crossover.PositionLong {
		b.WriteString("\nPosition: LONG\n")
		if entry != nil {
			fmt.Fprintf(&b, "Entered: %s at $%s\n", entry.At.Format("2006-01-02"), entry.Price.StringFixed(2))
		}
		if unrealized != nil {
			fmt.Fprintf(&b, "Unrealized: %s%%\n", signed(*unrealized))
		}
	} else {
		b.WriteString("\nPosition: FLAT\n")
	}

	if len(trades) > 0 {
		b.WriteString("\n<b>Recent trades</b>\n")
		for _, tr := range trades {
			line := fmt.Sprintf("%s %s @ $%s", tr.TradedOn.Format("2006-01-02"), tr.Action, tr.Price.StringFixed(2))
			if tr.RealizedPct != nil {
				line += fmt.Sprintf(" (%s%%)", signed(*tr.RealizedPct))
			}
			b.WriteString(line + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeTrackerLine(b *strings.Builder, status crossover.Status) {
	fmt.Fprintf(b, "Price: $%s\n", status.Price.StringFixed(2))
	fmt.Fprintf(b, "SMA: $%s\n", status.SMA.StringFixed(2))
	fmt.Fprintf(b, "Distance: %s%%\n", signed(status.DiffPercent))
}

func arrow(pct decimal.Decimal) string {
	if pct.Sign() >= 0 {
		return "▲"
	}
	return "▼"
}

func signed(pct decimal.Decimal) string {
	s := pct.StringFixed(2)
	if pct.Sign() > 0 {
		return "+" + s
	}
	return s
}
