package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeAction distinguishes position entries from exits.
type TradeAction string

const (
	ActionEnter TradeAction = "ENTER"
	ActionExit  TradeAction = "EXIT"
)

// TradeRecord is one append-only entry of the crossover trade journal.
// Records are immutable once written; RealizedPct is set only on EXIT and is
// computed against the most recent prior ENTER.
type TradeRecord struct {
	ID          int64
	TradedOn    time.Time
	Action      TradeAction
	Price       decimal.Decimal
	RealizedPct *decimal.Decimal
	CreatedAt   time.Time
}
