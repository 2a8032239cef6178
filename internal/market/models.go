package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category buckets a symbol for threshold classification and message grouping.
type Category string

const (
	CategoryIndex  Category = "index"
	CategoryCrypto Category = "crypto"
	CategoryStock  Category = "stock"
	CategoryETF    Category = "etf"
)

var dec100 = decimal.NewFromInt(100)

// PriceSample is a single observation of a symbol. Ephemeral; recomputed on
// every poll and never persisted.
type PriceSample struct {
	Symbol        string
	Name          string
	Current       decimal.Decimal
	PreviousClose decimal.Decimal
	ChangePercent decimal.Decimal
	Category      Category
	At            time.Time
}

// Quote is the raw (current, previous close) pair returned by a provider.
type Quote struct {
	Current       decimal.Decimal
	PreviousClose decimal.Decimal
}

// ChangePercent computes (current-previous)/previous*100, returning zero when
// the previous close is zero.
func ChangePercent(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(dec100)
}

// NewPriceSample assembles a sample with its derived change percentage.
func NewPriceSample(symbol, name string, q Quote, category Category, at time.Time) PriceSample {
	return PriceSample{
		Symbol:        symbol,
		Name:          name,
		Current:       q.Current,
		PreviousClose: q.PreviousClose,
		ChangePercent: ChangePercent(q.Current, q.PreviousClose),
		Category:      category,
		At:            at,
	}
}
