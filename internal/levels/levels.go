// Package levels converts continuous percentage changes into the discrete
// severity buckets that drive alert de-duplication.
package levels

import (
	"github.com/shopspring/decimal"

	"stock-move-alerts/internal/market"
)

var dec5 = decimal.NewFromInt(5)

// Level maps a signed change percentage onto a non-negative severity level.
//
// Indices and crypto bucket at 1% granularity: 1.0..1.999 -> 1, 2.0..2.999 ->
// 2, and so on. All other categories bucket at 5% granularity: 5.0..9.999 ->
// 5, 10.0..14.999 -> 10. The lower boundary is inclusive (floor, not round),
// and anything below the first step maps to level 0, which never alerts.
func Level(changePercent decimal.Decimal, category market.Category) int {
	abs := changePercent.Abs()

	switch category {
	case market.CategoryIndex, market.CategoryCrypto:
		return int(abs.Floor().IntPart())
	default:
		return int(abs.Div(dec5).Floor().IntPart()) * 5
	}
}
