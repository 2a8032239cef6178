package crossover

import "github.com/shopspring/decimal"

// SMA returns the simple moving average of the last period values, or false
// when fewer than period values exist.
func SMA(values []decimal.Decimal, period int) (decimal.Decimal, bool) {
	if period <= 0 || len(values) < period {
		return decimal.Decimal{}, false
	}
	return decimal.Avg(values[len(values)-period], values[len(values)-period+1:]...), true
}

// SMASeries computes the moving average at every index. Entries before
// period-1 are nil (undefined).
func SMASeries(values []decimal.Decimal, period int) []*decimal.Decimal {
	series := make([]*decimal.Decimal, len(values))
	if period <= 0 || len(values) < period {
		return series
	}

	window := decimal.Sum(values[0], values[1:period]...)
	periodDec := decimal.NewFromInt(int64(period))

	avg := window.Div(periodDec)
	series[period-1] = &avg

	for i := period; i < len(values); i++ {
		window = window.Add(values[i]).Sub(values[i-period])
		avg := window.Div(periodDec)
		series[i] = &avg
	}
	return series
}
