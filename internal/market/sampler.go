package market

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// QuoteFetcher retrieves the latest price and previous close for a symbol.
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, symbol string) (Quote, error)
}

// IndexFetcher retrieves realtime index levels by venue code.
type IndexFetcher interface {
	FetchIndex(ctx context.Context, code string) (Quote, error)
}

// VenueClock exposes the market-hours predicates the sampler gates on.
type VenueClock interface {
	USMarketOpen() bool
	KRMarketOpen() bool
	Weekend() bool
}

// Sampler fetches price samples across the tracked universe, routing each
// symbol to its most authoritative provider.
type Sampler struct {
	yahoo   QuoteFetcher
	binance QuoteFetcher
	naver   IndexFetcher
	clock   VenueClock
	logger  zerolog.Logger

	now func() time.Time
}

// NewSampler wires the quote providers into a sampler.
func NewSampler(yahoo, binance QuoteFetcher, naver IndexFetcher, clock VenueClock, logger zerolog.Logger) *Sampler {
	return &Sampler{
		yahoo:   yahoo,
		binance: binance,
		naver:   naver,
		clock:   clock,
		logger:  logger.With().Str("component", "sampler").Logger(),
		now:     time.Now,
	}
}

// Sample fetches the given listings best-effort: a provider failure for one
// symbol is logged and skipped, the rest of the batch still returns.
func (s *Sampler) Sample(ctx context.Context, listings []Listing, category Category) []PriceSample {
	samples := make([]PriceSample, 0, len(listings))

	for _, l := range listings {
		quote, err := s.fetch(ctx, l.Symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", l.Symbol).Msg("quote fetch failed; skipping symbol")
			continue
		}
		samples = append(samples, NewPriceSample(l.Symbol, l.Name, quote, category, s.now().UTC()))
	}

	return samples
}

// CheckAll samples every category eligible under current market hours: KOSPI
// only during the KRX session, US indices/stocks/ETFs only during the US
// regular session, crypto always.
func (s *Sampler) CheckAll(ctx context.Context) []PriceSample {
	krOpen := s.clock.KRMarketOpen()
	usOpen := s.clock.USMarketOpen()
	s.logger.Info().Bool("kr_open", krOpen).Bool("us_open", usOpen).Msg("sampling eligible universe")

	var all []PriceSample

	for _, idx := range Indices {
		if idx.Symbol == "^KS11" {
			if krOpen {
				all = append(all, s.Sample(ctx, []Listing{idx}, CategoryIndex)...)
			}
			continue
		}
		if usOpen {
			all = append(all, s.Sample(ctx, []Listing{idx}, CategoryIndex)...)
		}
	}

	if usOpen {
		all = append(all, s.Sample(ctx, LargeCaps, CategoryStock)...)
		all = append(all, s.Sample(ctx, LeveragedETFs, CategoryETF)...)
	}

	all = append(all, s.Sample(ctx, Crypto, CategoryCrypto)...)

	sortByMagnitude(all)
	return all
}

// CheckWeekend samples the instruments that still trade through the US
// weekend: index futures, crypto, and KOSPI when its session is open. Monday
// morning in Seoul is still Sunday in New York, so the KRX gate cannot ride
// on the weekend predicate.
func (s *Sampler) CheckWeekend(ctx context.Context) []PriceSample {
	krOpen := s.clock.KRMarketOpen()
	s.logger.Info().Bool("kr_open", krOpen).Msg("weekend mode: sampling futures, crypto, and open venues")

	var all []PriceSample
	for _, idx := range Indices {
		switch idx.Symbol {
		case "NQ=F":
			all = append(all, s.Sample(ctx, []Listing{idx}, CategoryIndex)...)
		case "^KS11":
			if krOpen {
				all = append(all, s.Sample(ctx, []Listing{idx}, CategoryIndex)...)
			}
		}
	}
	all = append(all, s.Sample(ctx, Crypto, CategoryCrypto)...)

	sortByMagnitude(all)
	return all
}

// Weekend reports whether the sampler is in weekend mode.
func (s *Sampler) Weekend() bool {
	return s.clock.Weekend()
}

// MarketSummary samples all indices, crypto, and currencies regardless of
// thresholds or market hours. It feeds the daily briefings.
func (s *Sampler) MarketSummary(ctx context.Context) []PriceSample {
	var all []PriceSample
	all = append(all, s.Sample(ctx, Indices, CategoryIndex)...)
	all = append(all, s.Sample(ctx, Crypto, CategoryCrypto)...)
	all = append(all, s.Sample(ctx, Currencies, CategoryIndex)...)
	return all
}

// fetch routes a symbol to its provider: Naver for KOSPI, Binance for BTC,
// Yahoo for everything else.
func (s *Sampler) fetch(ctx context.Context, symbol string) (Quote, error) {
	switch symbol {
	case "^KS11":
		return s.naver.FetchIndex(ctx, "KOSPI")
	case "BTC-USD":
		return s.binance.FetchQuote(ctx, "BTCUSDT")
	default:
		return s.yahoo.FetchQuote(ctx, symbol)
	}
}

func sortByMagnitude(samples []PriceSample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].ChangePercent.Abs().GreaterThan(samples[j].ChangePercent.Abs())
	})
}
