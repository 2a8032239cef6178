package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const yahooChartPath = "/v8/finance/chart/"

// YahooOptions parameterise the Yahoo Finance chart client.
type YahooOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Yahoo fetches quotes and daily close series from the Yahoo chart API.
type Yahoo struct {
	opts    YahooOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewYahoo constructs a Yahoo Finance client.
func NewYahoo(opts YahooOptions, logger zerolog.Logger) *Yahoo {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}

	return &Yahoo{
		opts:    opts,
		logger:  logger.With().Str("component", "yahoo_client").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Close is a single daily close observation.
type Close struct {
	At    time.Time
	Price decimal.Decimal
}

// FetchQuote returns the latest price and the most authoritative previous
// close for a symbol. The previous close comes from the second-to-last valid
// entry of the daily close series, falling back to the chart metadata when the
// series is too short.
func (y *Yahoo) FetchQuote(ctx context.Context, symbol string) (Quote, error) {
	payload, err := y.fetchChart(ctx, symbol, "5d")
	if err != nil {
		return Quote{}, err
	}

	meta := payload.Meta
	if meta.RegularMarketPrice == nil {
		return Quote{}, fmt.Errorf("%s: no regular market price in chart response", symbol)
	}
	current := decimal.NewFromFloat(*meta.RegularMarketPrice)

	closes := payload.validCloses()

	var previous decimal.Decimal
	switch {
	case len(closes) >= 2:
		previous = closes[len(closes)-2].Price
	case meta.ChartPreviousClose != nil:
		previous = decimal.NewFromFloat(*meta.ChartPreviousClose)
	case meta.PreviousClose != nil:
		previous = decimal.NewFromFloat(*meta.PreviousClose)
	default:
		return Quote{}, fmt.Errorf("%s: no previous close available", symbol)
	}

	if previous.IsZero() {
		return Quote{}, fmt.Errorf("%s: previous close is zero", symbol)
	}

	return Quote{Current: current, PreviousClose: previous}, nil
}

// FetchDailyCloses returns the valid daily close history of a symbol over the
// given range (e.g. "3y") plus the latest price. Null entries in the close
// series are dropped together with their timestamps.
func (y *Yahoo) FetchDailyCloses(ctx context.Context, symbol, rng string) ([]Close, decimal.Decimal, error) {
	payload, err := y.fetchChart(ctx, symbol, rng)
	if err != nil {
		return nil, decimal.Zero, err
	}

	closes := payload.validCloses()
	if len(closes) == 0 {
		return nil, decimal.Zero, fmt.Errorf("%s: empty close series", symbol)
	}

	current := decimal.Zero
	if payload.Meta.RegularMarketPrice != nil {
		current = decimal.NewFromFloat(*payload.Meta.RegularMarketPrice)
	}

	return closes, current, nil
}

func (y *Yahoo) fetchChart(ctx context.Context, symbol, rng string) (*chartResult, error) {
	endpoint := y.baseURL + yahooChartPath + url.PathEscape(symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("interval", "1d")
	q.Set("range", rng)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(y.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "stockwatch/1.0")
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart api (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope chartResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}

	if len(envelope.Chart.Result) == 0 {
		if envelope.Chart.Error != nil && envelope.Chart.Error.Description != "" {
			return nil, fmt.Errorf("yahoo chart api: %s", envelope.Chart.Error.Description)
		}
		return nil, errors.New("yahoo chart api: empty result")
	}

	return &envelope.Chart.Result[0], nil
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
		ChartPreviousClose *float64 `json:"chartPreviousClose"`
		PreviousClose      *float64 `json:"previousClose"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// validCloses pairs timestamps with non-null closes. The series length is not
// assumed: a missing timestamp array yields zero times.
func (c *chartResult) validCloses() []Close {
	if len(c.Indicators.Quote) == 0 {
		return nil
	}
	raw := c.Indicators.Quote[0].Close

	closes := make([]Close, 0, len(raw))
	for i, v := range raw {
		if v == nil {
			continue
		}
		var at time.Time
		if i < len(c.Timestamp) {
			at = time.Unix(c.Timestamp[i], 0).UTC()
		}
		closes = append(closes, Close{At: at, Price: decimal.NewFromFloat(*v)})
	}
	return closes
}
