package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const binanceTickerPath = "/api/v3/ticker/24hr"

// BinanceOptions parameterise the Binance ticker client.
type BinanceOptions struct {
	BaseURL string
	Timeout time.Duration
}

// Binance fetches realtime crypto quotes from the Binance 24hr ticker API.
// It is the preferred previous-close source for BTC: the exchange reports the
// rolling previous close directly instead of a daily bar that may lag.
type Binance struct {
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewBinance constructs a Binance ticker client.
func NewBinance(opts BinanceOptions, logger zerolog.Logger) *Binance {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.binance.com"
	}

	return &Binance{
		logger:  logger.With().Str("component", "binance_client").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// FetchQuote returns the latest and previous-close price of a trading pair
// such as BTCUSDT.
func (b *Binance) FetchQuote(ctx context.Context, pair string) (Quote, error) {
	endpoint := fmt.Sprintf("%s%s?symbol=%s", b.baseURL, binanceTickerPath, pair)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Quote{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("binance ticker api (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var ticker struct {
		LastPrice      string `json:"lastPrice"`
		PrevClosePrice string `json:"prevClosePrice"`
	}
	if err := json.Unmarshal(body, &ticker); err != nil {
		return Quote{}, fmt.Errorf("decode ticker response: %w", err)
	}

	last, err := decimal.NewFromString(ticker.LastPrice)
	if err != nil {
		return Quote{}, fmt.Errorf("parse last price: %w", err)
	}
	prev, err := decimal.NewFromString(ticker.PrevClosePrice)
	if err != nil {
		return Quote{}, fmt.Errorf("parse previous close: %w", err)
	}

	if last.IsZero() || prev.IsZero() {
		return Quote{}, fmt.Errorf("%s: incomplete ticker data", pair)
	}

	return Quote{Current: last, PreviousClose: prev}, nil
}
