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

// NaverOptions parameterise the Naver index client.
type NaverOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Naver fetches realtime KOSPI data from the Naver mobile finance API, which
// updates intraday while the Yahoo daily bar lags the Korean session.
type Naver struct {
	opts    NaverOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewNaver constructs a Naver finance client.
func NewNaver(opts NaverOptions, logger zerolog.Logger) *Naver {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://m.stock.naver.com"
	}

	return &Naver{
		opts:    opts,
		logger:  logger.With().Str("component", "naver_client").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// FetchIndex returns the latest and previous-close level of a Naver index
// code such as KOSPI. The API reports the close and the delta against the
// previous close as comma-grouped strings.
func (n *Naver) FetchIndex(ctx context.Context, code string) (Quote, error) {
	endpoint := fmt.Sprintf("%s/api/index/%s/basic", n.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(n.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Quote{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("naver index api (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var basic struct {
		ClosePrice                  string `json:"closePrice"`
		CompareToPreviousClosePrice string `json:"compareToPreviousClosePrice"`
	}
	if err := json.Unmarshal(body, &basic); err != nil {
		return Quote{}, fmt.Errorf("decode index response: %w", err)
	}

	current, err := parseGroupedNumber(basic.ClosePrice)
	if err != nil {
		return Quote{}, fmt.Errorf("parse close price: %w", err)
	}
	delta, err := parseGroupedNumber(basic.CompareToPreviousClosePrice)
	if err != nil {
		return Quote{}, fmt.Errorf("parse close delta: %w", err)
	}

	previous := current.Sub(delta)
	if current.IsZero() || previous.IsZero() {
		return Quote{}, fmt.Errorf("%s: incomplete index data", code)
	}

	return Quote{Current: current, PreviousClose: previous}, nil
}

func parseGroupedNumber(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}
