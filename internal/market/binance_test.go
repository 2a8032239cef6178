package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBinanceFetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") != "BTCUSDT" {
			t.Fatalf("symbol query missing: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"lastPrice":"97123.45000000","prevClosePrice":"95000.00000000"}`)
	}))
	defer srv.Close()

	b := NewBinance(BinanceOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	quote, err := b.FetchQuote(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("fetch should succeed: %v", err)
	}
	if !quote.Current.Equal(decimal.RequireFromString("97123.45")) {
		t.Fatalf("unexpected last price %s", quote.Current)
	}
	if !quote.PreviousClose.Equal(decimal.NewFromInt(95000)) {
		t.Fatalf("unexpected previous close %s", quote.PreviousClose)
	}
}

func TestBinanceFetchQuoteZeroPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"lastPrice":"0","prevClosePrice":"95000"}`)
	}))
	defer srv.Close()

	b := NewBinance(BinanceOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := b.FetchQuote(context.Background(), "BTCUSDT"); err == nil {
		t.Fatal("zero last price should error")
	}
}
