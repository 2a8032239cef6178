package storage

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
)

// MemoryTradeStore keeps the trade journal in process memory. It is the
// degraded mode used when database.dsn is not configured, and doubles as the
// test double for everything that takes a TradeStore.
type MemoryTradeStore struct {
	mu     sync.Mutex
	trades []TradeRecord
	nextID int64
}

// NewMemoryTradeStore builds an empty in-memory journal.
func NewMemoryTradeStore() *MemoryTradeStore {
	return &MemoryTradeStore{nextID: 1}
}

// AppendTrade appends a journal entry.
func (m *MemoryTradeStore) AppendTrade(_ context.Context, trade TradeRecord) (TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	trade.ID = m.nextID
	m.nextID++
	if trade.CreatedAt.IsZero() {
		trade.CreatedAt = trade.TradedOn
	}
	m.trades = append(m.trades, trade)
	return trade, nil
}

// ListRecentTrades lists the most recent entries, newest first.
func (m *MemoryTradeStore) ListRecentTrades(_ context.Context, limit int) ([]TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.trades)
	if limit > n {
		limit = n
	}
	out := make([]TradeRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.trades[i])
	}
	return out, nil
}

// LastTrade returns the most recent entry, pgx.ErrNoRows when empty.
func (m *MemoryTradeStore) LastTrade(_ context.Context) (TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.trades) == 0 {
		return TradeRecord{}, pgx.ErrNoRows
	}
	return m.trades[len(m.trades)-1], nil
}

var _ TradeStore = (*MemoryTradeStore)(nil)
