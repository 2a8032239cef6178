package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	insertTradeSQL = `INSERT INTO trade_records (
        traded_on,
        action,
        price,
        realized_pct
    ) VALUES (
        $1,$2,$3,$4
    )
    RETURNING id, traded_on, action, price, realized_pct, created_at;`

	listRecentTradesSQL = `SELECT
        id,
        traded_on,
        action,
        price,
        realized_pct,
        created_at
    FROM trade_records
    ORDER BY traded_on DESC, id DESC
    LIMIT $1;`

	lastTradeSQL = `SELECT
        id,
        traded_on,
        action,
        price,
        realized_pct,
        created_at
    FROM trade_records
    ORDER BY traded_on DESC, id DESC
    LIMIT 1;`
)

// TradeStore defines operations on the append-only trade journal.
type TradeStore interface {
	AppendTrade(ctx context.Context, trade TradeRecord) (TradeRecord, error)
	ListRecentTrades(ctx context.Context, limit int) ([]TradeRecord, error)
	// LastTrade returns the most recent journal entry, pgx.ErrNoRows when
	// the journal is empty.
	LastTrade(ctx context.Context) (TradeRecord, error)
}

// Store provides Postgres-backed trade journal persistence.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// AppendTrade persists a new journal entry and returns the stored record.
func (s *Store) AppendTrade(ctx context.Context, trade TradeRecord) (TradeRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return TradeRecord{}, err
	}

	var realized interface{}
	if trade.RealizedPct != nil {
		realized = trade.RealizedPct.String()
	}

	row := pool.QueryRow(ctx, insertTradeSQL,
		trade.TradedOn,
		string(trade.Action),
		trade.Price.String(),
		realized,
	)

	rec, err := scanTrade(row)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("insert trade: %w", err)
	}
	return rec, nil
}

// ListRecentTrades lists the most recent journal entries, newest first.
func (s *Store) ListRecentTrades(ctx context.Context, limit int) ([]TradeRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentTradesSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent trades: %w", queryErr)
	}
	defer rows.Close()

	trades := make([]TradeRecord, 0, limit)
	for rows.Next() {
		rec, scanErr := scanTrade(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		trades = append(trades, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return trades, nil
}

// LastTrade returns the most recent journal entry.
func (s *Store) LastTrade(ctx context.Context) (TradeRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return TradeRecord{}, err
	}

	rec, scanErr := scanTrade(pool.QueryRow(ctx, lastTradeSQL))
	if scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return TradeRecord{}, pgx.ErrNoRows
		}
		return TradeRecord{}, fmt.Errorf("last trade: %w", scanErr)
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (TradeRecord, error) {
	var (
		rec       TradeRecord
		action    string
		priceStr  string
		realized  sql.NullString
		createdAt time.Time
	)

	if err := row.Scan(
		&rec.ID,
		&rec.TradedOn,
		&action,
		&priceStr,
		&realized,
		&createdAt,
	); err != nil {
		return TradeRecord{}, err
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("parse trade price: %w", err)
	}

	rec.Action = TradeAction(action)
	rec.Price = price
	rec.CreatedAt = createdAt

	if realized.Valid {
		pct, convErr := decimal.NewFromString(realized.String)
		if convErr != nil {
			return TradeRecord{}, fmt.Errorf("parse realized pct: %w", convErr)
		}
		rec.RealizedPct = &pct
	}

	return rec, nil
}

var _ TradeStore = (*Store)(nil)
