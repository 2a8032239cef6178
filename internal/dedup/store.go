// Package dedup provides the TTL-based key/value store that remembers which
// alerts were already dispatched. Its atomic TTL-set operations are the sole
// synchronization primitive shared between scheduler jobs.
package dedup

import (
	"context"
	"fmt"
	"time"
)

// Store is a key/value abstraction with per-key expiry. TTL expiry is the
// only removal mechanism, which bounds store growth.
type Store interface {
	// Exists reports whether a live (unexpired) record exists for the key.
	Exists(ctx context.Context, key string) (bool, error)
	// SetWithTTL writes an opaque marker that expires after ttl.
	SetWithTTL(ctx context.Context, key string, ttl time.Duration) error
	// GetValue returns the value stored at key, or ok=false when absent.
	GetValue(ctx context.Context, key string) (value string, ok bool, err error)
	// SetValueWithTTL writes a value that expires after ttl.
	SetValueWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
}

// AlertKey identifies one (symbol, level) alert. A new, higher level for the
// same symbol is a different key and is therefore not suppressed.
func AlertKey(symbol string, level int) string {
	return fmt.Sprintf("alert:%s:%d", symbol, level)
}

// BriefingKey scopes a briefing kind to a calendar date so a daily job fires
// at most once regardless of restarts or overlapping triggers.
func BriefingKey(kind string, day time.Time) string {
	return fmt.Sprintf("briefing:%s:%s", kind, day.Format("2006-01-02"))
}

// CrossoverKey scopes a crossover action to a calendar date.
func CrossoverKey(symbol, action string, day time.Time) string {
	return fmt.Sprintf("cross:%s:%s:%s", symbol, action, day.Format("2006-01-02"))
}

// ProximityKey identifies one (symbol, signed proximity level) warning.
func ProximityKey(symbol string, level int) string {
	return fmt.Sprintf("prox:%s:%d", symbol, level)
}

// LastDispatchKey holds the timestamp of the most recent successful alert
// dispatch, used to enforce the global minimum spacing between messages.
const LastDispatchKey = "alert:last_dispatch"
