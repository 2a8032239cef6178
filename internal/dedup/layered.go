package dedup

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LayeredStore fronts a remote store with the local fallback. The remote is
// the source of truth for suppression decisions; every write also lands in
// the local store so a crash of the remote mid-run degrades gracefully
// instead of losing all suppression state. Remote read errors fall back to
// the local answer.
type LayeredStore struct {
	remote Store
	local  Store
	logger zerolog.Logger
}

// NewLayeredStore combines a remote store with the local fallback.
func NewLayeredStore(remote, local Store, logger zerolog.Logger) *LayeredStore {
	return &LayeredStore{
		remote: remote,
		local:  local,
		logger: logger.With().Str("component", "dedup_layered").Logger(),
	}
}

// Exists consults the remote store first and falls back to the local shadow
// when the remote is unreachable.
func (l *LayeredStore) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := l.remote.Exists(ctx, key)
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("remote exists failed; using local fallback")
		return l.local.Exists(ctx, key)
	}
	return exists, nil
}

// SetWithTTL writes to both stores. A remote failure is logged but does not
// abort: an occasional duplicate alert is cheaper than a lost one.
func (l *LayeredStore) SetWithTTL(ctx context.Context, key string, ttl time.Duration) error {
	if err := l.remote.SetWithTTL(ctx, key, ttl); err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("remote set failed")
	}
	return l.local.SetWithTTL(ctx, key, ttl)
}

// GetValue consults the remote store first, local on error.
func (l *LayeredStore) GetValue(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := l.remote.GetValue(ctx, key)
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("remote get failed; using local fallback")
		return l.local.GetValue(ctx, key)
	}
	return value, ok, nil
}

// SetValueWithTTL writes to both stores, remote failures logged only.
func (l *LayeredStore) SetValueWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := l.remote.SetValueWithTTL(ctx, key, value, ttl); err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("remote set failed")
	}
	return l.local.SetValueWithTTL(ctx, key, value, ttl)
}

var _ Store = (*LayeredStore)(nil)
