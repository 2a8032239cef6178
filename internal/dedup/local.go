package dedup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LocalStore is the process-local fallback: an in-memory map with per-entry
// expiry plus a best-effort whole-file snapshot. The snapshot is read once at
// startup and filtered to entries stamped today, which acts as an implicit
// expiry across restarts when no remote store is available.
type LocalStore struct {
	mu      sync.Mutex
	entries map[string]localEntry
	path    string
	logger  zerolog.Logger

	now func() time.Time
}

type localEntry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
	Date      string    `json:"date"`
}

// NewLocalStore builds a local store seeded from the snapshot file at path.
// An empty path disables snapshotting. Snapshot read errors are logged, not
// fatal: the store simply starts empty.
func NewLocalStore(path string, logger zerolog.Logger) *LocalStore {
	s := &LocalStore{
		entries: make(map[string]localEntry),
		path:    path,
		logger:  logger.With().Str("component", "dedup_local").Logger(),
		now:     time.Now,
	}
	s.loadSnapshot()
	return s
}

// Exists reports whether a live record exists for the key.
func (s *LocalStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	if s.now().After(entry.ExpiresAt) {
		delete(s.entries, key)
		return false, nil
	}
	return true, nil
}

// SetWithTTL writes an opaque marker with expiry.
func (s *LocalStore) SetWithTTL(ctx context.Context, key string, ttl time.Duration) error {
	return s.SetValueWithTTL(ctx, key, "1", ttl)
}

// GetValue returns the stored value, ok=false when absent or expired.
func (s *LocalStore) GetValue(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if s.now().After(entry.ExpiresAt) {
		delete(s.entries, key)
		return "", false, nil
	}
	return entry.Value, true, nil
}

// SetValueWithTTL writes a value with expiry and rewrites the snapshot.
func (s *LocalStore) SetValueWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	now := s.now()

	s.mu.Lock()
	s.entries[key] = localEntry{
		Value:     value,
		ExpiresAt: now.Add(ttl),
		Date:      now.Format("2006-01-02"),
	}
	err := s.writeSnapshot()
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("snapshot write failed")
	}
	return nil
}

func (s *LocalStore) loadSnapshot() {
	if s.path == "" {
		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error().Err(err).Str("path", s.path).Msg("snapshot read failed")
		}
		return
	}

	var stored map[string]localEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("snapshot decode failed; starting empty")
		return
	}

	now := s.now()
	today := now.Format("2006-01-02")
	kept := 0
	for key, entry := range stored {
		if entry.Date != today || now.After(entry.ExpiresAt) {
			continue
		}
		s.entries[key] = entry
		kept++
	}

	s.logger.Info().Int("loaded", kept).Int("discarded", len(stored)-kept).Msg("snapshot loaded")
}

// writeSnapshot overwrites the whole snapshot file with the current map.
// Callers hold the mutex.
func (s *LocalStore) writeSnapshot() error {
	if s.path == "" {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}

	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

var _ Store = (*LocalStore)(nil)
