package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// FileStore persists cache entries as one JSON file per key so results
// survive across process runs. Corrupted or unreadable files are treated
// as misses and removed. Writes are best-effort: a full disk never fails
// an aggregation pass.
type FileStore struct {
	dir    string
	logger zerolog.Logger
}

type fileEntry struct {
	StoredAt  time.Time       `json:"stored_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	Result    json.RawMessage `json:"result"`
}

// NewFileStore creates the cache directory if needed.
func NewFileStore(dir string, logger zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Get reads and validates the entry for key, evicting it when expired.
func (s *FileStore) Get(_ context.Context, key string) (snapshot.RawResult, bool) {
	path := s.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return snapshot.RawResult{}, false
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.evict(path)
		return snapshot.RawResult{}, false
	}

	now := time.Now()
	if now.After(entry.ExpiresAt) {
		s.evict(path)
		return snapshot.RawResult{}, false
	}

	res, err := decodeResult(entry.Result)
	if err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		s.evict(path)
		return snapshot.RawResult{}, false
	}

	res.FromCache = true
	res.Age = now.Sub(entry.StoredAt)
	return res, true
}

// Put writes the entry atomically via a temp file rename.
func (s *FileStore) Put(_ context.Context, key string, res snapshot.RawResult, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	raw, err := encodeResult(res)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to encode cache entry")
		return
	}

	now := time.Now()
	data, err := json.Marshal(fileEntry{
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
		Result:    raw,
	})
	if err != nil {
		return
	}

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to write cache entry")
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to publish cache entry")
		_ = os.Remove(tmp)
	}
}

func (s *FileStore) path(key string) string {
	// Keys contain ':' and '/'-ish characters; keep filenames portable.
	safe := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(key)
	return filepath.Join(s.dir, safe+".json")
}

func (s *FileStore) evict(path string) {
	_ = os.Remove(path)
}
