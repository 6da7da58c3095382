package cache

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// PostgresStore persists cache entries in Postgres so multiple processes
// can share one cache. Like the other backends it is best-effort: database
// errors degrade to cache misses, never to aggregation failures.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates the backing table if it does not exist.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) (*PostgresStore, error) {
	const ddl = `
		CREATE TABLE IF NOT EXISTS situation_cache (
			cache_key  TEXT PRIMARY KEY,
			entry      JSONB NOT NULL,
			stored_at  TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		)`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Get returns a fresh entry; expired rows are deleted on read.
func (s *PostgresStore) Get(ctx context.Context, key string) (snapshot.RawResult, bool) {
	var (
		data      []byte
		storedAt  time.Time
		expiresAt time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT entry, stored_at, expires_at FROM situation_cache WHERE cache_key = $1`,
		key,
	).Scan(&data, &storedAt, &expiresAt)
	if err != nil {
		return snapshot.RawResult{}, false
	}

	now := time.Now()
	if now.After(expiresAt) {
		if _, err := s.pool.Exec(ctx,
			`DELETE FROM situation_cache WHERE cache_key = $1 AND expires_at = $2`,
			key, expiresAt,
		); err != nil {
			s.logger.Debug().Err(err).Str("key", key).Msg("failed to evict expired cache row")
		}
		return snapshot.RawResult{}, false
	}

	res, err := decodeResult(data)
	if err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("dropping undecodable cache row")
		_, _ = s.pool.Exec(ctx, `DELETE FROM situation_cache WHERE cache_key = $1`, key)
		return snapshot.RawResult{}, false
	}

	res.FromCache = true
	res.Age = now.Sub(storedAt)
	return res, true
}

// Put upserts the entry; the latest write wins.
func (s *PostgresStore) Put(ctx context.Context, key string, res snapshot.RawResult, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	data, err := encodeResult(res)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to encode cache entry")
		return
	}

	now := time.Now()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO situation_cache (cache_key, entry, stored_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cache_key) DO UPDATE
		SET entry = EXCLUDED.entry,
		    stored_at = EXCLUDED.stored_at,
		    expires_at = EXCLUDED.expires_at`,
		key, data, now, now.Add(ttl),
	)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to write cache entry")
	}
}
