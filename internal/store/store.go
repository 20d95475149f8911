// Package store loads subjects and candidate pools from Postgres, with a Redis cache in front of
// single-record lookups and an optional Elasticsearch source for scholarships.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrSearchFailed wraps failures of the search cluster, as opposed to the profile database.
	ErrSearchFailed = errors.New("search query failed")
)

type Options struct {
	SubjectTTL  time.Duration
	PrestigeTTL time.Duration
	// PoolSize is the page size for the student pool and the row cap for unbounded scholarship loads.
	PoolSize int
}

// Store reads students, scholarships and institutions. Every call is read-only.
type Store struct {
	db     *sql.DB
	cache  *redis.Client
	opts   Options
	logger logger.Logger
}

func New(db *sql.DB, cache *redis.Client, opts Options, log logger.Logger) *Store {
	if opts.PoolSize <= 0 {
		opts.PoolSize = 500
	}
	return &Store{db: db, cache: cache, opts: opts, logger: log}
}

// cached runs cache-aside around load: a hit is decoded into dst, a miss calls load and
// stores the result for ttl. Cache failures fall through to load.
func (s *Store) cached(ctx context.Context, name, key string, ttl time.Duration, dst interface{}, load func() error) error {
	if s.cache == nil || ttl <= 0 {
		return load()
	}

	val, err := s.cache.Get(ctx, key).Result()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal([]byte(val), dst); jsonErr == nil {
			metrics.LookupCacheResults.WithLabelValues(name, "hit").Inc()
			return nil
		}
		metrics.LookupCacheResults.WithLabelValues(name, "error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.LookupCacheResults.WithLabelValues(name, "miss").Inc()
	default:
		metrics.LookupCacheResults.WithLabelValues(name, "error").Inc()
		s.logger.Debug("cache read failed", map[string]interface{}{"key": key, "error": err})
	}

	if err := load(); err != nil {
		return err
	}

	data, err := json.Marshal(dst)
	if err != nil {
		return nil
	}
	if err := s.cache.Set(ctx, key, data, ttl).Err(); err != nil {
		s.logger.Debug("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func nullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

func nullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}
