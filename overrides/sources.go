package overrides

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gilby125/aviator/pkg/cache"
)

// Source produces a Table. force asks the source to skip any freshness
// shortcut it has.
type Source interface {
	Name() string
	Load(ctx context.Context, force bool) (Table, error)
}

// HTTPSource reads the table through a Fetcher.
type HTTPSource struct {
	Fetcher *Fetcher
}

// Name implements Source.
func (s *HTTPSource) Name() string { return "http" }

// Load implements Source. A stale cache is returned along with the download
// error; a missing cache is an error with no table.
func (s *HTTPSource) Load(ctx context.Context, force bool) (Table, error) {
	var (
		path string
		err  error
	)
	if force {
		path, err = s.Fetcher.Refresh(ctx)
	} else {
		path, err = s.Fetcher.Ensure(ctx)
	}
	if path == "" {
		return nil, err
	}
	return LoadCSV(path), err
}

// FileSource reads a local CSV, as given to the CLI.
type FileSource struct {
	Path string
}

// Name implements Source.
func (s *FileSource) Name() string { return "file" }

// Load implements Source.
func (s *FileSource) Load(context.Context, bool) (Table, error) {
	return LoadCSV(s.Path), nil
}

// Querier is the part of db.PostgresDB the Postgres source needs.
type Querier interface {
	AirportOverrides(ctx context.Context) (map[string]string, error)
}

// PostgresSource reads the airport_overrides table.
type PostgresSource struct {
	DB Querier
}

// Name implements Source.
func (s *PostgresSource) Name() string { return "postgres" }

// Load implements Source.
func (s *PostgresSource) Load(ctx context.Context, _ bool) (Table, error) {
	rows, err := s.DB.AirportOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides from postgres: %w", err)
	}
	return Table(rows), nil
}

// RedisStore mirrors the current table in Redis so that replicas share one
// download per MaxAge.
type RedisStore struct {
	cache *cache.CacheManager
	ttl   time.Duration
}

// NewRedisStore creates a store whose snapshot expires after ttl.
func NewRedisStore(cm *cache.CacheManager, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: cm, ttl: ttl}
}

// Load returns the shared table. A missing snapshot is reported as
// cache.ErrCacheMiss.
func (r *RedisStore) Load(ctx context.Context) (Table, error) {
	var t Table
	if err := r.cache.GetJSON(ctx, cache.OverridesKey(), &t); err != nil {
		return nil, err
	}
	return t, nil
}

// Save publishes t.
func (r *RedisStore) Save(ctx context.Context, t Table) error {
	return r.cache.SetJSON(ctx, cache.OverridesKey(), t, r.ttl)
}

// IsMiss reports whether err means the shared table is simply absent.
func IsMiss(err error) bool {
	return errors.Is(err, cache.ErrCacheMiss)
}
