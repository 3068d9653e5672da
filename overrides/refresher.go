package overrides

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/gilby125/aviator/pkg/logger"
	"github.com/gilby125/aviator/pkg/metrics"
)

// Refresher keeps a Store up to date from a Source, on a cron schedule and on
// demand. A failed refresh leaves the last good table in place.
type Refresher struct {
	source  Source
	store   *Store
	shared  *RedisStore
	log     *logger.Logger
	metrics *metrics.Metrics
	leader  func() bool

	mu   sync.Mutex
	cron *cron.Cron
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithShared mirrors tables through Redis.
func WithShared(r *RedisStore) RefresherOption {
	return func(rf *Refresher) { rf.shared = r }
}

// WithLogger sets the logger used for refresh outcomes.
func WithLogger(l *logger.Logger) RefresherOption {
	return func(rf *Refresher) { rf.log = l }
}

// WithMetrics records refresh outcomes.
func WithMetrics(m *metrics.Metrics) RefresherOption {
	return func(rf *Refresher) { rf.metrics = m }
}

// WithLeader limits scheduled source loads to the replica for which isLeader
// returns true. The others only pick up the table the leader shares through
// Redis. Forced refreshes always go to the source.
func WithLeader(isLeader func() bool) RefresherOption {
	return func(rf *Refresher) { rf.leader = isLeader }
}

// NewRefresher creates a refresher writing into store.
func NewRefresher(source Source, store *Store, opts ...RefresherOption) *Refresher {
	r := &Refresher{source: source, store: store, log: logger.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh loads a table and installs it. Unless force is set, a table shared
// through Redis is preferred over the source. It returns the number of
// entries now in the store.
func (r *Refresher) Refresh(ctx context.Context, force bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.shared != nil && !force {
		t, err := r.shared.Load(ctx)
		if err == nil {
			r.store.Set(t)
			r.log.Debug("Overrides loaded from redis", "entries", t.Len())
			r.metrics.ObserveRefresh("redis", t.Len(), nil)
			return t.Len(), nil
		}
		if !IsMiss(err) {
			r.log.Warn("Overrides redis read failed", "error", err)
		}
		if r.leader != nil && !r.leader() {
			r.log.Debug("Overrides not shared yet, waiting for the leader")
			return r.store.Snapshot().Len(), nil
		}
	}

	t, err := r.source.Load(ctx, force)
	if t == nil && err == nil {
		t = Table{}
	}
	r.metrics.ObserveRefresh(r.source.Name(), t.Len(), err)
	if t == nil {
		r.log.Error(err, "Overrides refresh failed", "source", r.source.Name())
		return r.store.Snapshot().Len(), fmt.Errorf("refresh overrides from %s: %w", r.source.Name(), err)
	}
	if err != nil {
		r.log.Warn("Overrides refreshed from stale cache", "source", r.source.Name(), "error", err)
	}

	r.store.Set(t)
	if r.shared != nil {
		if serr := r.shared.Save(ctx, t); serr != nil {
			r.log.Warn("Overrides redis write failed", "error", serr)
		}
	}
	r.log.Info("Overrides refreshed", "source", r.source.Name(), "entries", t.Len())
	return t.Len(), err
}

// Start schedules Refresh(ctx, false) on schedule, a robfig/cron expression such
// as "@every 1h".
func (r *Refresher) Start(ctx context.Context, schedule string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return fmt.Errorf("refresher already started")
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		_, _ = r.Refresh(ctx, false)
	}); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	c.Start()
	r.cron = c
	r.log.Info("Overrides refresher started", "schedule", schedule)
	return nil
}

// Stop stops the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// Source returns the name of the configured source.
func (r *Refresher) Source() string {
	return r.source.Name()
}
