// Package cache memoizes per-entity evidence so an entity that appears in many
// transactions is screened once.
//
// Entries never go stale unless a TTL is configured: entity risk can change
// between runs, so long-lived processes should set one.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"riskscreen/internal/screening/metrics"
	pstrings "riskscreen/pkg/platform/strings"
)

// Profile distinguishes evidence gathered with different depth for the same
// name, e.g. a full entity screen versus a shareholder screen.
type Profile string

const (
	ProfileEntity      Profile = "entity"
	ProfileShareholder Profile = "shareholder"
)

// Key builds the cache key of name under profile.
func Key(profile Profile, name string) string {
	return string(profile) + ":" + pstrings.NormalizeName(name)
}

// Lookup results reported to metrics.
const (
	resultHit       = "hit"
	resultMiss      = "miss"
	resultShared    = "shared"
	resultRemoteHit = "remote_hit"
)

// Store is an optional shared tier behind the in-process map.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// EntityCache is safe for concurrent use. Concurrent lookups of one key share
// a single computation.
type EntityCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	group   singleflight.Group

	ttl            time.Duration
	computeTimeout time.Duration
	store          Store
	metrics        *metrics.Metrics
	logger         *slog.Logger
	now            func() time.Time
}

type options struct {
	ttl            time.Duration
	computeTimeout time.Duration
	store          Store
	metrics        *metrics.Metrics
	logger         *slog.Logger
	now            func() time.Time
}

// Option configures an EntityCache.
type Option func(*options)

// WithTTL bounds entry lifetime. Zero keeps entries for the cache's lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithComputeTimeout bounds a single computation regardless of its callers.
func WithComputeTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.computeTimeout = d
		}
	}
}

// WithStore adds a shared second tier.
func WithStore(s Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithMetrics records lookup results.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithLogger sets the logger for second-tier errors.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides time.Now for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an empty cache.
func New[V any](opts ...Option) *EntityCache[V] {
	o := options{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &EntityCache[V]{
		entries:        make(map[string]entry[V]),
		ttl:            o.ttl,
		computeTimeout: o.computeTimeout,
		store:          o.store,
		metrics:        o.metrics,
		logger:         o.logger,
		now:            o.now,
	}
}

// GetOrCompute returns the cached value for key, computing it with fn at most
// once per key at a time. fn runs detached from the caller's cancellation so a
// departing caller does not fail the other waiters; each caller still returns
// as soon as its own ctx is done. Only successful results are stored.
func (c *EntityCache[V]) GetOrCompute(ctx context.Context, key string, fn func(context.Context) (V, error)) (V, error) {
	if v, ok := c.get(key); ok {
		c.metrics.RecordCacheLookup(resultHit)
		return v, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		computeCtx := context.WithoutCancel(ctx)
		if c.computeTimeout > 0 {
			var cancel context.CancelFunc
			computeCtx, cancel = context.WithTimeout(computeCtx, c.computeTimeout)
			defer cancel()
		}
		return c.load(computeCtx, key, fn)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		if res.Shared {
			c.metrics.RecordCacheLookup(resultShared)
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// load runs inside the flight: second tier first, then fn.
func (c *EntityCache[V]) load(ctx context.Context, key string, fn func(context.Context) (V, error)) (V, error) {
	if v, ok := c.get(key); ok {
		return v, nil
	}

	if v, ok := c.remoteGet(ctx, key); ok {
		c.metrics.RecordCacheLookup(resultRemoteHit)
		c.put(key, v)
		return v, nil
	}

	c.metrics.RecordCacheLookup(resultMiss)
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	c.put(key, v)
	c.remoteSet(ctx, key, v)
	return v, nil
}

func (c *EntityCache[V]) get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *EntityCache[V]) put(key string, v V) {
	e := entry[V]{value: v}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// Second-tier failures degrade to the in-process tier.
func (c *EntityCache[V]) remoteGet(ctx context.Context, key string) (V, bool) {
	var v V
	if c.store == nil {
		return v, false
	}
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "entity cache store read failed", "key", key, "error", err)
		return v, false
	}
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		c.logger.WarnContext(ctx, "entity cache store value undecodable", "key", key, "error", err)
		return v, false
	}
	return v, true
}

func (c *EntityCache[V]) remoteSet(ctx context.Context, key string, v V) {
	if c.store == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.WarnContext(ctx, "entity cache value not encodable", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "entity cache store write failed", "key", key, "error", err)
	}
}

// Len returns the number of entries held in process, including expired ones
// not yet evicted.
func (c *EntityCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
