package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"
)

// ============================================================================
// CACHE — memoized Execute keyed by an input fingerprint
// ============================================================================
// Key = sha256(msgpack(records, timeframe, now, periods, days, filters)).
// Concurrent misses for one key share a single computation. Stored
// dashboards are never mutated; callers must treat them as read-only.
//
// The key includes the exact now, so caching only pays off when the caller
// pins it with WithNow.
// ============================================================================

// Cache memoizes dashboards. The zero value is not usable; call NewCache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Dashboard
	group   singleflight.Group

	computed atomic.Int64
}

// NewCache creates an empty dashboard cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Dashboard)}
}

type fingerprint struct {
	Records   []SalesRecord `msgpack:"records"`
	Timeframe Timeframe     `msgpack:"timeframe"`
	Now       time.Time     `msgpack:"now"`
	Periods   int           `msgpack:"periods"`
	Days      int           `msgpack:"days"`
	Filters   Filters       `msgpack:"filters"`
}

// Key returns the cache key for an Execute call.
func Key(records []SalesRecord, tf Timeframe, opts ...Option) (string, error) {
	return keyFor(records, tf.OrDefault(), applyOptions(opts))
}

func keyFor(records []SalesRecord, tf Timeframe, cfg *config) (string, error) {
	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)

	h := sha256.New()
	enc.Reset(h)
	enc.SetSortMapKeys(true)
	err := enc.Encode(fingerprint{
		Records:   records,
		Timeframe: tf,
		Now:       cfg.Now.UTC(),
		Periods:   cfg.ForecastPeriods,
		Days:      cfg.RealizationDays,
		Filters:   cfg.Filters,
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Execute returns the cached dashboard for the inputs, computing it at most
// once per key. When the inputs cannot be fingerprinted the dashboard is
// computed without caching.
func (c *Cache) Execute(records []SalesRecord, tf Timeframe, opts ...Option) *Dashboard {
	cfg := applyOptions(opts)
	tf = tf.OrDefault()

	key, err := keyFor(records, tf, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard fingerprint failed, computing uncached")
		return executeView(ApplyFilters(SalesView(records), cfg.Filters), tf, cfg)
	}

	if d, ok := c.get(key); ok {
		return d
	}

	v, _, shared := c.group.Do(key, func() (interface{}, error) {
		if d, ok := c.get(key); ok {
			return d, nil
		}
		d := executeView(ApplyFilters(SalesView(records), cfg.Filters), tf, cfg)
		c.computed.Add(1)
		c.mu.Lock()
		c.entries[key] = d
		c.mu.Unlock()
		return d, nil
	})
	if shared {
		log.Debug().Str("key", key[:12]).Msg("dashboard computation shared")
	}
	return v.(*Dashboard)
}

func (c *Cache) get(key string) (*Dashboard, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[key]
	return d, ok
}

// Len returns the number of cached dashboards.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Computations returns how many dashboards the cache has computed.
func (c *Cache) Computations() int64 {
	return c.computed.Load()
}

// Purge drops every cached dashboard.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]*Dashboard)
	c.mu.Unlock()
}
