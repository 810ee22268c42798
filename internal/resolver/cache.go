// internal/resolver/cache.go
//
// Verified in-process cache over Resolver.
//
// Context
// -------
// Hosting may fan thousands of requests per second at the same handful
// of hosts, so matched lookups are cached in a sync.Map behind a
// singleflight barrier.  Two staleness guards keep a cache entry from
// ever pointing at the wrong tenant:
//
//   - verifyTTL – a hit older than this is re-resolved instead of
//     trusted, so a stale entry degrades to a slower lookup, never to a
//     cross-tenant leak.
//   - Invalidate – the admin API drops the affected host the moment a
//     custom domain claim is added or removed.
//
// Misses are not cached; the underlying indexed lookup is cheap and a
// negative entry would delay a newly claimed domain coming online.
package resolver

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/loomsites/loom/internal/metrics"
)

// Static defaults.  Overridden via the resolver config section.
const (
	IdleTTL       = 30 * time.Minute
	VerifyTTL     = 2 * time.Minute
	MaxEntries    = 10000
	EvictInterval = 5 * time.Minute
)

type entry struct {
	res      Result
	loadedAt int64 // UnixNano, immutable after store
	lastSeen int64 // UnixNano, bumped on every hit
}

// Cache wraps a Resolver with a verified, self-evicting host cache.
type Cache struct {
	inner       HostResolver
	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	done        chan struct{}
	idleTTL     time.Duration
	verifyTTL   time.Duration
	maxEntries  int
}

// NewCache constructs a Cache and starts the background evictor.
func NewCache(inner HostResolver, idleTTL, verifyTTL time.Duration, maxEntries int) *Cache {
	c := &Cache{
		inner:      inner,
		done:       make(chan struct{}),
		idleTTL:    idleTTL,
		verifyTTL:  verifyTTL,
		maxEntries: maxEntries,
	}
	c.evictTicker = time.NewTicker(EvictInterval)
	go c.evictLoop()
	return c
}

// Resolve returns the cached Result for rawHost, re-resolving on first
// sight, staleness, or invalidation.
func (c *Cache) Resolve(ctx context.Context, rawHost string) (Result, error) {
	host := NormalizeHost(rawHost)
	if host == "" {
		return Result{}, nil
	}

	now := time.Now().UnixNano()
	if v, ok := c.m.Load(host); ok {
		ent := v.(*entry)
		if now-ent.loadedAt <= c.verifyTTL.Nanoseconds() {
			atomic.StoreInt64(&ent.lastSeen, now)
			metrics.ResolverCacheHitTotal.Inc()
			return ent.res, nil
		}
		// Stale hit: drop and fall through to a fresh lookup.  Only the
		// goroutine that wins the delete adjusts the gauge.
		if _, ok := c.m.LoadAndDelete(host); ok {
			metrics.ActiveResolverEntries.Dec()
		}
	}

	v, err, _ := c.sfg.Do(host, func() (interface{}, error) {
		// Double-check after the singleflight barrier.
		if v, ok := c.m.Load(host); ok {
			ent := v.(*entry)
			if time.Now().UnixNano()-ent.loadedAt <= c.verifyTTL.Nanoseconds() {
				return ent.res, nil
			}
		}
		res, err := c.inner.Resolve(ctx, host)
		if err != nil {
			return nil, err
		}
		if res.Matched {
			n := time.Now().UnixNano()
			c.m.Store(host, &entry{res: res, loadedAt: n, lastSeen: n})
			metrics.ResolverLoadTotal.Inc()
			metrics.ActiveResolverEntries.Inc()
		}
		return res, nil
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

// Invalidate drops the cache entry for one host.  Called when a domain
// claim changes so the next request re-resolves from the store.
func (c *Cache) Invalidate(rawHost string) {
	host := NormalizeHost(rawHost)
	if host == "" {
		return
	}
	if _, ok := c.m.LoadAndDelete(host); ok {
		metrics.ActiveResolverEntries.Dec()
		metrics.ResolverEvictTotal.Inc()
	}
}

// Close stops the background evictor.  Stopping the ticker alone would
// leave evictLoop parked on its channel forever, so the done channel
// carries the actual shutdown signal.
func (c *Cache) Close() {
	c.evictTicker.Stop()
	close(c.done)
}
