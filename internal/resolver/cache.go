package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"bookmeta/internal/entity"
	"bookmeta/internal/observability"
)

// Cache stores resolutions by CacheKey.
type Cache interface {
	Get(key string) (entity.Resolution, bool)
	Add(key string, res entity.Resolution)
	Remove(key string)
}

// MemoryCache is a size-bounded in-process cache whose entries expire after a
// fixed TTL.
type MemoryCache struct {
	lru *expirable.LRU[string, entity.Resolution]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: expirable.NewLRU[string, entity.Resolution](size, nil, ttl)}
}

func (c *MemoryCache) Get(key string) (entity.Resolution, bool) { return c.lru.Get(key) }
func (c *MemoryCache) Add(key string, res entity.Resolution)    { c.lru.Add(key, res) }
func (c *MemoryCache) Remove(key string)                        { c.lru.Remove(key) }
func (c *MemoryCache) Len() int                                 { return c.lru.Len() }

// CacheKey identifies a query by exactly the fields Resolve consumes. Only
// surrounding whitespace is ignored: the ISBN is echoed back verbatim and the
// title is searched as given, so looser keys would hand one caller's spelling
// to another.
func CacheKey(q entity.Query) string {
	q = q.Clean()
	return strings.Join([]string{q.Title, q.Author, q.ISBN}, "\x1f")
}

// CachedResolver memoises another Service. Concurrent identical lookups share
// one upstream resolution. Empty results are not stored so a source outage
// does not pin "unknown" for the whole TTL.
type CachedResolver struct {
	next    Service
	cache   Cache
	group   singleflight.Group
	metrics *observability.Metrics
}

func NewCachedResolver(next Service, cache Cache, m *observability.Metrics) *CachedResolver {
	return &CachedResolver{next: next, cache: cache, metrics: m}
}

func (c *CachedResolver) Resolve(ctx context.Context, q entity.Query) entity.Resolution {
	key := CacheKey(q)
	if res, ok := c.cache.Get(key); ok {
		c.metrics.ObserveCache(true)
		return res
	}
	c.metrics.ObserveCache(false)

	// The shared call outlives any single waiter; each waiter still honours
	// its own context.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		res := c.next.Resolve(shared, q)
		if !res.Empty() {
			c.cache.Add(key, res)
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return entity.Resolution{}
	case r := <-ch:
		return r.Val.(entity.Resolution)
	}
}

// Forget drops any cached result for q so the next Resolve goes upstream.
func (c *CachedResolver) Forget(q entity.Query) {
	c.cache.Remove(CacheKey(q))
}
