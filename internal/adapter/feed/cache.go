package feed

import (
	"container/list"
	"context"
	"sync"

	"github.com/couchcryptid/neo-scale-service/internal/domain"
	"github.com/couchcryptid/neo-scale-service/internal/observability"
)

// Fetcher is the upstream a CachedSource decorates.
type Fetcher interface {
	Fetch(ctx context.Context, date string) (domain.Feed, error)
}

// CachedSource wraps a Fetcher with an in-memory LRU cache keyed by fetch date.
type CachedSource struct {
	inner   Fetcher
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a feed source.
func NewCachedSource(inner Fetcher, maxEntries int, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// Fetch returns the cached feed for date or fetches it from the upstream.
func (c *CachedSource) Fetch(ctx context.Context, date string) (domain.Feed, error) {
	if feed, ok := c.cache.get(date); ok {
		c.metrics.FeedCache.WithLabelValues("hit").Inc()
		return feed, nil
	}
	c.metrics.FeedCache.WithLabelValues("miss").Inc()

	feed, err := c.inner.Fetch(ctx, date)
	if err != nil {
		return feed, err
	}
	// Empty days are not cached; the upstream may publish late.
	if len(feed.Neos) > 0 {
		c.cache.put(date, feed)
	}
	return feed, nil
}

// Invalidate drops the cached feed for date.
func (c *CachedSource) Invalidate(date string) {
	c.cache.remove(date)
}

type cacheEntry struct {
	key   string
	value domain.Feed
}

// lruCache is a thread-safe LRU cache of feeds.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front is most recently used
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (c *lruCache) get(key string) (domain.Feed, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return domain.Feed{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).value, true
}

func (c *lruCache) put(key string, value domain.Feed) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).value = value
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *lruCache) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.Remove(el)
		delete(c.entries, key)
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
