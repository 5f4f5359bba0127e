// Package cache holds the in-process cache of file records keyed by
// download link. It wraps hashicorp/golang-lru/v2/expirable.
package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrijs2005/linkshare/internal/server/models"
)

// LinkCache is an LRU of file records with a per-entry TTL. A nil
// *LinkCache is valid and caches nothing.
//
// Records are copied on the way in and out, so callers may mutate what
// they get back.
//
// A fill races with invalidation: a record read from the store before an
// owner's change must not land in the cache after that change. Callers take
// a Generation before reading the store and pass it to Set; any Invalidate
// in between makes the Set a no-op.
type LinkCache struct {
	lru    *expirable.LRU[string, *models.File]
	hits   prometheus.Counter
	misses prometheus.Counter

	mu  sync.Mutex
	gen uint64
}

// NewLinkCache returns nil when size is not positive. Counters are
// registered on reg.
func NewLinkCache(size int, ttl time.Duration, reg prometheus.Registerer) *LinkCache {
	if size <= 0 {
		return nil
	}

	factory := promauto.With(reg)
	return &LinkCache{
		lru: expirable.NewLRU[string, *models.File](size, nil, ttl),
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "linkshare_link_cache_hits_total",
			Help: "Download link lookups served from the cache.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "linkshare_link_cache_misses_total",
			Help: "Download link lookups that went to the metadata store.",
		}),
	}
}

func (c *LinkCache) Get(link string) (*models.File, bool) {
	if c == nil {
		return nil, false
	}
	f, ok := c.lru.Get(link)
	if !ok {
		c.misses.Inc()
		return nil, false
	}
	c.hits.Inc()
	return f.Clone(), true
}

// Generation returns the invalidation counter to hand to Set.
func (c *LinkCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Set caches file unless an Invalidate ran since gen was taken. It
// reports whether the record was stored.
func (c *LinkCache) Set(file *models.File, gen uint64) bool {
	if c == nil || file == nil || file.DownloadLink == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.lru.Add(file.DownloadLink, file.Clone())
	return true
}

// Invalidate drops the record cached under link, if any, and fences off
// fills that started before it.
func (c *LinkCache) Invalidate(link string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Remove(link)
}

func (c *LinkCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
