package feeds

import (
	"strings"
	"sync"
	"time"

	"github.com/killallgit/podhub/internal/metrics"
)

// Cache is an in-memory TTL cache of raw feed documents.
type Cache struct {
	docs map[string]*cacheEntry
	mu   sync.RWMutex
	ttl  time.Duration
	now  func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type cacheEntry struct {
	doc       string
	expiresAt time.Time
}

// NewCache creates a cache and starts its cleanup loop. Call Stop to end it.
func NewCache(ttl, cleanupInterval time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	cache := &Cache{
		docs: make(map[string]*cacheEntry),
		ttl:  ttl,
		now:  time.Now,
		stop: make(chan struct{}),
	}

	go cache.cleanupExpired(cleanupInterval)

	return cache
}

func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.docs[key]
	if !exists || entry.expiresAt.Before(c.now()) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return "", false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return entry.doc, true
}

func (c *Cache) Set(key, doc string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs[key] = &cacheEntry{
		doc:       doc,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.docs, key)
}

// InvalidatePattern drops every key matching pattern. A trailing "*"
// matches any suffix.
func (c *Cache) InvalidatePattern(pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.docs {
		if matchPattern(pattern, key) {
			delete(c.docs, key)
		}
	}
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs = make(map[string]*cacheEntry)
}

// Len returns the number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.docs)
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *Cache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *Cache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.docs {
		if entry.expiresAt.Before(now) {
			delete(c.docs, key)
		}
	}
}

func matchPattern(pattern, str string) bool {
	if pattern == "*" {
		return true
	}

	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(str, prefix)
	}

	return pattern == str
}
