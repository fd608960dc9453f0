package searcher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/linkstash/linkstash/pkg/types"
)

// DefaultCacheSize is the default number of cached result pages
const DefaultCacheSize = 1000

// DefaultCacheTTL bounds staleness for cached pages. Invalidation on write
// is epoch-based, so the TTL only matters for writes that bypass the engine.
const DefaultCacheTTL = 30 * time.Second

type cacheEntry struct {
	page      *types.Page
	expiresAt time.Time
}

// resultCache caches ranked result pages keyed by query. Each owner has a
// monotonically increasing epoch mixed into the key; bumping the epoch
// orphans every cached page for that owner without scanning the LRU.
type resultCache struct {
	cache *lru.Cache[string, cacheEntry]
	ttl   time.Duration

	mu     sync.Mutex
	epochs map[string]uint64
}

func newResultCache(size int, ttl time.Duration) *resultCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	cache, err := lru.New[string, cacheEntry](size)
	if err != nil {
		cache, _ = lru.New[string, cacheEntry](DefaultCacheSize)
	}
	return &resultCache{
		cache:  cache,
		ttl:    ttl,
		epochs: make(map[string]uint64),
	}
}

// key derives the cache key for a query under the owner's current epoch
func (c *resultCache) key(q *types.Query) string {
	c.mu.Lock()
	epoch := c.epochs[q.OwnerID]
	c.mu.Unlock()

	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s", epoch, q.CacheKey())))
	return hex.EncodeToString(sum[:])
}

func (c *resultCache) get(key string) (*types.Page, bool) {
	entry, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.cache.Remove(key)
		return nil, false
	}
	return entry.page, true
}

func (c *resultCache) put(key string, page *types.Page) {
	c.cache.Add(key, cacheEntry{
		page:      page,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// invalidateOwner bumps the owner's epoch. Stale entries age out of the
// LRU; they are unreachable the moment the epoch changes.
func (c *resultCache) invalidateOwner(ownerID string) {
	c.mu.Lock()
	c.epochs[ownerID]++
	c.mu.Unlock()
}

func (c *resultCache) size() int {
	return c.cache.Len()
}
