package bundler

import (
	"crypto/sha256"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/EricA1019/godot-mcp-index/pkg/types"
)

// DefaultCacheSize is the entry count used by NewCache.
const DefaultCacheSize = 256

// Cache memoizes Bundle results by request parameters. It holds no TTL:
// correctness instead comes from Purge being wired to the index store's
// write hook (see New in the control package), so every entry is
// invalidated synchronously when the underlying index changes, preserving
// the read-after-write freshness guarantee callers get from an uncached
// Bundle call.
type Cache struct {
	mu    sync.RWMutex
	cache *lru.Cache[[32]byte, types.BundleResult]
}

// NewCache builds a Cache holding up to size entries. Panics only if size
// is non-positive, mirroring lru.New's contract.
func NewCache(size int) *Cache {
	c, err := lru.New[[32]byte, types.BundleResult](size)
	if err != nil {
		panic(fmt.Sprintf("bundler: invalid cache size %d: %v", size, err))
	}
	return &Cache{cache: c}
}

func cacheKey(root string, req Request) [32]byte {
	s := fmt.Sprintf("%s\x00%s\x00%d\x00%d\x00%s", root, req.Query, req.Limit, req.CapBytes, req.Kind)
	return sha256.Sum256([]byte(s))
}

func (c *Cache) get(root string, req Request) (types.BundleResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache.Get(cacheKey(root, req))
}

func (c *Cache) put(root string, req Request, result types.BundleResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(cacheKey(root, req), result)
}

// Purge drops every cached entry. Call this whenever the underlying index
// changes.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Purge()
}
