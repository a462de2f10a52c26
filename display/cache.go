package display

import "github.com/berrym/lle/pool"

// cacheKey is the (buffer_state_hash, cursor_state_hash, prompt_hash)
// tuple render outputs are cached under (spec.md §4.5.2).
type cacheKey struct {
	bufferHash  uint64
	cursorHash  uint64
	promptHash  uint64
}

// Cache wraps pool.LRU to hand out cached RenderOutputs; a hit skips
// the pipeline entirely.
type Cache struct {
	lru *pool.LRU[cacheKey, RenderOutput]
}

// NewCache returns a Cache bounded to capacity entries.
func NewCache(capacity int) *Cache {
	return &Cache{lru: pool.NewLRU[cacheKey, RenderOutput](capacity)}
}

// Lookup returns a cached RenderOutput for the given state, if present.
func (c *Cache) Lookup(bufferHash, cursorHash, promptHash uint64) (RenderOutput, bool) {
	return c.lru.Get(cacheKey{bufferHash, cursorHash, promptHash})
}

// Store records out under the given state key.
func (c *Cache) Store(bufferHash, cursorHash, promptHash uint64, out RenderOutput) {
	c.lru.Put(cacheKey{bufferHash, cursorHash, promptHash}, out)
}

// InvalidateAll drops every cached entry: theme change, window resize,
// or prompt change (spec.md §4.5.2).
func (c *Cache) InvalidateAll() { c.lru.Clear() }

// Len reports how many entries are currently cached.
func (c *Cache) Len() int { return c.lru.Len() }
