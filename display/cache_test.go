package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_StoreThenLookupHits(t *testing.T) {
	c := NewCache(4)
	out := RenderOutput{Content: []byte("abc\x00")}
	c.Store(1, 2, 3, out)

	got, ok := c.Lookup(1, 2, 3)
	assert.True(t, ok)
	assert.Equal(t, out.Content, got.Content)
}

func TestCache_LookupMissOnDifferentKey(t *testing.T) {
	c := NewCache(4)
	c.Store(1, 2, 3, RenderOutput{})

	_, ok := c.Lookup(1, 2, 4)
	assert.False(t, ok)
}

func TestCache_InvalidateAllEmptiesCache(t *testing.T) {
	c := NewCache(4)
	c.Store(1, 2, 3, RenderOutput{})
	c.InvalidateAll()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Lookup(1, 2, 3)
	assert.False(t, ok)
}

func TestCache_EvictsLeastRecentlyUsedPastCapacity(t *testing.T) {
	c := NewCache(2)
	c.Store(1, 0, 0, RenderOutput{Content: []byte("a")})
	c.Store(2, 0, 0, RenderOutput{Content: []byte("b")})
	c.Store(3, 0, 0, RenderOutput{Content: []byte("c")})

	_, ok := c.Lookup(1, 0, 0)
	assert.False(t, ok, "oldest entry should have been evicted")

	_, ok = c.Lookup(3, 0, 0)
	assert.True(t, ok)
}
