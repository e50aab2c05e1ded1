package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[int64](2)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	c.Set("b", 2)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)

	c.Set("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, int64(10), v)
	assert.Equal(t, 2, c.Size())
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string](2)
	c.Set("a", "A")
	c.Set("b", "B")

	// touch a so b becomes the eviction candidate
	c.Get("a")
	c.Set("c", "C")

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUCache_MinimumSize(t *testing.T) {
	c := NewLRUCache[int](0)
	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 1, c.Size())
}
