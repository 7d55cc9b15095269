package glyph

import (
	"golang.org/x/image/font/sfnt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheKey identifies one cached glyph rasterization.
type CacheKey struct {
	Font FontID
	Size uint16
	Rune rune
}

// Cache is a fixed-capacity, strict-LRU cache of rasterized glyphs,
// keyed by (font, size, code point). Capacity is fixed at
// construction and never changes. It is not safe for concurrent use;
// layout measurement and rendering share one cache on a single thread.
type Cache struct {
	rz  *Rasterizer
	lru *lru.Cache[CacheKey, Bitmap]
}

// NewCache returns a Cache holding at most capacity glyphs.
func NewCache(capacity int) (*Cache, error) {
	c, err := lru.New[CacheKey, Bitmap](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{rz: NewRasterizer(), lru: c}, nil
}

// Get returns the rasterized glyph for key, rasterizing and inserting it
// on a miss (including for glyphs that resolve to an empty Bitmap, which
// are cached like any other entry so repeated misses don't re-rasterize).
func (c *Cache) Get(face *sfnt.Font, id FontID, sizePx uint16, r rune) (Bitmap, error) {
	key := CacheKey{Font: id, Size: sizePx, Rune: r}
	if b, ok := c.lru.Get(key); ok {
		return b, nil
	}

	b, err := c.rz.Rasterize(face, sizePx, r)
	if err != nil {
		return Bitmap{}, err
	}
	c.lru.Add(key, b)
	return b, nil
}

// Len returns the number of glyphs currently cached.
func (c *Cache) Len() int {
	return c.lru.Len()
}
