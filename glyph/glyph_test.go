package glyph

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestFont(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../assets/default.ttf")
	require.NoError(t, err)
	return data
}

func TestStore_RegisterAndLookup(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s := NewStore()
	id, err := s.Register("regular", loadTestFont(t))
	require.NoError(err)

	got, ok := s.Lookup("regular")
	assert.True(ok)
	assert.Equal(id, got)

	name, ok := s.Name(id)
	assert.True(ok)
	assert.Equal("regular", name)
}

func TestDeriveMetrics_BaselineFitsWithinLineHeight(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s := NewStore()
	id, err := s.Register("regular", loadTestFont(t))
	require.NoError(err)
	face, _ := s.Face(id)

	m, err := DeriveMetrics(face, 24)
	require.NoError(err)
	assert.Greater(m.LineHeight, uint16(0))
	assert.LessOrEqual(m.Baseline, m.LineHeight)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s := NewStore()
	id, err := s.Register("regular", loadTestFont(t))
	require.NoError(err)
	face, _ := s.Face(id)

	c, err := NewCache(2)
	require.NoError(err)

	runes := []rune{'a', 'b', 'c'}
	for _, r := range runes[:2] {
		_, err := c.Get(face, id, 16, r)
		require.NoError(err)
	}
	assert.Equal(2, c.Len())

	// Touch 'a' so 'b' becomes the least recently used entry.
	_, err = c.Get(face, id, 16, 'a')
	require.NoError(err)

	// Inserting a third glyph must evict 'b', not 'a'.
	_, err = c.Get(face, id, 16, 'c')
	require.NoError(err)
	assert.Equal(2, c.Len())

	assert.False(c.lru.Contains(CacheKey{Font: id, Size: 16, Rune: 'b'}))
	assert.True(c.lru.Contains(CacheKey{Font: id, Size: 16, Rune: 'a'}))
	assert.True(c.lru.Contains(CacheKey{Font: id, Size: 16, Rune: 'c'}))
}

func TestCache_CachesMissingGlyphs(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s := NewStore()
	id, err := s.Register("regular", loadTestFont(t))
	require.NoError(err)
	face, _ := s.Face(id)

	c, err := NewCache(4)
	require.NoError(err)

	b, err := c.Get(face, id, 16, '\U0010FFFD') // a code point unlikely to exist in the face
	require.NoError(err)
	assert.Empty(b.Coverage)
	assert.Equal(1, c.Len())
}
