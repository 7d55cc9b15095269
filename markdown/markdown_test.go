package markdown

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgavlin/edf/edfio"
	"github.com/pgavlin/edf/glyph"
	"github.com/pgavlin/edf/hyphen"
	"github.com/pgavlin/edf/layout"
)

func newTestFonts(t *testing.T) layout.Fonts {
	t.Helper()
	data, err := os.ReadFile("../assets/default.ttf")
	require.NoError(t, err)

	store := glyph.NewStore()
	_, err = store.Register("regular", data)
	require.NoError(t, err)

	cache, err := glyph.NewCache(256)
	require.NoError(t, err)

	return layout.NewGlyphFonts(store, cache)
}

func TestBuild_ParagraphProducesShowAndLineBreak(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	fonts := newTestFonts(t)
	opts := NewOptions(edfio.Style{FontName: "regular", EmPx: 24})

	_, commands, err := Build([]byte("hello world"), 4000, 4000, fonts, opts, hyphen.Null)
	require.NoError(err)

	var shows, lineBreaks int
	for _, c := range commands {
		switch c.Op {
		case edfio.OpShow:
			shows++
		case edfio.OpLineBreak:
			lineBreaks++
		}
	}
	assert.Equal(1, shows)
	assert.Equal(1, lineBreaks)
}

func TestBuild_HeadingStartsNewPageOnlyWithPriorContent(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	fonts := newTestFonts(t)
	opts := NewOptions(edfio.Style{FontName: "regular", EmPx: 24}).
		WithHeading([]edfio.Style{{FontName: "regular", EmPx: 36}})

	_, commands, err := Build([]byte("# First\n\nbody text\n\n# Second"), 4000, 4000, fonts, opts, hyphen.Null)
	require.NoError(err)

	pageBreaks := 0
	for _, c := range commands {
		if c.Op == edfio.OpPageBreak {
			pageBreaks++
		}
	}
	// The first heading opens with an empty document (no page break); the
	// second follows a paragraph, so it does start a fresh page.
	assert.Equal(1, pageBreaks)
}

func TestBuild_EmphasisAndStrongRestoreRegularStyle(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	fonts := newTestFonts(t)
	opts := NewOptions(edfio.Style{FontName: "regular", EmPx: 24}).
		WithEmphasis(edfio.Style{FontName: "regular", EmPx: 28}).
		WithStrong(edfio.Style{FontName: "regular", EmPx: 32})

	header, commands, err := Build([]byte("plain *em* and **strong** text"), 4000, 4000, fonts, opts, hyphen.Null)
	require.NoError(err)

	// Three distinct styles were registered: regular, emphasis, strong.
	assert.Len(header.Styles, 3)

	setStyles := 0
	for _, c := range commands {
		if c.Op == edfio.OpSetStyle {
			setStyles++
		}
	}
	assert.Greater(setStyles, 0)
}

func TestBuild_ThematicBreakEmitsARule(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	fonts := newTestFonts(t)
	opts := NewOptions(edfio.Style{FontName: "regular", EmPx: 24})

	_, commands, err := Build([]byte("above\n\n---\n\nbelow"), 4000, 4000, fonts, opts, hyphen.Null)
	require.NoError(err)

	found := false
	for _, c := range commands {
		if c.Op == edfio.OpShow && c.Str == thematicBreakRule {
			found = true
		}
	}
	assert.True(found, "expected the thematic break rule text among the Show commands")
}

func TestBuild_ListItemIndentsDeeperThanAPlainParagraph(t *testing.T) {
	require := require.New(t)

	fonts := newTestFonts(t)
	opts := NewOptions(edfio.Style{FontName: "regular", EmPx: 24})

	_, _, err := Build([]byte("- one\n- two\n"), 4000, 4000, fonts, opts, hyphen.Null)
	require.NoError(err)
}
