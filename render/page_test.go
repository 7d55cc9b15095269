package render

import (
	"image"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgavlin/edf/edfio"
	"github.com/pgavlin/edf/glyph"
)

func newTestFonts(t *testing.T) *GlyphFonts {
	t.Helper()
	data, err := os.ReadFile("../assets/default.ttf")
	require.NoError(t, err)

	store := glyph.NewStore()
	_, err = store.Register("regular", data)
	require.NoError(t, err)

	cache, err := glyph.NewCache(256)
	require.NoError(t, err)

	return NewGlyphFonts(store, cache)
}

func TestPage_MissingDefaultFontIsReported(t *testing.T) {
	fonts := newTestFonts(t)
	header := edfio.Header{Styles: []edfio.Style{{FontName: "nope", EmPx: 24}}}
	dst := image.NewGray(image.Rect(0, 0, 100, 100))

	err := Page(dst, image.Point{}, fonts, header, nil)
	assert.ErrorIs(t, err, ErrMissingDefaultFontStyle)
}

func TestPage_EmptyHeaderIsReported(t *testing.T) {
	fonts := newTestFonts(t)
	dst := image.NewGray(image.Rect(0, 0, 100, 100))

	err := Page(dst, image.Point{}, fonts, edfio.Header{}, nil)
	assert.ErrorIs(t, err, ErrMissingDefaultFontStyle)
}

func TestPage_StopsAtPageBreak(t *testing.T) {
	require := require.New(t)

	fonts := newTestFonts(t)
	header := edfio.Header{Styles: []edfio.Style{{FontName: "regular", EmPx: 24}}}
	dst := image.NewGray(image.Rect(0, 0, 200, 200))

	commands := []edfio.Command{
		edfio.Show("a"),
		edfio.PageBreak(),
		edfio.Show("this should never draw"),
	}
	require.NoError(Page(dst, image.Point{}, fonts, header, commands))
}

func TestPage_ShowDrawsNonWhitespaceGlyphs(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	fonts := newTestFonts(t)
	header := edfio.Header{Styles: []edfio.Style{{FontName: "regular", EmPx: 24}}}
	dst := image.NewGray(image.Rect(0, 0, 200, 200))

	commands := []edfio.Command{
		edfio.SetAdjustmentRatio(0),
		edfio.Show("ab cd"),
		edfio.LineBreak(),
		edfio.End(),
	}
	require.NoError(Page(dst, image.Point{X: 10, Y: 10}, fonts, header, commands))

	// Some pixel in the glyph-drawing area should have been changed
	// from the background's zero value (a drawn pixel is 255 minus its
	// coverage).
	drew := false
	for y := dst.Bounds().Min.Y; y < dst.Bounds().Max.Y && !drew; y++ {
		for x := dst.Bounds().Min.X; x < dst.Bounds().Max.X; x++ {
			if dst.GrayAt(x, y).Y != 0 {
				drew = true
				break
			}
		}
	}
	assert.True(drew, "expected at least one drawn pixel")
}

func TestPage_SetStyleFallsBackToDefaultOnMissingFont(t *testing.T) {
	require := require.New(t)

	fonts := newTestFonts(t)
	header := edfio.Header{Styles: []edfio.Style{
		{FontName: "regular", EmPx: 24},
		{FontName: "missing", EmPx: 24}, // a font the store does not have
	}}
	dst := image.NewGray(image.Rect(0, 0, 200, 200))

	commands := []edfio.Command{
		edfio.SetStyle(1),
		edfio.Show("x"),
	}
	require.NoError(Page(dst, image.Point{}, fonts, header, commands))
}

func TestPage_SetLineMetricsAdjustsBaselineOffsetForMixedSizes(t *testing.T) {
	require := require.New(t)

	fonts := newTestFonts(t)
	header := edfio.Header{Styles: []edfio.Style{{FontName: "regular", EmPx: 24}}}
	dst := image.NewGray(image.Rect(0, 0, 200, 200))

	commands := []edfio.Command{
		edfio.SetLineMetrics(40, 32),
		edfio.Show("x"),
		edfio.LineBreak(),
	}
	require.NoError(Page(dst, image.Point{}, fonts, header, commands))
}
