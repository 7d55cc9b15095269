// Package layout turns styled text events into an EDF command stream: a
// two-level document/paragraph builder wraps the Knuth–Plass line breaker
// (kplass), the font-metrics/rasterization store (glyph), and a pluggable
// hyphenator (hyphen) into the paragraph-layout and pagination algorithm.
package layout

import (
	"fmt"

	"github.com/pgavlin/edf/edfio"
	"github.com/pgavlin/edf/glyph"
)

// FontStyle is a resolved (font, size) pair: the metrics the builder needs
// to lay out a line, plus the ability to measure a run of text in this
// style. Implementations are expected to be cheap to clone/copy (callers
// hold one in the builder's current-style slot at all times).
type FontStyle interface {
	FontName() string
	EmPx() uint16

	// LineHeight and Baseline are the vertical metrics a SetLineMetrics
	// command carries for text set in this style.
	LineHeight() uint16
	Baseline() uint16

	// MeasureString returns the advance width, in pixels, of s set in
	// this style.
	MeasureString(s string) (float64, error)
}

// Fonts resolves an edfio.Style (a font name + pixel size) to a FontStyle,
// the capability the builder needs to compute glue widths and line
// metrics for that style. It reports false if the named font isn't
// registered; the builder recovers by substituting the default style.
type Fonts interface {
	GetStyle(style edfio.Style) (FontStyle, bool)
}

// GlyphFonts implements Fonts over a glyph.Store of parsed faces, measuring
// text by rasterizing through a shared glyph.Cache — the same cache the
// renderer later draws from, so a layout pass warms exactly the glyphs a
// render pass of the same document will need.
type GlyphFonts struct {
	store *glyph.Store
	cache *glyph.Cache
}

// NewGlyphFonts returns a Fonts backed by store, measuring through cache.
func NewGlyphFonts(store *glyph.Store, cache *glyph.Cache) *GlyphFonts {
	return &GlyphFonts{store: store, cache: cache}
}

// GetStyle implements Fonts.
func (f *GlyphFonts) GetStyle(style edfio.Style) (FontStyle, bool) {
	id, ok := f.store.Lookup(style.FontName)
	if !ok {
		return nil, false
	}
	face, ok := f.store.Face(id)
	if !ok {
		return nil, false
	}
	metrics, err := glyph.DeriveMetrics(face, style.EmPx)
	if err != nil {
		return nil, false
	}
	return &glyphStyle{
		fonts:   f,
		fontID:  id,
		name:    style.FontName,
		emPx:    style.EmPx,
		metrics: metrics,
	}, true
}

type glyphStyle struct {
	fonts   *GlyphFonts
	fontID  glyph.FontID
	name    string
	emPx    uint16
	metrics glyph.Metrics
}

func (s *glyphStyle) FontName() string   { return s.name }
func (s *glyphStyle) EmPx() uint16       { return s.emPx }
func (s *glyphStyle) LineHeight() uint16 { return s.metrics.LineHeight }
func (s *glyphStyle) Baseline() uint16   { return s.metrics.Baseline }

// MeasureString sums, over each rune of s, the rasterized glyph's left
// bearing plus its bitmap width, and advances the pen by that amount —
// reproducing the font store's own bounding-box-walk measurement rather
// than the font's hmtx advance widths, so a paragraph laid out this way
// measures exactly what the renderer will later draw.
func (s *glyphStyle) MeasureString(text string) (float64, error) {
	face, ok := s.fonts.store.Face(s.fontID)
	if !ok {
		return 0, fmt.Errorf("layout: font %q no longer registered", s.name)
	}

	var x float64
	for _, r := range text {
		b, err := s.fonts.cache.Get(face, s.fontID, s.emPx, r)
		if err != nil {
			return 0, fmt.Errorf("layout: measuring %q: %w", text, err)
		}
		x += float64(b.Placement.Left + b.Placement.Width)
	}
	return x, nil
}
