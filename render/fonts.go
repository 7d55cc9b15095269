// Package render replays an EDF command stream onto an image, drawing
// glyphs through the same rasterized-glyph cache a layout pass measured
// through.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/pgavlin/edf/edfio"
	"github.com/pgavlin/edf/glyph"
)

// FontStyle is a resolved (font, size) pair with the capability Page
// needs to draw text: glyph advance widths and pixel drawing, plus the
// same vertical metrics layout.FontStyle exposes.
type FontStyle interface {
	FontName() string
	EmPx() uint16
	LineHeight() uint16
	Baseline() uint16

	// GlyphAdvance returns the pen advance, in pixels, for drawing c —
	// the same bounding-box quantity (left bearing + bitmap width) a
	// layout pass measured this character as.
	GlyphAdvance(c rune) (int, error)

	// DrawGlyph draws c at origin (the pen position, not the glyph's
	// top-left corner) onto dst, returning the pen's new position.
	DrawGlyph(dst Surface, origin image.Point, c rune) (image.Point, error)
}

// Surface is the pixel target Page draws onto — exactly *image.Gray's
// own method set, so a caller passes one in directly with no adapter.
type Surface interface {
	Bounds() image.Rectangle
	SetGray(x, y int, c color.Gray)
}

// Fonts resolves an edfio.Style to a FontStyle. It reports false if the
// named font isn't registered; Page recovers by substituting the
// default style, same as layout.Fonts.
type Fonts interface {
	GetStyle(style edfio.Style) (FontStyle, bool)
}

// GlyphFonts implements Fonts over a glyph.Store of parsed faces,
// drawing through a shared glyph.Cache — typically the very same cache
// a layout.GlyphFonts measured this document's text through, so replay
// draws glyphs the layout pass already warmed.
type GlyphFonts struct {
	store *glyph.Store
	cache *glyph.Cache
}

// NewGlyphFonts returns a Fonts backed by store, drawing through cache.
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

func (s *glyphStyle) bitmap(c rune) (glyph.Bitmap, error) {
	face, ok := s.fonts.store.Face(s.fontID)
	if !ok {
		return glyph.Bitmap{}, fmt.Errorf("render: font %q no longer registered", s.name)
	}
	return s.fonts.cache.Get(face, s.fontID, s.emPx, c)
}

// GlyphAdvance returns left-bearing + bitmap width, the same quantity
// layout.FontStyle.MeasureString accumulates per character, so a run
// drawn here advances exactly as far as it was measured to.
func (s *glyphStyle) GlyphAdvance(c rune) (int, error) {
	b, err := s.bitmap(c)
	if err != nil {
		return 0, err
	}
	return b.Placement.Left + b.Placement.Width, nil
}

// DrawGlyph blits c's coverage bitmap onto dst at origin plus the
// glyph's placement offset, returning origin advanced by GlyphAdvance.
func (s *glyphStyle) DrawGlyph(dst Surface, origin image.Point, c rune) (image.Point, error) {
	b, err := s.bitmap(c)
	if err != nil {
		return origin, err
	}

	gx, gy := origin.X+b.Placement.Left, origin.Y+b.Placement.Top
	bounds := dst.Bounds()
	for row := 0; row < b.Placement.Height; row++ {
		py := gy + row
		if py < bounds.Min.Y || py >= bounds.Max.Y {
			continue
		}
		rowOff := row * b.Placement.Width
		for col := 0; col < b.Placement.Width; col++ {
			px := gx + col
			if px < bounds.Min.X || px >= bounds.Max.X {
				continue
			}
			coverage := b.Coverage[rowOff+col]
			if coverage == 0 {
				continue
			}
			dst.SetGray(px, py, color.Gray{Y: 255 - coverage})
		}
	}

	return image.Point{X: origin.X + b.Placement.Left + b.Placement.Width, Y: origin.Y}, nil
}
