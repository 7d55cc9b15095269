package glyph

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/pgavlin/edf/edfio"
)

// Metrics holds the derived, pixel-space line metrics for a face at a
// given em size.
type Metrics struct {
	// LineHeight is (ascender - descender + line_gap) scaled to em_px,
	// truncated to fit a uint16.
	LineHeight uint16
	// Baseline is the vertical distance from the glyph baseline down to
	// the line's bottom edge, derived as (line_height_units - ascender)
	// scaled to em_px; the baseline therefore sits LineHeight - Baseline
	// below the line's top edge.
	Baseline uint16
}

// DeriveMetrics computes Metrics for face at emPx.
//
// x/image/font/sfnt's Metrics already returns ascent/descent/height
// scaled to the requested ppem, with Descent reported as a non-negative
// magnitude (the Go convention) rather than the signed hhea value the
// original ascender()/descender()/line_gap() formula assumes. Height is
// the font's own recommended line spacing, i.e. exactly
// ascent + descent + line_gap once both are expressed with the same
// sign, so line_height reduces to Height and baseline to
// Height - Ascent without needing line_gap as a separate term.
func DeriveMetrics(face *sfnt.Font, emPx uint16) (Metrics, error) {
	var buf sfnt.Buffer
	m, err := face.Metrics(&buf, fixed.I(int(emPx)), font.HintingNone)
	if err != nil {
		return Metrics{}, err
	}

	lineHeight := edfio.ClampU16(fixedToFloat(m.Height))
	baseline := edfio.ClampU16(fixedToFloat(m.Height - m.Ascent))
	return Metrics{LineHeight: lineHeight, Baseline: baseline}, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
