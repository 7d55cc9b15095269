package render

import (
	"errors"
	"image"
	"unicode"

	"github.com/pgavlin/edf/edfio"
)

// ErrMissingDefaultFontStyle is returned by Page when fonts has no font
// registered for header.Styles[0].
var ErrMissingDefaultFontStyle = errors.New("render: missing font for default style")

// Page replays one page's command stream onto dst, starting the cursor
// at origin. It stops at the first PageBreak or End command (or at the
// end of commands, whichever comes first) — a single page's stream
// never legitimately contains a second page's worth of commands, but
// Page doesn't assume that and simply returns once it sees one.
//
// A glyph that fails to draw is skipped; the cursor does not advance
// for it. Style indices are assumed already validated (edfio's decoder
// rejects an out-of-range SetStyle before Page ever sees one).
func Page(dst Surface, origin image.Point, fonts Fonts, header edfio.Header, commands []edfio.Command) error {
	if len(header.Styles) == 0 {
		return ErrMissingDefaultFontStyle
	}
	defaultStyle, ok := fonts.GetStyle(header.Styles[0])
	if !ok {
		return ErrMissingDefaultFontStyle
	}

	st := &state{
		fonts:        fonts,
		defaultStyle: defaultStyle,
		style:        defaultStyle,
		cursor:       origin,
		origin:       origin,
	}
	st.setGlueMetrics(defaultStyle.EmPx())
	st.lineHeight = int(defaultStyle.LineHeight())
	st.lineBaseline = int(defaultStyle.Baseline())

	for _, cmd := range commands {
		switch cmd.Op {
		case edfio.OpPageBreak, edfio.OpEnd:
			return nil
		case edfio.OpLineBreak:
			st.error = 0
			st.cursor = image.Point{X: st.origin.X, Y: st.cursor.Y + st.lineHeight}
		case edfio.OpAdvance:
			st.cursor.X += int(cmd.DX)
		case edfio.OpSetCursor:
			st.cursor = image.Point{X: int(cmd.X), Y: int(cmd.Y)}
		case edfio.OpSetAdjustmentRatio:
			st.setAdjustmentRatio(cmd.Ratio)
		case edfio.OpSetLineMetrics:
			st.lineHeight = int(cmd.Height)
			st.lineBaseline = int(cmd.Baseline)
			st.recomputeBaselineOffset()
		case edfio.OpSetStyle:
			fs, ok := fonts.GetStyle(header.Styles[cmd.Style])
			if !ok {
				fs = defaultStyle
			}
			st.style = fs
			st.setGlueMetrics(fs.EmPx())
			st.recomputeBaselineOffset()
		case edfio.OpShow:
			st.show(dst, cmd.Str)
		}
	}
	return nil
}

// state is the replay interpreter's mutable state: current style, line
// metrics, cursor, quantized and float whitespace width, and the
// running sub-pixel error used to diffuse quantization loss back into
// whitespace.
type state struct {
	fonts        Fonts
	defaultStyle FontStyle
	style        FontStyle

	origin image.Point
	cursor image.Point

	lineHeight, lineBaseline, baselineOffset int

	glueWidth, glueStretch, glueShrink float64
	whitespaceWidth                    float64
	whitespaceWidthQuantized           int

	error float64
}

func (st *state) setGlueMetrics(emPx uint16) {
	st.glueWidth = float64(emPx) / 3
	st.glueStretch = st.glueWidth / 2
	st.glueShrink = st.glueWidth / 3
}

func (st *state) setAdjustmentRatio(r float32) {
	switch {
	case r < 0:
		st.whitespaceWidth = st.glueWidth + st.glueShrink*float64(r)
	case r > 0:
		st.whitespaceWidth = st.glueWidth + st.glueStretch*float64(r)
	default:
		st.whitespaceWidth = st.glueWidth
	}
	st.whitespaceWidthQuantized = int(edfio.ClampU16(st.whitespaceWidth))
}

// recomputeBaselineOffset sets baselineOffset to the amount by which the
// line's baseline metric exceeds the current style's, or 0 if it does
// not. show subtracts it from a run's vertical position, so such a run
// is drawn that much higher.
func (st *state) recomputeBaselineOffset() {
	if int(st.style.Baseline()) < st.lineBaseline {
		st.baselineOffset = st.lineBaseline - int(st.style.Baseline())
	} else {
		st.baselineOffset = 0
	}
}

// show draws one Show run, advancing the cursor character by character
// and diffusing the whitespace quantization error into later spaces.
func (st *state) show(dst Surface, text string) {
	textCursor := st.cursor.Add(image.Point{Y: st.lineHeight - st.lineBaseline - st.baselineOffset})

	for _, c := range text {
		var next image.Point
		var expected float64
		canCharge := false

		if unicode.IsSpace(c) {
			next = textCursor.Add(image.Point{X: st.whitespaceWidthQuantized})
			expected = st.whitespaceWidth
			canCharge = true
		} else {
			drawn, err := st.style.DrawGlyph(dst, textCursor, c)
			if err != nil {
				drawn = textCursor
			}
			next = drawn
			expected = float64(next.X - textCursor.X)
		}

		st.error += expected - float64(next.X-textCursor.X)
		if canCharge && st.error >= 1 {
			errPx := int(st.error)
			st.error -= float64(errPx)
			next.X += errPx
		}
		textCursor = next
	}

	st.cursor.X = textCursor.X
}
