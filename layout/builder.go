package layout

import (
	"errors"

	"github.com/pgavlin/edf/edfio"
	"github.com/pgavlin/edf/hyphen"
	"github.com/pgavlin/edf/kplass"
)

// ErrMissingDefaultFontStyle is returned by NewBuilder when fonts has no
// font registered under the default style's name: unlike every other
// missing-style case (silently substituted), the default style itself has
// nothing to substitute.
var ErrMissingDefaultFontStyle = errors.New("layout: missing font for default style")

// ErrLayoutFailed is returned by a paragraph's Finish when neither
// Knuth–Plass nor the first-fit fallback produced any line breaks. The
// first-fit fallback accepts over-wide lines and always breaks at the
// forced terminator Finish appends, so this is a guard surfaced as an
// error rather than a panic.
var ErrLayoutFailed = errors.New("layout: no feasible line breaks")

// Builder accumulates a document's EDF command stream. It starts in doc
// state (this type); Paragraph transitions to paragraph state
// (ParagraphBuilder), and that builder's Finish transitions back.
type Builder struct {
	boundingBoxW, boundingBoxH float64
	fonts                      Fonts
	defaultStyle               FontStyle
	hyphenator                 hyphen.Hyphenator

	style                 FontStyle
	styleID               uint16
	lineHeight, baseline  uint16
	whitespaceWidth       float64
	whitespaceStretch     float64
	whitespaceShrink      float64

	cursorX, cursorY float64

	styles   []edfio.Style
	commands []edfio.Command
	pages    int
}

// NewBuilder returns a Builder laying out pages of size
// (boundingBoxW, boundingBoxH) px, resolving styles through fonts, and
// starting from defaultStyle (always style index 0). It fails only if
// fonts has no font registered for defaultStyle.
func NewBuilder(boundingBoxW, boundingBoxH float64, fonts Fonts, defaultStyle edfio.Style, hyphenator hyphen.Hyphenator) (*Builder, error) {
	fs, ok := fonts.GetStyle(defaultStyle)
	if !ok {
		return nil, ErrMissingDefaultFontStyle
	}

	ws, wss, wsh := kplass.Whitespace(fs.EmPx())
	return &Builder{
		boundingBoxW: boundingBoxW,
		boundingBoxH: boundingBoxH,
		fonts:        fonts,
		defaultStyle: fs,
		hyphenator:   hyphenator,

		style:             fs,
		styleID:           0,
		lineHeight:        fs.LineHeight(),
		baseline:          fs.Baseline(),
		whitespaceWidth:   ws,
		whitespaceStretch: wss,
		whitespaceShrink:  wsh,

		// The initial cursor sits one em down from the page's top edge,
		// not at (0, 0): the first line drawn still needs room above its
		// own baseline.
		cursorX: 0,
		cursorY: float64(fs.EmPx()),

		styles: []edfio.Style{defaultStyle},
	}, nil
}

// getStyle resolves style via the font store; on a miss it silently
// substitutes the default style (id 0). On a hit it dedups against the
// style table, appending a new entry only if style hasn't been seen
// before.
func (b *Builder) getStyle(style edfio.Style) (FontStyle, uint16) {
	fs, ok := b.fonts.GetStyle(style)
	if !ok {
		return b.defaultStyle, 0
	}
	for i, s := range b.styles {
		if s == style {
			return fs, uint16(i)
		}
	}
	b.styles = append(b.styles, style)
	return fs, uint16(len(b.styles) - 1)
}

// SetStyle changes the builder's current style, emitting SetStyle and
// SetLineMetrics if the resolved style id differs from the current one.
func (b *Builder) SetStyle(style edfio.Style) {
	fs, id := b.getStyle(style)
	if id == b.styleID {
		return
	}

	b.lineHeight = fs.LineHeight()
	b.baseline = fs.Baseline()
	ws, wss, wsh := kplass.Whitespace(fs.EmPx())
	b.whitespaceWidth, b.whitespaceStretch, b.whitespaceShrink = ws, wss, wsh
	b.style = fs
	b.styleID = id

	b.commands = append(b.commands, edfio.SetStyle(id))
	b.commands = append(b.commands, edfio.SetLineMetrics(b.lineHeight, b.baseline))
}

// IsEmpty reports whether any commands have been emitted yet.
func (b *Builder) IsEmpty() bool { return len(b.commands) == 0 }

// PageCount returns the number of PageBreak commands emitted so far.
func (b *Builder) PageCount() int { return b.pages }

// Paragraph transitions b into paragraph state, snapshotting the current
// style and whitespace metrics for the new paragraph to inherit.
func (b *Builder) Paragraph() *ParagraphBuilder {
	return &ParagraphBuilder{
		doc:               b,
		style:             b.style,
		styleID:           b.styleID,
		whitespaceWidth:   b.whitespaceWidth,
		whitespaceStretch: b.whitespaceStretch,
		whitespaceShrink:  b.whitespaceShrink,
	}
}

// AdvanceLine moves the cursor down by one line, emitting LineBreak, or
// triggers a PageBreak if the current line doesn't fit in what remains of
// the page.
func (b *Builder) AdvanceLine() {
	remaining := b.boundingBoxH - b.cursorY
	if remaining < float64(b.lineHeight) {
		b.PageBreak()
		return
	}
	b.commands = append(b.commands, edfio.LineBreak())
	b.cursorY += float64(b.lineHeight)
}

// PageBreak emits PageBreak, re-emits the current style and line metrics
// (so every page is self-sufficient for a reader seeking directly to it),
// and resets the cursor to the page's origin.
func (b *Builder) PageBreak() {
	b.commands = append(b.commands, edfio.PageBreak())
	b.pages++
	b.commands = append(b.commands, edfio.SetStyle(b.styleID))
	b.commands = append(b.commands, edfio.SetLineMetrics(b.lineHeight, b.baseline))
	b.cursorX, b.cursorY = 0, 0
}

// Finish returns the accumulated style table and command stream as an
// edfio.Header and command slice, ready for edfio.Encode.
func (b *Builder) Finish() (edfio.Header, []edfio.Command) {
	return edfio.Header{Styles: b.styles}, b.commands
}
