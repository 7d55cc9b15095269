package layout

import (
	"math"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/words"

	"github.com/pgavlin/edf/edfio"
	"github.com/pgavlin/edf/kplass"
)

// hyphenPenaltyCost is the penalty cost of both hyphenation break kinds
// (soft and hard); both are flagged, so a Knuth–Plass line break at one
// is discouraged from immediately following another.
const hyphenPenaltyCost = 50.0

// penaltyKind tags which semantic penalty a KindPenalty item
// represents, so break_ knows to append a trailing '-' only for a soft
// hyphen and not a hard one.
type penaltyKind int

const (
	penaltyNone penaltyKind = iota
	penaltySoftHyphen
	penaltyHardHyphen
	penaltyHardBreak
)

// ParagraphBuilder accumulates one paragraph's Knuth–Plass item stream.
// It is obtained from Builder.Paragraph and returned to doc state by
// Finish, which runs the paragraph layout algorithm and appends the
// resulting commands to the doc builder's command stream.
type ParagraphBuilder struct {
	doc *Builder

	style             FontStyle
	styleID           uint16
	whitespaceWidth   float64
	whitespaceStretch float64
	whitespaceShrink  float64

	hyphBreaks []int
	items      []kplass.Item
	// kinds[i] is the penaltyKind of items[i] when items[i].Kind is
	// KindPenalty; kplass.Item has no room for this (it's kplass-generic),
	// so it's tracked in parallel, indexed identically to items.
	kinds []penaltyKind
}

func (p *ParagraphBuilder) pushItem(it kplass.Item, kind penaltyKind) {
	p.items = append(p.items, it)
	p.kinds = append(p.kinds, kind)
}

// SetStyle changes the paragraph-local style. Unlike the doc-level
// SetStyle, this doesn't emit a command directly: it pushes a zero-width
// style-change box into the item stream, so the line breaker sees style
// changes exactly where the renderer will later replay them.
func (p *ParagraphBuilder) SetStyle(style edfio.Style) {
	fs, id := p.doc.getStyle(style)
	if id == p.styleID {
		return
	}

	ws, wss, wsh := kplass.Whitespace(fs.EmPx())
	p.whitespaceWidth, p.whitespaceStretch, p.whitespaceShrink = ws, wss, wsh

	p.pushItem(kplass.NewStyleBox(id, fs.LineHeight(), fs.Baseline()), penaltyNone)

	p.style = fs
	p.styleID = id
}

// IsEmpty reports whether the paragraph's item buffer is empty.
func (p *ParagraphBuilder) IsEmpty() bool { return len(p.items) == 0 }

// Indent pushes a leading indent of size em-widths (of the paragraph's
// current whitespace width). Must be the first item in the paragraph.
func (p *ParagraphBuilder) Indent(size float64) {
	p.pushItem(kplass.NewBox(size*p.whitespaceWidth, kplass.BoxIndent), penaltyNone)
}

// IndentPx pushes a leading indent of size px. Must be the first item in
// the paragraph.
func (p *ParagraphBuilder) IndentPx(size float64) {
	p.pushItem(kplass.NewBox(size, kplass.BoxIndent), penaltyNone)
}

// HardLineBreak forces a line break at this point regardless of measure.
func (p *ParagraphBuilder) HardLineBreak() {
	p.pushItem(kplass.NewGlue(0, math.Inf(1), 0), penaltyNone)
	p.pushItem(kplass.NewPenalty(0, kplass.NegInf, true), penaltyHardBreak)
}

// SoftLineBreak emits a legal, non-forced break opportunity: an ordinary
// whitespace run.
func (p *ParagraphBuilder) SoftLineBreak() { p.Whitespace() }

// Whitespace pushes one inter-word glue item using the paragraph's
// current whitespace metrics.
func (p *ParagraphBuilder) Whitespace() {
	p.pushItem(kplass.NewGlue(p.whitespaceWidth, p.whitespaceStretch, p.whitespaceShrink), penaltyNone)
}

// Text splits s into Unicode words (UAX #29) and itemizes each one via
// Word.
func (p *ParagraphBuilder) Text(s string) error {
	seg := words.NewSegmenter([]byte(s))
	for seg.Next() {
		if err := p.Word(string(seg.Bytes())); err != nil {
			return err
		}
	}
	return seg.Err()
}

// Word itemizes one word-segmented chunk: pure whitespace becomes glue;
// otherwise the hyphenator is consulted for soft-break offsets, and each
// resulting fragment becomes a measured word box followed by a soft
// hyphen penalty, with the final fragment getting a trailing hard-hyphen
// penalty if it is itself a bare hyphen character.
func (p *ParagraphBuilder) Word(word string) error {
	if isAllWhitespace(word) {
		p.Whitespace()
		return nil
	}

	p.hyphBreaks = p.doc.hyphenator.Hyphenate(word, p.hyphBreaks[:0])

	last := 0
	for _, offset := range p.hyphBreaks {
		sub := word[last:offset]
		width, err := p.style.MeasureString(sub)
		if err != nil {
			return err
		}
		p.pushItem(kplass.NewWordBox(width, sub), penaltyNone)
		p.pushItem(kplass.NewPenalty(0, hyphenPenaltyCost, true), penaltySoftHyphen)
		last = offset
	}
	rest := word[last:]

	width, err := p.style.MeasureString(rest)
	if err != nil {
		return err
	}
	p.pushItem(kplass.NewWordBox(width, rest), penaltyNone)
	if rest == "-" || rest == "–" {
		p.pushItem(kplass.NewPenalty(0, hyphenPenaltyCost, true), penaltyHardHyphen)
	}
	return nil
}

// Char itemizes a single rune, e.g. a decoded character reference.
func (p *ParagraphBuilder) Char(c rune) error {
	if isWhitespaceRune(c) {
		p.Whitespace()
		return nil
	}

	width, err := p.style.MeasureString(string(c))
	if err != nil {
		return err
	}
	p.pushItem(kplass.NewCharBox(width, c), penaltyNone)
	if c == '-' || c == '–' {
		p.pushItem(kplass.NewPenalty(0, hyphenPenaltyCost, true), penaltyHardHyphen)
	}
	return nil
}

func isAllWhitespace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func isWhitespaceRune(r rune) bool {
	return unicode.IsSpace(r)
}

// break_ runs the paragraph layout algorithm and appends the resulting
// commands to p.doc, calling p.doc.AdvanceLine once per line. It does not
// clear p.items (the caller, Finish, does).
func (p *ParagraphBuilder) break_() error {
	switch len(p.items) {
	case 0:
		return nil
	case 1:
		if p.items[0].Kind == kplass.KindBox && p.items[0].Box == kplass.BoxIndent {
			return nil
		}
	}

	term := kplass.Terminator()
	p.pushItem(term[0], penaltyNone)
	p.pushItem(term[1], penaltyHardBreak)

	width := p.doc.boundingBoxW
	breaks, ok := kplass.BreakParagraph(p.items, width, math.Inf(1))
	if !ok {
		breaks = kplass.FirstFit(p.items, width)
	}
	if len(breaks) == 0 {
		return ErrLayoutFailed
	}

	currentLineHeight := p.doc.lineHeight
	currentBaseline := p.doc.baseline

	item := 0
	for _, b := range breaks {
		line := p.items[item : b.Index+1]
		lineKinds := p.kinds[item : b.Index+1]

		var commands []edfio.Command
		anyText := false
		pushLineMetrics := false

		var text strings.Builder
		for i := 0; i < len(line)-1; i++ {
			it := line[i]
			switch it.Kind {
			case kplass.KindBox:
				switch it.Box {
				case kplass.BoxSetStyle:
					if text.Len() > 0 {
						commands = append(commands, edfio.Show(text.String()))
						text.Reset()
						anyText = true
					}
					commands = append(commands, edfio.SetStyle(it.StyleID))

					if (!anyText && it.LineHeight != currentLineHeight) || it.LineHeight > currentLineHeight {
						currentLineHeight = it.LineHeight
						currentBaseline = it.Baseline
						pushLineMetrics = true
					}
				case kplass.BoxIndent:
					commands = append(commands, edfio.Advance(edfio.ClampU16(it.Width)))
				case kplass.BoxWord:
					text.WriteString(it.Word)
				case kplass.BoxChar:
					text.WriteRune(it.Char)
				}
			case kplass.KindGlue:
				// The zero-width, infinitely stretchable glue in front of
				// a forced break is not a space in the text.
				if !math.IsInf(it.Stretch, 1) {
					text.WriteByte(' ')
				}
			}
		}
		if lineKinds[len(lineKinds)-1] == penaltySoftHyphen {
			text.WriteByte('-')
		}
		if text.Len() > 0 {
			commands = append(commands, edfio.Show(text.String()))
		}

		if pushLineMetrics {
			p.doc.commands = append(p.doc.commands, edfio.SetLineMetrics(currentLineHeight, currentBaseline))
		}
		p.doc.commands = append(p.doc.commands, edfio.SetAdjustmentRatio(float32(b.AdjustmentRatio)))
		p.doc.commands = append(p.doc.commands, commands...)

		p.doc.lineHeight = currentLineHeight
		p.doc.baseline = currentBaseline

		p.doc.AdvanceLine()

		item = b.Index + 1
	}

	return nil
}

// Finish lays out the paragraph (via break_) and returns control to the
// doc builder, restoring its style/whitespace state from whatever this
// paragraph's style ended up as (a mid-paragraph SetStyle call persists
// past the paragraph's end).
func (p *ParagraphBuilder) Finish() (*Builder, error) {
	if err := p.break_(); err != nil {
		return nil, err
	}
	p.items = nil
	p.kinds = nil

	p.doc.style = p.style
	p.doc.styleID = p.styleID
	p.doc.whitespaceWidth = p.whitespaceWidth
	p.doc.whitespaceStretch = p.whitespaceStretch
	p.doc.whitespaceShrink = p.whitespaceShrink

	return p.doc, nil
}
