// Package kplass builds Knuth–Plass item streams (boxes, glue, and
// penalties) from styled inline text and breaks them into lines under a
// fixed measure.
package kplass

import "math"

// Kind tags which variant an Item holds.
type Kind int

const (
	KindBox Kind = iota
	KindGlue
	KindPenalty
)

// BoxKind tags the payload of a KindBox item.
type BoxKind int

const (
	// BoxIndent is a fixed-width leading indent; it may only appear at
	// position 0 of a paragraph's item list.
	BoxIndent BoxKind = iota
	// BoxWord carries a measured word (or hyphen-broken word fragment).
	BoxWord
	// BoxChar carries a single measured character, used for isolated
	// glyphs outside of word segmentation (e.g. punctuation runs).
	BoxChar
	// BoxSetStyle is a zero-width marker: the line-breaker sees the same
	// style changes the renderer will later replay.
	BoxSetStyle
)

// NegInf is the penalty cost that forces a break.
var NegInf = math.Inf(-1)

// Item is one element of a paragraph's Knuth–Plass stream. Exactly one
// of the Box/Glue/Penalty field groups is meaningful, selected by Kind;
// this is a flat tagged variant rather than an interface so the hot path
// (line-breaking) never needs dynamic dispatch or a type switch over
// concrete implementations.
type Item struct {
	Kind Kind

	// Width is meaningful for all three kinds: a box's width, a glue's
	// natural width, or a penalty's width (almost always 0).
	Width float64

	// Box payload, meaningful when Kind == KindBox.
	Box BoxKind
	// Word is set when Box == BoxWord.
	Word string
	// Char is set when Box == BoxChar.
	Char rune
	// StyleID, LineHeight, Baseline are set when Box == BoxSetStyle.
	StyleID    uint16
	LineHeight uint16
	Baseline   uint16

	// Glue elasticity, meaningful when Kind == KindGlue.
	Stretch, Shrink float64

	// Penalty cost and flag, meaningful when Kind == KindPenalty.
	// Cost == NegInf forces a break. Flagged discourages two flagged
	// breaks on consecutive lines.
	Cost    float64
	Flagged bool
}

// NewBox returns a box item.
func NewBox(width float64, kind BoxKind) Item {
	return Item{Kind: KindBox, Width: width, Box: kind}
}

// NewWordBox returns a box item carrying a measured word.
func NewWordBox(width float64, word string) Item {
	return Item{Kind: KindBox, Width: width, Box: BoxWord, Word: word}
}

// NewCharBox returns a box item carrying a single measured character.
func NewCharBox(width float64, ch rune) Item {
	return Item{Kind: KindBox, Width: width, Box: BoxChar, Char: ch}
}

// NewStyleBox returns a zero-width style-change box item.
func NewStyleBox(styleID uint16, lineHeight, baseline uint16) Item {
	return Item{
		Kind:       KindBox,
		Box:        BoxSetStyle,
		StyleID:    styleID,
		LineHeight: lineHeight,
		Baseline:   baseline,
	}
}

// NewGlue returns a glue item.
func NewGlue(width, stretch, shrink float64) Item {
	return Item{Kind: KindGlue, Width: width, Stretch: stretch, Shrink: shrink}
}

// NewPenalty returns a penalty item.
func NewPenalty(width, cost float64, flagged bool) Item {
	return Item{Kind: KindPenalty, Width: width, Cost: cost, Flagged: flagged}
}

// Whitespace derives the glue dimensions for a space character at the
// given em size.
func Whitespace(emPx uint16) (width, stretch, shrink float64) {
	width = float64(emPx) / 3.0
	stretch = width / 2.0
	shrink = width / 3.0
	return width, stretch, shrink
}

// IsForcedBreak reports whether item is the terminal forced-break
// penalty (cost == -Inf, flagged).
func (it Item) IsForcedBreak() bool {
	return it.Kind == KindPenalty && it.Flagged && it.Cost == NegInf
}

// Terminator returns the two items ("infinite-stretch glue" followed by
// a forced penalty) every paragraph item list must end with.
func Terminator() [2]Item {
	return [2]Item{
		NewGlue(0, math.Inf(1), 0),
		NewPenalty(0, NegInf, true),
	}
}
