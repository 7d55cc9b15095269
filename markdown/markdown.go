// Package markdown drives a layout.Builder from a CommonMark document,
// walking the AST goldmark produces rather than re-parsing the source
// itself.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pgavlin/edf/edfio"
	"github.com/pgavlin/edf/hyphen"
	"github.com/pgavlin/edf/layout"
)

// Options configures which styles a Build call uses for markup the
// regular body style doesn't cover. Emphasis, Strong, and Heading are
// all optional: a nil entry leaves the surrounding text in the current
// style, same as the regular style itself having no special markup.
type Options struct {
	Regular  edfio.Style
	Emphasis *edfio.Style
	Strong   *edfio.Style
	Heading  []edfio.Style // indexed by (level - 1); short or nil leaves deep headings in the regular style
}

// NewOptions returns Options using regular as the body style, with no
// emphasis, strong, or heading styling.
func NewOptions(regular edfio.Style) Options { return Options{Regular: regular} }

// WithEmphasis sets the style used for *emphasis* runs.
func (o Options) WithEmphasis(s edfio.Style) Options { o.Emphasis = &s; return o }

// WithStrong sets the style used for **strong** runs.
func (o Options) WithStrong(s edfio.Style) Options { o.Strong = &s; return o }

// WithHeading sets the per-level heading styles, indexed by (level - 1).
func (o Options) WithHeading(s []edfio.Style) Options { o.Heading = s; return o }

// thematicBreakRule is the text a thematic break is rendered as: a run
// of box-drawing characters in whatever style is current at that point
// in the document, rather than being silently dropped.
const thematicBreakRule = "────────────────────"

// Build parses source as CommonMark and lays it out into an EDF document
// of the given page size, returning the resulting header and command
// stream ready for edfio.Encode. hyphenator may be hyphen.Null.
func Build(source []byte, pageW, pageH float64, fonts layout.Fonts, opts Options, hyphenator hyphen.Hyphenator) (edfio.Header, []edfio.Command, error) {
	doc, err := layout.NewBuilder(pageW, pageH, fonts, opts.Regular, hyphenator)
	if err != nil {
		return edfio.Header{}, nil, err
	}

	root := goldmark.New().Parser().Parse(text.NewReader(source))

	w := &walker{source: source, opts: opts, state: layout.NewState(doc)}
	if err := ast.Walk(root, w.walk); err != nil {
		return edfio.Header{}, nil, err
	}

	b, err := w.state.Take()
	if err != nil {
		return edfio.Header{}, nil, err
	}
	header, commands := b.Finish()
	return header, commands, nil
}

// walker drives a layout.State across one goldmark AST walk. It tracks
// just enough nesting state (heading level, list/blockquote depth) to
// reproduce the indentation and heading rules a plain node-by-node walk
// can't infer on its own.
type walker struct {
	source []byte
	opts   Options
	state  *layout.State

	headingLevel    int
	listDepth       int
	blockquoteDepth int
}

func (w *walker) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		return w.enter(n)
	}
	return ast.WalkContinue, w.exit(n)
}

func (w *walker) enter(n ast.Node) (ast.WalkStatus, error) {
	switch n.Kind() {
	case ast.KindHeading:
		return ast.WalkContinue, w.enterHeading(n.(*ast.Heading))
	case ast.KindParagraph:
		return ast.WalkContinue, w.enterParagraph()
	case ast.KindEmphasis:
		w.enterEmphasis(n.(*ast.Emphasis))
	case ast.KindList:
		w.listDepth++
	case ast.KindBlockquote:
		w.blockquoteDepth++
	case ast.KindThematicBreak:
		return ast.WalkSkipChildren, w.onThematicBreak()
	case ast.KindAutoLink:
		return ast.WalkSkipChildren, w.onAutoLink(n.(*ast.AutoLink))
	case ast.KindText:
		return ast.WalkContinue, w.onText(n.(*ast.Text))
	case ast.KindString:
		return ast.WalkContinue, w.onString(n.(*ast.String))
	}
	return ast.WalkContinue, nil
}

func (w *walker) exit(n ast.Node) error {
	switch n.Kind() {
	case ast.KindHeading:
		return w.exitHeading()
	case ast.KindParagraph:
		return w.exitParagraph()
	case ast.KindEmphasis, ast.KindAutoLink:
		w.setRegular()
	case ast.KindList:
		w.listDepth--
	case ast.KindBlockquote:
		w.blockquoteDepth--
	}
	return nil
}

func (w *walker) setRegular() {
	if w.state.InParagraph() {
		w.state.SetStyle(w.opts.Regular)
	}
}

// enterHeading mirrors the chosen heading policy: a level-1 heading
// starts a fresh page if the document already has content; any level
// then opens a paragraph styled per opts.Heading.
func (w *walker) enterHeading(n *ast.Heading) error {
	w.headingLevel = n.Level
	if n.Level == 1 && !w.state.Doc().IsEmpty() {
		w.state.Doc().PageBreak()
	}
	if err := w.state.EnterParagraph(); err != nil {
		return err
	}
	if i := n.Level - 1; i >= 0 && i < len(w.opts.Heading) {
		w.state.SetStyle(w.opts.Heading[i])
	}
	return nil
}

func (w *walker) exitHeading() error {
	if err := w.state.LeaveParagraph(); err != nil {
		return err
	}
	w.state.Doc().AdvanceLine()
	w.state.SetStyle(w.opts.Regular)
	return nil
}

// enterParagraph opens a paragraph indented per the current list/
// blockquote nesting: list items indent by (depth+1) em-units, and each
// level of blockquote nesting adds one more, reusing Indent rather than
// adding a new builder primitive.
func (w *walker) enterParagraph() error {
	if err := w.state.EnterParagraph(); err != nil {
		return err
	}
	w.state.Paragraph().Indent(w.paragraphIndent())
	return nil
}

func (w *walker) paragraphIndent() float64 {
	indent := 4.0
	if w.listDepth > 0 {
		indent = float64(w.listDepth + 1)
	}
	if w.blockquoteDepth > 0 {
		indent += float64(w.blockquoteDepth)
	}
	return indent
}

func (w *walker) exitParagraph() error {
	return w.state.LeaveParagraph()
}

func (w *walker) enterEmphasis(n *ast.Emphasis) {
	if !w.state.InParagraph() {
		return
	}
	switch n.Level {
	case 1:
		if w.opts.Emphasis != nil {
			w.state.SetStyle(*w.opts.Emphasis)
		}
	case 2:
		if w.opts.Strong != nil {
			w.state.SetStyle(*w.opts.Strong)
		}
	}
}

// onThematicBreak renders a `---` as a short rule of box-drawing
// characters rather than dropping it.
func (w *walker) onThematicBreak() error {
	if err := w.state.EnterParagraph(); err != nil {
		return err
	}
	p := w.state.Paragraph()
	if err := p.Text(thematicBreakRule); err != nil {
		return err
	}
	p.HardLineBreak()
	return w.state.LeaveParagraph()
}

// onAutoLink writes an autolink's literal text in the current style.
// Label styling (a distinct "link" style) is left for a future pass:
// today it reads exactly like surrounding text, the same simplification
// the layout this package is grounded on makes.
func (w *walker) onAutoLink(n *ast.AutoLink) error {
	if !w.state.InParagraph() {
		return nil
	}
	return w.state.Paragraph().Text(string(n.Label(w.source)))
}

// onText handles a source-backed text run, including the hard/soft line
// break markdown attaches to the end of some text nodes (trailing
// backslash or two-or-more spaces for hard, a bare line ending for
// soft).
func (w *walker) onText(n *ast.Text) error {
	if !w.state.InParagraph() {
		return nil
	}
	p := w.state.Paragraph()
	if seg := n.Segment; seg.Len() > 0 {
		if err := p.Text(string(seg.Value(w.source))); err != nil {
			return err
		}
	}
	switch {
	case n.HardLineBreak():
		p.HardLineBreak()
	case n.SoftLineBreak():
		p.SoftLineBreak()
	}
	return nil
}

// onString handles already-decoded text goldmark produces out-of-band
// from the source buffer — backslash escapes and character references
// are both resolved by goldmark's inline parser into *ast.String nodes
// before the AST is ever walked, so there is no separate decode step to
// replicate here the way the event-based original needed one.
func (w *walker) onString(n *ast.String) error {
	if !w.state.InParagraph() || len(n.Value) == 0 {
		return nil
	}
	if strings.ContainsAny(string(n.Value), " \t") {
		return w.state.Paragraph().Text(string(n.Value))
	}
	return w.state.Paragraph().Word(string(n.Value))
}
