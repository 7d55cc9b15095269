package layout

import "github.com/pgavlin/edf/edfio"

// State is the doc/paragraph handoff as a tagged variant rather than
// inheritance: an adapter driving the builder from an external event
// stream (markdown, epub) holds one State and calls EnterParagraph/
// LeaveParagraph as its own nesting requires, without needing to track
// which Go type it's currently holding.
type State struct {
	doc *Builder
	par *ParagraphBuilder
}

// NewState wraps a fresh doc-state Builder.
func NewState(b *Builder) *State { return &State{doc: b} }

// InParagraph reports whether the state is currently in paragraph mode.
func (s *State) InParagraph() bool { return s.par != nil }

// EnterParagraph transitions into paragraph state. If already in
// paragraph state, the current paragraph is finished first (its
// Finish error, if any, is returned and the state is left unchanged).
func (s *State) EnterParagraph() error {
	if s.par != nil {
		doc, err := s.par.Finish()
		if err != nil {
			return err
		}
		s.doc, s.par = doc, nil
	}
	s.par = s.doc.Paragraph()
	s.doc = nil
	return nil
}

// LeaveParagraph finishes the current paragraph and returns to doc state.
// It is a no-op if already in doc state.
func (s *State) LeaveParagraph() error {
	if s.par == nil {
		return nil
	}
	doc, err := s.par.Finish()
	if err != nil {
		return err
	}
	s.doc, s.par = doc, nil
	return nil
}

// SetStyle dispatches to whichever builder is active.
func (s *State) SetStyle(style edfio.Style) {
	if s.par != nil {
		s.par.SetStyle(style)
		return
	}
	s.doc.SetStyle(style)
}

// Paragraph returns the active ParagraphBuilder. Panics if not in
// paragraph state — a programming error in the adapter, not a recoverable
// condition.
func (s *State) Paragraph() *ParagraphBuilder {
	if s.par == nil {
		panic("layout: State is not in paragraph mode")
	}
	return s.par
}

// Doc returns the active Builder. Panics if currently in paragraph state.
func (s *State) Doc() *Builder {
	if s.doc == nil {
		panic("layout: State is in paragraph mode")
	}
	return s.doc
}

// Take finishes any open paragraph and returns the underlying Builder,
// ready for Finish.
func (s *State) Take() (*Builder, error) {
	if err := s.LeaveParagraph(); err != nil {
		return nil, err
	}
	return s.doc, nil
}
