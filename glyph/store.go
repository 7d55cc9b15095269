// Package glyph turns parsed TTF/OpenType faces into the two things the
// rest of the pipeline needs: per-size line metrics and cached,
// rasterized glyph bitmaps.
package glyph

import (
	"fmt"
	"sync"

	"golang.org/x/image/font/sfnt"
)

// FontID identifies a registered font face. It is stable for the
// lifetime of a Store and is what the glyph cache keys on (the wire
// format itself only ever carries style indices, never a FontID).
type FontID uint32

// Store owns the parsed faces used by a document: layout measurement
// resolves (font name, em_px) to metrics through it, and the renderer
// resolves a style's font name to a face for glyph drawing. Its methods
// take an internal read/write lock, so they may be called concurrently.
type Store struct {
	mu     sync.RWMutex
	byName map[string]FontID
	faces  []*sfnt.Font
	names  []string
	nextID FontID
}

// NewStore returns an empty font store.
func NewStore() *Store {
	return &Store{byName: make(map[string]FontID)}
}

// Register parses src as a TTF/OpenType face and registers it under name,
// overwriting any previous registration of the same name. It returns the
// face's FontID.
func (s *Store) Register(name string, src []byte) (FontID, error) {
	face, err := sfnt.Parse(src)
	if err != nil {
		return 0, fmt.Errorf("glyph: parsing font %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byName[name]; ok {
		s.faces[id] = face
		s.names[id] = name
		return id, nil
	}

	id := s.nextID
	s.nextID++
	s.byName[name] = id
	s.faces = append(s.faces, face)
	s.names = append(s.names, name)
	return id, nil
}

// Lookup resolves a registered font by name.
func (s *Store) Lookup(name string) (FontID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	return id, ok
}

// Face returns the parsed face for id.
func (s *Store) Face(id FontID) (*sfnt.Font, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(id) >= len(s.faces) {
		return nil, false
	}
	return s.faces[id], true
}

// Name returns the registered name for id.
func (s *Store) Name(id FontID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(id) >= len(s.names) {
		return "", false
	}
	return s.names[id], true
}
