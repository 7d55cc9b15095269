// Package assets embeds the fonts shipped inside the edf binary
// itself, so a document can be built or shown without a font config
// at all.
package assets

import _ "embed"

// DefaultFontName is the style name every command that falls back to
// the embedded font registers it under.
const DefaultFontName = "regular"

// DefaultFont is a complete TrueType font, embedded so mk and show
// have something to render with when the caller supplies no font
// config.
//go:embed default.ttf
var DefaultFont []byte
