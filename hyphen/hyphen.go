// Package hyphen provides the pluggable soft-hyphenation capability the
// item builder consults when splitting words across lines.
package hyphen

// Hyphenator reports the byte offsets within word where a soft break is
// permissible, in ascending order. Hyphenate must clear out and append
// to it; the returned slice (aliasing out) lets callers reuse one
// backing array across many words in a paragraph.
type Hyphenator interface {
	Hyphenate(word string, out []int) []int
}

// Null is the zero-behavior Hyphenator: it never proposes a break.
var Null Hyphenator = nullHyphenator{}

type nullHyphenator struct{}

func (nullHyphenator) Hyphenate(word string, out []int) []int {
	return out[:0]
}
