package hyphen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNull_NeverProposesABreak(t *testing.T) {
	out := Null.Hyphenate("documentation", []int{1, 2, 3})
	assert.Empty(t, out)
}

func TestNull_ReusesBackingArray(t *testing.T) {
	buf := make([]int, 0, 4)
	buf = append(buf, 7)
	out := Null.Hyphenate("word", buf)
	assert.Empty(t, out)
	assert.Equal(t, cap(buf), cap(out))
}
