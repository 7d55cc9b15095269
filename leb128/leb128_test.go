package leb128

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	values := []uint64{0, 1, 127, 128, 300, 16384, 1 << 35, ^uint64(0)}
	for _, v := range values {
		var buf bytes.Buffer
		assert.NoError(Write(&buf, v))

		got, err := Read(&buf)
		assert.NoError(err)
		assert.Equal(v, got)
	}
}

func TestRead_CanonicalMultiByteValue(t *testing.T) {
	assert := assert.New(t)

	// 0xE5 0x8E 0x26 is the canonical LEB128 encoding of 624485.
	buf := bytes.NewReader([]byte{0xE5, 0x8E, 0x26})
	got, err := Read(buf)
	assert.NoError(err)
	assert.EqualValues(624485, got)
}

func TestReadBytes_ConsumesWholeValue(t *testing.T) {
	assert := assert.New(t)

	encoded := AppendBytes(nil, 300)
	v, n, err := ReadBytes(append(encoded, 0x7F))
	assert.NoError(err)
	assert.EqualValues(300, v)
	assert.Equal(len(encoded), n)
}

func TestReadBytes_OverflowResyncs(t *testing.T) {
	assert := assert.New(t)

	// 9 continuation bytes followed by a terminator: overflows 64 bits.
	malformed := bytes.Repeat([]byte{0xFF}, 9)
	malformed = append(malformed, 0x7F)
	trailing := []byte{0x01}

	v, n, err := ReadBytes(append(append([]byte{}, malformed...), trailing...))
	assert.ErrorIs(err, ErrOverflow)
	assert.Zero(v)
	assert.Equal(len(malformed), n, "overflow must consume exactly the malformed value so the next byte resyncs")
}

func TestSize_MatchesWrittenLength(t *testing.T) {
	assert := assert.New(t)

	for _, v := range []uint64{0, 1, 127, 128, 1 << 20} {
		var buf bytes.Buffer
		assert.NoError(Write(&buf, v))
		assert.Equal(Size(v), buf.Len())
	}
}

func TestRead_TruncatedStream(t *testing.T) {
	assert := assert.New(t)

	buf := bytes.NewReader([]byte{0x80}) // continuation bit set, no following byte
	_, err := Read(buf)
	assert.Error(err)
}
