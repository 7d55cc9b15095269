package edfio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/pgavlin/edf/leb128"
)

// Sentinel decode errors, minus IoError which callers get directly from
// their io.Reader/io.Writer.
var (
	ErrInvalidMagicNumber = errors.New("edfio: invalid magic number")
	ErrInvalidEncoding    = errors.New("edfio: invalid encoding")
	ErrInvalidCommand     = errors.New("edfio: invalid command")
	ErrInvalidStyleIndex  = errors.New("edfio: invalid style index")
)

var magic = [4]byte{0x0e, 0xdf, 0x01, 0x00}

// MinFileSize is the size below which Decode rejects a file outright:
// room for the 4-byte magic and the 4-byte trailer back-pointer.
const MinFileSize = 8

// Encode serializes h and commands as a complete EDF file, returning the
// bytes. commands is the flat, whole-document command stream: PageBreak
// entries mark page boundaries inline, and the terminating End opcode is
// appended automatically; callers never include one.
func Encode(h Header, commands []Command) ([]byte, error) {
	buf := encodeHeader(nil, h)
	headerLen := len(buf)

	buf, pageOffsets, err := encodeCommands(buf, headerLen, commands)
	if err != nil {
		return nil, err
	}

	buf = encodeTrailer(buf, pageOffsets)
	return buf, nil
}

func encodeHeader(buf []byte, h Header) []byte {
	buf = append(buf, magic[:]...)
	buf = leb128.AppendBytes(buf, uint64(len(h.Styles)))
	for _, s := range h.Styles {
		buf = leb128.AppendBytes(buf, uint64(len(s.FontName)))
		buf = append(buf, s.FontName...)
		buf = leb128.AppendBytes(buf, uint64(s.EmPx))
	}
	return buf
}

func encodeCommands(buf []byte, at int, commands []Command) ([]byte, []int, error) {
	pageOffsets := []int{at}

	for _, c := range commands {
		switch c.Op {
		case OpNop:
			buf = append(buf, byteNop)
		case OpHTab:
			buf = append(buf, byteHTab)
		case OpLineBreak:
			buf = append(buf, byteLineBreak)
		case OpVTab:
			buf = append(buf, byteVTab)
		case OpPageBreak:
			buf = append(buf, bytePageBreak)
			pageOffsets = append(pageOffsets, len(buf))
		case OpShow:
			if !utf8.ValidString(c.Str) {
				return nil, nil, fmt.Errorf("edfio: encoding %q: %w", c.Str, ErrInvalidEncoding)
			}
			buf = append(buf, c.Str...)
		case OpAdvance:
			buf = append(buf, byteAdvance)
			buf = leb128.AppendBytes(buf, uint64(c.DX))
		case OpSetCursor:
			buf = append(buf, byteSetCursor)
			buf = leb128.AppendBytes(buf, uint64(c.X))
			buf = leb128.AppendBytes(buf, uint64(c.Y))
		case OpSetStyle:
			buf = append(buf, byteSetStyle)
			buf = leb128.AppendBytes(buf, uint64(c.Style))
		case OpSetAdjustmentRatio:
			buf = append(buf, byteSetAdjustmentRatio)
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(c.Ratio))
			buf = append(buf, b[:]...)
		case OpSetLineMetrics:
			buf = append(buf, byteSetLineMetrics)
			buf = leb128.AppendBytes(buf, uint64(c.Height))
			buf = leb128.AppendBytes(buf, uint64(c.Baseline))
		default:
			// OpEnd and anything unrecognized: the terminator is always
			// synthesized below, never taken from the caller.
		}
	}
	buf = append(buf, byteEnd)
	return buf, pageOffsets, nil
}

func encodeTrailer(buf []byte, pageOffsets []int) []byte {
	trailerStart := len(buf)
	buf = leb128.AppendBytes(buf, uint64(len(pageOffsets)))
	for _, p := range pageOffsets {
		buf = leb128.AppendBytes(buf, uint64(p))
	}
	dataLen := len(buf) - trailerStart

	var back [4]byte
	binary.LittleEndian.PutUint32(back[:], uint32(int32(-dataLen)))
	return append(buf, back[:]...)
}
