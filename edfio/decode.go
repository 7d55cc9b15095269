package edfio

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/pgavlin/edf/leb128"
)

// Decode parses a complete EDF file, returning the style table and the
// commands of each page (in page order). Each page's command slice ends
// with the PageBreak or End command that terminated it on the wire.
func Decode(data []byte) (Header, [][]Command, error) {
	if len(data) < MinFileSize {
		return Header{}, nil, fmt.Errorf("edfio: file is %d bytes, want at least %d: %w", len(data), MinFileSize, ErrInvalidEncoding)
	}

	h, headerLen, err := DecodeHeader(data)
	if err != nil {
		return Header{}, nil, err
	}

	tStart, err := trailerStart(data)
	if err != nil {
		return Header{}, nil, err
	}

	pages, err := decodeTrailer(data[tStart:])
	if err != nil {
		return Header{}, nil, err
	}
	if len(pages) == 0 {
		return Header{}, nil, fmt.Errorf("edfio: trailer has no pages: %w", ErrInvalidEncoding)
	}
	if int(pages[0]) != headerLen {
		return Header{}, nil, fmt.Errorf("edfio: first page offset %d, want header length %d: %w", pages[0], headerLen, ErrInvalidEncoding)
	}

	out := make([][]Command, len(pages))
	for i, off := range pages {
		if int(off) > tStart {
			return Header{}, nil, fmt.Errorf("edfio: page offset %d past trailer start %d: %w", off, tStart, ErrInvalidEncoding)
		}
		cmds, err := DecodePage(h, data[off:tStart])
		if err != nil {
			return Header{}, nil, err
		}
		out[i] = cmds
	}
	return h, out, nil
}

// DecodeHeader reads the magic number and style table from the start of
// data, returning the header and the number of bytes it occupies.
func DecodeHeader(data []byte) (Header, int, error) {
	if len(data) < 4 || data[0] != magic[0] || data[1] != magic[1] || data[2] != magic[2] || data[3] != magic[3] {
		return Header{}, 0, ErrInvalidMagicNumber
	}
	pos := 4

	nStyles, n, err := leb128.ReadBytes(data[pos:])
	if err != nil {
		return Header{}, 0, fmt.Errorf("edfio: reading style count: %w", ErrInvalidEncoding)
	}
	pos += n

	styles := make([]Style, 0, nStyles)
	for i := uint64(0); i < nStyles; i++ {
		s, n, err := decodeStyle(data[pos:])
		if err != nil {
			return Header{}, 0, err
		}
		pos += n
		styles = append(styles, s)
	}
	return Header{Styles: styles}, pos, nil
}

func decodeStyle(data []byte) (Style, int, error) {
	nameLen, n, err := leb128.ReadBytes(data)
	if err != nil {
		return Style{}, 0, fmt.Errorf("edfio: reading style name length: %w", ErrInvalidEncoding)
	}
	pos := n

	if uint64(len(data)-pos) < nameLen {
		return Style{}, 0, fmt.Errorf("edfio: truncated style name: %w", ErrInvalidEncoding)
	}
	nameBytes := data[pos : pos+int(nameLen)]
	if !utf8.Valid(nameBytes) {
		return Style{}, 0, fmt.Errorf("edfio: style name is not valid UTF-8: %w", ErrInvalidEncoding)
	}
	name := string(nameBytes)
	pos += int(nameLen)

	emPx, n, err := leb128.ReadBytes(data[pos:])
	if err != nil || emPx > math.MaxUint16 {
		return Style{}, 0, fmt.Errorf("edfio: reading style em size: %w", ErrInvalidEncoding)
	}
	pos += n

	return Style{FontName: name, EmPx: uint16(emPx)}, pos, nil
}

// trailerStart locates the byte offset of the trailer within data by
// reading the 4-byte back-pointer at the very end of the file. The
// stored value is the negative length of the trailer's page-offset
// section alone (it does not count its own 4 bytes), so landing exactly
// on the trailer start requires subtracting those 4 bytes a second time.
func trailerStart(data []byte) (int, error) {
	n := len(data)
	backOff := int32(binary.LittleEndian.Uint32(data[n-4 : n]))
	if backOff >= 0 {
		return 0, fmt.Errorf("edfio: back-pointer %d is not negative: %w", backOff, ErrInvalidEncoding)
	}
	start := n + int(backOff) - 4
	if start < 0 || start > n {
		return 0, fmt.Errorf("edfio: back-pointer %d is out of range: %w", backOff, ErrInvalidEncoding)
	}
	return start, nil
}

func decodeTrailer(data []byte) ([]uint32, error) {
	nPages, n, err := leb128.ReadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("edfio: reading page count: %w", ErrInvalidEncoding)
	}
	pos := n

	pages := make([]uint32, 0, nPages)
	for i := uint64(0); i < nPages; i++ {
		off, n, err := leb128.ReadBytes(data[pos:])
		if err != nil || off > math.MaxUint32 {
			return nil, fmt.Errorf("edfio: reading page offset: %w", ErrInvalidEncoding)
		}
		pos += n
		pages = append(pages, uint32(off))
	}

	var prev uint32
	for i, p := range pages {
		if i > 0 && p <= prev {
			return nil, fmt.Errorf("edfio: page offsets are not strictly increasing: %w", ErrInvalidEncoding)
		}
		prev = p
	}
	return pages, nil
}

func isShowStart(b byte) bool {
	return (b >= 0x20 && b <= 0x7f) || b >= 0xc0
}

// DecodePage decodes the commands of a single page starting at source[0],
// stopping as soon as it decodes that page's PageBreak or End terminator.
// source may extend past the page's own bytes (e.g. the remainder of the
// whole document); DecodePage never reads past its page's terminator.
func DecodePage(h Header, source []byte) ([]Command, error) {
	var out []Command

	for len(source) > 0 {
		i := 0
		for i < len(source) && isShowStart(source[i]) {
			_, size := utf8.DecodeRune(source[i:])
			if size == 0 {
				size = 1
			}
			i += size
		}
		if i > len(source) {
			i = len(source)
		}
		if i != 0 {
			if !utf8.Valid(source[:i]) {
				return nil, fmt.Errorf("edfio: show run is not valid UTF-8: %w", ErrInvalidEncoding)
			}
			out = append(out, Show(string(source[:i])))
		}

		if i == len(source) {
			source = source[i:]
			continue
		}

		cmd, n, err := decodeCommand(h, source[i:])
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
		if cmd.Op == OpPageBreak || cmd.Op == OpEnd {
			return out, nil
		}
		source = source[i+n:]
	}
	return out, nil
}

func decodeCommand(h Header, source []byte) (Command, int, error) {
	code := source[0]
	rest := source[1:]

	switch code {
	case byteHTab:
		return Command{Op: OpHTab}, 1, nil
	case byteLineBreak:
		return Command{Op: OpLineBreak}, 1, nil
	case byteVTab:
		return Command{Op: OpVTab}, 1, nil
	case bytePageBreak:
		return Command{Op: OpPageBreak}, 1, nil
	case byteNop:
		return Command{Op: OpNop}, 1, nil
	case byteAdvance:
		dx, n, err := leb128.ReadBytes(rest)
		if err != nil || dx > math.MaxUint16 {
			return Command{}, 0, fmt.Errorf("edfio: decoding Advance: %w", ErrInvalidEncoding)
		}
		return Command{Op: OpAdvance, DX: uint16(dx)}, 1 + n, nil
	case byteSetCursor:
		x, n1, err := leb128.ReadBytes(rest)
		if err != nil || x > math.MaxUint16 {
			return Command{}, 0, fmt.Errorf("edfio: decoding SetCursor x: %w", ErrInvalidEncoding)
		}
		y, n2, err := leb128.ReadBytes(rest[n1:])
		if err != nil || y > math.MaxUint16 {
			return Command{}, 0, fmt.Errorf("edfio: decoding SetCursor y: %w", ErrInvalidEncoding)
		}
		return Command{Op: OpSetCursor, X: uint16(x), Y: uint16(y)}, 1 + n1 + n2, nil
	case byteSetStyle:
		s, n, err := leb128.ReadBytes(rest)
		if err != nil || s > math.MaxUint16 {
			return Command{}, 0, fmt.Errorf("edfio: decoding SetStyle: %w", ErrInvalidEncoding)
		}
		if int(s) >= len(h.Styles) {
			return Command{}, 0, ErrInvalidStyleIndex
		}
		return Command{Op: OpSetStyle, Style: uint16(s)}, 1 + n, nil
	case byteSetAdjustmentRatio:
		if len(rest) < 4 {
			return Command{}, 0, fmt.Errorf("edfio: truncated SetAdjustmentRatio: %w", ErrInvalidEncoding)
		}
		bits := binary.LittleEndian.Uint32(rest[:4])
		return Command{Op: OpSetAdjustmentRatio, Ratio: math.Float32frombits(bits)}, 5, nil
	case byteSetLineMetrics:
		height, n1, err := leb128.ReadBytes(rest)
		if err != nil || height > math.MaxUint16 {
			return Command{}, 0, fmt.Errorf("edfio: decoding SetLineMetrics height: %w", ErrInvalidEncoding)
		}
		baseline, n2, err := leb128.ReadBytes(rest[n1:])
		if err != nil || baseline > math.MaxUint16 {
			return Command{}, 0, fmt.Errorf("edfio: decoding SetLineMetrics baseline: %w", ErrInvalidEncoding)
		}
		return Command{Op: OpSetLineMetrics, Height: uint16(height), Baseline: uint16(baseline)}, 1 + n1 + n2, nil
	case byteEnd:
		return Command{Op: OpEnd}, 1, nil
	default:
		return Command{}, 0, ErrInvalidCommand
	}
}
