// Package leb128 implements unsigned LEB128 variable-length integer
// encoding: little-endian, 7-bit groups, high bit set on every byte but
// the last.
package leb128

import (
	"errors"
	"io"
)

// MaxBytes is the number of bytes needed to carry a full 64-bit value
// (ceil(64/7)).
const MaxBytes = 10

// ErrOverflow is returned when a decoded value would not fit in 64 bits.
// The reader has already consumed the offending byte and every
// continuation byte before it, so the caller can resync on the next
// unread byte rather than losing its place in the stream.
var ErrOverflow = errors.New("leb128: value overflows 64 bits")

// Read decodes a single unsigned LEB128 value from r.
func Read(r io.ByteReader) (uint64, error) {
	var (
		result uint64
		shift  uint
	)
	for i := 0; i < MaxBytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift >= 64 || (shift == 63 && b > 1) {
			// Keep consuming continuation bytes so the stream resyncs
			// on the first byte after this value, even though the
			// value itself is unusable.
			for b&0x80 != 0 {
				b, err = r.ReadByte()
				if err != nil {
					return 0, ErrOverflow
				}
			}
			return 0, ErrOverflow
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, ErrOverflow
}

// ReadBytes decodes a single unsigned LEB128 value starting at buf[0],
// returning the value and the number of bytes consumed. On ErrOverflow,
// the returned count still reflects every byte of the malformed value so
// the caller can resync immediately after it.
func ReadBytes(buf []byte) (uint64, int, error) {
	var (
		result   uint64
		shift    uint
		overflow bool
	)
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if shift >= 64 || (shift == 63 && b > 1) {
			overflow = true
		} else if !overflow {
			result |= uint64(b&0x7f) << shift
		}
		if b&0x80 == 0 {
			if overflow {
				return 0, i + 1, ErrOverflow
			}
			return result, i + 1, nil
		}
		shift += 7
	}
	return 0, len(buf), io.ErrUnexpectedEOF
}

// Write encodes v as unsigned LEB128 and writes it to w.
func Write(w io.ByteWriter, v uint64) error {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		if err := w.WriteByte(b); err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
	}
}

// AppendBytes encodes v as unsigned LEB128, appending to buf.
func AppendBytes(buf []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if v == 0 {
			return buf
		}
	}
}

// Size returns the number of bytes Write would emit for v.
func Size(v uint64) int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}
