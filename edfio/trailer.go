package edfio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pgavlin/edf/leb128"
)

// Trailer is the decoded page-offset index of an EDF file.
type Trailer struct {
	Pages []uint32
}

// SeekTrailer positions r at the first byte of the trailer's page count
// (n_pages) by reading the 4-byte back-pointer at the end of the stream,
// and returns that absolute offset. r must support io.SeekEnd.
func SeekTrailer(r io.ReadSeeker) (int64, error) {
	if _, err := r.Seek(-4, io.SeekEnd); err != nil {
		return 0, err
	}
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	backOff := int32(binary.LittleEndian.Uint32(buf[:]))
	if backOff >= 0 {
		return 0, fmt.Errorf("edfio: back-pointer %d is not negative: %w", backOff, ErrInvalidEncoding)
	}
	// The cursor is at EOF after the read above; back up by the
	// back-pointer's own 4 bytes a second time, since the stored value
	// only covers the trailer's page-offset section.
	return r.Seek(int64(backOff)-4, io.SeekEnd)
}

// ReadTrailer reads a Trailer's page count and offsets starting at r's
// current position (as left by SeekTrailer).
func ReadTrailer(r io.ByteReader) (Trailer, error) {
	nPages, err := leb128.Read(r)
	if err != nil {
		return Trailer{}, fmt.Errorf("edfio: reading page count: %w", ErrInvalidEncoding)
	}

	pages := make([]uint32, 0, nPages)
	var prev uint32
	for i := uint64(0); i < nPages; i++ {
		off, err := leb128.Read(r)
		if err != nil {
			return Trailer{}, fmt.Errorf("edfio: reading page offset: %w", ErrInvalidEncoding)
		}
		if i > 0 && uint32(off) <= prev {
			return Trailer{}, fmt.Errorf("edfio: page offsets are not strictly increasing: %w", ErrInvalidEncoding)
		}
		prev = uint32(off)
		pages = append(pages, prev)
	}
	return Trailer{Pages: pages}, nil
}

// SeekPage decodes only the single page pageNum (0-based) from r, using
// the trailer to jump directly to its start rather than decoding every
// preceding page. r must support io.SeekStart/io.SeekEnd.
func SeekPage(r io.ReadSeeker, h Header, pageNum int) ([]Command, error) {
	trailerOff, err := SeekTrailer(r)
	if err != nil {
		return nil, err
	}

	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufByteReader{r}
	}
	trailer, err := ReadTrailer(br)
	if err != nil {
		return nil, err
	}
	if pageNum < 0 || pageNum >= len(trailer.Pages) {
		return nil, fmt.Errorf("edfio: page %d out of range [0,%d)", pageNum, len(trailer.Pages))
	}

	start := int64(trailer.Pages[pageNum])
	end := trailerOff
	if pageNum+1 < len(trailer.Pages) {
		end = int64(trailer.Pages[pageNum+1])
	}

	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, end-start)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	return DecodePage(h, buf)
}

// bufByteReader adapts an io.Reader without ReadByte to io.ByteReader by
// reading one byte at a time. SeekPage needs this for *os.File, which
// satisfies io.ReadSeeker but not io.ByteReader.
type bufByteReader struct {
	io.Reader
}

func (b bufByteReader) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := io.ReadFull(b, buf[:])
	return buf[0], err
}
