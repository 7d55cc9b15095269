package glyph

import (
	"image"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Placement is the glyph bitmap's offset from the drawing cursor and its
// pixel dimensions.
type Placement struct {
	Left, Top     int
	Width, Height int
}

// Bitmap is a rasterized glyph: an 8-bit coverage buffer, row-major,
// top-down, Width*Height bytes.
type Bitmap struct {
	Placement Placement
	Coverage  []byte
}

// Rasterizer renders glyph outlines from a Store's faces to 8-bit
// coverage bitmaps. It is not safe for concurrent use: it reuses a
// scratch sfnt.Buffer across calls.
type Rasterizer struct {
	buf sfnt.Buffer
}

// NewRasterizer returns a ready-to-use Rasterizer.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// Rasterize renders r at sizePx from face. A missing or non-outline
// glyph resolves to an empty Bitmap rather than an error.
func (rz *Rasterizer) Rasterize(face *sfnt.Font, sizePx uint16, r rune) (Bitmap, error) {
	gi, err := face.GlyphIndex(&rz.buf, r)
	if err != nil {
		return Bitmap{}, err
	}
	if gi == 0 {
		return Bitmap{}, nil
	}

	ppem := fixed.I(int(sizePx))
	segs, err := face.LoadGlyph(&rz.buf, gi, ppem, nil)
	if err != nil {
		return Bitmap{}, err
	}
	if len(segs) == 0 {
		return Bitmap{}, nil
	}

	return rasterizeSegments(segs), nil
}

// rasterizeSegments scan-converts an outline (expressed in 26.6
// fixed-point, y-up, baseline at 0) into a top-down 8-bit coverage
// bitmap tightly cropped to the outline's bounding box.
func rasterizeSegments(segs []sfnt.Segment) Bitmap {
	minX, minY, maxX, maxY := boundSegments(segs)
	width := (maxX - minX).Ceil()
	height := (maxY - minY).Ceil()
	if width <= 0 || height <= 0 {
		return Bitmap{}
	}

	z := vector.NewRasterizer(width, height)
	toLocal := func(p fixed.Point26_6) (float32, float32) {
		x := float32(p.X-minX) / 64
		// Flip Y: glyph space is y-up with baseline at 0, raster space
		// is y-down with row 0 at the top of the bounding box.
		y := float32(maxY-p.Y) / 64
		return x, y
	}

	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			x, y := toLocal(seg.Args[0])
			z.MoveTo(x, y)
		case sfnt.SegmentOpLineTo:
			x, y := toLocal(seg.Args[0])
			z.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			x0, y0 := toLocal(seg.Args[0])
			x1, y1 := toLocal(seg.Args[1])
			z.QuadTo(x0, y0, x1, y1)
		case sfnt.SegmentOpCubeTo:
			x0, y0 := toLocal(seg.Args[0])
			x1, y1 := toLocal(seg.Args[1])
			x2, y2 := toLocal(seg.Args[2])
			z.CubeTo(x0, y0, x1, y1, x2, y2)
		}
	}

	dst := image.NewAlpha(image.Rect(0, 0, width, height))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	return Bitmap{
		Placement: Placement{
			Left:   int(minX) / 64,
			Top:    -(int(maxY) / 64),
			Width:  width,
			Height: height,
		},
		Coverage: dst.Pix,
	}
}

func boundSegments(segs []sfnt.Segment) (minX, minY, maxX, maxY fixed.Int26_6) {
	first := true
	consider := func(p fixed.Point26_6) {
		if first {
			minX, maxX = p.X, p.X
			minY, maxY = p.Y, p.Y
			first = false
			return
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	for _, seg := range segs {
		n := 1
		switch seg.Op {
		case sfnt.SegmentOpQuadTo:
			n = 2
		case sfnt.SegmentOpCubeTo:
			n = 3
		}
		for i := 0; i < n; i++ {
			consider(seg.Args[i])
		}
	}
	return minX, minY, maxX, maxY
}
