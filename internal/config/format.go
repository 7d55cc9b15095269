package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/pgavlin/edf/edfio"
	"github.com/pgavlin/edf/markdown"
)

// StyleSpec names a font and a point size; Device resolves the point
// size to a pixel em size for a particular screen's PPI.
type StyleSpec struct {
	FontName  string  `toml:"font_name"`
	PointSize float64 `toml:"point_size"`
}

// Style resolves spec against device into the edfio.Style a layout
// pass actually consumes.
func (spec StyleSpec) Style(device Device) edfio.Style {
	return edfio.Style{FontName: spec.FontName, EmPx: device.PointSizeToPx(spec.PointSize)}
}

// Format is the per-style formatting a markdown document is built
// with: a mandatory regular style plus optional emphasis, strong, and
// per-level heading styles.
type Format struct {
	Regular  StyleSpec   `toml:"regular"`
	Emphasis *StyleSpec  `toml:"emphasis"`
	Strong   *StyleSpec  `toml:"strong"`
	Heading  []StyleSpec `toml:"heading"`
}

// DefaultFormat is used when a mk invocation supplies no format
// config: regular 12pt text in the font named fontName, no emphasis,
// strong, or heading styling.
func DefaultFormat(fontName string) Format {
	return Format{Regular: StyleSpec{FontName: fontName, PointSize: 12}}
}

// LoadFormat reads a format config file.
func LoadFormat(path string) (Format, error) {
	var f Format
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return Format{}, fmt.Errorf("config: reading format config %s: %w", path, err)
	}
	return f, nil
}

// Options resolves this format against device into markdown.Options.
func (f Format) Options(device Device) markdown.Options {
	opts := markdown.NewOptions(f.Regular.Style(device))
	if f.Emphasis != nil {
		opts = opts.WithEmphasis(f.Emphasis.Style(device))
	}
	if f.Strong != nil {
		opts = opts.WithStrong(f.Strong.Style(device))
	}
	if len(f.Heading) > 0 {
		headings := make([]edfio.Style, len(f.Heading))
		for i, h := range f.Heading {
			headings[i] = h.Style(device)
		}
		opts = opts.WithHeading(headings)
	}
	return opts
}
