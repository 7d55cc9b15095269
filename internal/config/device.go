// Package config loads the TOML configuration files the edf CLI tools
// take on the command line: device geometry, font paths, and per-style
// formatting. None of this is interpreted by the core packages — it
// exists only to translate a user's config files into the edfio.Style
// and geometry values layout and render actually consume.
package config

import (
	"fmt"
	"image"

	"github.com/BurntSushi/toml"
)

// Device describes a target e-reader's screen geometry and margins, in
// pixels, plus its pixel density (used to turn point sizes into pixel
// em sizes).
type Device struct {
	PPI            uint32 `toml:"ppi"`
	WidthPx        uint32 `toml:"width_px"`
	HeightPx       uint32 `toml:"height_px"`
	TopMarginPx    uint32 `toml:"top_margin_px"`
	LeftMarginPx   uint32 `toml:"left_margin_px"`
	BottomMarginPx uint32 `toml:"bottom_margin_px"`
	RightMarginPx  uint32 `toml:"right_margin_px"`
}

// LoadDevice reads and validates a device config file.
func LoadDevice(path string) (Device, error) {
	var d Device
	if _, err := toml.DecodeFile(path, &d); err != nil {
		return Device{}, fmt.Errorf("config: reading device config %s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return Device{}, fmt.Errorf("config: device config %s: %w", path, err)
	}
	return d, nil
}

// Validate reports whether the margins leave a non-empty content box.
func (d Device) Validate() error {
	if d.PPI == 0 {
		return fmt.Errorf("ppi must be positive")
	}
	if d.LeftMarginPx+d.RightMarginPx >= d.WidthPx {
		return fmt.Errorf("left_margin_px + right_margin_px must be less than width_px")
	}
	if d.TopMarginPx+d.BottomMarginPx >= d.HeightPx {
		return fmt.Errorf("top_margin_px + bottom_margin_px must be less than height_px")
	}
	return nil
}

// PointSizeToPx converts a point size to a pixel em size at this
// device's PPI: 1 point is 1/72 of an inch.
func (d Device) PointSizeToPx(pointSize float64) uint16 {
	return uint16(float64(d.PPI) * pointSize / 72)
}

// ContentBox returns the drawable rectangle inside the device's
// margins, with its origin at the margin's top-left corner.
func (d Device) ContentBox() image.Rectangle {
	return image.Rect(
		int(d.LeftMarginPx), int(d.TopMarginPx),
		int(d.WidthPx-d.RightMarginPx), int(d.HeightPx-d.BottomMarginPx),
	)
}

// Origin is the top-left point of ContentBox, the cursor's starting
// position for a freshly laid-out page.
func (d Device) Origin() image.Point {
	return image.Point{X: int(d.LeftMarginPx), Y: int(d.TopMarginPx)}
}
