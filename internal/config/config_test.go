package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDevice_DerivesContentBoxFromMargins(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	path := writeFile(t, dir, "device.toml", `
ppi = 300
width_px = 1404
height_px = 1872
top_margin_px = 50
left_margin_px = 40
bottom_margin_px = 50
right_margin_px = 40
`)

	d, err := LoadDevice(path)
	require.NoError(err)
	assert.Equal(uint32(300), d.PPI)

	box := d.ContentBox()
	assert.Equal(40, box.Min.X)
	assert.Equal(50, box.Min.Y)
	assert.Equal(1364, box.Max.X)
	assert.Equal(1822, box.Max.Y)
}

func TestLoadDevice_RejectsMarginsThatConsumeTheWholeWidth(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "device.toml", `
ppi = 300
width_px = 100
height_px = 100
top_margin_px = 10
left_margin_px = 60
bottom_margin_px = 10
right_margin_px = 60
`)

	_, err := LoadDevice(path)
	assert.Error(t, err)
}

func TestDevice_PointSizeToPxScalesWithPPI(t *testing.T) {
	d := Device{PPI: 144}
	assert.Equal(t, uint16(24), d.PointSizeToPx(12))
}

func TestLoadFonts_ResolvesRelativePathsAgainstConfigDir(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	dir := t.TempDir()
	require.NoError(os.Mkdir(filepath.Join(dir, "fonts"), 0o755))
	fontPath := writeFile(t, filepath.Join(dir, "fonts"), "body.ttf", "not a real font but fine for path resolution")

	cfgPath := writeFile(t, dir, "fonts.toml", `
[fonts]
regular = "fonts/body.ttf"
`)

	f, err := LoadFonts(cfgPath)
	require.NoError(err)

	data, err := f.LoadData(cfgPath)
	require.NoError(err)
	require.Contains(data, "regular")

	want, err := os.ReadFile(fontPath)
	require.NoError(err)
	assert.Equal(want, data["regular"])
}

func TestLoadFonts_AbsolutePathIsUsedAsIs(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	fontPath := writeFile(t, dir, "body.ttf", "font bytes")
	cfgPath := writeFile(t, dir, "fonts.toml", `
[fonts]
regular = "`+fontPath+`"
`)

	f, err := LoadFonts(cfgPath)
	require.NoError(err)

	data, err := f.LoadData(cfgPath)
	require.NoError(err)
	require.Equal([]byte("font bytes"), data["regular"])
}

func TestLoadFormat_ResolvesOptionalStylesThroughDevice(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	dir := t.TempDir()
	path := writeFile(t, dir, "format.toml", `
[regular]
font_name = "regular"
point_size = 12

[emphasis]
font_name = "regular"
point_size = 12

[[heading]]
font_name = "regular"
point_size = 24
`)

	f, err := LoadFormat(path)
	require.NoError(err)

	device := Device{PPI: 72}
	opts := f.Options(device)
	assert.Equal(uint16(12), opts.Regular.EmPx)
	require.NotNil(opts.Emphasis)
	assert.Equal(uint16(12), opts.Emphasis.EmPx)
	require.Len(opts.Heading, 1)
	assert.Equal(uint16(24), opts.Heading[0].EmPx)
}

func TestDefaultFormat_UsesTwelvePointRegularStyle(t *testing.T) {
	f := DefaultFormat("regular")
	assert.Equal(t, "regular", f.Regular.FontName)
	assert.Equal(t, 12.0, f.Regular.PointSize)
}
