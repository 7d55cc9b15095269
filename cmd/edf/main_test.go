package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgavlin/edf/edfio"
)

func TestDescribeCommand_FormatsEveryNamedCommand(t *testing.T) {
	cases := []struct {
		cmd  edfio.Command
		want string
	}{
		{edfio.Show("hi"), `Show("hi")`},
		{edfio.LineBreak(), "LineBreak"},
		{edfio.PageBreak(), "PageBreak"},
		{edfio.End(), "End"},
		{edfio.Advance(7), "Advance(7)"},
		{edfio.SetCursor(1, 2), "SetCursor(1, 2)"},
		{edfio.SetStyle(3), "SetStyle(3)"},
		{edfio.SetAdjustmentRatio(0.5), "SetAdjustmentRatio(0.5)"},
		{edfio.SetLineMetrics(20, 16), "SetLineMetrics(20, 16)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, describeCommand(c.cmd))
	}
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunMk_BuildsAnEDFFileFromMarkdown(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	devicePath := writeTestFile(t, dir, "device.toml", `
ppi = 150
width_px = 600
height_px = 800
top_margin_px = 20
left_margin_px = 20
bottom_margin_px = 20
right_margin_px = 20
`)
	inputPath := writeTestFile(t, dir, "doc.md", "# Title\n\nHello world, this is a short paragraph of body text.\n")
	outputPath := filepath.Join(dir, "doc.edf")

	err := runMk([]string{"-d", devicePath, "-o", outputPath, inputPath})
	require.NoError(err)

	data, err := os.ReadFile(outputPath)
	require.NoError(err)
	require.NotEmpty(data)

	header, pages, err := edfio.Decode(data)
	require.NoError(err)
	require.NotEmpty(header.Styles)
	require.NotEmpty(pages)
}

func TestRunMk_RequiresDeviceConfig(t *testing.T) {
	err := runMk([]string{})
	assert.Error(t, err)
}

func TestRunShow_RendersARequestedPageToPNG(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	devicePath := writeTestFile(t, dir, "device.toml", `
ppi = 150
width_px = 600
height_px = 800
top_margin_px = 20
left_margin_px = 20
bottom_margin_px = 20
right_margin_px = 20
`)
	inputPath := writeTestFile(t, dir, "doc.md", "Hello world, this is a short paragraph of body text.\n")
	edfPath := filepath.Join(dir, "doc.edf")
	require.NoError(runMk([]string{"-d", devicePath, "-o", edfPath, inputPath}))

	pngPath := filepath.Join(dir, "page.png")
	require.NoError(runShow([]string{"-d", devicePath, "-p", "1", "-o", pngPath, edfPath}))

	info, err := os.Stat(pngPath)
	require.NoError(err)
	require.Greater(info.Size(), int64(0))
}

func TestRunShow_RequiresPageNumber(t *testing.T) {
	dir := t.TempDir()
	devicePath := writeTestFile(t, dir, "device.toml", `
ppi = 150
width_px = 600
height_px = 800
top_margin_px = 20
left_margin_px = 20
bottom_margin_px = 20
right_margin_px = 20
`)
	assert.Error(t, runShow([]string{"-d", devicePath}))
}
