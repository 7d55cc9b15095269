package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/pgavlin/edf/edfio"
	"github.com/pgavlin/edf/internal/config"
	"github.com/pgavlin/edf/render"
)

// runShow decodes a single page and rasterizes it to a grayscale PNG on
// stdout (or -o), standing in for the simulator window the original
// tool pops up interactively — a CLI has nowhere else to put pixels.
func runShow(argv []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	deviceConfigPath := fs.String("d", "", "Device config path (required)")
	fontConfigPath := fs.String("f", "", "Font config path")
	pageNum := fs.Int("p", 0, "Page number to render, 1-based (required)")
	outputPath := fs.String("o", pipeName, "Output PNG path")
	fs.Parse(argv)

	if *deviceConfigPath == "" || *pageNum <= 0 {
		fs.Usage()
		return fmt.Errorf("show: -d device config and -p page number are required")
	}

	inputPath := ""
	if fs.NArg() > 0 {
		inputPath = fs.Arg(0)
	}

	device, err := config.LoadDevice(*deviceConfigPath)
	if err != nil {
		return err
	}

	in, err := openInput(inputPath)
	if err != nil {
		return fmt.Errorf("show: opening input: %w", err)
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("show: reading input: %w", err)
	}

	header, _, err := edfio.DecodeHeader(data)
	if err != nil {
		return fmt.Errorf("show: decoding header: %w", err)
	}

	commands, err := edfio.SeekPage(bytes.NewReader(data), header, *pageNum-1)
	if err != nil {
		return fmt.Errorf("show: seeking to page %d: %w", *pageNum, err)
	}

	store, cache, err := loadFonts(*fontConfigPath)
	if err != nil {
		return err
	}
	fonts := render.NewGlyphFonts(store, cache)

	img := image.NewGray(image.Rect(0, 0, int(device.WidthPx), int(device.HeightPx)))
	fillWhite(img)

	if err := render.Page(img, device.Origin(), fonts, header, commands); err != nil {
		return fmt.Errorf("show: rendering page %d: %w", *pageNum, err)
	}

	out, err := openOutput(*outputPath)
	if err != nil {
		return fmt.Errorf("show: opening output: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("show: encoding PNG: %w", err)
	}
	return nil
}

func fillWhite(img *image.Gray) {
	for i := range img.Pix {
		img.Pix[i] = 255
	}
}
