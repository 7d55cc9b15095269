package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/pgavlin/edf/assets"
	"github.com/pgavlin/edf/edfio"
	"github.com/pgavlin/edf/hyphen"
	"github.com/pgavlin/edf/internal/config"
	"github.com/pgavlin/edf/layout"
	"github.com/pgavlin/edf/markdown"
)

func runMk(argv []string) error {
	fs := flag.NewFlagSet("mk", flag.ExitOnError)
	deviceConfigPath := fs.String("d", "", "Device config path (required)")
	fontConfigPath := fs.String("f", "", "Font config path")
	formatConfigPath := fs.String("c", "", "Format config path")
	outputPath := fs.String("o", pipeName, "Output path")
	format := fs.String("format", "markdown", "Input document format (markdown or epub)")
	fs.Parse(argv)

	if *deviceConfigPath == "" {
		fs.Usage()
		return fmt.Errorf("mk: -d device config is required")
	}
	if *format != "markdown" && *format != "epub" {
		return fmt.Errorf("mk: unsupported --format %q", *format)
	}

	inputPath := ""
	if fs.NArg() > 0 {
		inputPath = fs.Arg(0)
	}

	device, err := config.LoadDevice(*deviceConfigPath)
	if err != nil {
		return err
	}

	store, cache, err := loadFonts(*fontConfigPath)
	if err != nil {
		return err
	}
	fonts := layout.NewGlyphFonts(store, cache)

	// Absent a format config, fall back to 12pt regular text in the font
	// named "regular" — the embedded default font's name, but also
	// whatever the caller's own font config must name its body font if
	// it wants the no-format-config path to resolve.
	formatCfg := config.DefaultFormat(assets.DefaultFontName)
	if *formatConfigPath != "" {
		formatCfg, err = config.LoadFormat(*formatConfigPath)
		if err != nil {
			return err
		}
	}

	in, err := openInput(inputPath)
	if err != nil {
		return fmt.Errorf("mk: opening input: %w", err)
	}
	defer in.Close()

	source, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("mk: reading input: %w", err)
	}

	if *format == "epub" {
		source, err = epubToMarkdown(source)
		if err != nil {
			return err
		}
	}

	box := device.ContentBox()
	header, commands, err := markdown.Build(
		source,
		float64(box.Dx()), float64(box.Dy()),
		fonts,
		formatCfg.Options(device),
		hyphen.Null,
	)
	if err != nil {
		return fmt.Errorf("mk: building document: %w", err)
	}

	encoded, err := edfio.Encode(header, commands)
	if err != nil {
		return fmt.Errorf("mk: encoding document: %w", err)
	}

	out, err := openOutput(*outputPath)
	if err != nil {
		return fmt.Errorf("mk: opening output: %w", err)
	}
	defer out.Close()

	if _, err := out.Write(encoded); err != nil {
		return fmt.Errorf("mk: writing output: %w", err)
	}
	return nil
}
