package main

import (
	"fmt"

	"github.com/pgavlin/edf/assets"
	"github.com/pgavlin/edf/glyph"
	"github.com/pgavlin/edf/internal/config"
)

// glyphCacheCapacity bounds the number of rasterized glyphs kept warm
// across a build or render; a single page rarely touches more distinct
// (font, size, rune) triples than this.
const glyphCacheCapacity = 256

// loadFonts registers either the fonts named in fontConfigPath, or,
// when fontConfigPath is empty, the single embedded default font under
// assets.DefaultFontName.
func loadFonts(fontConfigPath string) (*glyph.Store, *glyph.Cache, error) {
	store := glyph.NewStore()

	var data map[string][]byte
	if fontConfigPath == "" {
		data = map[string][]byte{assets.DefaultFontName: assets.DefaultFont}
	} else {
		fontCfg, err := config.LoadFonts(fontConfigPath)
		if err != nil {
			return nil, nil, err
		}
		data, err = fontCfg.LoadData(fontConfigPath)
		if err != nil {
			return nil, nil, err
		}
	}

	for name, bytes := range data {
		if _, err := store.Register(name, bytes); err != nil {
			return nil, nil, fmt.Errorf("edf: registering font %q: %w", name, err)
		}
	}

	cache, err := glyph.NewCache(glyphCacheCapacity)
	if err != nil {
		return nil, nil, fmt.Errorf("edf: creating glyph cache: %w", err)
	}
	return store, cache, nil
}
