package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Fonts lists the font files a document build or render needs, keyed
// by the name that style configs and markdown options reference.
type Fonts struct {
	Fonts map[string]string `toml:"fonts"`
}

// LoadFonts reads a font config file. It leaves the listed paths as
// written; LoadData resolves them.
func LoadFonts(path string) (Fonts, error) {
	var f Fonts
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return Fonts{}, fmt.Errorf("config: reading font config %s: %w", path, err)
	}
	return f, nil
}

// LoadData reads every listed font's bytes, keyed by its registered
// name, resolving relative paths against path's directory and using
// absolute paths as they are.
func (f Fonts) LoadData(path string) (map[string][]byte, error) {
	baseDir := filepath.Dir(path)
	data := make(map[string][]byte, len(f.Fonts))
	for name, p := range f.Fonts {
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		bytes, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("config: reading font %q: %w", name, err)
		}
		data[name] = bytes
	}
	return data, nil
}
