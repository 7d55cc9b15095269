package main

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/pgavlin/edf/epub"
)

// epubToMarkdown extracts an EPUB's chapters, in spine order, and joins
// their visible text into one plain-paragraph document. A Chapter's Text
// is already paragraphs separated by blank lines, which is exactly what
// a bare CommonMark document needs, so the joined result can be fed
// straight into markdown.Build without any further translation.
func epubToMarkdown(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("mk: opening epub: %w", err)
	}
	r, err := epub.OpenReader(zr)
	if err != nil {
		return nil, fmt.Errorf("mk: reading epub: %w", err)
	}
	defer r.Close()

	chapters, err := r.Chapters()
	if err != nil {
		return nil, fmt.Errorf("mk: extracting epub chapters: %w", err)
	}

	paras := make([]string, 0, len(chapters))
	for _, c := range chapters {
		if c.Text != "" {
			paras = append(paras, c.Text)
		}
	}
	return []byte(strings.Join(paras, "\n\n")), nil
}
