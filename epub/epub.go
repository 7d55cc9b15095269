// Package epub unpacks an EPUB container down to plain visible text, one
// chapter per spine entry, in reading order. It does not interpret CSS or
// HTML layout — that's out of scope (spec names it as an external
// collaborator); it's a stdlib container reader feeding the markdown
// adapter a flat text stream per chapter.
package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

// Chapter is one spine entry's extracted content.
type Chapter struct {
	ID   string
	Href string
	Text string
}

// Reader walks an EPUB's container.xml and OPF package document to
// discover its manifest and spine, then extracts plain text per chapter
// on demand.
type Reader struct {
	zip    *zip.Reader
	closer io.Closer

	Title string

	spine []spineEntry
}

type spineEntry struct {
	id, href, mediaType string
}

// Open opens the EPUB file at path.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("epub: opening %s: %w", path, err)
	}
	r, err := newReader(&zr.Reader)
	if err != nil {
		zr.Close()
		return nil, err
	}
	r.closer = zr
	return r, nil
}

// OpenReader builds a Reader from an already-open zip.Reader, e.g. one
// backed by an in-memory archive rather than a file on disk.
func OpenReader(zr *zip.Reader) (*Reader, error) {
	return newReader(zr)
}

// Close releases any file handle Open acquired. It is a no-op for a
// Reader built with OpenReader.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Chapters extracts the visible text of every spine entry, in reading
// order.
func (r *Reader) Chapters() ([]Chapter, error) {
	chapters := make([]Chapter, 0, len(r.spine))
	for _, e := range r.spine {
		data, err := readZipFile(r.zip, e.href)
		if err != nil {
			return nil, fmt.Errorf("epub: reading %s: %w", e.href, err)
		}
		text, err := ExtractText(data)
		if err != nil {
			return nil, fmt.Errorf("epub: extracting text from %s: %w", e.href, err)
		}
		chapters = append(chapters, Chapter{ID: e.id, Href: e.href, Text: text})
	}
	return chapters, nil
}

func newReader(zr *zip.Reader) (*Reader, error) {
	containerXML, err := readZipFile(zr, "META-INF/container.xml")
	if err != nil {
		return nil, fmt.Errorf("epub: missing container.xml: %w", err)
	}

	var container struct {
		RootFiles struct {
			RootFile []struct {
				FullPath string `xml:"full-path,attr"`
			} `xml:"rootfile"`
		} `xml:"rootfiles"`
	}
	if err := xml.Unmarshal(containerXML, &container); err != nil {
		return nil, fmt.Errorf("epub: parsing container.xml: %w", err)
	}
	if len(container.RootFiles.RootFile) == 0 {
		return nil, fmt.Errorf("epub: container.xml lists no rootfile")
	}
	opfPath := container.RootFiles.RootFile[0].FullPath

	opfData, err := readZipFile(zr, opfPath)
	if err != nil {
		return nil, fmt.Errorf("epub: reading %s: %w", opfPath, err)
	}

	var pkg struct {
		Metadata struct {
			Title string `xml:"title"`
		} `xml:"metadata"`
		Manifest struct {
			Items []struct {
				ID        string `xml:"id,attr"`
				Href      string `xml:"href,attr"`
				MediaType string `xml:"media-type,attr"`
			} `xml:"item"`
		} `xml:"manifest"`
		Spine struct {
			ItemRefs []struct {
				IDRef string `xml:"idref,attr"`
			} `xml:"itemref"`
		} `xml:"spine"`
	}
	if err := xml.Unmarshal(opfData, &pkg); err != nil {
		return nil, fmt.Errorf("epub: parsing %s: %w", opfPath, err)
	}

	opfDir := path.Dir(opfPath)
	byID := make(map[string]spineEntry, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		byID[item.ID] = spineEntry{
			id:        item.ID,
			href:      path.Join(opfDir, item.Href),
			mediaType: item.MediaType,
		}
	}

	spine := make([]spineEntry, 0, len(pkg.Spine.ItemRefs))
	for _, ref := range pkg.Spine.ItemRefs {
		e, ok := byID[ref.IDRef]
		if !ok {
			continue
		}
		if e.mediaType != "" && e.mediaType != "application/xhtml+xml" && e.mediaType != "text/html" {
			continue
		}
		spine = append(spine, e)
	}

	return &Reader{zip: zr, Title: pkg.Metadata.Title, spine: spine}, nil
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// blockTags are the (X)HTML elements that end a paragraph of running
// text when ExtractText encounters their start or end tag.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "section": true, "article": true,
}

// ExtractText strips markup from an XHTML (or loose HTML) document,
// returning its visible text as a sequence of paragraphs separated by
// blank lines. It decodes via encoding/xml in permissive mode (HTML
// entities, auto-closed void elements) rather than pulling in a full
// HTML parser, since the only thing this package needs out of a chapter
// is the text a reader would see.
func ExtractText(doc []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var out, para strings.Builder
	flush := func() {
		s := strings.Join(strings.Fields(para.String()), " ")
		if s != "" {
			if out.Len() > 0 {
				out.WriteString("\n\n")
			}
			out.WriteString(s)
		}
		para.Reset()
	}

	skipDepth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("epub: parsing document: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			if name == "script" || name == "style" {
				skipDepth++
			}
			if blockTags[name] {
				flush()
			}
		case xml.EndElement:
			name := strings.ToLower(t.Name.Local)
			if name == "script" || name == "style" {
				skipDepth--
			}
			if blockTags[name] {
				flush()
			}
		case xml.CharData:
			if skipDepth == 0 {
				para.Write(t)
				para.WriteByte(' ')
			}
		}
	}
	flush()
	return out.String(), nil
}
