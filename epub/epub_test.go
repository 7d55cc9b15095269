package epub

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZipFile(t *testing.T, w *zip.Writer, name, content string) {
	t.Helper()
	f, err := w.Create(name)
	require.NoError(t, err)
	_, err = f.Write([]byte(content))
	require.NoError(t, err)
}

func buildTestEPUB(t *testing.T) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	writeZipFile(t, w, "META-INF/container.xml", `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`)

	writeZipFile(t, w, "OEBPS/content.opf", `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata><title>Test Book</title></metadata>
  <manifest>
    <item id="chap1" href="chap1.xhtml" media-type="application/xhtml+xml"/>
    <item id="chap2" href="chap2.xhtml" media-type="application/xhtml+xml"/>
    <item id="cover" href="cover.jpg" media-type="image/jpeg"/>
  </manifest>
  <spine>
    <itemref idref="chap1"/>
    <itemref idref="chap2"/>
    <itemref idref="cover"/>
  </spine>
</package>`)

	writeZipFile(t, w, "OEBPS/chap1.xhtml", `<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>One</title><style>body{color:red}</style></head>
<body>
<h1>Chapter One</h1>
<p>First   paragraph of   text.</p>
<p>Second paragraph.</p>
</body>
</html>`)

	writeZipFile(t, w, "OEBPS/chap2.xhtml", `<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<body>
<p>Only paragraph in chapter two.</p>
</body>
</html>`)

	require.NoError(t, w.Close())

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return zr
}

func TestOpenReader_DiscoversSpineInOrderAndSkipsNonHTMLItems(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	zr := buildTestEPUB(t)
	r, err := OpenReader(zr)
	require.NoError(err)
	defer r.Close()

	assert.Equal("Test Book", r.Title)
	require.Len(r.spine, 2)
	assert.Equal("OEBPS/chap1.xhtml", r.spine[0].href)
	assert.Equal("OEBPS/chap2.xhtml", r.spine[1].href)
}

func TestChapters_ExtractsVisibleTextOnly(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	zr := buildTestEPUB(t)
	r, err := OpenReader(zr)
	require.NoError(err)
	defer r.Close()

	chapters, err := r.Chapters()
	require.NoError(err)
	require.Len(chapters, 2)

	assert.Contains(chapters[0].Text, "Chapter One")
	assert.Contains(chapters[0].Text, "First paragraph of text.")
	assert.Contains(chapters[0].Text, "Second paragraph.")
	assert.NotContains(chapters[0].Text, "color:red")

	assert.Equal("Only paragraph in chapter two.", chapters[1].Text)
}

func TestExtractText_SplitsOnBlockElementsAndCollapsesWhitespace(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	text, err := ExtractText([]byte(`<div><p>Hello   world</p><p>Second</p></div>`))
	require.NoError(err)
	assert.Equal("Hello world\n\nSecond", text)
}
