package testsupport

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	documentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>`

	documentTail = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr></w:body></w:document>`
)

// Paragraph returns a body paragraph holding one run per part. Passing a
// marker in pieces simulates a word processor splitting it across runs.
func Paragraph(parts ...string) string {
	var b strings.Builder
	b.WriteString(`<w:p w:rsidR="00A1B2C3"><w:pPr><w:jc w:val="both"/></w:pPr>`)
	for _, part := range parts {
		b.WriteString(`<w:r><w:t xml:space="preserve">`)
		b.WriteString(escape(part))
		b.WriteString(`</w:t></w:r>`)
	}
	b.WriteString(`</w:p>`)
	return b.String()
}

// Table returns a table whose cells each hold a single paragraph.
func Table(rows ...[]string) string {
	var b strings.Builder
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr>`)
	for _, row := range rows {
		b.WriteString(`<w:tr>`)
		for _, cell := range row {
			b.WriteString(`<w:tc><w:tcPr><w:tcW w:w="4000" w:type="dxa"/></w:tcPr>`)
			b.WriteString(Paragraph(cell))
			b.WriteString(`</w:tc>`)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
	return b.String()
}

// DocxBytes assembles a minimal .docx package around body markup.
func DocxBytes(t *testing.T, body ...string) []byte {
	t.Helper()
	return DocxPackage(t, documentHead+strings.Join(body, "")+documentTail)
}

// DocxPackage wraps a complete word/document.xml into a .docx package.
func DocxPackage(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct{ name, data string }{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", packageRels},
		{"word/document.xml", documentXML},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			t.Fatalf("testsupport: create %s: %v", part.name, err)
		}
		if _, err := w.Write([]byte(part.data)); err != nil {
			t.Fatalf("testsupport: write %s: %v", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("testsupport: close package: %v", err)
	}
	return buf.Bytes()
}

// WriteDocx writes a package built by DocxBytes under dir and returns its path.
func WriteDocx(t *testing.T, dir, name string, body ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, DocxBytes(t, body...), 0o644); err != nil {
		t.Fatalf("testsupport: write %s: %v", path, err)
	}
	return path
}

// DocumentXML extracts word/document.xml from a package on disk.
func DocumentXML(t *testing.T, path string) string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("testsupport: open %s: %v", path, err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("testsupport: open part: %v", err)
		}
		defer rc.Close()
		var b bytes.Buffer
		if _, err := b.ReadFrom(rc); err != nil {
			t.Fatalf("testsupport: read part: %v", err)
		}
		return b.String()
	}
	t.Fatalf("testsupport: %s has no word/document.xml", path)
	return ""
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
