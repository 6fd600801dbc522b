package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	defaultMainPart = "word/document.xml"
	packageRels     = "_rels/.rels"
	officeDocRel    = "/officeDocument"
)

type entry struct {
	name     string
	method   uint16
	modified time.Time
	data     []byte
}

// Document is an opened .docx package. Only the main document part is
// parsed; every other part is written back untouched.
type Document struct {
	entries  []entry
	mainPart string
	prefix   string
	segments []segment
}

// Open reads the .docx at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("docx: open %s: %w", path, err)
	}
	return Read(bytes.NewReader(data), int64(len(data)))
}

// Read parses a .docx package from r.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	doc := &Document{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open part %s: %v", ErrInvalidDocument, f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read part %s: %v", ErrInvalidDocument, f.Name, err)
		}
		doc.entries = append(doc.entries, entry{
			name:     f.Name,
			method:   f.Method,
			modified: f.Modified,
			data:     data,
		})
	}

	doc.mainPart = doc.locateMainPart()
	body, ok := doc.part(doc.mainPart)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidDocument, doc.mainPart)
	}
	doc.prefix = wordPrefix(body)
	doc.segments, err = split(body, doc.prefix)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

type relationships struct {
	Items []struct {
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

func (d *Document) locateMainPart() string {
	data, ok := d.part(packageRels)
	if !ok {
		return defaultMainPart
	}
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return defaultMainPart
	}
	for _, rel := range rels.Items {
		if strings.HasSuffix(rel.Type, officeDocRel) && rel.Target != "" {
			return strings.TrimPrefix(rel.Target, "/")
		}
	}
	return defaultMainPart
}

func (d *Document) part(name string) ([]byte, bool) {
	for _, e := range d.entries {
		if e.name == name {
			return e.data, true
		}
	}
	return nil, false
}

// Paragraphs returns the body paragraphs that are not inside a table.
func (d *Document) Paragraphs() []*Paragraph {
	return d.collect(func(p *Paragraph) bool { return !p.inTable })
}

// TableParagraphs returns the paragraphs inside table cells in document order.
func (d *Document) TableParagraphs() []*Paragraph {
	return d.collect(func(p *Paragraph) bool { return p.inTable })
}

// AllParagraphs returns every paragraph in document order.
func (d *Document) AllParagraphs() []*Paragraph {
	return d.collect(func(*Paragraph) bool { return true })
}

func (d *Document) collect(keep func(*Paragraph) bool) []*Paragraph {
	var out []*Paragraph
	for _, seg := range d.segments {
		if seg.para != nil && keep(seg.para) {
			out = append(out, seg.para)
		}
	}
	return out
}

// Text returns the text of every paragraph joined by newlines.
func (d *Document) Text() string {
	paras := d.AllParagraphs()
	lines := make([]string, 0, len(paras))
	for _, p := range paras {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}

func (d *Document) body() []byte {
	var buf bytes.Buffer
	for _, seg := range d.segments {
		if seg.para != nil {
			buf.Write(seg.para.markup())
			continue
		}
		buf.Write(seg.raw)
	}
	return buf.Bytes()
}

// WriteTo writes the package, including rewritten paragraphs, to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	for _, e := range d.entries {
		data := e.data
		if e.name == d.mainPart {
			data = d.body()
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   e.method,
			Modified: e.modified,
		})
		if err != nil {
			return cw.n, fmt.Errorf("docx: write part %s: %w", e.name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return cw.n, fmt.Errorf("docx: write part %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("docx: finalize package: %w", err)
	}
	return cw.n, nil
}

// Save writes the package to path, replacing any existing file.
func (d *Document) Save(path string) error {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("docx: save %s: %w", path, err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
