package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Weight selects the bold property of a run.
type Weight int

const (
	// WeightInherit leaves boldness to the paragraph style.
	WeightInherit Weight = iota
	// WeightRegular forces non-bold text.
	WeightRegular
	// WeightBold forces bold text.
	WeightBold
)

// RunStyle is the character formatting written for a run. A zero Size
// inherits the paragraph style.
type RunStyle struct {
	Weight Weight
	Size   float64 // points
}

// Run is a span of uniformly formatted text.
type Run struct {
	Text  string
	Style RunStyle
}

// Paragraph is one paragraph of the main document part. Until it is
// rewritten its original markup is written back byte for byte.
type Paragraph struct {
	raw     []byte
	open    []byte
	props   []byte
	prefix  string
	inTable bool
	text    string

	runs  []Run
	dirty bool
}

func newParagraph(raw []byte, open tag, prefix string, inTable bool) (*Paragraph, error) {
	p := &Paragraph{
		raw:     append([]byte(nil), raw...),
		prefix:  prefix,
		inTable: inTable,
	}

	openLen := open.end - open.start
	p.open = append([]byte(nil), raw[:openLen]...)
	if open.selfClosing {
		trimmed := bytes.TrimRight(bytes.TrimSuffix(bytes.TrimSpace(p.open), []byte("/>")), " \t\r\n")
		p.open = append(trimmed, '>')
		return p, nil
	}

	closeAt := len(raw) - len("</"+prefix+":p>")
	if closeAt < openLen {
		return nil, fmt.Errorf("%w: truncated paragraph", ErrInvalidDocument)
	}
	p.props = paragraphProps(raw[openLen:closeAt], prefix)

	text, err := extractText(raw, prefix)
	if err != nil {
		return nil, err
	}
	p.text = text
	return p, nil
}

// paragraphProps returns the leading <w:pPr> element of a paragraph body.
func paragraphProps(inner []byte, prefix string) []byte {
	t, ok := nextTag(inner, 0)
	if !ok || t.closing || t.name != prefix+":pPr" {
		return nil
	}
	if t.selfClosing {
		return append([]byte(nil), inner[t.start:t.end]...)
	}
	closing := []byte("</" + prefix + ":pPr>")
	end := bytes.Index(inner[t.end:], closing)
	if end < 0 {
		return nil
	}
	return append([]byte(nil), inner[t.start:t.end+end+len(closing)]...)
}

// extractText concatenates the visible text of a paragraph: <w:t> content,
// tabs as '\t' and breaks as '\n'. Paragraph properties are skipped so tab
// stops do not leak into the text.
func extractText(raw []byte, prefix string) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Strict = false

	var (
		b      strings.Builder
		inText int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: paragraph text: %v", ErrInvalidDocument, err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space != prefix {
				continue
			}
			switch el.Name.Local {
			case "pPr", "rPr":
				if err := dec.Skip(); err != nil {
					return "", fmt.Errorf("%w: paragraph properties: %v", ErrInvalidDocument, err)
				}
			case "t":
				inText++
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			if el.Name.Space == prefix && el.Name.Local == "t" && inText > 0 {
				inText--
			}
		case xml.CharData:
			if inText > 0 {
				b.Write(el)
			}
		}
	}
	return b.String(), nil
}

// Text returns the paragraph's current text.
func (p *Paragraph) Text() string {
	if !p.dirty {
		return p.text
	}
	var b strings.Builder
	for _, run := range p.runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

// InTable reports whether the paragraph lives inside a table cell.
func (p *Paragraph) InTable() bool {
	return p.inTable
}

// Changed reports whether the paragraph was rewritten.
func (p *Paragraph) Changed() bool {
	return p.dirty
}

// Runs returns the runs of a rewritten paragraph and nil otherwise.
func (p *Paragraph) Runs() []Run {
	if !p.dirty {
		return nil
	}
	return append([]Run(nil), p.runs...)
}

// Clear drops every run while keeping the paragraph properties.
func (p *Paragraph) Clear() {
	p.runs = []Run{}
	p.dirty = true
}

// AddRun appends a run.
func (p *Paragraph) AddRun(text string, style RunStyle) {
	if !p.dirty {
		p.runs = []Run{}
	}
	p.runs = append(p.runs, Run{Text: text, Style: style})
	p.dirty = true
}

// SetText replaces the content with a single run. Empty text leaves an empty
// paragraph.
func (p *Paragraph) SetText(text string, style RunStyle) {
	p.Clear()
	if text != "" {
		p.AddRun(text, style)
	}
}

func (p *Paragraph) markup() []byte {
	if !p.dirty {
		return p.raw
	}
	var buf bytes.Buffer
	buf.Write(p.open)
	buf.Write(p.props)
	for _, run := range p.runs {
		writeRun(&buf, p.prefix, run)
	}
	buf.WriteString("</" + p.prefix + ":p>")
	return buf.Bytes()
}

func writeRun(buf *bytes.Buffer, prefix string, run Run) {
	el := func(name string) string { return prefix + ":" + name }

	buf.WriteString("<" + el("r") + ">")

	var props strings.Builder
	switch run.Style.Weight {
	case WeightBold:
		props.WriteString("<" + el("b") + "/><" + el("bCs") + "/>")
	case WeightRegular:
		props.WriteString("<" + el("b") + " " + el("val") + `="0"/><` + el("bCs") + " " + el("val") + `="0"/>`)
	}
	if run.Style.Size > 0 {
		half := strconv.Itoa(int(math.Round(run.Style.Size * 2)))
		props.WriteString("<" + el("sz") + " " + el("val") + `="` + half + `"/>`)
		props.WriteString("<" + el("szCs") + " " + el("val") + `="` + half + `"/>`)
	}
	if props.Len() > 0 {
		buf.WriteString("<" + el("rPr") + ">" + props.String() + "</" + el("rPr") + ">")
	}

	var chunk strings.Builder
	flush := func() {
		if chunk.Len() == 0 {
			return
		}
		buf.WriteString("<" + el("t") + ` xml:space="preserve">`)
		_ = xml.EscapeText(buf, []byte(chunk.String()))
		buf.WriteString("</" + el("t") + ">")
		chunk.Reset()
	}
	for _, r := range run.Text {
		switch r {
		case '\t':
			flush()
			buf.WriteString("<" + el("tab") + "/>")
		case '\n':
			flush()
			buf.WriteString("<" + el("br") + "/>")
		default:
			chunk.WriteRune(r)
		}
	}
	flush()

	buf.WriteString("</" + el("r") + ">")
}
