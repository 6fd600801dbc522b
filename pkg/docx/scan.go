package docx

import (
	"bytes"
	"regexp"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

var namespaceDecl = regexp.MustCompile(`xmlns:([A-Za-z_][\w.-]*)="` + regexp.QuoteMeta(wordNamespace) + `"`)

// wordPrefix returns the prefix bound to the WordprocessingML namespace,
// falling back to "w" which every known producer uses.
func wordPrefix(body []byte) string {
	if m := namespaceDecl.FindSubmatch(body); m != nil {
		return string(m[1])
	}
	return "w"
}

// tag describes one markup token found by the scanner.
type tag struct {
	name        string
	start       int // index of '<'
	end         int // index just past '>'
	closing     bool
	selfClosing bool
}

// nextTag finds the next element tag at or after from. Comments, CDATA and
// processing instructions are skipped.
func nextTag(data []byte, from int) (tag, bool) {
	for i := from; i < len(data); {
		rel := bytes.IndexByte(data[i:], '<')
		if rel < 0 {
			return tag{}, false
		}
		start := i + rel
		rest := data[start:]
		switch {
		case bytes.HasPrefix(rest, []byte("<!--")):
			end := bytes.Index(rest, []byte("-->"))
			if end < 0 {
				return tag{}, false
			}
			i = start + end + 3
			continue
		case bytes.HasPrefix(rest, []byte("<![CDATA[")):
			end := bytes.Index(rest, []byte("]]>"))
			if end < 0 {
				return tag{}, false
			}
			i = start + end + 3
			continue
		case bytes.HasPrefix(rest, []byte("<?")), bytes.HasPrefix(rest, []byte("<!")):
			end := bytes.IndexByte(rest, '>')
			if end < 0 {
				return tag{}, false
			}
			i = start + end + 1
			continue
		}

		t := tag{start: start}
		pos := start + 1
		if pos < len(data) && data[pos] == '/' {
			t.closing = true
			pos++
		}
		nameStart := pos
		for pos < len(data) && !isTagDelim(data[pos]) {
			pos++
		}
		t.name = string(data[nameStart:pos])

		var quote byte
		for pos < len(data) {
			c := data[pos]
			if quote != 0 {
				if c == quote {
					quote = 0
				}
			} else if c == '"' || c == '\'' {
				quote = c
			} else if c == '>' {
				break
			}
			pos++
		}
		if pos >= len(data) {
			return tag{}, false
		}
		t.end = pos + 1
		t.selfClosing = !t.closing && data[pos-1] == '/'
		return t, true
	}
	return tag{}, false
}

func isTagDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '/', '>':
		return true
	}
	return false
}

// segment is either verbatim markup or a paragraph.
type segment struct {
	raw  []byte
	para *Paragraph
}

// split breaks a document part into verbatim segments and paragraphs,
// recording whether each paragraph sits inside a table. Paragraphs nested in
// another paragraph (text boxes) stay part of their outer paragraph.
func split(body []byte, prefix string) ([]segment, error) {
	pName := prefix + ":p"
	tblName := prefix + ":tbl"

	var (
		segments []segment
		tblDepth int
		copiedTo int
		pos      int
	)
	for {
		t, ok := nextTag(body, pos)
		if !ok {
			break
		}
		switch {
		case t.name == tblName && !t.closing && !t.selfClosing:
			tblDepth++
			pos = t.end
		case t.name == tblName && t.closing:
			if tblDepth > 0 {
				tblDepth--
			}
			pos = t.end
		case t.name == pName && !t.closing:
			end, err := paragraphEnd(body, t, pName)
			if err != nil {
				return nil, err
			}
			if t.start > copiedTo {
				segments = append(segments, segment{raw: body[copiedTo:t.start]})
			}
			para, err := newParagraph(body[t.start:end], t, prefix, tblDepth > 0)
			if err != nil {
				return nil, err
			}
			segments = append(segments, segment{para: para})
			copiedTo = end
			pos = end
		default:
			pos = t.end
		}
	}
	if copiedTo < len(body) {
		segments = append(segments, segment{raw: body[copiedTo:]})
	}
	return segments, nil
}

// paragraphEnd returns the index just past the element opened by open.
func paragraphEnd(body []byte, open tag, pName string) (int, error) {
	if open.selfClosing {
		return open.end, nil
	}
	depth := 1
	pos := open.end
	for {
		t, ok := nextTag(body, pos)
		if !ok {
			return 0, ErrInvalidDocument
		}
		if t.name == pName {
			switch {
			case t.closing:
				depth--
			case !t.selfClosing:
				depth++
			}
		}
		pos = t.end
		if depth == 0 {
			return t.end, nil
		}
	}
}
