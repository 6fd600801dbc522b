package docx_test

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docfill/pkg/docx"
	"github.com/goliatone/go-docfill/pkg/testsupport"
)

func openFixture(t *testing.T, body ...string) *docx.Document {
	t.Helper()
	data := testsupport.DocxBytes(t, body...)
	doc, err := docx.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return doc
}

func texts(paras []*docx.Paragraph) []string {
	out := make([]string, 0, len(paras))
	for _, p := range paras {
		out = append(out, p.Text())
	}
	return out
}

func TestRead_SplitsBodyAndTables(t *testing.T) {
	doc := openFixture(t,
		testsupport.Paragraph("Eu, [INSERIR ", "NOME]", ", declaro"),
		testsupport.Table([]string{"Equipamento:", "Patrimônio:"}, []string{"Observações:", ""}),
		testsupport.Paragraph("Porto Alegre, [DIA] de [MÊS]"),
	)

	wantBody := []string{"Eu, [INSERIR NOME], declaro", "Porto Alegre, [DIA] de [MÊS]"}
	if diff := cmp.Diff(wantBody, texts(doc.Paragraphs())); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
	wantCells := []string{"Equipamento:", "Patrimônio:", "Observações:", ""}
	if diff := cmp.Diff(wantCells, texts(doc.TableParagraphs())); diff != "" {
		t.Fatalf("cells mismatch (-want +got):\n%s", diff)
	}
	if got := len(doc.AllParagraphs()); got != 6 {
		t.Fatalf("expected 6 paragraphs, got %d", got)
	}
}

func TestParagraph_TextHandlesTabsBreaksAndEntities(t *testing.T) {
	body := `<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>` +
		`<w:r><w:t>A &amp; B</w:t><w:tab/><w:t>C</w:t><w:br/><w:t>D</w:t></w:r></w:p>`
	doc := openFixture(t, body)

	if got := doc.Paragraphs()[0].Text(); got != "A & B\tC\nD" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestSave_RewritesOnlyChangedParagraphs(t *testing.T) {
	dir := t.TempDir()
	src := testsupport.WriteDocx(t, dir, "template.docx",
		testsupport.Paragraph("Nome: [INSERIR NOME]"),
		testsupport.Paragraph("Sem alterações <aqui>"),
	)

	doc, err := docx.Open(src)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p := doc.Paragraphs()[0]
	p.Clear()
	p.AddRun("Nome: ", docx.RunStyle{Weight: docx.WeightRegular})
	p.AddRun("Ana & Bia", docx.RunStyle{Weight: docx.WeightBold, Size: 9})

	out := filepath.Join(dir, "out.docx")
	if err := doc.Save(out); err != nil {
		t.Fatalf("save: %v", err)
	}

	xml := testsupport.DocumentXML(t, out)
	for _, want := range []string{
		`<w:pPr><w:jc w:val="both"/></w:pPr>`,
		`<w:b/><w:bCs/><w:sz w:val="18"/><w:szCs w:val="18"/>`,
		`<w:b w:val="0"/>`,
		`Ana &amp; Bia`,
		testsupport.Paragraph("Sem alterações <aqui>"),
	} {
		if !strings.Contains(xml, want) {
			t.Fatalf("expected %q in output:\n%s", want, xml)
		}
	}
	if strings.Contains(xml, "[INSERIR NOME]") {
		t.Fatalf("marker survived rewrite:\n%s", xml)
	}

	reopened, err := docx.Open(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	want := []string{"Nome: Ana & Bia", "Sem alterações <aqui>"}
	if diff := cmp.Diff(want, texts(reopened.Paragraphs())); diff != "" {
		t.Fatalf("reopened mismatch (-want +got):\n%s", diff)
	}
}

func TestParagraph_SetTextEmptyBlanksLine(t *testing.T) {
	doc := openFixture(t, testsupport.Paragraph("Responsável técnico:"))
	p := doc.Paragraphs()[0]
	p.SetText("", docx.RunStyle{})

	if p.Text() != "" || !p.Changed() || len(p.Runs()) != 0 {
		t.Fatalf("expected blank rewritten paragraph, got %q changed=%v runs=%v", p.Text(), p.Changed(), p.Runs())
	}
}

func TestParagraph_SetTextWritesTabsAndBreaks(t *testing.T) {
	dir := t.TempDir()
	src := testsupport.WriteDocx(t, dir, "in.docx", testsupport.Paragraph("x"))
	doc, err := docx.Open(src)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	doc.Paragraphs()[0].SetText("a\tb\nc", docx.RunStyle{})
	out := filepath.Join(dir, "out.docx")
	if err := doc.Save(out); err != nil {
		t.Fatalf("save: %v", err)
	}
	xml := testsupport.DocumentXML(t, out)
	if !strings.Contains(xml, `<w:t xml:space="preserve">a</w:t><w:tab/><w:t xml:space="preserve">b</w:t><w:br/>`) {
		t.Fatalf("unexpected run markup:\n%s", xml)
	}
}

func TestRead_SelfClosingParagraph(t *testing.T) {
	doc := openFixture(t, `<w:p w:rsidR="1"/>`, testsupport.Paragraph("after"))
	paras := doc.Paragraphs()
	if len(paras) != 2 || paras[0].Text() != "" {
		t.Fatalf("unexpected paragraphs %q", texts(paras))
	}
	paras[0].SetText("filled", docx.RunStyle{})
	if got := paras[0].Text(); got != "filled" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestRead_EmptyBody(t *testing.T) {
	data := testsupport.DocxBytes(t)
	doc, err := docx.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(doc.AllParagraphs()) != 0 {
		t.Fatalf("expected empty body")
	}
}

func TestOpen_Errors(t *testing.T) {
	_, err := docx.Open(filepath.Join(t.TempDir(), "missing.docx"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	garbage := []byte("not a zip")
	if _, err := docx.Read(bytes.NewReader(garbage), int64(len(garbage))); !errors.Is(err, docx.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestRead_NonDefaultPrefix(t *testing.T) {
	documentXML := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<ns0:document xmlns:ns0="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><ns0:body>` +
		`<ns0:p><ns0:r><ns0:t>[DIA]</ns0:t></ns0:r></ns0:p>` +
		`</ns0:body></ns0:document>`
	data := testsupport.DocxPackage(t, documentXML)

	doc, err := docx.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	paras := doc.Paragraphs()
	if len(paras) != 1 || paras[0].Text() != "[DIA]" {
		t.Fatalf("unexpected paragraphs %q", texts(paras))
	}
	paras[0].SetText("7", docx.RunStyle{})

	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		t.Fatalf("write: %v", err)
	}
	reread, err := docx.Read(bytes.NewReader(out.Bytes()), int64(out.Len()))
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if got := reread.Text(); got != "7" {
		t.Fatalf("unexpected text after rewrite %q", got)
	}
}
