package filler_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docfill/pkg/docx"
	"github.com/goliatone/go-docfill/pkg/filler"
	"github.com/goliatone/go-docfill/pkg/form"
	"github.com/goliatone/go-docfill/pkg/testsupport"
)

func termTemplate(t *testing.T, dir string) string {
	t.Helper()
	return testsupport.WriteDocx(t, dir, "Termo responsa.docx",
		testsupport.Paragraph("TERMO DE RESPONSABILIDADE"),
		testsupport.Paragraph("Eu, [INSERIR ", "NOME], inscrito no CPF sob nº [INSERIR CPF], residente e domiciliado na [INSERIR ENDEREÇO COMPLETO COM CEP]"),
		testsupport.Paragraph("Contato: [INSERIR NÚMERO DO CELULAR] / [INSERIR E-MAIL PESSOAL]"),
		testsupport.Paragraph("Endereço: [INSERIR ENDEREÇO COMPLETO COM CEP]"),
		testsupport.Paragraph("Recebido em [INSERIR DATA]."),
		testsupport.Table(
			[]string{"Equipamento:", "Patrimônio:"},
			[]string{"Número de série:", "Observações:"},
			[]string{"Equipamentos Adicionais:", ""},
		),
		testsupport.Paragraph("Porto Alegre, [DIA] de [MÊS] de [ANO]."),
		testsupport.Paragraph("Assinatura do colaborador:"),
		testsupport.Paragraph("Responsável técnico:"),
	)
}

func stateWith(t *testing.T, values map[string]string, equipment ...string) *form.State {
	t.Helper()
	state := form.NewState(nil)
	for label, value := range values {
		if err := state.Set(label, value); err != nil {
			t.Fatalf("set %s: %v", label, err)
		}
	}
	if err := state.SetEquipment(equipment); err != nil {
		t.Fatalf("set equipment: %v", err)
	}
	return state
}

func fullValues() map[string]string {
	return map[string]string{
		form.LabelName:         "Maria Souza",
		form.LabelCPF:          "123.456.789-00",
		form.LabelAddress:      "Rua das Flores, 10",
		form.LabelPostalCode:   "90000-000",
		form.LabelPhone:        "(51) 99999-0000",
		form.LabelEmail:        "maria@example.com",
		form.LabelEquipment:    "Notebook Dell",
		form.LabelAssetTag:     "PAT-42",
		form.LabelSerialNumber: "SN-77",
		form.LabelObservation:  "Admissão",
		form.LabelSignature:    "Maria Souza",
		form.LabelTechnician:   "Yuri Loureiro",
		form.LabelExtraItem:    "Cabo HDMI",
		form.LabelDate:         "2025-03-07",
	}
}

func fill(t *testing.T, state *form.State) (*docx.Document, filler.Result) {
	t.Helper()
	dir := t.TempDir()
	out := filepath.Join(dir, "out", "termo.docx")
	result, err := filler.New().Fill(context.Background(), state, termTemplate(t, dir), out)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if result.Output != out {
		t.Fatalf("unexpected output %q", result.Output)
	}
	doc, err := docx.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	return doc, result
}

func TestFill_ReplacesEveryMarker(t *testing.T) {
	doc, result := fill(t, stateWith(t, fullValues(), "Mouse pad", "Headset JBL"))
	text := doc.Text()

	for _, marker := range []string{"[INSERIR", "[DIA]", "[MÊS]", "[ANO]"} {
		if strings.Contains(text, marker) {
			t.Fatalf("marker %s survived:\n%s", marker, text)
		}
	}

	body := make([]string, 0)
	for _, p := range doc.Paragraphs() {
		body = append(body, p.Text())
	}
	wantBody := []string{
		"TERMO DE RESPONSABILIDADE",
		"Eu, Maria Souza, inscrito no CPF sob nº 123.456.789-00, residente e domiciliado na Rua das Flores, 10 - CEP: 90000-000, celular: (51) 99999-0000, Email pessoal: maria@example.com",
		"Contato: (51) 99999-0000 / maria@example.com",
		"Endereço: Rua das Flores, 10 - CEP: 90000-000",
		"Recebido em 7/03/2025.",
		"Porto Alegre, 7 de março de 2025.",
		"Assinatura do colaborador: Maria Souza",
		"Responsável técnico: Yuri Loureiro",
	}
	if diff := cmp.Diff(wantBody, body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}

	var cells []string
	for _, p := range doc.TableParagraphs() {
		cells = append(cells, p.Text())
	}
	wantCells := []string{
		"Equipamento: Notebook Dell",
		"Patrimônio: PAT-42",
		"Número de série: SN-77",
		"Observações: Admissão",
		"Equipamentos Adicionais: Headset JBL, Mouse pad, Cabo HDMI",
		"",
	}
	if diff := cmp.Diff(wantCells, cells); diff != "" {
		t.Fatalf("cells mismatch (-want +got):\n%s", diff)
	}

	if result.Omitted != 0 || result.Replacements == 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestFill_ClauseBoldsPersonalData(t *testing.T) {
	dir := t.TempDir()
	src := termTemplate(t, dir)
	doc, err := docx.Open(src)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	filler.New().Apply(doc, stateWith(t, fullValues()))

	clause := doc.Paragraphs()[1]
	var boldText []string
	for _, run := range clause.Runs() {
		if run.Style.Weight == docx.WeightBold {
			boldText = append(boldText, run.Text)
		}
	}
	want := []string{"Maria Souza", "123.456.789-00", "Rua das Flores, 10 - CEP: 90000-000", "(51) 99999-0000", "maria@example.com"}
	if diff := cmp.Diff(want, boldText); diff != "" {
		t.Fatalf("bold runs mismatch (-want +got):\n%s", diff)
	}

	for _, p := range doc.TableParagraphs() {
		for _, run := range p.Runs() {
			if run.Style.Size != filler.DefaultCellFontSize {
				t.Fatalf("expected cell runs at %vpt, got %+v", filler.DefaultCellFontSize, run)
			}
		}
	}
}

func TestFill_OmitsOptionalClauseSegments(t *testing.T) {
	values := fullValues()
	values[form.LabelPhone] = "  "
	values[form.LabelEmail] = ""
	values[form.LabelPostalCode] = ""
	doc, _ := fill(t, stateWith(t, values))

	got := doc.Paragraphs()[1].Text()
	want := "Eu, Maria Souza, inscrito no CPF sob nº 123.456.789-00, residente e domiciliado na Rua das Flores, 10"
	if got != want {
		t.Fatalf("clause mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestFill_OmitLineWhenEmpty(t *testing.T) {
	values := fullValues()
	values[form.LabelSignature] = "   "
	values[form.LabelTechnician] = ""
	doc, result := fill(t, stateWith(t, values))

	text := doc.Text()
	for _, residue := range []string{"Assinatura do colaborador", "Responsável técnico"} {
		if strings.Contains(text, residue) {
			t.Fatalf("residual %q in:\n%s", residue, text)
		}
	}
	if result.Omitted != 2 {
		t.Fatalf("expected 2 omitted lines, got %d", result.Omitted)
	}
}

func TestFill_AccessoriesUntouchedWhenNoneSelected(t *testing.T) {
	values := fullValues()
	values[form.LabelExtraItem] = ""
	doc, _ := fill(t, stateWith(t, values))

	found := false
	for _, p := range doc.TableParagraphs() {
		if p.Text() == "Equipamentos Adicionais:" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected accessories label left as is")
	}
}

func TestFill_EachMarkerCarriesItsValue(t *testing.T) {
	cases := []struct {
		marker string
		label  string
		value  string
		want   string
	}{
		{"[INSERIR CPF]", form.LabelCPF, "111.222.333-44", "111.222.333-44"},
		{"[INSERIR ENDEREÇO COMPLETO COM CEP]", form.LabelAddress, "Av. Ipiranga 6681", "Av. Ipiranga 6681 - CEP: "},
		{"[INSERIR ENDEREÇO COMPLETO COM CEP]", form.LabelPostalCode, "90619-900", " - CEP: 90619-900"},
		{"[INSERIR NÚMERO DO CELULAR]", form.LabelPhone, "51 3333-4444", "51 3333-4444"},
		{"[INSERIR E-MAIL PESSOAL]", form.LabelEmail, "ana@example.org", "ana@example.org"},
		{"[INSERIR DATA]", form.LabelDate, "2026-10-19", "19/10/2026"},
		{"[DIA]", form.LabelDate, "2026-10-09", "9"},
		{"[MÊS]", form.LabelDate, "2026-10-19", "outubro"},
		{"[ANO]", form.LabelDate, "2026-10-19", "2026"},
		{"Assinatura do colaborador:", form.LabelSignature, "Ana", "Assinatura do colaborador: Ana"},
		{"Responsável técnico:", form.LabelTechnician, "Ricardo Silva", "Responsável técnico: Ricardo Silva"},
	}

	for _, tc := range cases {
		t.Run(tc.marker, func(t *testing.T) {
			dir := t.TempDir()
			src := testsupport.WriteDocx(t, dir, "t.docx", testsupport.Paragraph("<", tc.marker, ">"))
			out := filepath.Join(dir, "o.docx")
			state := stateWith(t, map[string]string{tc.label: tc.value})

			if _, err := filler.New().Fill(context.Background(), state, src, out); err != nil {
				t.Fatalf("fill: %v", err)
			}
			doc, err := docx.Open(out)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			got := doc.Text()
			if got != "<"+tc.want+">" {
				t.Fatalf("want %q got %q", "<"+tc.want+">", got)
			}
		})
	}
}

func TestFill_MissingTemplate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "termo.docx")

	_, err := filler.New().Fill(context.Background(), form.NewState(nil), filepath.Join(dir, "absent.docx"), out)
	if !errors.Is(err, filler.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected no output file, stat err %v", statErr)
	}
}

func TestFill_RefusesToOverwriteTemplate(t *testing.T) {
	dir := t.TempDir()
	src := termTemplate(t, dir)
	before, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	_, err = filler.New().Fill(context.Background(), form.NewState(nil), src, src)
	if !errors.Is(err, filler.ErrOutputIsTemplate) {
		t.Fatalf("expected ErrOutputIsTemplate, got %v", err)
	}
	after, _ := os.ReadFile(src)
	if string(before) != string(after) {
		t.Fatalf("template modified")
	}
}

func TestFill_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	if _, err := filler.New().Fill(ctx, form.NewState(nil), termTemplate(t, dir), filepath.Join(dir, "x.docx")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestResolve_FlagsOmitAndSkip(t *testing.T) {
	subs := filler.Resolve(filler.DefaultRules(), form.NewState(nil))
	flags := map[string][2]bool{}
	for _, sub := range subs {
		flags[sub.Marker] = [2]bool{sub.Omit, sub.Skip}
	}
	if got := flags["Assinatura do colaborador:"]; !got[0] {
		t.Fatalf("expected signature omitted for empty state")
	}
	if got := flags["Equipamentos Adicionais:"]; !got[1] {
		t.Fatalf("expected accessories skipped for empty state")
	}
	if got := flags["Equipamento:"]; got[0] || got[1] {
		t.Fatalf("expected equipment label kept for empty state")
	}
}
