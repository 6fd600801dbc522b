package preview_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docfill/pkg/form"
	"github.com/goliatone/go-docfill/pkg/preview"
)

func sampleState(t *testing.T) *form.State {
	t.Helper()
	state := form.NewState(nil)
	for label, value := range map[string]string{
		form.LabelName:       "Ana <script>alert(1)</script>Lima",
		form.LabelCPF:        "123.456.789-00",
		form.LabelAddress:    "Rua A & B, 5",
		form.LabelTechnician: "Samuel Bispo",
		form.LabelDate:       "2025-06-01",
	} {
		if err := state.Set(label, value); err != nil {
			t.Fatalf("set %s: %v", label, err)
		}
	}
	if err := state.SetEquipment([]string{"Mouse pad"}); err != nil {
		t.Fatalf("equipment: %v", err)
	}
	return state
}

func TestRender_SanitizesValues(t *testing.T) {
	r, err := preview.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var buf bytes.Buffer
	page, err := r.Render(context.Background(), sampleState(t), "", &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if page != buf.String() {
		t.Fatalf("writer and result differ")
	}
	if strings.Contains(page, "<script>") {
		t.Fatalf("script survived sanitizing:\n%s", page)
	}
	for _, want := range []string{
		"Ana Lima",
		"Rua A &amp; B, 5",
		"Mouse pad",
		"[INSERIR CPF]",
		`data-theme="light"`,
		"--bg: #eaeaea;",
		"--accent: #6A5ACD;",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected %q in page:\n%s", want, page)
		}
	}
	if strings.Contains(page, "&amp;amp;") {
		t.Fatalf("value escaped twice:\n%s", page)
	}
}

func TestRender_MarksOmittedLines(t *testing.T) {
	r, err := preview.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	page, err := r.Render(context.Background(), sampleState(t), preview.VariantDark)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(page, `<tr class="omitted"><td>Assinatura do colaborador:</td>`) {
		t.Fatalf("expected signature row omitted:\n%s", page)
	}
	if !strings.Contains(page, "--bg: #1e1e1e;") || !strings.Contains(page, "--surface: #2b2b2b;") {
		t.Fatalf("expected dark palette:\n%s", page)
	}
}

func TestRender_UnknownVariant(t *testing.T) {
	r, err := preview.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = r.Render(context.Background(), form.NewState(nil), "sepia")
	if !errors.Is(err, preview.ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestThemes_ConfigMergesVariantTokens(t *testing.T) {
	themes, err := preview.NewThemes(nil)
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	if diff := cmp.Diff([]string{preview.VariantLight, preview.VariantDark}, themes.Variants()); diff != "" {
		t.Fatalf("variants mismatch (-want +got):\n%s", diff)
	}

	selection, err := themes.Select("", preview.VariantDark)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := preview.Config(selection)
	if cfg.Tokens["bg"] != "#1e1e1e" || cfg.Tokens["accent"] != "#6A5ACD" {
		t.Fatalf("unexpected tokens %v", cfg.Tokens)
	}
	if cfg.CSSVars["--text"] != "#ffffff" {
		t.Fatalf("unexpected css vars %v", cfg.CSSVars)
	}
}

func TestRender_TemplatesDirOverridesPage(t *testing.T) {
	dir := t.TempDir()
	page := `<h1>{{ title }}</h1>{% for f in fields %}{% if f.Label == "CPF" %}<p>{{ f.Value|safe }}</p>{% endif %}{% endfor %}`
	if err := os.WriteFile(filepath.Join(dir, "preview.html"), []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := preview.New(preview.WithTemplatesDir(dir), preview.WithTitle("Custom"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got, err := r.Render(context.Background(), sampleState(t), "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<h1>Custom</h1><p>123.456.789-00</p>" {
		t.Fatalf("unexpected page %q", got)
	}
}

func TestNew_MissingTemplatesDir(t *testing.T) {
	if _, err := preview.New(preview.WithTemplatesDir(filepath.Join(t.TempDir(), "absent"))); err == nil {
		t.Fatalf("expected error for missing templates dir")
	}
}
