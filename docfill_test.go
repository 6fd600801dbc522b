package docfill_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-docfill"
	"github.com/goliatone/go-docfill/pkg/docx"
	"github.com/goliatone/go-docfill/pkg/form"
	"github.com/goliatone/go-docfill/pkg/orchestrator"
	"github.com/goliatone/go-docfill/pkg/testsupport"
)

func TestGenerate_FromSavedState(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "dados_salvos.json")
	if err := os.WriteFile(statePath, []byte(`{"Nome": "Carla", "CPF": "111.222.333-44", "Chave Antiga": "x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	state, err := docfill.LoadState("", statePath)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if state.Get(form.LabelName) != "Carla" {
		t.Fatalf("state not restored: %v", state.Values())
	}

	tpl := testsupport.WriteDocx(t, dir, "termo.docx", testsupport.Paragraph("CPF: [INSERIR CPF]"))
	resp, err := docfill.Generate(context.Background(), state, tpl, orchestrator.WithOutputDir(dir))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if filepath.Base(resp.Document) != "Termo - Carla.docx" {
		t.Fatalf("unexpected document %q", resp.Document)
	}
	doc, err := docx.Open(resp.Document)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if doc.Text() != "CPF: 111.222.333-44" {
		t.Fatalf("unexpected text %q", doc.Text())
	}
}

func TestLoadState_MissingFileIsEmpty(t *testing.T) {
	state, err := docfill.LoadState("", filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if state.Get(form.LabelName) != "" {
		t.Fatalf("expected empty state")
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.Stat(docfill.EmbeddedTemplates(), "preview.html"); err != nil {
		t.Fatalf("expected preview template: %v", err)
	}
}
