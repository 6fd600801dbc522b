package export_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/goliatone/go-docfill/pkg/export"
)

func writeDoc(t *testing.T, dir string) (string, []byte) {
	t.Helper()
	path := filepath.Join(dir, "Termo - Ana.docx")
	data := []byte("PK fake document")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return path, data
}

func fakeConverter(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script converters need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-soffice")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write converter: %v", err)
	}
	return path
}

func TestConvert_MissingConverter(t *testing.T) {
	dir := t.TempDir()
	doc, before := writeDoc(t, dir)

	conv := export.New(export.WithPath(filepath.Join(dir, "no-such-soffice")))
	_, err := conv.Convert(context.Background(), doc)
	if !errors.Is(err, export.ErrConverterNotFound) {
		t.Fatalf("expected ErrConverterNotFound, got %v", err)
	}

	after, err := os.ReadFile(doc)
	if err != nil {
		t.Fatalf("document disappeared: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("document modified")
	}
	if _, err := os.Stat(export.PDFPath(doc)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no pdf, stat err %v", err)
	}
}

func TestConvert_NonZeroExit(t *testing.T) {
	dir := t.TempDir()
	doc, _ := writeDoc(t, dir)
	bin := fakeConverter(t, "echo 'source file could not be loaded' >&2\nexit 3\n")

	_, err := export.New(export.WithPath(bin)).Convert(context.Background(), doc)
	var convErr *export.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected ConversionError, got %v", err)
	}
	if convErr.ExitCode != 3 || convErr.Stderr != "source file could not be loaded\n" {
		t.Fatalf("unexpected error %+v", convErr)
	}
}

func TestConvert_WritesPDFNextToDocument(t *testing.T) {
	dir := t.TempDir()
	doc, before := writeDoc(t, dir)
	// $4 is the document, $6 the output directory.
	bin := fakeConverter(t, `[ "$1" = "--headless" ] && [ "$2" = "--convert-to" ] && [ "$3" = "pdf" ] && [ "$5" = "--outdir" ] || exit 9
base=$(basename "$4" .docx)
printf '%%PDF-1.4' > "$6/$base.pdf"
`)

	pdf, err := export.New(export.WithPath(bin)).Convert(context.Background(), doc)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want, _ := filepath.Abs(filepath.Join(dir, "Termo - Ana.pdf"))
	if pdf != want {
		t.Fatalf("expected %s, got %s", want, pdf)
	}
	after, _ := os.ReadFile(doc)
	if !bytes.Equal(before, after) {
		t.Fatalf("document modified")
	}
}

func TestConvert_Timeout(t *testing.T) {
	dir := t.TempDir()
	doc, _ := writeDoc(t, dir)
	bin := fakeConverter(t, "exec sleep 5\n")

	_, err := export.New(export.WithPath(bin), export.WithTimeout(50*time.Millisecond)).Convert(context.Background(), doc)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestPDFPath(t *testing.T) {
	if got := export.PDFPath("out/Termo - Ana.docx"); got != "out/Termo - Ana.pdf" {
		t.Fatalf("unexpected pdf path %q", got)
	}
}
