package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-docfill/pkg/export"
	"github.com/goliatone/go-docfill/pkg/filler"
	"github.com/goliatone/go-docfill/pkg/form"
	"github.com/goliatone/go-docfill/pkg/ledger"
	"github.com/goliatone/go-docfill/pkg/render/template/pongo"
)

// DefaultFilenamePattern names generated documents after the collaborator.
const DefaultFilenamePattern = "Termo - {{ nome|filename }}.docx"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithFiller injects a custom template filler.
func WithFiller(f *filler.Filler) Option {
	return func(o *Orchestrator) {
		o.filler = f
	}
}

// WithConverter injects the PDF converter.
func WithConverter(c *export.Converter) Option {
	return func(o *Orchestrator) {
		o.converter = c
	}
}

// WithLedger records every generated document. A disabled ledger is ignored.
func WithLedger(l *ledger.Ledger) Option {
	return func(o *Orchestrator) {
		o.ledger = l
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithOutputDir sets where documents are written when a request omits an
// explicit output path.
func WithOutputDir(dir string) Option {
	return func(o *Orchestrator) {
		o.outputDir = strings.TrimSpace(dir)
	}
}

// WithFilenamePattern overrides the pongo2 pattern used to name documents.
func WithFilenamePattern(pattern string) Option {
	return func(o *Orchestrator) {
		if strings.TrimSpace(pattern) != "" {
			o.pattern = pattern
		}
	}
}

// Orchestrator coordinates document generation. Missing dependencies are
// initialised with the built-in implementations.
type Orchestrator struct {
	filler    *filler.Filler
	converter *export.Converter
	ledger    *ledger.Ledger
	names     *pongo.Engine
	logger    *zap.Logger
	outputDir string
	pattern   string
	initErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:    zap.NewNop(),
		outputDir: ".",
		pattern:   DefaultFilenamePattern,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.filler == nil {
		o.filler = filler.New(filler.WithLogger(o.logger))
	}
	if o.converter == nil {
		o.converter = export.New(export.WithLogger(o.logger))
	}
	if o.ledger == nil {
		o.ledger = ledger.New("")
	}
	if o.outputDir == "" {
		o.outputDir = "."
	}
	engine, err := pongo.New()
	if err != nil {
		o.initErr = fmt.Errorf("orchestrator: filename engine: %w", err)
		return
	}
	o.names = engine
}

// Request describes one document to generate.
type Request struct {
	// State holds the values substituted into the template.
	State *form.State

	// Template is the .docx holding the markers.
	Template string

	// Output overrides the computed output path.
	Output string

	// ExportPDF converts the document after it is written.
	ExportPDF bool
}

// Response reports what was produced.
type Response struct {
	Document string
	PDF      string
	Fill     filler.Result
	Entry    *ledger.Entry
}

// Generate fills the template, optionally converts it and records the
// ledger entry. When conversion fails the document is kept and the response
// still names it alongside the error. Ledger failures are logged only.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Response, error) {
	if o.initErr != nil {
		return Response{}, o.initErr
	}
	if req.State == nil {
		return Response{}, errors.New("orchestrator: state is required")
	}
	if strings.TrimSpace(req.Template) == "" {
		return Response{}, errors.New("orchestrator: template path is required")
	}

	output := req.Output
	if output == "" {
		name, err := o.OutputPath(req.State)
		if err != nil {
			return Response{}, err
		}
		output = name
	}

	result, err := o.filler.Fill(ctx, req.State, req.Template, output)
	if err != nil {
		return Response{}, err
	}
	resp := Response{Document: result.Output, Fill: result}

	var exportErr error
	if req.ExportPDF {
		pdf, err := o.converter.Convert(ctx, result.Output)
		if err != nil {
			exportErr = err
			o.logger.Warn("pdf export failed", zap.String("document", result.Output), zap.Error(err))
		} else {
			resp.PDF = pdf
		}
	}

	if o.ledger.Enabled() {
		entry := ledger.EntryFromState(req.State, resp.Document)
		entry.PDF = resp.PDF
		stored, err := o.ledger.Append(entry)
		if err != nil {
			o.logger.Warn("ledger append failed", zap.String("ledger", o.ledger.Path()), zap.Error(err))
		} else {
			resp.Entry = &stored
		}
	}
	return resp, exportErr
}

// OutputPath renders the file name pattern for state inside the output
// directory. A state without a usable collaborator name fails with
// ErrMissingName whatever the pattern.
func (o *Orchestrator) OutputPath(state *form.State) (string, error) {
	if o.initErr != nil {
		return "", o.initErr
	}
	if pongo.SanitizeFilename(state.Trimmed(form.LabelName)) == "" {
		return "", ErrMissingName
	}
	name, err := o.names.RenderText(o.pattern, FilenameContext(state))
	if err != nil {
		return "", fmt.Errorf("orchestrator: file name: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" || name == filepath.Ext(name) {
		return "", fmt.Errorf("orchestrator: pattern %q produced an empty file name", o.pattern)
	}
	return filepath.Join(o.outputDir, name), nil
}

// FilenameContext exposes the state to file name patterns under ASCII keys.
func FilenameContext(state *form.State) map[string]string {
	parts := form.SplitDate(state.Date())
	return map[string]string{
		"nome":        state.Trimmed(form.LabelName),
		"cpf":         state.Trimmed(form.LabelCPF),
		"equipamento": state.Trimmed(form.LabelEquipment),
		"patrimonio":  state.Trimmed(form.LabelAssetTag),
		"serie":       state.Trimmed(form.LabelSerialNumber),
		"observacao":  state.Get(form.LabelObservation),
		"data":        state.Date().Format(form.ISODate),
		"dia":         parts.Day,
		"mes":         parts.Month,
		"ano":         parts.Year,
	}
}
