package filler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-docfill/pkg/docx"
	"github.com/goliatone/go-docfill/pkg/form"
)

// DefaultCellFontSize is the point size of rewritten table cell text.
const DefaultCellFontSize = 9

// Result summarises one generation pass.
type Result struct {
	Output       string
	Replacements int
	Omitted      int
	Rewritten    int
}

// Filler substitutes form values into a document template.
type Filler struct {
	logger   *zap.Logger
	rules    []Rule
	cellSize float64
}

// Option configures a Filler.
type Option func(*Filler)

// WithLogger routes diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithRules replaces the marker policy, for templates with other markers.
func WithRules(rules []Rule) Option {
	return func(f *Filler) {
		if len(rules) > 0 {
			f.rules = append([]Rule(nil), rules...)
		}
	}
}

// WithCellFontSize overrides the point size of rewritten cell paragraphs.
func WithCellFontSize(size float64) Option {
	return func(f *Filler) {
		if size > 0 {
			f.cellSize = size
		}
	}
}

// New constructs a Filler with the custody term policy.
func New(options ...Option) *Filler {
	f := &Filler{
		logger:   zap.NewNop(),
		rules:    DefaultRules(),
		cellSize: DefaultCellFontSize,
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Rules returns a copy of the active policy.
func (f *Filler) Rules() []Rule {
	return append([]Rule(nil), f.rules...)
}

// Fill opens templatePath, applies the policy for state and saves the result
// to outputPath. A missing template fails with ErrTemplateNotFound before
// anything is written.
func (f *Filler) Fill(ctx context.Context, state *form.State, templatePath, outputPath string) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("filler: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if state == nil {
		return Result{}, errors.New("filler: state is nil")
	}
	if _, err := os.Stat(templatePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, templatePath)
		}
		return Result{}, fmt.Errorf("filler: stat template: %w", err)
	}
	if samePath(templatePath, outputPath) {
		return Result{}, fmt.Errorf("%w: %s", ErrOutputIsTemplate, outputPath)
	}

	doc, err := docx.Open(templatePath)
	if err != nil {
		return Result{}, fmt.Errorf("filler: %w", err)
	}

	result := f.Apply(doc, state)

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("filler: create output dir: %w", err)
		}
	}
	if err := doc.Save(outputPath); err != nil {
		return Result{}, fmt.Errorf("filler: %w", err)
	}
	result.Output = outputPath

	f.logger.Info("document generated",
		zap.String("template", templatePath),
		zap.String("output", outputPath),
		zap.Int("replacements", result.Replacements),
		zap.Int("omitted", result.Omitted),
	)
	return result, nil
}

// Apply rewrites doc in memory.
func (f *Filler) Apply(doc *docx.Document, state *form.State) Result {
	subs := Resolve(f.rules, state)
	var result Result

	for _, p := range doc.Paragraphs() {
		text := p.Text()
		if f.hasClause() && strings.Contains(text, ClauseMarker) {
			writeClause(p, state)
			result.Replacements++
			result.Rewritten++
			f.logger.Debug("identity clause written")
			continue
		}
		f.rewrite(p, subs, ScopeBody, docx.RunStyle{}, &result)
	}

	cellStyle := docx.RunStyle{Size: f.cellSize}
	for _, p := range doc.TableParagraphs() {
		f.rewrite(p, subs, ScopeCell, cellStyle, &result)
	}
	return result
}

func (f *Filler) rewrite(p *docx.Paragraph, subs []Substitution, scope Scope, style docx.RunStyle, result *Result) {
	text := p.Text()
	next, count, omit := apply(subs, scope, text)
	switch {
	case omit:
		p.SetText("", style)
		result.Omitted++
		result.Rewritten++
		f.logger.Debug("line omitted", zap.String("scope", scope.String()), zap.String("text", text))
	case next != text:
		p.SetText(next, style)
		result.Rewritten++
	}
	result.Replacements += count
}

func (f *Filler) hasClause() bool {
	for _, rule := range f.rules {
		if rule.Marker == ClauseMarker {
			return true
		}
	}
	return false
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
