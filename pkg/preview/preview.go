package preview

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-docfill/pkg/filler"
	"github.com/goliatone/go-docfill/pkg/form"
	"github.com/goliatone/go-docfill/pkg/render/template/pongo"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

const (
	pageTemplate = "preview.html"
	defaultTitle = "Termo de Responsabilidade"
)

// Actions reported for each marker.
const (
	ActionReplace = "replaced"
	ActionOmit    = "omitted"
	ActionSkip    = "skipped"
)

type fieldRow struct {
	Label string
	Value string
}

type substitutionRow struct {
	Marker string
	Scope  string
	Value  string
	Action string
}

type themeContext struct {
	Name    string
	Variant string
	Style   string
}

// TemplatesFS returns the embedded page templates rooted at their directory.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// Renderer produces the HTML preview.
type Renderer struct {
	engine *pongo.Engine
	themes *Themes
	policy *bluemonday.Policy
	rules  []filler.Rule
	logger *zap.Logger
	title  string
	dir    string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger routes diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithThemes overrides the theme selector.
func WithThemes(themes *Themes) Option {
	return func(r *Renderer) {
		if themes != nil {
			r.themes = themes
		}
	}
}

// WithRules previews a marker policy other than the default one.
func WithRules(rules []filler.Rule) Option {
	return func(r *Renderer) {
		if len(rules) > 0 {
			r.rules = rules
		}
	}
}

// WithTemplatesDir serves pages found in dir instead of the embedded ones.
// A copy of preview.html placed there customises the page.
func WithTemplatesDir(dir string) Option {
	return func(r *Renderer) {
		r.dir = dir
	}
}

// WithTitle sets the page heading.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		if title != "" {
			r.title = title
		}
	}
}

// New builds a Renderer over the embedded page template, or over the
// templates directory when one is configured.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		policy: bluemonday.StrictPolicy(),
		rules:  filler.DefaultRules(),
		logger: zap.NewNop(),
		title:  defaultTitle,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	engine, err := pongo.New(pongo.WithOverrideDir(r.dir), pongo.WithFS(TemplatesFS()))
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	r.engine = engine
	if r.dir != "" {
		r.logger.Debug("preview templates overridden", zap.String("dir", r.dir))
	}

	if r.themes == nil {
		themes, err := NewThemes(nil)
		if err != nil {
			return nil, err
		}
		r.themes = themes
	}
	return r, nil
}

// Render writes the preview of state in the given theme variant to w and
// returns the page.
func (r *Renderer) Render(ctx context.Context, state *form.State, variant string, w ...io.Writer) (string, error) {
	if ctx == nil {
		return "", errors.New("preview: context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if state == nil {
		return "", errors.New("preview: state is nil")
	}

	selection, err := r.themes.Select("", variant)
	if err != nil {
		return "", err
	}
	cfg := Config(selection)

	def := state.Definition()
	fields := make([]fieldRow, 0, len(def.Fields))
	for _, field := range def.Fields {
		fields = append(fields, fieldRow{Label: field.Label, Value: r.clean(state.Get(field.Label))})
	}
	accessories := make([]string, 0)
	for _, item := range state.Accessories() {
		accessories = append(accessories, r.clean(item))
	}

	subs := filler.Resolve(r.rules, state)
	rows := make([]substitutionRow, 0, len(subs))
	for _, sub := range subs {
		action := ActionReplace
		switch {
		case sub.Omit:
			action = ActionOmit
		case sub.Skip:
			action = ActionSkip
		}
		rows = append(rows, substitutionRow{
			Marker: sub.Marker,
			Scope:  sub.Scope.String(),
			Value:  r.clean(sub.Value),
			Action: action,
		})
	}

	page, err := r.engine.RenderTemplate(pageTemplate, map[string]any{
		"title":           r.title,
		"fields":          fields,
		"equipment_label": def.Equipment.Label,
		"accessories":     accessories,
		"substitutions":   rows,
		"theme": themeContext{
			Name:    cfg.Theme,
			Variant: cfg.Variant,
			Style:   cssVarsStyle(cfg.CSSVars),
		},
	}, w...)
	if err != nil {
		return "", fmt.Errorf("preview: %w", err)
	}
	r.logger.Debug("preview rendered", zap.String("variant", cfg.Variant), zap.Int("bytes", len(page)))
	return page, nil
}

// clean strips any markup from a user value. The result is already HTML
// safe and is emitted without further escaping.
func (r *Renderer) clean(value string) string {
	return r.policy.Sanitize(value)
}
