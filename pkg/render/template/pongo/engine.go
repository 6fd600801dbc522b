package pongo

import (
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Option configures where an Engine finds page templates.
type Option func(*sources)

type sources struct {
	overrideDir string
	files       fs.FS
}

// WithFS serves page templates from files.
func WithFS(files fs.FS) Option {
	return func(s *sources) {
		s.files = files
	}
}

// WithOverrideDir serves page templates from dir ahead of the WithFS set.
// Pages missing from dir still resolve against the FS.
func WithOverrideDir(dir string) Option {
	return func(s *sources) {
		s.overrideDir = strings.TrimSpace(dir)
	}
}

// Engine renders named pages and inline text patterns. Pages are compiled
// once and kept for the life of the engine.
type Engine struct {
	set *pongo2.TemplateSet

	mu    sync.Mutex
	pages map[string]*pongo2.Template
}

// New builds an Engine. An override directory that does not exist is an
// error. Without any source only RenderText is usable.
func New(options ...Option) (*Engine, error) {
	var src sources
	for _, opt := range options {
		if opt != nil {
			opt(&src)
		}
	}

	var loaders []pongo2.TemplateLoader
	if src.overrideDir != "" {
		local, err := pongo2.NewLocalFileSystemLoader(src.overrideDir)
		if err != nil {
			return nil, fmt.Errorf("pongo: template dir %s: %w", src.overrideDir, err)
		}
		loaders = append(loaders, local)
	}
	if src.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(src.files))
	}
	if len(loaders) == 0 {
		loaders = append(loaders, pongo2.MustNewLocalFileSystemLoader(""))
	}

	registerFilters()
	return &Engine{
		set:   pongo2.NewSet("docfill", loaders...),
		pages: make(map[string]*pongo2.Template),
	}, nil
}

// RenderTemplate renders page name with data, HTML escaped, and copies the
// result to every writer in w.
func (e *Engine) RenderTemplate(name string, data map[string]any, w ...io.Writer) (string, error) {
	tpl, err := e.page(name)
	if err != nil {
		return "", err
	}
	out, err := tpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", fmt.Errorf("pongo: render %s: %w", name, err)
	}
	for _, dst := range w {
		if _, err := io.WriteString(dst, out); err != nil {
			return "", fmt.Errorf("pongo: write %s: %w", name, err)
		}
	}
	return out, nil
}

// RenderText renders an inline pattern without HTML escaping.
func (e *Engine) RenderText(pattern string, data map[string]string) (string, error) {
	tpl, err := e.set.FromString("{% autoescape off %}" + pattern + "{% endautoescape %}")
	if err != nil {
		return "", fmt.Errorf("pongo: parse %q: %w", pattern, err)
	}
	ctx := make(pongo2.Context, len(data))
	for key, value := range data {
		ctx[key] = value
	}
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("pongo: render %q: %w", pattern, err)
	}
	return out, nil
}

func (e *Engine) page(name string) (*pongo2.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tpl, ok := e.pages[name]; ok {
		return tpl, nil
	}
	tpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("pongo: load %s: %w", name, err)
	}
	e.pages[name] = tpl
	return tpl, nil
}
