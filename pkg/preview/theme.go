package preview

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	// ThemeName is the name of the built-in manifest.
	ThemeName = "docfill"
	// VariantLight is the default palette.
	VariantLight = "light"
	// VariantDark mirrors the desktop dark mode.
	VariantDark = "dark"
)

// ErrUnknownVariant is returned when a variant is not declared by the manifest.
var ErrUnknownVariant = errors.New("preview: unknown theme variant")

// DefaultManifest returns the built-in palette. Base tokens are the light
// variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    ThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"bg":           "#eaeaea",
			"surface":      "#ffffff",
			"text":         "#000000",
			"label":        "#333333",
			"border":       "#cccccc",
			"accent":       "#6A5ACD",
			"accent-hover": "#483D8B",
			"accent-soft":  "#dcd0ff",
			"font":         "'Segoe UI', sans-serif",
		},
		Variants: map[string]theme.Variant{
			VariantDark: {
				Tokens: map[string]string{
					"bg":      "#1e1e1e",
					"surface": "#2b2b2b",
					"text":    "#ffffff",
					"label":   "#ffffff",
					"border":  "#6A5ACD",
				},
			},
		},
	}
}

// Themes resolves a manifest variant into renderer configuration.
type Themes struct {
	provider theme.ThemeProvider
	manifest *theme.Manifest
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers manifest, or DefaultManifest when nil.
func NewThemes(manifest *theme.Manifest) (*Themes, error) {
	if manifest == nil {
		manifest = DefaultManifest()
	}
	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("preview: register theme: %w", err)
	}
	return &Themes{provider: registry, manifest: manifest}, nil
}

// Variants lists the selectable variants, light first.
func (t *Themes) Variants() []string {
	out := []string{VariantLight}
	names := make([]string, 0, len(t.manifest.Variants))
	for name := range t.manifest.Variants {
		if name != VariantLight {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return append(out, names...)
}

// Select resolves variant of the registered manifest. The name argument is
// accepted for interface compatibility; an empty variant selects light.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name != "" && name != t.manifest.Name {
		return nil, fmt.Errorf("preview: unknown theme %q", name)
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = VariantLight
	}
	if _, ok := t.manifest.Variants[variant]; !ok && variant != VariantLight {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	return &theme.Selection{
		Theme:    t.manifest.Name,
		Variant:  variant,
		Manifest: t.manifest,
	}, nil
}

// Config merges the variant tokens over the base tokens and derives CSS
// custom properties from them.
func Config(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return &theme.RendererConfig{}
	}
	tokens := make(map[string]string, len(selection.Manifest.Tokens))
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars["--"+key] = value
	}
	return &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  tokens,
		CSSVars: vars,
	}
}

// cssVarsStyle renders vars as sorted declarations for a :root block.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}
