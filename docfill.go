// Package docfill fills the custody term Word template from a form state and
// optionally exports it to PDF.
package docfill

import (
	"context"

	"github.com/goliatone/go-docfill/pkg/form"
	"github.com/goliatone/go-docfill/pkg/orchestrator"
)

// Request aliases orchestrator.Request for callers of the root package.
type Request = orchestrator.Request

// Response aliases orchestrator.Response.
type Response = orchestrator.Response

// State aliases form.State.
type State = form.State

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate fills templatePath with state and writes the document named by
// the configured file name pattern. It is the simplest entry point for
// callers that just want the document.
func Generate(ctx context.Context, state *form.State, templatePath string, options ...orchestrator.Option) (Response, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		State:    state,
		Template: templatePath,
	})
}

// GenerateTo is Generate with an explicit output path.
func GenerateTo(ctx context.Context, state *form.State, templatePath, outputPath string, options ...orchestrator.Option) (Response, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		State:    state,
		Template: templatePath,
		Output:   outputPath,
	})
}
