// Package formweave turns CSV questionnaire schemas into live, renderable
// forms. The root package re-exports the common entry points; the pkg tree
// holds the full surface (schema parsing, sessions, render backends, stores,
// exports).
package formweave

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/formweave/formweave/pkg/orchestrator"
	"github.com/formweave/formweave/pkg/renderers/grid"
	"github.com/formweave/formweave/pkg/renderers/standard"
	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
)

// Request describes the inputs required to render a form; alias exported via
// the root package for convenience.
type Request = orchestrator.Request

// Result is a mounted, rendered form with its live backend.
type Result = orchestrator.Result

// ResponseData maps field ids (and "<fieldId>_note" keys) to values.
type ResponseData = session.ResponseData

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML parses the CSV schema, mounts the named backend, and renders
// it. It is the simplest entry point for callers that just want HTML output.
func GenerateHTML(ctx context.Context, csvText, jobID, title, backendName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		CSV:     csvText,
		JobID:   jobID,
		Title:   title,
		Backend: backendName,
	})
}

// GenerateHTMLFromTemplate renders a form using a pre-built template,
// bypassing the parsing stage while still delegating to the orchestrator.
func GenerateHTMLFromTemplate(ctx context.Context, tmpl *schema.Template, backendName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Template: tmpl,
		Backend:  backendName,
	})
}

// ParseTemplate converts CSV schema text into a validated template. Warnings
// report recoverable row defects; the error covers structural failures and
// validation findings.
func ParseTemplate(csvText, jobID, title string, options ...schema.BuildOption) (*schema.Template, []schema.Warning, error) {
	fields, warnings, err := schema.ParseFields(csvText)
	if err != nil {
		return nil, nil, err
	}
	tmpl := schema.New(jobID, title, fields, options...)
	if report := schema.Validate(tmpl); !report.Valid {
		return nil, warnings, &schema.ParseError{Reason: "template failed validation: " + report.Errors[0]}
	}
	return tmpl, warnings, nil
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices resolve into CSS variables ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithDefaultBackend overrides the backend used when requests omit one.
func WithDefaultBackend(name string) orchestrator.Option {
	return orchestrator.WithDefaultBackend(name)
}

// StandardTemplates exposes the standard backend's embedded chrome templates
// so callers can reuse or extend them without importing the renderer package
// directly.
func StandardTemplates() fs.FS {
	return standard.TemplatesFS()
}

// GridTemplates exposes the grid backend's embedded chrome templates.
func GridTemplates() fs.FS {
	return grid.TemplatesFS()
}
