// Package orchestrator coordinates the full pipeline from CSV schema text to
// rendered form markup: parse, build, validate, mount a session on a backend,
// render. It applies sensible defaults (standard backend, both built-in
// backends registered) while remaining open to dependency injection.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/formweave/formweave/pkg/render"
	"github.com/formweave/formweave/pkg/renderers/grid"
	"github.com/formweave/formweave/pkg/renderers/standard"
	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
)

const defaultBackendName = standard.Name

// DefaultContainerID is used when a request does not name a container.
const DefaultContainerID = "formweave-form"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a backend registry, replacing the built-in one.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultBackend overrides the backend used when a request omits an
// explicit Backend field.
func WithDefaultBackend(name string) Option {
	return func(o *Orchestrator) {
		if name != "" {
			o.defaultBackend = name
		}
	}
}

// WithThemeSelector registers a go-theme selector so requests carrying a
// theme name render with the resolved design tokens as CSS variables.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithStylesheets appends stylesheet URLs linked from every rendered form.
func WithStylesheets(urls ...string) Option {
	return func(o *Orchestrator) {
		o.stylesheets = append(o.stylesheets, urls...)
	}
}

// Orchestrator wires the schema, session, and render layers together.
type Orchestrator struct {
	registry       *render.Registry
	defaultBackend string
	themeSelector  theme.ThemeSelector
	stylesheets    []string
}

// New constructs an Orchestrator applying any provided options. When no
// registry is supplied, both built-in backends are registered.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultBackend: defaultBackendName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}
	return o
}

// DefaultRegistry returns a registry with the standard and grid backends
// registered.
func DefaultRegistry() *render.Registry {
	registry := render.NewRegistry()
	registry.MustRegister(standard.Name, func() (render.Backend, error) { return standard.New() })
	registry.MustRegister(grid.Name, func() (render.Backend, error) { return grid.New() })
	return registry
}

// Request describes the inputs required to render a form.
type Request struct {
	// CSV is the raw schema source text. Optional when Template is supplied.
	CSV string

	// Template allows callers to bypass parsing when they already hold a
	// built template.
	Template *schema.Template

	// JobID and Title feed template construction when building from CSV.
	JobID string
	Title string

	// BuildOptions customise template construction from CSV.
	BuildOptions []schema.BuildOption

	// Backend names the render backend. Empty falls back to the configured
	// default.
	Backend string

	// ContainerID is the root element id of the rendered form.
	ContainerID string

	// Initial seeds response data; field defaults fill the gaps.
	Initial session.ResponseData

	// ReadOnly renders disabled widgets and makes the mounted backend
	// reject edits.
	ReadOnly bool

	// OnDataChange receives response-data snapshots from the mounted
	// session.
	OnDataChange func(session.ResponseData)

	// ThemeName and ThemeVariant select a theme through the configured
	// selector. Ignored when no selector is configured or RenderOptions
	// already carries a theme.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request presentation overrides. Theme and
	// stylesheets configured on the orchestrator apply when unset here.
	RenderOptions render.Options
}

// Result is a mounted, rendered form. Backend stays live so callers can keep
// applying edits and re-rendering.
type Result struct {
	Output      []byte
	ContentType string
	Template    *schema.Template
	Warnings    []schema.Warning
	Backend     render.Backend
}

// Generate runs the pipeline and returns the rendered markup, discarding the
// mounted backend. It is the simplest entry point for one-shot rendering.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	result, err := o.Mount(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Backend.Destroy()
	return result.Output, nil
}

// Mount runs the pipeline and returns the rendered markup together with the
// live backend.
func (o *Orchestrator) Mount(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpl, warnings, err := o.resolveTemplate(req)
	if err != nil {
		return nil, err
	}

	backend, err := o.backendFor(req.Backend)
	if err != nil {
		return nil, err
	}

	containerID := req.ContainerID
	if containerID == "" {
		containerID = DefaultContainerID
	}
	cfg := session.Config{ReadOnly: req.ReadOnly, OnDataChange: req.OnDataChange}
	if err := backend.Initialize(containerID, tmpl, req.Initial, cfg); err != nil {
		return nil, fmt.Errorf("orchestrator: initialize backend: %w", err)
	}

	opts := req.RenderOptions
	if opts.Theme == nil && o.themeSelector != nil && req.ThemeName != "" {
		resolved, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: resolve theme: %w", err)
		}
		opts.Theme = resolved
	}
	if len(opts.Stylesheets) == 0 && len(o.stylesheets) > 0 {
		opts.Stylesheets = o.stylesheets
	}

	output, err := backend.Render(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}

	return &Result{
		Output:      output,
		ContentType: backend.ContentType(),
		Template:    tmpl,
		Warnings:    warnings,
		Backend:     backend,
	}, nil
}

func (o *Orchestrator) resolveTemplate(req Request) (*schema.Template, []schema.Warning, error) {
	if req.Template != nil {
		return req.Template, nil, nil
	}
	if req.CSV == "" {
		return nil, nil, errors.New("orchestrator: csv or template is required")
	}

	fields, warnings, err := schema.ParseFields(req.CSV)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrator: parse schema: %w", err)
	}
	tmpl := schema.New(req.JobID, req.Title, fields, req.BuildOptions...)
	if report := schema.Validate(tmpl); !report.Valid {
		return nil, nil, fmt.Errorf("orchestrator: invalid template: %v", report.Errors)
	}
	return tmpl, warnings, nil
}

func (o *Orchestrator) backendFor(name string) (render.Backend, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: backend registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultBackend
	}

	backend, err := o.registry.New(target)
	if err != nil {
		if name != "" {
			return nil, fmt.Errorf("orchestrator: backend %q: %w", name, err)
		}
		names := o.registry.List()
		if len(names) == 0 {
			return nil, errors.New("orchestrator: no backends registered")
		}
		return o.registry.New(names[0])
	}
	return backend, nil
}

// resolveTheme turns a selection's design tokens into CSS custom properties
// the backends inject on the form chrome.
func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	if selection == nil {
		return nil, nil
	}

	cfg := &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
	}
	if selection.Manifest != nil && len(selection.Manifest.Tokens) > 0 {
		cfg.Tokens = selection.Manifest.Tokens
		cfg.CSSVars = make(map[string]string, len(selection.Manifest.Tokens))
		for token, value := range selection.Manifest.Tokens {
			cfg.CSSVars["--"+token] = value
		}
	}
	return cfg, nil
}
