// Package standard implements the vertical form backend: fields laid out
// top to bottom, grouped fields collapsed into accordion sections with live
// completion badges. Edits commit to the session on every keystroke, so
// Flush is a no-op here.
package standard

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/formweave/formweave/pkg/grouping"
	"github.com/formweave/formweave/pkg/render"
	rendertemplate "github.com/formweave/formweave/pkg/render/template"
	"github.com/formweave/formweave/pkg/render/template/gotemplate"
	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
)

// Name is the registry identifier for this backend.
const Name = "standard"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate chrome template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads chrome templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer is the standard backend. The zero value is unusable; construct
// with New and mount a session with Initialize.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	sanitizer *bluemonday.Policy

	container string
	sess      *session.Session
	invalid   map[string]bool
}

var _ render.Backend = (*Renderer)(nil)

// New constructs the standard backend applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("standard backend: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		sanitizer: bluemonday.StrictPolicy(),
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Initialize mounts a fresh session; any previous session is discarded.
func (r *Renderer) Initialize(containerID string, tmpl *schema.Template, initial session.ResponseData, cfg session.Config) error {
	if tmpl == nil {
		return fmt.Errorf("standard backend: template is required")
	}
	if containerID == "" {
		return fmt.Errorf("standard backend: container id is required")
	}
	r.container = containerID
	r.sess = session.New(tmpl, initial, cfg)
	r.invalid = make(map[string]bool)
	return nil
}

// SetValue commits an answer edit immediately.
func (r *Renderer) SetValue(fieldID, value string) error {
	if r.sess == nil {
		return render.ErrNotInitialized
	}
	if _, ok := r.sess.Template().Field(fieldID); !ok {
		return fmt.Errorf("standard backend: unknown field %q", fieldID)
	}
	r.sess.SetValue(fieldID, value)
	return nil
}

// SetNote commits a note edit immediately.
func (r *Renderer) SetNote(fieldID, note string) error {
	if r.sess == nil {
		return render.ErrNotInitialized
	}
	if _, ok := r.sess.Template().Field(fieldID); !ok {
		return fmt.Errorf("standard backend: unknown field %q", fieldID)
	}
	r.sess.SetNote(fieldID, note)
	return nil
}

// Flush is a no-op: this backend has no deferred commit path. It exists for
// interface symmetry with backends that buffer edits.
func (r *Renderer) Flush() {}

// ExtractData returns a snapshot of the committed response data.
func (r *Renderer) ExtractData() session.ResponseData {
	if r.sess == nil {
		return nil
	}
	return r.sess.Snapshot()
}

// Validate runs the shared field validation and, as a presentation side
// effect, toggles the invalid-state chrome on widgets with required-field
// findings.
func (r *Renderer) Validate() render.ValidationReport {
	if r.sess == nil {
		return render.ValidationReport{Valid: true}
	}
	report := render.Evaluate(r.sess)

	r.invalid = make(map[string]bool)
	for _, e := range report.Errors {
		if e.Message == render.RequiredMessage {
			r.invalid[e.FieldID] = true
		}
	}
	return report
}

// Render produces the full vertical layout for the current state.
func (r *Renderer) Render(_ context.Context, opts render.Options) ([]byte, error) {
	if r.sess == nil {
		return nil, render.ErrNotInitialized
	}
	tmpl := r.sess.Template()

	body := r.renderBody(tmpl)

	out, err := r.templates.RenderTemplate("templates/form", map[string]any{
		"container":   r.container,
		"title":       tmpl.Title,
		"description": tmpl.Description,
		"style":       render.ThemeStyle(opts),
		"stylesheets": opts.Stylesheets,
		"body":        body,
	})
	if err != nil {
		return nil, fmt.Errorf("standard backend: render chrome: %w", err)
	}
	return []byte(out), nil
}

// Destroy resets the backend to its pre-Initialize state.
func (r *Renderer) Destroy() {
	if r.sess != nil {
		r.sess.Reset()
	}
	r.sess = nil
	r.invalid = nil
	r.container = ""
}

func (r *Renderer) renderBody(tmpl *schema.Template) string {
	groups := grouping.Groups(tmpl.Fields)
	if len(groups) == 0 {
		var sb strings.Builder
		for _, f := range tmpl.Fields {
			sb.WriteString(r.renderField(f))
		}
		return sb.String()
	}

	var sb strings.Builder
	sb.WriteString(r.renderAccordion(tmpl, groups))

	ungrouped := grouping.Ungrouped(tmpl.Fields)
	if len(ungrouped) > 0 {
		sb.WriteString(`<div class="ungrouped-fields">` + "\n")
		for _, f := range ungrouped {
			sb.WriteString(r.renderField(f))
		}
		sb.WriteString("</div>\n")
	}
	return sb.String()
}
