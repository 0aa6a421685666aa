// Package grid implements the spreadsheet form backend: one row per field,
// with synthetic header rows delimiting groups. Edits buffer in the cell
// layer and commit on Flush; ExtractData and Validate force a flush first so
// no in-flight cell edit is ever lost.
package grid

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/formweave/formweave/pkg/render"
	rendertemplate "github.com/formweave/formweave/pkg/render/template"
	"github.com/formweave/formweave/pkg/render/template/gotemplate"
	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
)

// Name is the registry identifier for this backend.
const Name = "grid"

// HeaderRowSuffix marks the synthetic group-delimiter rows in the row model.
const HeaderRowSuffix = "_header"

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

// Renderer is the grid backend. Construct with New and mount a session with
// Initialize.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	sanitizer *bluemonday.Policy

	container string
	sess      *session.Session
	pending   map[string]string
	collapsed map[string]bool
	invalid   map[string]bool
}

var _ render.Backend = (*Renderer)(nil)

// New constructs the grid backend applying any provided options.
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
			return nil, fmt.Errorf("grid backend: configure template renderer: %w", err)
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

// Initialize mounts a fresh session and resets the edit buffer and collapse
// state. Groups start expanded.
func (r *Renderer) Initialize(containerID string, tmpl *schema.Template, initial session.ResponseData, cfg session.Config) error {
	if tmpl == nil {
		return fmt.Errorf("grid backend: template is required")
	}
	if containerID == "" {
		return fmt.Errorf("grid backend: container id is required")
	}
	r.container = containerID
	r.sess = session.New(tmpl, initial, cfg)
	r.pending = make(map[string]string)
	r.collapsed = make(map[string]bool)
	r.invalid = make(map[string]bool)
	return nil
}

// SetValue buffers an answer edit until the next Flush.
func (r *Renderer) SetValue(fieldID, value string) error {
	return r.buffer(fieldID, fieldID, value)
}

// SetNote buffers a note edit until the next Flush.
func (r *Renderer) SetNote(fieldID, note string) error {
	return r.buffer(fieldID, session.NoteKey(fieldID), note)
}

func (r *Renderer) buffer(fieldID, key, value string) error {
	if r.sess == nil {
		return render.ErrNotInitialized
	}
	if _, ok := r.sess.Template().Field(fieldID); !ok {
		return fmt.Errorf("grid backend: unknown field %q", fieldID)
	}
	if r.sess.ReadOnly() {
		return nil
	}
	r.pending[key] = value
	return nil
}

// Flush commits buffered edits to the session in sorted key order so skip
// recomputation and change callbacks see a deterministic sequence.
func (r *Renderer) Flush() {
	if r.sess == nil || len(r.pending) == 0 {
		return
	}
	keys := make([]string, 0, len(r.pending))
	for k := range r.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if session.IsNoteKey(k) {
			r.sess.SetNote(strings.TrimSuffix(k, session.NoteSuffix), r.pending[k])
		} else {
			r.sess.SetValue(k, r.pending[k])
		}
	}
	r.pending = make(map[string]string)
}

// ExtractData force-flushes pending cell edits, then returns the committed
// response data.
func (r *Renderer) ExtractData() session.ResponseData {
	if r.sess == nil {
		return nil
	}
	r.Flush()
	return r.sess.Snapshot()
}

// Validate force-flushes pending cell edits, runs the shared validation, and
// records which rows should carry invalid-state chrome.
func (r *Renderer) Validate() render.ValidationReport {
	if r.sess == nil {
		return render.ValidationReport{Valid: true}
	}
	r.Flush()
	report := render.Evaluate(r.sess)

	r.invalid = make(map[string]bool)
	for _, e := range report.Errors {
		if e.Message == render.RequiredMessage {
			r.invalid[e.FieldID] = true
		}
	}
	return report
}

// ToggleGroup collapses or expands a group's member rows. Unknown group
// labels are ignored.
func (r *Renderer) ToggleGroup(group string) {
	if r.sess == nil || r.collapsed == nil {
		return
	}
	found := false
	for _, g := range r.sess.Template().Groups {
		if g == group {
			found = true
			break
		}
	}
	if !found {
		return
	}
	r.collapsed[group] = !r.collapsed[group]
}

// Collapsed reports whether a group's member rows are currently hidden.
func (r *Renderer) Collapsed(group string) bool {
	return r.collapsed[group]
}

// Render force-flushes pending edits and produces the spreadsheet layout for
// the committed state.
func (r *Renderer) Render(_ context.Context, opts render.Options) ([]byte, error) {
	if r.sess == nil {
		return nil, render.ErrNotInitialized
	}
	r.Flush()
	tmpl := r.sess.Template()

	out, err := r.templates.RenderTemplate("templates/form", map[string]any{
		"container":   r.container,
		"title":       tmpl.Title,
		"description": tmpl.Description,
		"style":       render.ThemeStyle(opts),
		"stylesheets": opts.Stylesheets,
		"body":        r.renderTable(tmpl),
	})
	if err != nil {
		return nil, fmt.Errorf("grid backend: render chrome: %w", err)
	}
	return []byte(out), nil
}

// Destroy resets the backend to its pre-Initialize state. Pending edits are
// discarded, matching a user abandoning the sheet mid-edit.
func (r *Renderer) Destroy() {
	if r.sess != nil {
		r.sess.Reset()
	}
	r.sess = nil
	r.pending = nil
	r.collapsed = nil
	r.invalid = nil
	r.container = ""
}
