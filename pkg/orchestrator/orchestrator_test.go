package orchestrator

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/formweave/formweave/pkg/render"
	"github.com/formweave/formweave/pkg/renderers/grid"
	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
	"github.com/formweave/formweave/pkg/testsupport"
)

func TestOrchestrator_GenerateFromCSV(t *testing.T) {
	orch := New()

	out, err := orch.Generate(testsupport.Context(), Request{
		CSV:   schema.ExampleCSV,
		JobID: "job-1",
		Title: "Country Survey",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	markup := string(out)
	if !strings.Contains(markup, `id="formweave-form"`) {
		t.Errorf("default container id missing")
	}
	if !strings.Contains(markup, "formweave-standard") {
		t.Errorf("default backend should be standard")
	}
}

func TestOrchestrator_BackendSelection(t *testing.T) {
	orch := New()

	out, err := orch.Generate(testsupport.Context(), Request{
		CSV:     schema.ExampleCSV,
		JobID:   "job-1",
		Title:   "Country Survey",
		Backend: "grid",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "formweave-grid") {
		t.Errorf("grid backend not used")
	}

	if _, err := orch.Generate(testsupport.Context(), Request{
		CSV: schema.ExampleCSV, JobID: "j", Title: "t", Backend: "nope",
	}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestOrchestrator_DefaultBackendOverride(t *testing.T) {
	orch := New(WithDefaultBackend("grid"))

	out, err := orch.Generate(testsupport.Context(), Request{
		CSV: schema.ExampleCSV, JobID: "j", Title: "t",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "formweave-grid") {
		t.Errorf("default backend override ignored")
	}
}

func TestOrchestrator_MountKeepsBackendLive(t *testing.T) {
	orch := New()

	var changes int
	result, err := orch.Mount(testsupport.Context(), Request{
		CSV:          schema.ExampleCSV,
		JobID:        "job-1",
		Title:        "Country Survey",
		ContainerID:  "live-root",
		Initial:      session.ResponseData{"country_name": "Norway"},
		OnDataChange: func(session.ResponseData) { changes++ },
	})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if result.Template.JobID != "job-1" {
		t.Fatalf("template not returned")
	}
	if !strings.Contains(string(result.Output), `id="live-root"`) {
		t.Errorf("container id not applied")
	}
	if !strings.HasPrefix(result.ContentType, "text/html") {
		t.Errorf("content type = %q", result.ContentType)
	}

	if err := result.Backend.SetValue("has_referendum", "Yes"); err != nil {
		t.Fatalf("edit on mounted backend: %v", err)
	}
	result.Backend.Flush()
	if changes == 0 {
		t.Errorf("change callback never fired")
	}
	if got := result.Backend.ExtractData()["country_name"]; got != "Norway" {
		t.Errorf("initial data lost: %q", got)
	}
}

func TestOrchestrator_InputValidation(t *testing.T) {
	orch := New()

	if _, err := orch.Generate(nil, Request{CSV: schema.ExampleCSV}); err == nil { //nolint:staticcheck
		t.Fatalf("expected error for nil context")
	}
	if _, err := orch.Generate(testsupport.Context(), Request{}); err == nil {
		t.Fatalf("expected error without csv or template")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orch.Generate(ctx, Request{CSV: schema.ExampleCSV}); err == nil {
		t.Fatalf("expected error for cancelled context")
	}

	// Structurally broken CSV surfaces as a parse error.
	if _, err := orch.Generate(testsupport.Context(), Request{CSV: "not,a,header"}); err == nil {
		t.Fatalf("expected parse error")
	}

	// A template failing validation never reaches the backend.
	bad := "field_id,field_type,label\n,text,No id"
	if _, err := orch.Generate(testsupport.Context(), Request{CSV: bad, JobID: "j", Title: "t"}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestOrchestrator_PrebuiltTemplateBypassesParsing(t *testing.T) {
	tmpl := testsupport.MustExampleTemplate(t)
	orch := New()

	result, err := orch.Mount(testsupport.Context(), Request{Template: tmpl})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if result.Template != tmpl {
		t.Fatalf("template replaced")
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestOrchestrator_ThemeAndStylesheets(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{"brand": "#123456"},
		},
	}}

	orch := New(
		WithThemeSelector(selector),
		WithStylesheets("/static/forms.css"),
	)

	out, err := orch.Generate(testsupport.Context(), Request{
		CSV:       schema.ExampleCSV,
		JobID:     "job-1",
		Title:     "Country Survey",
		ThemeName: "acme",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	markup := string(out)

	if len(selector.calls) != 1 {
		t.Fatalf("selector calls = %d", len(selector.calls))
	}
	if !strings.Contains(markup, "--brand: #123456") {
		t.Errorf("theme token not injected as css var")
	}
	if !strings.Contains(markup, `href="/static/forms.css"`) {
		t.Errorf("configured stylesheet missing")
	}
}

func TestOrchestrator_CustomRegistry(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(grid.Name, func() (render.Backend, error) { return grid.New() })

	orch := New(WithRegistry(registry), WithDefaultBackend("grid"))
	if _, err := orch.Generate(testsupport.Context(), Request{
		CSV: schema.ExampleCSV, JobID: "j", Title: "t",
	}); err != nil {
		t.Fatalf("generate with custom registry: %v", err)
	}
	if _, err := orch.Generate(testsupport.Context(), Request{
		CSV: schema.ExampleCSV, JobID: "j", Title: "t", Backend: "standard",
	}); err == nil {
		t.Fatalf("standard should be absent from custom registry")
	}
}

type themeCall struct {
	name, variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	calls     []themeCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, themeCall{name: name, variant: variant})
	return s.selection, nil
}
