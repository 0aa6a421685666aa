package standard_test

import (
	"strings"
	"testing"

	"github.com/formweave/formweave/pkg/render"
	"github.com/formweave/formweave/pkg/renderers/standard"
	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
	"github.com/formweave/formweave/pkg/testsupport"
)

func newBackend(t *testing.T) render.Backend {
	t.Helper()
	b, err := standard.New()
	if err != nil {
		t.Fatalf("new standard backend: %v", err)
	}
	return b
}

func TestStandard_BackendContract(t *testing.T) {
	testsupport.RunBackendContract(t, newBackend)
}

func TestStandard_NameAndContentType(t *testing.T) {
	b := newBackend(t)
	if b.Name() != "standard" {
		t.Fatalf("name = %q", b.Name())
	}
	if !strings.HasPrefix(b.ContentType(), "text/html") {
		t.Fatalf("content type = %q", b.ContentType())
	}
}

func TestStandard_RenderLayout(t *testing.T) {
	tmpl := testsupport.MustExampleTemplate(t)

	b := newBackend(t)
	if err := b.Initialize("inspection-root", tmpl, nil, session.Config{}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	out, err := b.Render(testsupport.Context(), render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	markup := string(out)

	for _, want := range []string{
		`id="inspection-root"`,
		"Example Inspection",
		`data-group="Basic Information"`,
		// The example template has one required radio and a required text,
		// so the section badge starts at 0 of 4.
		`0/4</span>`,
		`-- Select --`,
		`<span class="field-required">*</span>`,
		`id="field-country_name"`,
		`placeholder="Notes (optional)"`,
		`class="ungrouped-fields"`,
	} {
		if !strings.Contains(markup, want) {
			t.Errorf("markup missing %q", want)
		}
	}
}

func TestStandard_RenderReflectsEditsAndSkips(t *testing.T) {
	tmpl := testsupport.MustExampleTemplate(t)

	b := newBackend(t)
	if err := b.Initialize("root", tmpl, nil, session.Config{}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := b.SetValue("country_name", "Estonia"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	// Answering "No" skips ref_type and threshold, leaving 2 visible group
	// members, both filled.
	if err := b.SetValue("has_referendum", "No"); err != nil {
		t.Fatalf("set value: %v", err)
	}

	out, err := b.Render(testsupport.Context(), render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	markup := string(out)

	if !strings.Contains(markup, `value="Estonia"`) {
		t.Errorf("markup missing committed value")
	}
	if !strings.Contains(markup, `2/2</span>`) {
		t.Errorf("badge not updated for hidden members")
	}
	if !strings.Contains(markup, "group-badge-complete") {
		t.Errorf("complete badge class missing")
	}
	if !strings.Contains(markup, `form-field-hidden" data-field-id="ref_type"`) {
		t.Errorf("skipped field not marked hidden")
	}
}

func TestStandard_ValidateMarksInvalidFields(t *testing.T) {
	tmpl := testsupport.MustExampleTemplate(t)

	b := newBackend(t)
	if err := b.Initialize("root", tmpl, nil, session.Config{}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	report := b.Validate()
	if report.Valid {
		t.Fatalf("expected findings")
	}

	out, err := b.Render(testsupport.Context(), render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `form-field-invalid" data-field-id="country_name"`) {
		t.Errorf("invalid state not rendered")
	}

	// Filling the field and validating again clears the marker.
	if err := b.SetValue("country_name", "Chile"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	b.Validate()
	out, err = b.Render(testsupport.Context(), render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), `form-field-invalid" data-field-id="country_name"`) {
		t.Errorf("invalid state not cleared")
	}
}

func TestStandard_HelpDisplayModes(t *testing.T) {
	csv := "field_id,field_type,label,help_text\nq1,text,Question,Some guidance"

	t.Run("tooltip", func(t *testing.T) {
		tmpl := testsupport.MustParseTemplate(t, "job", "Help", csv)
		b := newBackend(t)
		if err := b.Initialize("root", tmpl, nil, session.Config{}); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		out, err := b.Render(testsupport.Context(), render.Options{})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if !strings.Contains(string(out), `title="Some guidance"`) {
			t.Errorf("tooltip icon missing")
		}
	})

	t.Run("inline", func(t *testing.T) {
		tmpl := testsupport.MustParseTemplate(t, "job", "Help", csv,
			schema.WithHelpDisplay(schema.HelpDisplayInline))
		b := newBackend(t)
		if err := b.Initialize("root", tmpl, nil, session.Config{}); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		out, err := b.Render(testsupport.Context(), render.Options{})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if !strings.Contains(string(out), `<p class="field-help">Some guidance</p>`) {
			t.Errorf("inline help missing")
		}
	})

	t.Run("help markup is sanitized", func(t *testing.T) {
		dirty := "field_id,field_type,label,help_text\nq1,text,Question,\"<script>alert(1)</script>Safe\""
		tmpl := testsupport.MustParseTemplate(t, "job", "Help", dirty,
			schema.WithHelpDisplay(schema.HelpDisplayInline))
		b := newBackend(t)
		if err := b.Initialize("root", tmpl, nil, session.Config{}); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		out, err := b.Render(testsupport.Context(), render.Options{})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if strings.Contains(string(out), "<script>") {
			t.Errorf("script tag survived sanitization")
		}
		if !strings.Contains(string(out), "Safe") {
			t.Errorf("sanitized text lost")
		}
	})
}

func TestStandard_ThemeAndStylesheets(t *testing.T) {
	tmpl := testsupport.MustExampleTemplate(t)
	b := newBackend(t)
	if err := b.Initialize("root", tmpl, nil, session.Config{}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	out, err := b.Render(testsupport.Context(), render.Options{
		Stylesheets: []string{"/static/forms.css"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `<link rel="stylesheet" href="/static/forms.css">`) {
		t.Errorf("stylesheet link missing")
	}
}

func TestStandard_ReadOnlyDisablesWidgets(t *testing.T) {
	tmpl := testsupport.MustExampleTemplate(t)
	b := newBackend(t)
	if err := b.Initialize("root", tmpl, nil, session.Config{ReadOnly: true}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	out, err := b.Render(testsupport.Context(), render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), " disabled>") {
		t.Errorf("read-only widgets not disabled")
	}
}
