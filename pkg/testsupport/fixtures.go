// Package testsupport holds helpers shared by the package test suites:
// CSV template fixtures and the backend contract runner both render
// backends must pass.
package testsupport

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/formweave/formweave/pkg/render"
	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
)

// MustParseTemplate parses CSV schema text and builds a template, failing the
// test on any parse or validation error. Warnings are tolerated.
func MustParseTemplate(t *testing.T, jobID, title, csvText string, options ...schema.BuildOption) *schema.Template {
	t.Helper()

	fields, _, err := schema.ParseFields(csvText)
	if err != nil {
		t.Fatalf("parse fields: %v", err)
	}
	tmpl := schema.New(jobID, title, fields, options...)
	if report := schema.Validate(tmpl); !report.Valid {
		t.Fatalf("template invalid: %v", report.Errors)
	}
	return tmpl
}

// MustExampleTemplate builds a template from the bundled example CSV.
func MustExampleTemplate(t *testing.T) *schema.Template {
	t.Helper()
	return MustParseTemplate(t, "job-example", "Example Inspection", schema.ExampleCSV)
}

// Diff returns a human readable diff when the values differ.
func Diff(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// contractCSV exercises every behaviour the contract runner checks: required
// fields, a skip rule, numeric bounds, groups, and a default value.
const contractCSV = `field_id,field_type,label,help_text,required,options,default_value,skip_if,skip_to_field_id,group,item_id,min_value,max_value
intro,text,Inspector name,,yes,,,,,Identification,1,,
site_ok,radio,Is the site accessible,,yes,Yes|No,,No,wrap_up,Identification,2,,
hazards,dropdown,Hazards present,,no,None|Minor|Major,None,,,Checks,3,,
reading,number,Meter reading,,no,,,,,Checks,4,0,100
wrap_up,textarea,Final remarks,,no,,,,,,5,,
`

// RunBackendContract drives a freshly constructed backend through the shared
// behavioural contract. Both render backends run this; behaviour differences
// between them beyond layout are bugs.
func RunBackendContract(t *testing.T, newBackend func(t *testing.T) render.Backend) {
	t.Helper()

	tmpl := MustParseTemplate(t, "job-contract", "Contract Form", contractCSV)

	t.Run("rejects edits before initialize", func(t *testing.T) {
		b := newBackend(t)
		if err := b.SetValue("intro", "x"); err == nil {
			t.Fatalf("expected error before Initialize")
		}
	})

	t.Run("seeds defaults and initial data", func(t *testing.T) {
		b := newBackend(t)
		initial := session.ResponseData{"intro": "Dana", "hazards": ""}
		if err := b.Initialize("c1", tmpl, initial, session.Config{}); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		b.Flush()

		data := b.ExtractData()
		if data["intro"] != "Dana" {
			t.Fatalf("intro = %q, want Dana", data["intro"])
		}
		// Explicit empty initial wins over the default.
		if data["hazards"] != "" {
			t.Fatalf("hazards = %q, want empty", data["hazards"])
		}
		if data["reading"] != "" {
			t.Fatalf("reading = %q, want empty seed", data["reading"])
		}
	})

	t.Run("rejects unknown field ids", func(t *testing.T) {
		b := newBackend(t)
		if err := b.Initialize("c1", tmpl, nil, session.Config{}); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		if err := b.SetValue("nope", "x"); err == nil {
			t.Fatalf("expected error for unknown field")
		}
		if err := b.SetNote("nope", "x"); err == nil {
			t.Fatalf("expected error for unknown note field")
		}
	})

	t.Run("edits survive flush and extract", func(t *testing.T) {
		b := newBackend(t)
		if err := b.Initialize("c1", tmpl, nil, session.Config{}); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		if err := b.SetValue("intro", "Ada"); err != nil {
			t.Fatalf("set value: %v", err)
		}
		if err := b.SetNote("intro", "checked twice"); err != nil {
			t.Fatalf("set note: %v", err)
		}

		data := b.ExtractData()
		if data["intro"] != "Ada" {
			t.Fatalf("intro = %q, want Ada", data["intro"])
		}
		if data[session.NoteKey("intro")] != "checked twice" {
			t.Fatalf("intro note = %q", data[session.NoteKey("intro")])
		}
	})

	t.Run("validate reports missing required fields", func(t *testing.T) {
		b := newBackend(t)
		if err := b.Initialize("c1", tmpl, nil, session.Config{}); err != nil {
			t.Fatalf("initialize: %v", err)
		}

		report := b.Validate()
		if report.Valid {
			t.Fatalf("expected invalid report")
		}
		var required []string
		for _, e := range report.Errors {
			if e.Message == render.RequiredMessage {
				required = append(required, e.FieldID)
			}
		}
		if diff := cmp.Diff([]string{"intro", "site_ok"}, required); diff != "" {
			t.Fatalf("required errors mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("validate skips hidden required fields", func(t *testing.T) {
		b := newBackend(t)
		if err := b.Initialize("c1", tmpl, nil, session.Config{}); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		// Triggering the skip rule hides hazards and reading; only the rule
		// source and the target stay visible.
		if err := b.SetValue("site_ok", "No"); err != nil {
			t.Fatalf("set value: %v", err)
		}
		if err := b.SetValue("intro", "Ada"); err != nil {
			t.Fatalf("set value: %v", err)
		}

		report := b.Validate()
		if !report.Valid {
			t.Fatalf("expected valid report, got %v", report.Errors)
		}
	})

	t.Run("validate enforces numeric bounds after flush", func(t *testing.T) {
		b := newBackend(t)
		if err := b.Initialize("c1", tmpl, nil, session.Config{}); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		if err := b.SetValue("intro", "Ada"); err != nil {
			t.Fatalf("set value: %v", err)
		}
		if err := b.SetValue("site_ok", "Yes"); err != nil {
			t.Fatalf("set value: %v", err)
		}
		if err := b.SetValue("reading", "150"); err != nil {
			t.Fatalf("set value: %v", err)
		}

		report := b.Validate()
		if report.Valid {
			t.Fatalf("expected bounds violation")
		}
		found := false
		for _, e := range report.Errors {
			if e.FieldID == "reading" {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected error for reading, got %v", report.Errors)
		}
	})

	t.Run("read only sessions ignore edits", func(t *testing.T) {
		b := newBackend(t)
		initial := session.ResponseData{"intro": "Locked"}
		if err := b.Initialize("c1", tmpl, initial, session.Config{ReadOnly: true}); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		if err := b.SetValue("intro", "Changed"); err != nil {
			t.Fatalf("set value: %v", err)
		}
		b.Flush()
		if got := b.ExtractData()["intro"]; got != "Locked" {
			t.Fatalf("intro = %q, want Locked", got)
		}
	})

	t.Run("change callback fires with full snapshots", func(t *testing.T) {
		b := newBackend(t)
		var snapshots []session.ResponseData
		cfg := session.Config{OnDataChange: func(d session.ResponseData) {
			snapshots = append(snapshots, d)
		}}
		if err := b.Initialize("c1", tmpl, nil, cfg); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		if err := b.SetValue("intro", "Ada"); err != nil {
			t.Fatalf("set value: %v", err)
		}
		b.Flush()

		if len(snapshots) == 0 {
			t.Fatalf("expected at least one snapshot")
		}
		last := snapshots[len(snapshots)-1]
		if last["intro"] != "Ada" {
			t.Fatalf("snapshot intro = %q", last["intro"])
		}
	})

	t.Run("render produces output and destroy resets", func(t *testing.T) {
		b := newBackend(t)
		if err := b.Initialize("c1", tmpl, nil, session.Config{}); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		out, err := b.Render(Context(), render.Options{})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if len(out) == 0 {
			t.Fatalf("empty render output")
		}

		b.Destroy()
		if b.ExtractData() != nil {
			t.Fatalf("expected nil data after destroy")
		}
		if _, err := b.Render(Context(), render.Options{}); err == nil {
			t.Fatalf("expected render error after destroy")
		}
	})
}
