package export_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/formweave/formweave/pkg/export"
	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
	"github.com/formweave/formweave/pkg/store"
	"github.com/formweave/formweave/pkg/testsupport"
)

func TestResponsesCSV(t *testing.T) {
	tmpl := testsupport.MustExampleTemplate(t)
	submitted := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)

	responses := []store.Response{
		{
			ID: "r1", UserID: "u1", Status: store.ResponseSubmitted,
			SubmittedAt: &submitted, TemplateVersion: 1,
			Data: session.ResponseData{
				"country_name":      "Iceland",
				"country_name_note": "double, checked",
				"has_referendum":    "Yes",
			},
		},
		{
			ID: "r2", UserID: "u2", Status: store.ResponseDraft, TemplateVersion: 1,
			Data: session.ResponseData{"country_name": `say "hi"`},
		},
	}

	out, err := export.ResponsesCSV(tmpl, responses)
	if err != nil {
		t.Fatalf("responses csv: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\r\n"), "\r\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "response_id,user_id,status,submitted_at,template_version,Country Name,Country Name (Notes)") {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "2026-03-05 14:30:00") {
		t.Errorf("submitted timestamp missing: %q", lines[1])
	}
	if !strings.Contains(lines[1], `"double, checked"`) {
		t.Errorf("comma cell not quoted: %q", lines[1])
	}
	if !strings.Contains(lines[2], `"say ""hi"""`) {
		t.Errorf("quote cell not escaped: %q", lines[2])
	}

	// The export dialect round-trips through the schema record scanner.
	records, _, err := schema.ParseFields("field_id,field_type,label\nx,text," + `"double, checked"`)
	if err != nil {
		t.Fatalf("round trip parse: %v", err)
	}
	if records[0].Label != "double, checked" {
		t.Fatalf("round trip label = %q", records[0].Label)
	}
}

func TestResponsesCSV_RequiresTemplate(t *testing.T) {
	if _, err := export.ResponsesCSV(nil, nil); err == nil {
		t.Fatalf("expected error for nil template")
	}
}

func TestResponseSchema(t *testing.T) {
	tmpl := testsupport.MustExampleTemplate(t)

	out, err := export.ResponseSchema(tmpl)
	if err != nil {
		t.Fatalf("response schema: %v", err)
	}

	if diff := cmp.Diff([]string{"country_name", "has_referendum", "ref_type"}, out.Required); diff != "" {
		t.Errorf("required mismatch (-want +got):\n%s", diff)
	}

	threshold := out.Properties["threshold"].Value
	if !threshold.Type.Is("number") {
		t.Errorf("threshold type = %v", threshold.Type)
	}
	if threshold.Min == nil || *threshold.Min != 0 {
		t.Errorf("threshold min = %v", threshold.Min)
	}
	if threshold.Max == nil || *threshold.Max != 100 {
		t.Errorf("threshold max = %v", threshold.Max)
	}

	refType := out.Properties["ref_type"].Value
	if len(refType.Enum) != 3 {
		t.Errorf("ref_type enum = %v", refType.Enum)
	}

	if _, ok := out.Properties[session.NoteKey("country_name")]; !ok {
		t.Errorf("note property missing")
	}
	if !out.Type.Is("object") {
		t.Errorf("schema type = %v", out.Type)
	}
}

func TestResponseSchema_RequiresTemplate(t *testing.T) {
	if _, err := export.ResponseSchema(nil); err == nil {
		t.Fatalf("expected error for nil template")
	}
}
