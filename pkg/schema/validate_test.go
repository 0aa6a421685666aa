package schema

import (
	"strings"
	"testing"
)

func bound(v float64) *float64 { return &v }

func validTemplate() *Template {
	return New("job-1", "Job one", []Field{
		{ID: "q1", Type: FieldTypeText, Label: "Question one"},
		{ID: "q2", Type: FieldTypeDropdown, Label: "Question two", Options: []string{"a", "b"}},
	})
}

func TestValidate_CleanTemplate(t *testing.T) {
	report := Validate(validTemplate())
	if !report.Valid || len(report.Errors) != 0 {
		t.Fatalf("report = %+v, want valid", report)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	tmpl := &Template{} // missing jobId, title, fields
	report := Validate(tmpl)
	if report.Valid {
		t.Fatalf("expected invalid report")
	}
	if len(report.Errors) != 3 {
		t.Fatalf("errors = %v, want jobId+title+fields", report.Errors)
	}
}

func TestValidate_DuplicateIDReportedOnce(t *testing.T) {
	tmpl := New("job-1", "Job", []Field{
		{ID: "q1", Type: FieldTypeText, Label: "First"},
		{ID: "q1", Type: FieldTypeText, Label: "Second"},
	})
	report := Validate(tmpl)
	if report.Valid {
		t.Fatalf("expected invalid report")
	}
	joined := strings.Join(report.Errors, "\n")
	if got := strings.Count(joined, "q1"); got != 1 {
		t.Fatalf("q1 mentioned %d times in %q, want exactly once", got, joined)
	}
}

func TestValidate_FieldChecks(t *testing.T) {
	cases := []struct {
		name  string
		field Field
		want  string
	}{
		{
			name:  "dropdown without options",
			field: Field{ID: "q", Type: FieldTypeDropdown, Label: "Q"},
			want:  "requires options",
		},
		{
			name:  "skip_if without target",
			field: Field{ID: "q", Type: FieldTypeText, Label: "Q", SkipIf: "No"},
			want:  "skip_if requires skip_to_field_id",
		},
		{
			name:  "target without skip_if",
			field: Field{ID: "q", Type: FieldTypeText, Label: "Q", SkipToFieldID: "q1"},
			want:  "skip_to_field_id requires skip_if",
		},
		{
			name:  "dangling skip target",
			field: Field{ID: "q", Type: FieldTypeText, Label: "Q", SkipIf: "No", SkipToFieldID: "ghost"},
			want:  `skip_to_field_id "ghost" does not exist`,
		},
		{
			name:  "inverted bounds",
			field: Field{ID: "q", Type: FieldTypeNumber, Label: "Q", MinValue: bound(10), MaxValue: bound(1)},
			want:  "greater than max_value",
		},
		{
			name:  "missing label",
			field: Field{ID: "q", Type: FieldTypeText},
			want:  "missing label",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tmpl := New("job-1", "Job", append([]Field{{ID: "q1", Type: FieldTypeText, Label: "Anchor"}}, tc.field))
			report := Validate(tmpl)
			if report.Valid {
				t.Fatalf("expected invalid report")
			}
			found := false
			for _, e := range report.Errors {
				if strings.Contains(e, tc.want) {
					found = true
				}
			}
			if !found {
				t.Fatalf("errors %v missing %q", report.Errors, tc.want)
			}
		})
	}
}

func TestValidate_DuplicateItemIDs(t *testing.T) {
	tmpl := New("job-1", "Job", []Field{
		{ID: "a", Type: FieldTypeText, Label: "A", ItemID: itemID(5)},
		{ID: "b", Type: FieldTypeText, Label: "B", ItemID: itemID(5)},
	})
	report := Validate(tmpl)
	if report.Valid {
		t.Fatalf("expected invalid report")
	}
	found := false
	for _, e := range report.Errors {
		if strings.Contains(e, "duplicate item_id") && strings.Contains(e, "5") {
			found = true
		}
	}
	if !found {
		t.Fatalf("errors %v missing duplicate item_id", report.Errors)
	}
}
