package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFields_RequiresHeaderAndData(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{name: "empty document", text: ""},
		{name: "header only", text: "field_id,field_type,label"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseFields(tc.text)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestParseFields_MissingRequiredColumn(t *testing.T) {
	text := "field_id,label\nq1,Question one"
	_, _, err := ParseFields(text)
	if err == nil || !strings.Contains(err.Error(), "field_type") {
		t.Fatalf("expected missing field_type column error, got %v", err)
	}
}

func TestParseFields_QuotedCells(t *testing.T) {
	text := "field_id,field_type,label,help_text\n" +
		`q1,text,"a,b""c","line one` + "\n" + `line two"`
	fields, warnings, err := ParseFields(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if got, want := fields[0].Label, `a,b"c`; got != want {
		t.Fatalf("label = %q, want %q", got, want)
	}
	if got, want := fields[0].Help, "line one\nline two"; got != want {
		t.Fatalf("help = %q, want %q", got, want)
	}
}

func TestParseFields_FullRow(t *testing.T) {
	text := strings.Join([]string{
		"item_id,field_id,field_type,label,help_text,required,options,default_value,skip_if,skip_to_field_id,group,min_value,max_value",
		"20,has_ref,radio,Referendum?,Pick one,yes,Yes| No |,No,No,notes,Basics,,",
		"10,threshold,number,Threshold,,no,,,,,Basics,0,100",
		",notes,textarea,Notes,,,,,,,,,",
	}, "\n")

	fields, warnings, err := ParseFields(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	itemID := func(v int) *int { return &v }
	bound := func(v float64) *float64 { return &v }
	want := []Field{
		{
			ID: "has_ref", Type: FieldTypeRadio, Label: "Referendum?", Help: "Pick one",
			Required: true, Options: []string{"Yes", "No"}, DefaultValue: "No",
			SkipIf: "No", SkipToFieldID: "notes", Group: "Basics", ItemID: itemID(20),
		},
		{
			ID: "threshold", Type: FieldTypeNumber, Label: "Threshold", Group: "Basics",
			ItemID: itemID(10), MinValue: bound(0), MaxValue: bound(100),
		},
		{ID: "notes", Type: FieldTypeTextarea, Label: "Notes"},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFields_UnknownTypeCoerced(t *testing.T) {
	text := "field_id,field_type,label\nq1,checkbox,Question one\nq2,text,Question two"
	fields, warnings, err := ParseFields(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if fields[0].Type != FieldTypeText {
		t.Fatalf("type = %q, want coerced %q", fields[0].Type, FieldTypeText)
	}
	if len(warnings) != 1 || warnings[0].Row != 2 {
		t.Fatalf("warnings = %v, want one warning for row 2", warnings)
	}
	if fields[1].Type != FieldTypeText {
		t.Fatalf("parsing should continue past a coerced row")
	}
}

func TestParseFields_SkipsBlankRowsAndPadsShortRows(t *testing.T) {
	text := "field_id,field_type,label,required\n\nq1,text,Question one\n   \nq2,date,Question two,yes"
	fields, _, err := ParseFields(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("len(fields) = %d, want 2", len(fields))
	}
	if fields[0].Required {
		t.Fatalf("missing required cell should be falsy")
	}
	if !fields[1].Required {
		t.Fatalf("required=yes should parse truthy")
	}
}

func TestParseFields_BadNumericCellsWarn(t *testing.T) {
	text := "field_id,field_type,label,item_id,min_value\nq1,number,Question one,abc,low"
	fields, warnings, err := ParseFields(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if fields[0].ItemID != nil || fields[0].MinValue != nil {
		t.Fatalf("non-numeric cells should yield nil values: %+v", fields[0])
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", warnings)
	}
}

func TestParseFields_ExampleCSV(t *testing.T) {
	fields, warnings, err := ParseFields(ExampleCSV)
	if err != nil {
		t.Fatalf("parse example: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("example should parse clean, got %v", warnings)
	}
	if len(fields) != 5 {
		t.Fatalf("len(fields) = %d, want 5", len(fields))
	}
	report := Validate(New("example", "Example", fields))
	if !report.Valid {
		t.Fatalf("example template invalid: %v", report.Errors)
	}
}
