package formweave_test

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	formweave "github.com/formweave/formweave"
	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/testsupport"
)

func TestGenerateHTML(t *testing.T) {
	out, err := formweave.GenerateHTML(testsupport.Context(),
		schema.ExampleCSV, "job-1", "Country Survey", "")
	if err != nil {
		t.Fatalf("generate html: %v", err)
	}
	if !strings.Contains(string(out), "Country Survey") {
		t.Errorf("title missing from output")
	}

	out, err = formweave.GenerateHTML(testsupport.Context(),
		schema.ExampleCSV, "job-1", "Country Survey", "grid",
		formweave.WithDefaultBackend("standard"))
	if err != nil {
		t.Fatalf("generate html: %v", err)
	}
	if !strings.Contains(string(out), "formweave-grid") {
		t.Errorf("explicit backend should win over the default")
	}
}

func TestGenerateHTMLFromTemplate(t *testing.T) {
	tmpl := testsupport.MustExampleTemplate(t)
	out, err := formweave.GenerateHTMLFromTemplate(testsupport.Context(), tmpl, "grid")
	if err != nil {
		t.Fatalf("generate from template: %v", err)
	}
	if !strings.Contains(string(out), "grid-table") {
		t.Errorf("grid markup missing")
	}
}

func TestParseTemplate(t *testing.T) {
	tmpl, warnings, err := formweave.ParseTemplate(schema.ExampleCSV, "job-1", "Country Survey")
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(tmpl.Fields) != 5 {
		t.Fatalf("fields = %d", len(tmpl.Fields))
	}

	// Validation findings surface through the error path.
	_, _, err = formweave.ParseTemplate("field_id,field_type,label\n,text,No id", "job-1", "Bad")
	var parseErr *schema.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
}

func TestEmbeddedTemplateBundles(t *testing.T) {
	for name, fsys := range map[string]fs.FS{
		"standard": formweave.StandardTemplates(),
		"grid":     formweave.GridTemplates(),
	} {
		f, err := fsys.Open("templates/form.tpl")
		if err != nil {
			t.Errorf("%s templates: %v", name, err)
			continue
		}
		f.Close()
	}
}
