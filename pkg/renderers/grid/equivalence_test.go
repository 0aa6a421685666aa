package grid_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/formweave/formweave/pkg/render"
	"github.com/formweave/formweave/pkg/renderers/grid"
	"github.com/formweave/formweave/pkg/renderers/standard"
	"github.com/formweave/formweave/pkg/session"
	"github.com/formweave/formweave/pkg/testsupport"
)

// The two backends differ in layout and commit timing but must be
// interchangeable: the same edit script yields identical extracted data and
// identical validation findings.
func TestBackends_AreInterchangeable(t *testing.T) {
	tmpl := testsupport.MustExampleTemplate(t)

	type edit struct {
		note    bool
		fieldID string
		value   string
	}
	scripts := map[string][]edit{
		"plain fill": {
			{fieldID: "country_name", value: "Iceland"},
			{fieldID: "has_referendum", value: "Yes"},
			{fieldID: "ref_type", value: "Mandatory"},
			{fieldID: "threshold", value: "10"},
		},
		"skip triggered": {
			{fieldID: "country_name", value: "Monaco"},
			{fieldID: "has_referendum", value: "No"},
			{note: true, fieldID: "has_referendum", value: "confirmed by desk research"},
		},
		"overwrite and clear": {
			{fieldID: "country_name", value: "Typo"},
			{fieldID: "country_name", value: ""},
			{fieldID: "threshold", value: "150"},
		},
	}

	for name, script := range scripts {
		t.Run(name, func(t *testing.T) {
			std, err := standard.New()
			if err != nil {
				t.Fatalf("new standard: %v", err)
			}
			sheet, err := grid.New()
			if err != nil {
				t.Fatalf("new grid: %v", err)
			}

			backends := []render.Backend{std, sheet}
			for _, b := range backends {
				if err := b.Initialize("root", tmpl, nil, session.Config{}); err != nil {
					t.Fatalf("%s initialize: %v", b.Name(), err)
				}
				for _, e := range script {
					var err error
					if e.note {
						err = b.SetNote(e.fieldID, e.value)
					} else {
						err = b.SetValue(e.fieldID, e.value)
					}
					if err != nil {
						t.Fatalf("%s edit %q: %v", b.Name(), e.fieldID, err)
					}
				}
			}

			if diff := cmp.Diff(std.ExtractData(), sheet.ExtractData()); diff != "" {
				t.Errorf("extracted data diverges (-standard +grid):\n%s", diff)
			}
			if diff := cmp.Diff(std.Validate(), sheet.Validate()); diff != "" {
				t.Errorf("validation diverges (-standard +grid):\n%s", diff)
			}
		})
	}
}
