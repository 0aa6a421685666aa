package grid

import (
	"github.com/formweave/formweave/pkg/grouping"
	"github.com/formweave/formweave/pkg/schema"
)

// Row is one line of the grid model: either a synthetic group header or a
// question row wrapping a template field.
type Row struct {
	// ID is the field id for question rows, "<group>_header" for headers.
	ID     string
	Group  string
	Header bool
	Field  schema.Field
}

// Rows builds the grid row model: each group contributes a header row
// followed by its member rows, in template order, with ungrouped fields
// trailing at the bottom.
func Rows(tmpl *schema.Template) []Row {
	var rows []Row
	for _, group := range grouping.Groups(tmpl.Fields) {
		rows = append(rows, Row{ID: group + HeaderRowSuffix, Group: group, Header: true})
		for _, f := range grouping.Members(tmpl.Fields, group) {
			rows = append(rows, Row{ID: f.ID, Group: group, Field: f})
		}
	}
	for _, f := range grouping.Ungrouped(tmpl.Fields) {
		rows = append(rows, Row{ID: f.ID, Field: f})
	}
	return rows
}
