package export

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
)

// ResponseSchema derives an OpenAPI object schema for the response payload a
// template produces: one string-typed property per field plus its notes key,
// numeric fields carrying their bounds, choice fields carrying their options
// as an enum. Required lists the ids of required fields; skip logic is a
// runtime concern the schema cannot express.
func ResponseSchema(tmpl *schema.Template) (*openapi3.Schema, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("export: template is required")
	}

	out := openapi3.NewObjectSchema()
	out.Title = tmpl.Title
	out.Description = fmt.Sprintf("Response payload for job %s (template version %d)", tmpl.JobID, tmpl.Version)

	for _, f := range tmpl.Fields {
		prop := fieldSchema(f)
		out.Properties[f.ID] = openapi3.NewSchemaRef("", prop)

		note := openapi3.NewStringSchema()
		note.Description = "Free-text note attached to " + f.Label
		out.Properties[session.NoteKey(f.ID)] = openapi3.NewSchemaRef("", note)

		if f.Required {
			out.Required = append(out.Required, f.ID)
		}
	}

	return out, nil
}

func fieldSchema(f schema.Field) *openapi3.Schema {
	var prop *openapi3.Schema
	switch f.Type {
	case schema.FieldTypeNumber:
		prop = openapi3.NewFloat64Schema()
		prop.Min = f.MinValue
		prop.Max = f.MaxValue
	case schema.FieldTypeDate:
		prop = openapi3.NewStringSchema()
		prop.Format = "date"
	case schema.FieldTypeDropdown, schema.FieldTypeRadio:
		prop = openapi3.NewStringSchema()
		for _, opt := range f.Options {
			prop.Enum = append(prop.Enum, opt)
		}
	default:
		prop = openapi3.NewStringSchema()
	}
	prop.Description = f.Help
	if f.DefaultValue != "" {
		prop.Default = f.DefaultValue
	}
	return prop
}
