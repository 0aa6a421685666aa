package render

import (
	"fmt"
	"strconv"

	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
)

// ValidationError is one finding against a single field at submit time.
// Row is the 1-based position of the field in template order.
type ValidationError struct {
	Row     int    `json:"row"`
	FieldID string `json:"fieldId"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

// ValidationReport collects field validation findings. It never blocks
// editing; callers use it to gate their own submit action.
type ValidationReport struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// RequiredMessage is the message attached to required-but-empty findings.
const RequiredMessage = "This field is required"

// Evaluate runs the field validation rules both backends share: hidden
// fields are skipped entirely, required fields must carry a non-empty value,
// and numeric values must sit inside the field's min/max bounds. A value
// that does not parse as a number is left to the widget layer and produces
// no range finding.
func Evaluate(s *session.Session) ValidationReport {
	tmpl := s.Template()
	if tmpl == nil {
		return ValidationReport{Valid: true}
	}

	hidden := s.Hidden()
	var errs []ValidationError
	for i, f := range tmpl.Fields {
		if hidden.Has(f.ID) {
			continue
		}
		value := s.Value(f.ID)

		if f.Required && value == "" {
			errs = append(errs, ValidationError{
				Row: i + 1, FieldID: f.ID, Label: f.Label, Message: RequiredMessage,
			})
		}

		if f.Type == schema.FieldTypeNumber && value != "" {
			if num, err := strconv.ParseFloat(value, 64); err == nil {
				if f.MinValue != nil && num < *f.MinValue {
					errs = append(errs, ValidationError{
						Row: i + 1, FieldID: f.ID, Label: f.Label,
						Message: fmt.Sprintf("Value must be at least %v", *f.MinValue),
					})
				}
				if f.MaxValue != nil && num > *f.MaxValue {
					errs = append(errs, ValidationError{
						Row: i + 1, FieldID: f.ID, Label: f.Label,
						Message: fmt.Sprintf("Value must be at most %v", *f.MaxValue),
					})
				}
			}
		}
	}

	return ValidationReport{Valid: len(errs) == 0, Errors: errs}
}
