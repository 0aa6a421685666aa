package schema

import "time"

// FieldType enumerates the input kinds a questionnaire field can take.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
)

// ValidFieldType reports whether t is one of the recognised field types.
func ValidFieldType(t FieldType) bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeDropdown, FieldTypeRadio, FieldTypeNumber, FieldTypeDate:
		return true
	}
	return false
}

// HelpDisplay selects how per-field help text is surfaced by a backend.
type HelpDisplay string

const (
	HelpDisplayTooltip HelpDisplay = "tooltip"
	HelpDisplayInline  HelpDisplay = "inline"
	HelpDisplayColumn  HelpDisplay = "column"
)

// Status tracks the template lifecycle. A new version supersedes an active
// template; archived templates stay queryable but are no longer offered.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Field is a single question definition inside a Template.
//
// SkipIf/SkipToFieldID express conditional skip logic: when the field's
// current value equals SkipIf, every field strictly between this one and the
// field identified by SkipToFieldID is hidden.
type Field struct {
	ID           string    `json:"id"`
	Type         FieldType `json:"type"`
	Label        string    `json:"label"`
	Help         string    `json:"help,omitempty"`
	Required     bool      `json:"required"`
	Options      []string  `json:"options,omitempty"`
	DefaultValue string    `json:"defaultValue,omitempty"`
	SkipIf       string    `json:"skipIf,omitempty"`
	SkipToFieldID string   `json:"skipToFieldId,omitempty"`
	Group        string    `json:"group,omitempty"`
	ItemID       *int      `json:"itemId,omitempty"`
	MinValue     *float64  `json:"minValue,omitempty"`
	MaxValue     *float64  `json:"maxValue,omitempty"`
}

// HasSkipRule reports whether the field carries a complete skip rule.
func (f Field) HasSkipRule() bool {
	return f.SkipIf != "" && f.SkipToFieldID != ""
}

// NeedsOptions reports whether the field type requires a non-empty option
// list.
func (f Field) NeedsOptions() bool {
	return f.Type == FieldTypeDropdown || f.Type == FieldTypeRadio
}

// Template is an ordered, validated questionnaire definition. It is built
// once from CSV source text and treated as immutable for the lifetime of a
// rendering session.
type Template struct {
	JobID       string      `json:"jobId"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Version     int         `json:"version"`
	HelpDisplay HelpDisplay `json:"helpDisplay"`
	Fields      []Field     `json:"fields"`
	Groups      []string    `json:"groups,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	Status      Status      `json:"status"`
}

// Field returns the field with the given id, if present.
func (t *Template) Field(id string) (Field, bool) {
	for _, f := range t.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// FieldIndex returns the positional index of the field with the given id, or
// -1 when absent. Skip logic is index-range based, so position lookups stay
// on the ordered slice.
func (t *Template) FieldIndex(id string) int {
	for i, f := range t.Fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}
