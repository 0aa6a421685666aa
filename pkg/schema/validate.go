package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Report is the outcome of structural template validation. Validation never
// fails with an error; every check runs and every finding is collected in
// order. Callers decide whether a defective template may still be activated.
type Report struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validate checks a built template for structural defects: missing metadata,
// duplicate identifiers, dangling skip targets, inverted numeric bounds, and
// per-field shape problems.
func Validate(t *Template) Report {
	var errs []string

	if t.JobID == "" {
		errs = append(errs, "missing jobId")
	}
	if t.Title == "" {
		errs = append(errs, "missing title")
	}
	if len(t.Fields) == 0 {
		errs = append(errs, "no fields defined")
	}

	if dupes := duplicateIDs(t.Fields); len(dupes) > 0 {
		errs = append(errs, "duplicate field ids: "+strings.Join(dupes, ", "))
	}
	if dupes := duplicateItemIDs(t.Fields); len(dupes) > 0 {
		errs = append(errs, "duplicate item_id values: "+strings.Join(dupes, ", "))
	}

	known := make(map[string]struct{}, len(t.Fields))
	for _, f := range t.Fields {
		known[f.ID] = struct{}{}
	}

	for i, f := range t.Fields {
		if f.ID == "" {
			errs = append(errs, fmt.Sprintf("field %d: missing id", i+1))
		}
		if f.Label == "" {
			errs = append(errs, fmt.Sprintf("field %d: missing label", i+1))
		}
		if f.NeedsOptions() && len(f.Options) == 0 {
			errs = append(errs, fmt.Sprintf("field %s: %s requires options", f.ID, f.Type))
		}
		if f.SkipIf != "" && f.SkipToFieldID == "" {
			errs = append(errs, fmt.Sprintf("field %s: skip_if requires skip_to_field_id", f.ID))
		}
		if f.SkipToFieldID != "" && f.SkipIf == "" {
			errs = append(errs, fmt.Sprintf("field %s: skip_to_field_id requires skip_if", f.ID))
		}
		if f.SkipToFieldID != "" {
			if _, ok := known[f.SkipToFieldID]; !ok {
				errs = append(errs, fmt.Sprintf("field %s: skip_to_field_id %q does not exist", f.ID, f.SkipToFieldID))
			}
		}
		if f.MinValue != nil && f.MaxValue != nil && *f.MinValue > *f.MaxValue {
			errs = append(errs, fmt.Sprintf("field %s: min_value (%v) greater than max_value (%v)", f.ID, *f.MinValue, *f.MaxValue))
		}
	}

	return Report{Valid: len(errs) == 0, Errors: errs}
}

// duplicateIDs returns each duplicated field id exactly once, in the order
// the duplication is first observed.
func duplicateIDs(fields []Field) []string {
	seen := make(map[string]int)
	var dupes []string
	for _, f := range fields {
		seen[f.ID]++
		if seen[f.ID] == 2 {
			dupes = append(dupes, f.ID)
		}
	}
	return dupes
}

func duplicateItemIDs(fields []Field) []string {
	seen := make(map[int]int)
	var dupes []string
	for _, f := range fields {
		if f.ItemID == nil {
			continue
		}
		seen[*f.ItemID]++
		if seen[*f.ItemID] == 2 {
			dupes = append(dupes, strconv.Itoa(*f.ItemID))
		}
	}
	return dupes
}
