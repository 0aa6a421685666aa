package schema

import (
	"sort"
	"time"
)

// BuildOption customises template construction.
type BuildOption func(*Template)

// WithDescription sets the template description.
func WithDescription(description string) BuildOption {
	return func(t *Template) {
		t.Description = description
	}
}

// WithHelpDisplay overrides the default tooltip help mode.
func WithHelpDisplay(mode HelpDisplay) BuildOption {
	return func(t *Template) {
		if mode != "" {
			t.HelpDisplay = mode
		}
	}
}

// WithVersion sets the template version. Versions supersede; they never
// mutate an existing template in place.
func WithVersion(version int) BuildOption {
	return func(t *Template) {
		if version > 0 {
			t.Version = version
		}
	}
}

// WithCreatedAt pins the creation timestamp, mostly useful in tests.
func WithCreatedAt(ts time.Time) BuildOption {
	return func(t *Template) {
		t.CreatedAt = ts
	}
}

// New assembles a Template from parsed fields. Fields are ordered by the
// stable partial sort described on SortFields and distinct group labels are
// collected in order of first appearance.
func New(jobID, title string, fields []Field, options ...BuildOption) *Template {
	tmpl := &Template{
		JobID:       jobID,
		Title:       title,
		Version:     1,
		HelpDisplay: HelpDisplayTooltip,
		Fields:      SortFields(fields),
		CreatedAt:   time.Now().UTC(),
		Status:      StatusActive,
	}

	seen := make(map[string]struct{})
	for _, f := range tmpl.Fields {
		if f.Group == "" {
			continue
		}
		if _, ok := seen[f.Group]; ok {
			continue
		}
		seen[f.Group] = struct{}{}
		tmpl.Groups = append(tmpl.Groups, f.Group)
	}

	for _, opt := range options {
		if opt != nil {
			opt(tmpl)
		}
	}
	return tmpl
}

// SortFields orders fields by ascending item id. Fields carrying an item id
// sort ahead of fields without one; fields lacking an item id keep their
// original relative order. The input slice is not modified.
func SortFields(fields []Field) []Field {
	sorted := make([]Field, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].ItemID, sorted[j].ItemID
		switch {
		case a != nil && b != nil:
			return *a < *b
		case a != nil:
			return true
		default:
			return false
		}
	})
	return sorted
}
