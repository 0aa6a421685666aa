// Package grouping partitions template fields by their optional group label
// and derives per-group completion counts for progress badges.
package grouping

import (
	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/visibility"
)

// Completion is the filled/total progress of one group, counting only
// visible fields. A group whose fields are all hidden is deliberately not
// complete: an empty section must not read as done.
type Completion struct {
	Filled   int  `json:"filled"`
	Total    int  `json:"total"`
	Complete bool `json:"complete"`
}

// Groups returns the distinct group labels in order of first appearance.
// Fields with no group label render ungrouped and are excluded here.
func Groups(fields []schema.Field) []string {
	seen := make(map[string]struct{})
	var groups []string
	for _, f := range fields {
		if f.Group == "" {
			continue
		}
		if _, ok := seen[f.Group]; ok {
			continue
		}
		seen[f.Group] = struct{}{}
		groups = append(groups, f.Group)
	}
	return groups
}

// Members returns the fields carrying the given group label, in order.
func Members(fields []schema.Field, group string) []schema.Field {
	var members []schema.Field
	for _, f := range fields {
		if f.Group == group {
			members = append(members, f)
		}
	}
	return members
}

// Ungrouped returns the fields with no group label, in order.
func Ungrouped(fields []schema.Field) []schema.Field {
	var rest []schema.Field
	for _, f := range fields {
		if f.Group == "" {
			rest = append(rest, f)
		}
	}
	return rest
}

// Completed counts the visible members of a group and how many of them carry
// a non-empty value.
func Completed(members []schema.Field, values map[string]string, hidden visibility.Set) Completion {
	var c Completion
	for _, f := range members {
		if hidden.Has(f.ID) {
			continue
		}
		c.Total++
		if values[f.ID] != "" {
			c.Filled++
		}
	}
	c.Complete = c.Total > 0 && c.Filled == c.Total
	return c
}
