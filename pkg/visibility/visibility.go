// Package visibility computes which fields a conditional skip rule currently
// hides. The computation is a pure function of the ordered field sequence and
// the current response values; it is re-run in full after every mutation
// rather than updated incrementally.
package visibility

import "github.com/formweave/formweave/pkg/schema"

// Set holds the ids of currently hidden fields.
type Set map[string]struct{}

// Has reports whether the field id is hidden.
func (s Set) Has(fieldID string) bool {
	_, ok := s[fieldID]
	return ok
}

// Hidden evaluates every skip rule against the current values and returns
// the union of all triggered ranges.
//
// For a field whose value equals its SkipIf trigger, every field strictly
// between it and its SkipToFieldID target is hidden; both endpoints stay
// visible. A rule whose target sits at or before the source position is a
// silent no-op. Overlapping ranges union together.
func Hidden(fields []schema.Field, values map[string]string) Set {
	hidden := make(Set)

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.ID] = i
	}

	for i, f := range fields {
		if !f.HasSkipRule() {
			continue
		}
		if values[f.ID] != f.SkipIf {
			continue
		}
		target, ok := index[f.SkipToFieldID]
		if !ok || target <= i {
			continue
		}
		for j := i + 1; j < target; j++ {
			hidden[fields[j].ID] = struct{}{}
		}
	}

	return hidden
}
