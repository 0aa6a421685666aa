// Package session owns the live state of one form-filling session: the
// active template, the response data being edited, and the derived hidden
// set and group completion counts. Multiple independent sessions are simply
// multiple Session values; nothing here is process-global.
package session

import (
	"strings"

	"github.com/formweave/formweave/pkg/grouping"
	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/visibility"
)

// NoteSuffix is appended to a field id to form the response-data key of its
// free-text annotation.
const NoteSuffix = "_note"

// NoteKey returns the response-data key holding the note for a field.
func NoteKey(fieldID string) string {
	return fieldID + NoteSuffix
}

// IsNoteKey reports whether a response-data key addresses a note rather
// than an answer.
func IsNoteKey(key string) bool {
	return strings.HasSuffix(key, NoteSuffix)
}

// ResponseData maps field ids to answer values, plus "<fieldId>_note" keys
// to per-field annotations. Values are the raw strings the widgets carry.
type ResponseData map[string]string

// Clone returns an independent copy.
func (d ResponseData) Clone() ResponseData {
	out := make(ResponseData, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Config carries the caller-facing session options recognised by every
// backend.
type Config struct {
	// ReadOnly renders disabled widgets and makes edits no-ops.
	ReadOnly bool
	// OnDataChange, when set, receives a full response-data snapshot after
	// every committed mutation. Snapshots, not diffs.
	OnDataChange func(ResponseData)
}

// Session is the mutable form state model. All mutation is synchronous: an
// edit commits, the hidden set and group completions recompute, and only
// then does the change callback fire.
type Session struct {
	template   *schema.Template
	values     ResponseData
	hidden     visibility.Set
	completion map[string]grouping.Completion
	cfg        Config
}

// New seeds a session from initial response data, falling back to each
// field's default value for fields the initial data does not mention at all.
// An explicit empty string in the initial data is respected as "cleared".
func New(tmpl *schema.Template, initial ResponseData, cfg Config) *Session {
	values := make(ResponseData, len(initial)+len(tmpl.Fields))
	for k, v := range initial {
		values[k] = v
	}
	for _, f := range tmpl.Fields {
		if _, ok := values[f.ID]; !ok {
			values[f.ID] = f.DefaultValue
		}
	}

	s := &Session{
		template: tmpl,
		values:   values,
		cfg:      cfg,
	}
	s.recompute()
	return s
}

// Template returns the active template, or nil after Reset.
func (s *Session) Template() *schema.Template {
	return s.template
}

// ReadOnly reports whether the session rejects edits.
func (s *Session) ReadOnly() bool {
	return s.cfg.ReadOnly
}

// Value returns the current answer for a field id.
func (s *Session) Value(fieldID string) string {
	return s.values[fieldID]
}

// Note returns the current annotation for a field id.
func (s *Session) Note(fieldID string) string {
	return s.values[NoteKey(fieldID)]
}

// SetValue commits an answer edit and runs the derived-state pipeline.
// Read-only sessions and destroyed sessions ignore edits.
func (s *Session) SetValue(fieldID, value string) {
	s.set(fieldID, value)
}

// SetNote commits a note edit and runs the derived-state pipeline.
func (s *Session) SetNote(fieldID, note string) {
	s.set(NoteKey(fieldID), note)
}

func (s *Session) set(key, value string) {
	if s.template == nil || s.cfg.ReadOnly {
		return
	}
	s.values[key] = value
	s.recompute()
	if s.cfg.OnDataChange != nil {
		s.cfg.OnDataChange(s.Snapshot())
	}
}

// Hidden returns the current hidden set. The set is derived state; callers
// must not mutate it.
func (s *Session) Hidden() visibility.Set {
	return s.hidden
}

// Completion returns the filled/total progress for one group label.
func (s *Session) Completion(group string) grouping.Completion {
	return s.completion[group]
}

// Snapshot returns a copy of the current response data.
func (s *Session) Snapshot() ResponseData {
	return s.values.Clone()
}

// Reset clears all state including the template reference. The session is
// unusable afterwards; a fresh one is required for a new form.
func (s *Session) Reset() {
	s.template = nil
	s.values = nil
	s.hidden = nil
	s.completion = nil
	s.cfg = Config{}
}

// recompute refreshes the hidden set first, then group completions, in that
// order; completions depend on the hidden set.
func (s *Session) recompute() {
	if s.template == nil {
		return
	}
	s.hidden = visibility.Hidden(s.template.Fields, s.values)
	s.completion = make(map[string]grouping.Completion, len(s.template.Groups))
	for _, group := range s.template.Groups {
		members := grouping.Members(s.template.Fields, group)
		s.completion[group] = grouping.Completed(members, s.values, s.hidden)
	}
}
