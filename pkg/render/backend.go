// Package render defines the contract shared by the interchangeable form
// backends. A backend owns a widget tree for one session; callers drive it
// through edits and pull extracted data, validation reports, and rendered
// markup back out. Both built-in backends must be behaviourally identical
// through this interface even though their visual structures are unrelated.
package render

import (
	"context"
	"errors"

	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
)

// ErrNotInitialized is returned by backend operations invoked before
// Initialize or after Destroy.
var ErrNotInitialized = errors.New("render: backend not initialized")

// Backend is the operation set every form backend implements.
type Backend interface {
	// Name identifies the backend ("standard", "grid").
	Name() string

	// ContentType describes the Render output.
	ContentType() string

	// Initialize builds the widget tree for a template under the given
	// container id and seeds values from the initial data, falling back to
	// field defaults. Calling Initialize on a live backend replaces the
	// previous session entirely.
	Initialize(containerID string, tmpl *schema.Template, initial session.ResponseData, cfg session.Config) error

	// SetValue applies a user edit to a field's answer. Whether the edit is
	// committed immediately or buffered until Flush is backend-specific;
	// ExtractData and Validate always observe it either way.
	SetValue(fieldID, value string) error

	// SetNote applies a user edit to a field's annotation.
	SetNote(fieldID, note string) error

	// Flush commits any buffered edits to the session. Backends that commit
	// on every edit expose this as a no-op for interface symmetry.
	Flush()

	// ExtractData returns the full response data including every pending
	// edit at the moment of the call.
	ExtractData() session.ResponseData

	// Validate force-flushes pending edits and checks required fields and
	// numeric bounds, skipping hidden fields entirely.
	Validate() ValidationReport

	// Render produces the current visual tree as markup.
	Render(ctx context.Context, opts Options) ([]byte, error)

	// Destroy releases the widget tree and returns the backend to its
	// pre-Initialize state. Safe to call repeatedly.
	Destroy()
}
