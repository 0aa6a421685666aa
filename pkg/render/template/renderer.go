// Package template defines the renderer-agnostic template seam the form
// backends use for their outer chrome, plus a pongo2-backed adapter in the
// gotemplate sub-package. Widget controls are built in code; only the
// surrounding page structure goes through templates so deployments can
// reskin without forking the backends.
package template

import "io"

// TemplateRenderer mirrors the github.com/goliatone/go-template engine
// contract so either the built-in adapter or a caller-supplied engine can
// slot in.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
