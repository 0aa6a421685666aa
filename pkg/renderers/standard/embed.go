package standard

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

// TemplatesFS exposes the embedded chrome templates so callers can layer
// overrides on top of the defaults.
func TemplatesFS() fs.FS {
	return templatesFS
}
