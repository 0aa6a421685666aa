package render

import theme "github.com/goliatone/go-theme"

// Options carry per-render presentation inputs. They never affect extracted
// data or validation; two backends given the same session state must agree
// on both regardless of what is passed here.
type Options struct {
	// Theme maps design tokens onto CSS custom properties in the form
	// chrome.
	Theme *theme.RendererConfig
	// Stylesheets lists extra stylesheet URLs to link from the chrome.
	Stylesheets []string
}
