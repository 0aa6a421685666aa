package render

import (
	"sort"
	"strings"
)

// ThemeStyle flattens the theme's CSS variables into an inline style string
// for the form chrome, keys sorted for stable output. Returns "" when no
// theme is configured.
func ThemeStyle(opts Options) string {
	if opts.Theme == nil || len(opts.Theme.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(opts.Theme.CSSVars))
	for k := range opts.Theme.CSSVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(opts.Theme.CSSVars[k])
		sb.WriteString("; ")
	}
	return strings.TrimSpace(sb.String())
}
