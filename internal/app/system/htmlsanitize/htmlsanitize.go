// Package htmlsanitize strips dangerous markup from admin-authored
// content before it is persisted.
package htmlsanitize

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with scripts, event handlers, and javascript:
// URLs removed. Safe formatting tags survive.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}

// SanitizeHTML sanitizes and marks the result safe for template
// interpolation.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(policy.Sanitize(s))
}
