// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-supplied content
// before it is stored: review comments, contact/help message bodies, and
// the admin-editable footer HTML.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc allows basic formatting (the bluemonday UGC policy): suitable
	// for the admin footer HTML.
	ugc = bluemonday.UGCPolicy()

	// strict strips all markup; user-typed text fields are stored as
	// plain text.
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps safe user-generated markup and removes scripts, event
// handlers and javascript: URLs.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// SanitizeText strips all markup, returning plain text. Used for review
// comments and message bodies where HTML has no business being.
func SanitizeText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
