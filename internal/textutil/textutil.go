// Package textutil provides text normalisation applied to extracted page
// content before chunking.
package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Clean collapses every whitespace run (spaces, tabs, newlines) into a single
// space and trims the result. Punctuation is preserved.
func Clean(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
