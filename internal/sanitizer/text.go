// Package sanitizer strips markup from user-supplied free text.
package sanitizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer reduces input to plain text. Plan titles, descriptions and
// profile notes are rendered by clients and echoed back to the model, so
// no tags survive.
//
// Thread-safe for concurrent use.
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// New creates a sanitizer that strips all HTML
func New() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// Plain removes every tag and trims surrounding whitespace. Entities
// escaped by the policy are decoded again so "a & b" round-trips.
func (s *TextSanitizer) Plain(text string) string {
	if !strings.ContainsAny(text, "<>&") {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(text)))
}

// PlainPtr applies Plain to a non-nil pointer in place
func (s *TextSanitizer) PlainPtr(text *string) {
	if text != nil {
		*text = s.Plain(*text)
	}
}
