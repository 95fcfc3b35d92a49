package cleaner

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Cleaner turns upstream text fields that may carry markup or entities into
// plain text
type Cleaner struct {
	policy *bluemonday.Policy
}

// NewCleaner creates a cleaner that strips all HTML
func NewCleaner() *Cleaner {
	return &Cleaner{policy: bluemonday.StrictPolicy()}
}

// CleanToText removes tags, decodes entities and trims whitespace
func (c *Cleaner) CleanToText(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return strings.TrimSpace(s)
	}
	text := c.policy.Sanitize(s)
	text = html.UnescapeString(text)
	return strings.TrimSpace(text)
}

// CleanPtr applies CleanToText to an optional field, keeping nil as nil
func (c *Cleaner) CleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := c.CleanToText(*s)
	return &out
}
