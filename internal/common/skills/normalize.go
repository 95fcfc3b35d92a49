// Package skills turns the heterogeneous skills values found in upstream
// job records into canonical lists of lowercase, trimmed names.
package skills

import (
	"errors"
	"strings"

	"github.com/project-tktt/job-explorer/internal/domain"
)

// Normalize returns the canonical skill list for s. It never fails: text that
// cannot be parsed yields an empty list. The result is never nil.
func Normalize(s domain.Skills) []string {
	out, err := NormalizeChecked(s)
	if errors.Is(err, ErrParse) {
		return []string{}
	}
	return out
}

// NormalizeChecked is Normalize but also returns the ParseError that was
// recovered from, so callers can count malformed values.
func NormalizeChecked(s domain.Skills) ([]string, error) {
	switch s.Kind {
	case domain.SkillsSequence:
		out := make([]string, 0, len(s.Items))
		for _, item := range s.Items {
			if str, ok := item.(string); ok {
				out = append(out, canonical(str))
			}
		}
		return out, nil

	case domain.SkillsEncoded:
		items, err := ParseList(s.Text)
		if err != nil {
			return []string{}, err
		}
		for i, item := range items {
			items[i] = canonical(item)
		}
		return items, nil

	default:
		return []string{}, nil
	}
}

func canonical(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
