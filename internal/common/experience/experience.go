package experience

import (
	"strings"

	"github.com/project-tktt/job-explorer/internal/domain"
)

// Keyword lists are checked in order; entry-level wins over senior.
var (
	entryKeywords  = []string{"intern", "junior", "trainee", "entry"}
	seniorKeywords = []string{"senior", "lead", "manager"}
)

// Classify maps a job title to an experience level by substring match
func Classify(title string) domain.ExperienceLevel {
	t := strings.ToLower(title)

	if containsAny(t, entryKeywords) {
		return domain.LevelEntry
	}
	if containsAny(t, seniorKeywords) {
		return domain.LevelSenior
	}
	return domain.LevelMid
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
