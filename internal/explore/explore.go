// Package explore filters the cleaned dataset and computes the statistics
// shown to users.
package explore

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/project-tktt/job-explorer/internal/common/skills"
	"github.com/project-tktt/job-explorer/internal/domain"
)

// AllLocations disables the location filter
const AllLocations = "All"

// Filter selects rows of the dataset. Zero values match everything.
type Filter struct {
	Levels   []domain.ExperienceLevel
	Location string
	Query    string
}

// Match reports whether job passes every set criterion
func (f Filter) Match(job domain.CleanedJob) bool {
	if len(f.Levels) > 0 && !containsLevel(f.Levels, job.ExperienceLevel) {
		return false
	}

	if f.Location != "" && f.Location != AllLocations {
		if job.Location == nil || *job.Location != f.Location {
			return false
		}
	}

	if f.Query != "" {
		q := strings.ToLower(f.Query)
		title := strings.ToLower(job.JobTitle)
		tags := strings.ToLower(skills.Encode(job.Skills))
		if !strings.Contains(title, q) && !strings.Contains(tags, q) {
			return false
		}
	}

	return true
}

// Apply returns the jobs matching f, in dataset order
func (f Filter) Apply(jobs []domain.CleanedJob) []domain.CleanedJob {
	out := make([]domain.CleanedJob, 0, len(jobs))
	for _, j := range jobs {
		if f.Match(j) {
			out = append(out, j)
		}
	}
	return out
}

func containsLevel(levels []domain.ExperienceLevel, l domain.ExperienceLevel) bool {
	for _, v := range levels {
		if v == l {
			return true
		}
	}
	return false
}

// SkillCount is the number of rows mentioning a skill
type SkillCount struct {
	Skill string
	Count int
}

// TopSkills counts whitelisted technologies across jobs and returns the n
// most frequent. Ties keep the order in which skills were first seen. A
// non-positive n returns every counted skill.
func TopSkills(jobs []domain.CleanedJob, n int) []SkillCount {
	counts := make(map[string]int)
	var order []string

	for _, j := range jobs {
		for _, s := range j.Skills {
			if !skills.IsTech(s) {
				continue
			}
			if _, ok := counts[s]; !ok {
				order = append(order, s)
			}
			counts[s]++
		}
	}

	out := make([]SkillCount, len(order))
	for i, s := range order {
		out[i] = SkillCount{Skill: s, Count: counts[s]}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Count > out[b].Count
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// freshnessLayouts are the fetched_at formats the pipeline writes
var freshnessLayouts = []string{
	domain.FetchedAtLayout,
	"02-01-2006 15:04",
	time.RFC3339,
}

// Freshness returns whole hours elapsed between the newest fetched_at and
// now. Timestamps without a zone are read as UTC. ok is false when no row
// has a parsable timestamp.
func Freshness(jobs []domain.CleanedJob, now time.Time) (hours int, ok bool) {
	var latest time.Time
	for _, j := range jobs {
		t, parsed := parseFetchedAt(j.FetchedAt)
		if !parsed {
			continue
		}
		if !ok || t.After(latest) {
			latest = t
			ok = true
		}
	}
	if !ok {
		return 0, false
	}
	return int(math.Floor(now.Sub(latest).Hours())), true
}

func parseFetchedAt(s string) (time.Time, bool) {
	for _, layout := range freshnessLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Summary counts rows per experience level and per source
type Summary struct {
	Total    int
	ByLevel  map[domain.ExperienceLevel]int
	BySource map[domain.JobSource]int
}

// Summarize builds a Summary over jobs
func Summarize(jobs []domain.CleanedJob) Summary {
	s := Summary{
		Total:    len(jobs),
		ByLevel:  make(map[domain.ExperienceLevel]int),
		BySource: make(map[domain.JobSource]int),
	}
	for _, j := range jobs {
		s.ByLevel[j.ExperienceLevel]++
		s.BySource[j.Source]++
	}
	return s
}

// Locations returns the distinct non-empty locations, sorted
func Locations(jobs []domain.CleanedJob) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, j := range jobs {
		if j.Location == nil || *j.Location == "" {
			continue
		}
		if _, ok := seen[*j.Location]; ok {
			continue
		}
		seen[*j.Location] = struct{}{}
		out = append(out, *j.Location)
	}
	sort.Strings(out)
	return out
}
