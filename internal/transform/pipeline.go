// Package transform derives the cleaned dataset from the full raw store.
package transform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/project-tktt/job-explorer/internal/common/experience"
	"github.com/project-tktt/job-explorer/internal/common/identity"
	"github.com/project-tktt/job-explorer/internal/common/skills"
	"github.com/project-tktt/job-explorer/internal/domain"
)

const (
	// UnknownCompany replaces a missing company name
	UnknownCompany = "Unknown"
	// RemoteLocation replaces a missing or "any" location on RemoteOK
	RemoteLocation = "Remote"
)

// listingTitles are career-page headings that upstreams return as jobs
var listingTitles = map[string]struct{}{
	"current openings": {},
	"careers":          {},
	"jobs":             {},
	"open positions":   {},
	"residency":        {},
}

// Stats counts what happened to the raw records in one run
type Stats struct {
	Raw              int
	MissingTitle     int
	Duplicates       int
	SkillParseErrors int
	ListingPages     int
	NoSkills         int
	Kept             int
}

// AfterDedup is the number of records left once duplicates are removed
func (s Stats) AfterDedup() int {
	return s.Raw - s.MissingTitle - s.Duplicates
}

// Clean applies the cleaning steps in order. The output keeps raw-store
// order, and of several records sharing a job id only the first survives.
func Clean(raw []domain.RawJob) ([]domain.CleanedJob, Stats) {
	stats := Stats{Raw: len(raw)}
	seen := make(map[string]struct{}, len(raw))
	out := make([]domain.CleanedJob, 0, len(raw))

	for _, r := range raw {
		if r.JobTitle == nil {
			stats.MissingTitle++
			continue
		}

		company := UnknownCompany
		if r.Company != nil {
			company = *r.Company
		}

		location := r.Location
		if r.Source == domain.SourceRemoteOK && (location == nil || *location == "any") {
			location = domain.StringPtr(RemoteLocation)
		}

		id := identity.JobID(*r.JobTitle, company, identity.Field(location), string(r.Source))
		if _, dup := seen[id]; dup {
			stats.Duplicates++
			continue
		}
		seen[id] = struct{}{}

		normalized, err := skills.NormalizeChecked(r.Skills)
		if errors.Is(err, skills.ErrParse) {
			stats.SkillParseErrors++
			normalized = []string{}
		}

		job := domain.CleanedJob{
			JobTitle:        *r.JobTitle,
			Company:         company,
			Skills:          normalized,
			Location:        location,
			URL:             r.URL,
			FetchedAt:       r.FetchedAt,
			Source:          r.Source,
			JobID:           id,
			ExperienceLevel: experience.Classify(*r.JobTitle),
			NumSkills:       len(normalized),
		}

		if _, listing := listingTitles[strings.ToLower(job.JobTitle)]; listing {
			stats.ListingPages++
			continue
		}
		if job.NumSkills == 0 {
			stats.NoSkills++
			continue
		}

		out = append(out, job)
	}

	stats.Kept = len(out)
	return out, stats
}

// RawLoader reads the whole raw store
type RawLoader interface {
	Load(ctx context.Context) ([]domain.RawJob, error)
}

// DatasetWriter replaces the cleaned dataset
type DatasetWriter interface {
	Write(ctx context.Context, jobs []domain.CleanedJob) error
}

// Pipeline recomputes the cleaned dataset from scratch
type Pipeline struct {
	raw     RawLoader
	dataset DatasetWriter
	logger  *slog.Logger
}

// NewPipeline creates a transform pipeline
func NewPipeline(raw RawLoader, dataset DatasetWriter, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{raw: raw, dataset: dataset, logger: logger}
}

// Run loads the raw store, cleans it and replaces the dataset
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	raw, err := p.raw.Load(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load raw store: %w", err)
	}

	jobs, stats := Clean(raw)
	if stats.SkillParseErrors > 0 {
		p.logger.Debug("unparseable skills replaced with empty list", "count", stats.SkillParseErrors)
	}

	if err := p.dataset.Write(ctx, jobs); err != nil {
		return Stats{}, fmt.Errorf("write dataset: %w", err)
	}

	p.logger.Info("transform finished",
		"raw", stats.Raw,
		"after_dedup", stats.AfterDedup(),
		"saved", stats.Kept,
		"missing_title", stats.MissingTitle,
		"duplicates", stats.Duplicates,
		"listing_pages", stats.ListingPages,
		"no_skills", stats.NoSkills,
	)
	return stats, nil
}
