// Package stamp rewrites the fetched_at column of the cleaned dataset.
package stamp

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	_ "time/tzdata"

	"github.com/project-tktt/job-explorer/internal/domain"
)

const (
	// Layout is day-month-year with minutes, e.g. 14-10-2026 09:05
	Layout = "02-01-2006 15:04"
	// DefaultTimezone is used when none is configured
	DefaultTimezone = "Asia/Kolkata"
)

// Apply sets the fetched_at of every job to now in loc
func Apply(jobs []domain.CleanedJob, now time.Time, loc *time.Location) []domain.CleanedJob {
	stamp := now.In(loc).Format(Layout)
	for i := range jobs {
		jobs[i].FetchedAt = stamp
	}
	return jobs
}

// Updater rewrites the dataset in place
type Updater interface {
	Update(ctx context.Context, fn func([]domain.CleanedJob) ([]domain.CleanedJob, error)) error
}

// Stamper re-stamps the cleaned dataset with the current time
type Stamper struct {
	dataset Updater
	loc     *time.Location
	now     func() time.Time
	logger  *slog.Logger
}

// NewStamper creates a stamper for the named IANA timezone
func NewStamper(dataset Updater, timezone string, logger *slog.Logger) (*Stamper, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Stamper{dataset: dataset, loc: loc, now: time.Now, logger: logger}, nil
}

// Run stamps every row and returns the number of rows and the stamp written
func (s *Stamper) Run(ctx context.Context) (int, string, error) {
	now := s.now()
	count := 0

	err := s.dataset.Update(ctx, func(jobs []domain.CleanedJob) ([]domain.CleanedJob, error) {
		count = len(jobs)
		return Apply(jobs, now, s.loc), nil
	})
	if err != nil {
		return 0, "", fmt.Errorf("stamp dataset: %w", err)
	}

	stamp := now.In(s.loc).Format(Layout)
	s.logger.Info("dataset stamped", "rows", count, "fetched_at", stamp, "timezone", s.loc.String())
	return count, stamp, nil
}
