// Package ingest fetches every configured source and appends the results to
// the raw store.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/project-tktt/job-explorer/internal/domain"
	"github.com/project-tktt/job-explorer/internal/module"
)

// RawAppender persists fetched records after the existing ones
type RawAppender interface {
	Append(ctx context.Context, jobs []domain.RawJob) (int, error)
}

// Result summarizes one ingestion run
type Result struct {
	Added     int
	Total     int
	PerSource map[domain.JobSource]int
}

func (r Result) String() string {
	return fmt.Sprintf("Added %d new jobs | Total stored: %d", r.Added, r.Total)
}

// Merger runs the crawlers one after another and appends their output
type Merger struct {
	crawlers []module.Crawler
	store    RawAppender
	logger   *slog.Logger
}

// NewMerger creates a merger over crawlers, run in the given order
func NewMerger(store RawAppender, logger *slog.Logger, crawlers ...module.Crawler) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{crawlers: crawlers, store: store, logger: logger}
}

// Run fetches all sources first and writes only when every source succeeded.
// Records are not deduplicated here.
func (m *Merger) Run(ctx context.Context) (Result, error) {
	result := Result{PerSource: make(map[domain.JobSource]int, len(m.crawlers))}
	var fresh []domain.RawJob

	for _, c := range m.crawlers {
		jobs, err := c.Crawl(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("crawl %s: %w", c.Source(), err)
		}
		result.PerSource[c.Source()] += len(jobs)
		fresh = append(fresh, jobs...)
	}

	total, err := m.store.Append(ctx, fresh)
	if err != nil {
		return Result{}, fmt.Errorf("append raw store: %w", err)
	}

	result.Added = len(fresh)
	result.Total = total
	m.logger.Info("ingestion finished", "added", result.Added, "total", result.Total)
	return result, nil
}
