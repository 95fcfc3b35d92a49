package module

import (
	"context"

	"github.com/project-tktt/job-explorer/internal/domain"
)

// Crawler is the common interface for all job source adapters
type Crawler interface {
	// Crawl fetches the current listing of the source. Any transport failure
	// is returned as an error and no records are produced.
	Crawl(ctx context.Context) ([]domain.RawJob, error)
	// Source returns the source identifier
	Source() domain.JobSource
}

// Fetcher performs a single GET and returns the response body
type Fetcher interface {
	FetchJSON(ctx context.Context, url string) ([]byte, error)
}
