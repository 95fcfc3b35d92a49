package remoteok

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/project-tktt/job-explorer/internal/common/cleaner"
	"github.com/project-tktt/job-explorer/internal/common/extractor"
	"github.com/project-tktt/job-explorer/internal/domain"
	"github.com/project-tktt/job-explorer/internal/module"
)

// APIURL is the public RemoteOK feed. The first element of the response is a
// legal notice rather than a job.
const APIURL = "https://remoteok.com/api"

// Field names in the RemoteOK feed
const (
	fieldPosition = "position"
	fieldCompany  = "company"
	fieldTags     = "tags"
	fieldLocation = "location"
	fieldURL      = "url"
)

// Config holds RemoteOK-specific configuration
type Config struct {
	URL    string
	Now    func() time.Time
	Logger *slog.Logger
}

// Crawler implements job crawling for RemoteOK
type Crawler struct {
	fetcher module.Fetcher
	cleaner *cleaner.Cleaner
	config  Config
	logger  *slog.Logger
}

// NewCrawler creates a new RemoteOK crawler
func NewCrawler(fetcher module.Fetcher, cfg Config) *Crawler {
	if cfg.URL == "" {
		cfg.URL = APIURL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Crawler{
		fetcher: fetcher,
		cleaner: cleaner.NewCleaner(),
		config:  cfg,
		logger:  cfg.Logger.With("source", domain.SourceRemoteOK),
	}
}

func (c *Crawler) Source() domain.JobSource {
	return domain.SourceRemoteOK
}

// Crawl fetches the feed once and maps every usable entry
func (c *Crawler) Crawl(ctx context.Context) ([]domain.RawJob, error) {
	c.logger.Info("fetching feed", "url", c.config.URL)

	body, err := c.fetcher.FetchJSON(ctx, c.config.URL)
	if err != nil {
		return nil, err
	}

	page, err := extractor.DecodeList(body)
	if err != nil {
		return nil, fmt.Errorf("decode remoteok feed: %w", err)
	}

	fetchedAt := c.config.Now().Format(domain.FetchedAtLayout)
	jobs := make([]domain.RawJob, 0, len(page.Items))
	skipped := 0

	for _, item := range page.Items {
		rec, ok := extractor.AsRecord(item)
		if !ok || !rec.Has(fieldPosition) || !rec.Has(fieldTags) {
			skipped++
			continue
		}

		jobs = append(jobs, domain.RawJob{
			JobTitle:  c.cleaner.CleanPtr(rec.String(fieldPosition)),
			Company:   c.cleaner.CleanPtr(rec.String(fieldCompany)),
			Skills:    rec.Skills(fieldTags),
			Location:  rec.String(fieldLocation),
			URL:       rec.String(fieldURL),
			FetchedAt: fetchedAt,
			Source:    domain.SourceRemoteOK,
		})
	}

	if skipped > 0 {
		c.logger.Debug("skipped malformed entries", "count", skipped)
	}
	c.logger.Info("crawled jobs", "count", len(jobs))
	return jobs, nil
}
