package arbeitnow

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

// APIURL is the Arbeitnow job board API. Responses wrap the listing in
// "data" and link the next page in "links.next".
const APIURL = "https://www.arbeitnow.com/api/job-board-api"

const (
	fieldTitle    = "title"
	fieldCompany  = "company_name"
	fieldTags     = "tags"
	fieldLocation = "location"
	fieldURL      = "url"
)

// Config holds Arbeitnow-specific configuration
type Config struct {
	URL      string
	MaxPages int
	Now      func() time.Time
	Logger   *slog.Logger
}

// Crawler implements job crawling for Arbeitnow
type Crawler struct {
	fetcher module.Fetcher
	cleaner *cleaner.Cleaner
	config  Config
	logger  *slog.Logger
}

// NewCrawler creates a new Arbeitnow crawler
func NewCrawler(fetcher module.Fetcher, cfg Config) *Crawler {
	if cfg.URL == "" {
		cfg.URL = APIURL
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
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
		logger:  cfg.Logger.With("source", domain.SourceArbeitnow),
	}
}

func (c *Crawler) Source() domain.JobSource {
	return domain.SourceArbeitnow
}

// Crawl walks the listing from the first page, following next links until
// MaxPages pages have been read
func (c *Crawler) Crawl(ctx context.Context) ([]domain.RawJob, error) {
	var allJobs []domain.RawJob
	url := c.config.URL

	for page := 1; page <= c.config.MaxPages && url != ""; page++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		c.logger.Info("fetching page", "page", page, "max_pages", c.config.MaxPages, "url", url)

		body, err := c.fetcher.FetchJSON(ctx, url)
		if err != nil {
			return nil, err
		}

		list, err := extractor.DecodeList(body)
		if err != nil {
			return nil, fmt.Errorf("decode arbeitnow page %d: %w", page, err)
		}

		jobs := c.mapPage(list, c.config.Now().Format(domain.FetchedAtLayout))
		allJobs = append(allJobs, jobs...)
		c.logger.Info("page processed", "page", page, "jobs", len(jobs))

		if len(list.Items) == 0 {
			break
		}
		url = list.Next
	}

	c.logger.Info("crawled jobs", "count", len(allJobs))
	return allJobs, nil
}

func (c *Crawler) mapPage(list extractor.Page, fetchedAt string) []domain.RawJob {
	jobs := make([]domain.RawJob, 0, len(list.Items))
	skipped := 0

	for _, item := range list.Items {
		rec, ok := extractor.AsRecord(item)
		if !ok || !rec.Has(fieldTitle) || !rec.Has(fieldTags) {
			skipped++
			continue
		}

		jobs = append(jobs, domain.RawJob{
			JobTitle:  c.cleaner.CleanPtr(rec.String(fieldTitle)),
			Company:   c.cleaner.CleanPtr(rec.String(fieldCompany)),
			Skills:    rec.Skills(fieldTags),
			Location:  rec.String(fieldLocation),
			URL:       rec.String(fieldURL),
			FetchedAt: fetchedAt,
			Source:    domain.SourceArbeitnow,
		})
	}

	if skipped > 0 {
		c.logger.Debug("skipped malformed entries", "count", skipped)
	}
	return jobs
}
