// Package publish copies the cleaned dataset to the configured export sinks
// and announces jobs that have not been seen before.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/project-tktt/job-explorer/internal/common/indexer"
	"github.com/project-tktt/job-explorer/internal/domain"
)

// DatasetLoader reads the cleaned dataset
type DatasetLoader interface {
	Load(ctx context.Context) ([]domain.CleanedJob, error)
}

// SeenTracker remembers announced jobs
type SeenTracker interface {
	Unseen(ctx context.Context, jobs []domain.CleanedJob) ([]domain.CleanedJob, error)
	MarkSeenBatch(ctx context.Context, jobs []domain.CleanedJob) error
}

// Announcer pushes jobs onto the change feed
type Announcer interface {
	PublishBatch(ctx context.Context, jobs []domain.CleanedJob) error
}

// Result summarizes one publish run
type Result struct {
	Rows      int
	Sinks     []string
	Announced int
}

// Service publishes the dataset
type Service struct {
	dataset   DatasetLoader
	indexers  []indexer.Indexer
	seen      SeenTracker
	announcer Announcer
	logger    *slog.Logger
}

// NewService creates a publish service. seen and announcer may both be nil
// to disable the change feed.
func NewService(dataset DatasetLoader, indexers []indexer.Indexer, seen SeenTracker, announcer Announcer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		dataset:   dataset,
		indexers:  indexers,
		seen:      seen,
		announcer: announcer,
		logger:    logger,
	}
}

// Run replaces the content of every sink with the dataset, then announces
// unseen jobs. Sinks are written concurrently and all of them are attempted;
// their errors are joined.
func (s *Service) Run(ctx context.Context) (Result, error) {
	jobs, err := s.dataset.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load dataset: %w", err)
	}

	result := Result{Rows: len(jobs)}
	sinkErrs := make([]error, len(s.indexers))

	var g errgroup.Group
	for i, idx := range s.indexers {
		g.Go(func() error {
			if err := idx.Replace(ctx, jobs); err != nil {
				s.logger.Error("sink failed", "sink", idx.Name(), "error", err)
				sinkErrs[i] = fmt.Errorf("replace %s: %w", idx.Name(), err)
				return nil
			}
			s.logger.Info("sink updated", "sink", idx.Name(), "rows", len(jobs))
			return nil
		})
	}
	g.Wait()

	var errs []error
	for i, idx := range s.indexers {
		if sinkErrs[i] != nil {
			errs = append(errs, sinkErrs[i])
			continue
		}
		result.Sinks = append(result.Sinks, idx.Name())
	}

	if s.seen != nil && s.announcer != nil {
		n, err := s.announce(ctx, jobs)
		if err != nil {
			errs = append(errs, err)
		}
		result.Announced = n
	}

	return result, errors.Join(errs...)
}

func (s *Service) announce(ctx context.Context, jobs []domain.CleanedJob) (int, error) {
	fresh, err := s.seen.Unseen(ctx, jobs)
	if err != nil {
		return 0, fmt.Errorf("check seen jobs: %w", err)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if err := s.announcer.PublishBatch(ctx, fresh); err != nil {
		return 0, fmt.Errorf("announce jobs: %w", err)
	}
	if err := s.seen.MarkSeenBatch(ctx, fresh); err != nil {
		return len(fresh), fmt.Errorf("mark jobs seen: %w", err)
	}

	s.logger.Info("announced new jobs", "count", len(fresh))
	return len(fresh), nil
}
