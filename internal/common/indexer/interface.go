package indexer

import (
	"context"

	"github.com/project-tktt/job-explorer/internal/domain"
)

// Indexer is an export sink for the cleaned dataset
type Indexer interface {
	// Name identifies the sink in logs
	Name() string
	// Replace makes the sink hold exactly jobs
	Replace(ctx context.Context, jobs []domain.CleanedJob) error
	// Close releases the sink's connections
	Close() error
}
