package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/project-tktt/job-explorer/internal/domain"
)

// RawStore is the append-only JSON file holding every record ever fetched
type RawStore struct {
	path        string
	lockTimeout time.Duration
}

// NewRawStore creates a raw store backed by path
func NewRawStore(path string, lockTimeout time.Duration) *RawStore {
	return &RawStore{path: path, lockTimeout: lockTimeout}
}

func (s *RawStore) Path() string {
	return s.path
}

// Load reads all stored records. A missing file is an empty store.
func (s *RawStore) Load(ctx context.Context) ([]domain.RawJob, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.RawJob{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read raw store: %w", err)
	}

	var jobs []domain.RawJob
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, &CorruptError{Path: s.path, Err: err}
	}
	if jobs == nil {
		jobs = []domain.RawJob{}
	}
	return jobs, nil
}

// Append adds jobs after the existing records and rewrites the file.
// It returns the total number of stored records.
func (s *RawStore) Append(ctx context.Context, jobs []domain.RawJob) (int, error) {
	total := 0
	err := withLock(ctx, s.path, s.lockTimeout, func() error {
		existing, err := s.Load(ctx)
		if err != nil {
			return err
		}

		all := append(existing, jobs...)
		total = len(all)

		return writeAtomic(s.path, func(f *os.File) error {
			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if err := enc.Encode(all); err != nil {
				return fmt.Errorf("encode raw store: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
