package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/job-explorer/internal/domain"
	"github.com/project-tktt/job-explorer/internal/store"
)

type fakeCrawler struct {
	source domain.JobSource
	jobs   []domain.RawJob
	err    error
	calls  int
}

func (f *fakeCrawler) Crawl(ctx context.Context) ([]domain.RawJob, error) {
	f.calls++
	return f.jobs, f.err
}

func (f *fakeCrawler) Source() domain.JobSource {
	return f.source
}

func job(title string, source domain.JobSource) domain.RawJob {
	return domain.RawJob{JobTitle: domain.StringPtr(title), Skills: domain.SkillsFromList("go"), Source: source}
}

func TestMergerAppends(t *testing.T) {
	ctx := context.Background()
	raw := store.NewRawStore(filepath.Join(t.TempDir(), "raw.json"), 0)

	remote := &fakeCrawler{source: domain.SourceRemoteOK, jobs: []domain.RawJob{job("A", domain.SourceRemoteOK), job("B", domain.SourceRemoteOK)}}
	arbeit := &fakeCrawler{source: domain.SourceArbeitnow, jobs: []domain.RawJob{job("C", domain.SourceArbeitnow)}}
	m := NewMerger(raw, nil, remote, arbeit)

	res, err := m.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Added)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.PerSource[domain.SourceRemoteOK])
	assert.Equal(t, "Added 3 new jobs | Total stored: 3", res.String())

	res, err = m.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Added)
	assert.Equal(t, 6, res.Total)

	jobs, err := raw.Load(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 6)
	titles := make([]string, 0, len(jobs))
	for _, j := range jobs {
		titles = append(titles, *j.JobTitle)
	}
	assert.Equal(t, []string{"A", "B", "C", "A", "B", "C"}, titles)
}

func TestMergerFailingSourceWritesNothing(t *testing.T) {
	ctx := context.Background()
	raw := store.NewRawStore(filepath.Join(t.TempDir(), "raw.json"), 0)

	ok := &fakeCrawler{source: domain.SourceRemoteOK, jobs: []domain.RawJob{job("A", domain.SourceRemoteOK)}}
	_, err := NewMerger(raw, nil, ok).Run(ctx)
	require.NoError(t, err)

	boom := errors.New("boom")
	failing := &fakeCrawler{source: domain.SourceArbeitnow, err: boom}
	_, err = NewMerger(raw, nil, ok, failing).Run(ctx)
	require.ErrorIs(t, err, boom)

	jobs, err := raw.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestMergerEmptyFetch(t *testing.T) {
	raw := store.NewRawStore(filepath.Join(t.TempDir(), "raw.json"), 0)
	res, err := NewMerger(raw, nil, &fakeCrawler{source: domain.SourceRemoteOK}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 0, res.Total)
}
