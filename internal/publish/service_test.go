package publish

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/job-explorer/internal/common/dedup"
	"github.com/project-tktt/job-explorer/internal/common/indexer"
	"github.com/project-tktt/job-explorer/internal/domain"
	"github.com/project-tktt/job-explorer/internal/queue"
	"github.com/project-tktt/job-explorer/internal/store"
)

type recordingIndexer struct {
	name string
	got  []domain.CleanedJob
	err  error
}

func (r *recordingIndexer) Name() string { return r.name }

func (r *recordingIndexer) Replace(ctx context.Context, jobs []domain.CleanedJob) error {
	r.got = jobs
	return r.err
}

func (r *recordingIndexer) Close() error { return nil }

func writeDataset(t *testing.T, jobs []domain.CleanedJob) *store.Dataset {
	t.Helper()
	d := store.NewDataset(filepath.Join(t.TempDir(), "cleaned.csv"), 0)
	require.NoError(t, d.Write(context.Background(), jobs))
	return d
}

func TestRunAnnouncesOnlyUnseenJobs(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	dataset := writeDataset(t, []domain.CleanedJob{
		{JobID: "a", JobTitle: "A", Skills: []string{"go"}, NumSkills: 1, Source: domain.SourceRemoteOK},
		{JobID: "b", JobTitle: "B", Skills: []string{"sql"}, NumSkills: 1, Source: domain.SourceArbeitnow},
	})

	sink := &recordingIndexer{name: "memory"}
	seen := dedup.NewDeduplicator(client, "", time.Hour)
	pub := queue.NewPublisher(client, "")
	svc := NewService(dataset, []indexer.Indexer{sink}, seen, pub, nil)

	res, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, []string{"memory"}, res.Sinks)
	assert.Equal(t, 2, res.Announced)
	assert.Len(t, sink.got, 2)

	res, err = svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Announced)

	n, err := pub.QueueLength(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestRunJoinsSinkErrors(t *testing.T) {
	dataset := writeDataset(t, []domain.CleanedJob{{JobID: "a", Skills: []string{"go"}, NumSkills: 1}})

	boom := errors.New("boom")
	bad := &recordingIndexer{name: "bad", err: boom}
	good := &recordingIndexer{name: "good"}

	res, err := NewService(dataset, []indexer.Indexer{bad, good}, nil, nil, nil).Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"good"}, res.Sinks)
	assert.Len(t, good.got, 1)
	assert.Zero(t, res.Announced)
}
