package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/job-explorer/internal/domain"
)

func rawJob(title string) domain.RawJob {
	return domain.RawJob{
		JobTitle:  domain.StringPtr(title),
		Skills:    domain.SkillsFromList("Go"),
		FetchedAt: "2026-03-01 09:30:00",
		Source:    domain.SourceRemoteOK,
	}
}

func TestRawStoreMissingFileIsEmpty(t *testing.T) {
	s := NewRawStore(filepath.Join(t.TempDir(), "raw.json"), 0)
	jobs, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.NotNil(t, jobs)
}

func TestRawStoreAppend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "raw.json")
	s := NewRawStore(path, 0)

	total, err := s.Append(ctx, []domain.RawJob{rawJob("A & B"), rawJob("C")})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	total, err = s.Append(ctx, []domain.RawJob{rawJob("D")})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	jobs, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "A & B", *jobs[0].JobTitle)
	assert.Equal(t, "D", *jobs[2].JobTitle)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"job_title\": \"A & B\"")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestRawStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "a list"`), 0o644))

	s := NewRawStore(path, 0)
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = s.Append(context.Background(), []domain.RawJob{rawJob("A")})
	assert.ErrorIs(t, err, ErrCorrupt)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"not": "a list"`, string(data))
}

func TestDatasetRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := NewDataset(filepath.Join(t.TempDir(), "cleaned.csv"), 0)

	jobs := []domain.CleanedJob{
		{
			JobTitle:        "Junior Engineer, Data",
			Company:         "Unknown",
			Skills:          []string{"python", "aws"},
			Location:        domain.StringPtr("Remote"),
			FetchedAt:       "2026-03-01 09:30:00",
			Source:          domain.SourceRemoteOK,
			JobID:           "67ede8b0930a477173483a68b94bdba5",
			ExperienceLevel: domain.LevelEntry,
			NumSkills:       2,
		},
	}
	require.NoError(t, d.Write(ctx, jobs))

	got, err := d.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, jobs, got)

	data, err := os.ReadFile(d.Path())
	require.NoError(t, err)
	assert.Equal(t,
		"job_title,company,skills,location,url,fetched_at,source,job_id,experience_level,num_skills\n"+
			"\"Junior Engineer, Data\",Unknown,\"['python', 'aws']\",Remote,,2026-03-01 09:30:00,remoteok,67ede8b0930a477173483a68b94bdba5,Entry-level,2\n",
		string(data))
}

func TestDatasetUpdate(t *testing.T) {
	ctx := context.Background()
	d := NewDataset(filepath.Join(t.TempDir(), "cleaned.csv"), 0)
	require.NoError(t, d.Write(ctx, []domain.CleanedJob{{JobTitle: "A", Skills: []string{"go"}, NumSkills: 1}}))

	err := d.Update(ctx, func(jobs []domain.CleanedJob) ([]domain.CleanedJob, error) {
		for i := range jobs {
			jobs[i].FetchedAt = "stamped"
		}
		return jobs, nil
	})
	require.NoError(t, err)

	got, err := d.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "stamped", got[0].FetchedAt)
}

func TestDatasetCorrupt(t *testing.T) {
	dir := t.TempDir()

	missingCol := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(missingCol, []byte("job_title,company\nA,B\n"), 0o644))
	_, err := NewDataset(missingCol, 0).Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)

	badCount := filepath.Join(dir, "b.csv")
	content := "job_title,company,skills,location,url,fetched_at,source,job_id,experience_level,num_skills\nA,B,[],,,,,x,Mid-level,two\n"
	require.NoError(t, os.WriteFile(badCount, []byte(content), 0o644))
	_, err = NewDataset(badCount, 0).Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}
