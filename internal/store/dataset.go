package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/project-tktt/job-explorer/internal/common/skills"
	"github.com/project-tktt/job-explorer/internal/domain"
)

// Columns is the header of the cleaned dataset, in file order
var Columns = []string{
	"job_title",
	"company",
	"skills",
	"location",
	"url",
	"fetched_at",
	"source",
	"job_id",
	"experience_level",
	"num_skills",
}

// Dataset is the cleaned CSV file. It is always replaced as a whole.
type Dataset struct {
	path        string
	lockTimeout time.Duration
}

// NewDataset creates a dataset backed by path
func NewDataset(path string, lockTimeout time.Duration) *Dataset {
	return &Dataset{path: path, lockTimeout: lockTimeout}
}

func (d *Dataset) Path() string {
	return d.path
}

// Write replaces the dataset with jobs
func (d *Dataset) Write(ctx context.Context, jobs []domain.CleanedJob) error {
	return withLock(ctx, d.path, d.lockTimeout, func() error {
		return writeAtomic(d.path, func(f *os.File) error {
			return encodeCSV(f, jobs)
		})
	})
}

// Update loads the dataset, applies fn and writes the result back under a
// single lock
func (d *Dataset) Update(ctx context.Context, fn func([]domain.CleanedJob) ([]domain.CleanedJob, error)) error {
	return withLock(ctx, d.path, d.lockTimeout, func() error {
		jobs, err := d.Load(ctx)
		if err != nil {
			return err
		}
		jobs, err = fn(jobs)
		if err != nil {
			return err
		}
		return writeAtomic(d.path, func(f *os.File) error {
			return encodeCSV(f, jobs)
		})
	})
}

// Load reads the dataset. A missing file is treated as empty.
func (d *Dataset) Load(ctx context.Context) ([]domain.CleanedJob, error) {
	f, err := os.Open(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.CleanedJob{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	jobs, err := decodeCSV(f)
	if err != nil {
		return nil, &CorruptError{Path: d.path, Err: err}
	}
	return jobs, nil
}

func encodeCSV(w io.Writer, jobs []domain.CleanedJob) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, job := range jobs {
		row := []string{
			job.JobTitle,
			job.Company,
			skills.Encode(job.Skills),
			deref(job.Location),
			deref(job.URL),
			job.FetchedAt,
			string(job.Source),
			job.JobID,
			string(job.ExperienceLevel),
			strconv.Itoa(job.NumSkills),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", job.JobID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func decodeCSV(r io.Reader) ([]domain.CleanedJob, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []domain.CleanedJob{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	jobs := []domain.CleanedJob{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		get := func(col string) string {
			if i := index[col]; i < len(row) {
				return row[i]
			}
			return ""
		}

		numSkills, err := strconv.Atoi(get("num_skills"))
		if err != nil {
			return nil, fmt.Errorf("line %d: num_skills: %w", line, err)
		}

		jobs = append(jobs, domain.CleanedJob{
			JobTitle:        get("job_title"),
			Company:         get("company"),
			Skills:          skills.Normalize(domain.SkillsFromText(get("skills"))),
			Location:        optional(get("location")),
			URL:             optional(get("url")),
			FetchedAt:       get("fetched_at"),
			Source:          domain.JobSource(get("source")),
			JobID:           get("job_id"),
			ExperienceLevel: domain.ExperienceLevel(get("experience_level")),
			NumSkills:       numSkills,
		})
	}
	return jobs, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
