package indexer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/project-tktt/job-explorer/internal/domain"
)

// SQLiteIndexer mirrors the dataset into a single-file SQLite database.
// Skills are stored as a JSON array in a TEXT column.
type SQLiteIndexer struct {
	db *sql.DB
}

// NewSQLiteIndexer opens (or creates) the database at path
func NewSQLiteIndexer(ctx context.Context, path string) (*SQLiteIndexer, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	indexer := &SQLiteIndexer{db: db}
	if err := indexer.ensureTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure table: %w", err)
	}
	return indexer, nil
}

func (i *SQLiteIndexer) Name() string {
	return "sqlite"
}

func (i *SQLiteIndexer) ensureTable(ctx context.Context) error {
	_, err := i.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS cleaned_jobs (
  job_id TEXT PRIMARY KEY,
  job_title TEXT NOT NULL,
  company TEXT NOT NULL,
  skills TEXT NOT NULL DEFAULT '[]',
  location TEXT,
  url TEXT,
  fetched_at TEXT NOT NULL,
  source TEXT NOT NULL,
  experience_level TEXT NOT NULL,
  num_skills INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cleaned_jobs_level ON cleaned_jobs(experience_level);
`)
	return err
}

// Replace deletes every row and inserts jobs in one transaction
func (i *SQLiteIndexer) Replace(ctx context.Context, jobs []domain.CleanedJob) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cleaned_jobs`); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO cleaned_jobs (
  job_id, job_title, company, skills, location, url,
  fetched_at, source, experience_level, num_skills
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(job_id) DO UPDATE SET
  job_title = excluded.job_title,
  company = excluded.company,
  skills = excluded.skills,
  location = excluded.location,
  url = excluded.url,
  fetched_at = excluded.fetched_at,
  source = excluded.source,
  experience_level = excluded.experience_level,
  num_skills = excluded.num_skills
`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, job := range jobs {
		tags, err := json.Marshal(job.Skills)
		if err != nil {
			return fmt.Errorf("marshal skills %s: %w", job.JobID, err)
		}
		_, err = stmt.ExecContext(ctx,
			job.JobID, job.JobTitle, job.Company, string(tags), job.Location, job.URL,
			job.FetchedAt, string(job.Source), string(job.ExperienceLevel), job.NumSkills,
		)
		if err != nil {
			return fmt.Errorf("insert job %s: %w", job.JobID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Count returns the number of stored rows
func (i *SQLiteIndexer) Count(ctx context.Context) (int, error) {
	var n int
	if err := i.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cleaned_jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

// Close closes the database connection
func (i *SQLiteIndexer) Close() error {
	return i.db.Close()
}
