package indexer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/project-tktt/job-explorer/internal/domain"
)

// PostgresIndexer mirrors the dataset into a PostgreSQL table
type PostgresIndexer struct {
	db        *sql.DB
	tableName string
}

// NewPostgresIndexer connects and creates the table if needed
func NewPostgresIndexer(ctx context.Context, connStr string, tableName string) (*PostgresIndexer, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if tableName == "" {
		tableName = "cleaned_jobs"
	}
	indexer := &PostgresIndexer{
		db:        db,
		tableName: pq.QuoteIdentifier(tableName),
	}

	if err := indexer.ensureTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure table: %w", err)
	}

	return indexer, nil
}

func (i *PostgresIndexer) Name() string {
	return "postgres"
}

// ensureTable creates the jobs table if it doesn't exist
func (i *PostgresIndexer) ensureTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			job_id TEXT PRIMARY KEY,
			job_title TEXT NOT NULL,
			company TEXT NOT NULL,
			skills TEXT[] NOT NULL,
			location TEXT,
			url TEXT,
			fetched_at TEXT NOT NULL,
			source TEXT NOT NULL,
			experience_level TEXT NOT NULL,
			num_skills INTEGER NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`, i.tableName)

	_, err := i.db.ExecContext(ctx, query)
	return err
}

// Replace deletes every row and inserts jobs in one transaction
func (i *PostgresIndexer) Replace(ctx context.Context, jobs []domain.CleanedJob) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, i.tableName)); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			job_id, job_title, company, skills, location, url,
			fetched_at, source, experience_level, num_skills, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, NOW()
		)
		ON CONFLICT (job_id) DO UPDATE SET
			job_title = EXCLUDED.job_title,
			company = EXCLUDED.company,
			skills = EXCLUDED.skills,
			location = EXCLUDED.location,
			url = EXCLUDED.url,
			fetched_at = EXCLUDED.fetched_at,
			source = EXCLUDED.source,
			experience_level = EXCLUDED.experience_level,
			num_skills = EXCLUDED.num_skills,
			updated_at = NOW()
	`, i.tableName)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, job := range jobs {
		_, err := stmt.ExecContext(ctx,
			job.JobID, job.JobTitle, job.Company, pq.Array(job.Skills), job.Location, job.URL,
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

// Close closes the database connection
func (i *PostgresIndexer) Close() error {
	return i.db.Close()
}
