package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/project-tktt/job-explorer/internal/domain"
)

// Deduplicator remembers which cleaned jobs have already been announced
type Deduplicator struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

// NewDeduplicator creates a new Redis-based deduplicator
func NewDeduplicator(client *redis.Client, prefix string, defaultTTL time.Duration) *Deduplicator {
	if prefix == "" {
		prefix = "job:seen"
	}
	if defaultTTL == 0 {
		defaultTTL = 24 * time.Hour * 30 // 30 days default
	}
	return &Deduplicator{
		client:     client,
		prefix:     prefix,
		defaultTTL: defaultTTL,
	}
}

// IsSeen checks if a job ID has been seen before
func (d *Deduplicator) IsSeen(ctx context.Context, source domain.JobSource, jobID string) (bool, error) {
	key := d.makeKey(source, jobID)
	exists, err := d.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return exists > 0, nil
}

// MarkSeen marks a job as seen with the default TTL
func (d *Deduplicator) MarkSeen(ctx context.Context, source domain.JobSource, jobID string) error {
	key := d.makeKey(source, jobID)
	err := d.client.Set(ctx, key, time.Now().Unix(), d.defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Unseen returns the jobs whose IDs are not yet marked, keeping their order
func (d *Deduplicator) Unseen(ctx context.Context, jobs []domain.CleanedJob) ([]domain.CleanedJob, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	pipe := d.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(jobs))
	for i, job := range jobs {
		cmds[i] = pipe.Exists(ctx, d.makeKey(job.Source, job.JobID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("pipeline exec: %w", err)
	}

	var unseen []domain.CleanedJob
	for i, cmd := range cmds {
		if cmd.Val() == 0 {
			unseen = append(unseen, jobs[i])
		}
	}
	return unseen, nil
}

// MarkSeenBatch marks every job as seen in one round trip
func (d *Deduplicator) MarkSeenBatch(ctx context.Context, jobs []domain.CleanedJob) error {
	if len(jobs) == 0 {
		return nil
	}

	now := time.Now().Unix()
	pipe := d.client.Pipeline()
	for _, job := range jobs {
		pipe.Set(ctx, d.makeKey(job.Source, job.JobID), now, d.defaultTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec: %w", err)
	}
	return nil
}

func (d *Deduplicator) makeKey(source domain.JobSource, id string) string {
	return fmt.Sprintf("%s:%s:%s", d.prefix, source, id)
}
