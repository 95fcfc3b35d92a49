package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/project-tktt/job-explorer/internal/domain"
)

// Consumer consumes jobs from Redis queue
type Consumer struct {
	client    *redis.Client
	queueName string
	timeout   time.Duration
	logger    *slog.Logger
}

// NewConsumer creates a new queue consumer
func NewConsumer(client *redis.Client, queueName string, timeout time.Duration, logger *slog.Logger) *Consumer {
	if queueName == "" {
		queueName = DefaultQueue
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		client:    client,
		queueName: queueName,
		timeout:   timeout,
		logger:    logger,
	}
}

// Consume blocks and waits for a job from the queue.
// Returns nil, nil if timeout occurs with no job.
func (c *Consumer) Consume(ctx context.Context) (*domain.CleanedJob, error) {
	result, err := c.client.BRPop(ctx, c.timeout, c.queueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Timeout, no job available
		}
		return nil, fmt.Errorf("brpop: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var job domain.CleanedJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}

	return &job, nil
}

// Run starts a continuous consumer loop until ctx is cancelled. Malformed
// messages and handler errors are logged and skipped.
func (c *Consumer) Run(ctx context.Context, handler func(domain.CleanedJob) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		job, err := c.Consume(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.logger.Warn("skipping malformed message", "queue", c.queueName, "error", err)
				continue
			}
			return fmt.Errorf("consume: %w", err)
		}

		if job == nil {
			continue // Timeout, try again
		}

		if err := handler(*job); err != nil {
			c.logger.Error("handler error", "job_id", job.JobID, "error", err)
		}
	}
}
