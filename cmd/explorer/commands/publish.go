package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/project-tktt/job-explorer/internal/common/dedup"
	"github.com/project-tktt/job-explorer/internal/domain"
	"github.com/project-tktt/job-explorer/internal/publish"
	"github.com/project-tktt/job-explorer/internal/queue"
)

// PublishAction copies the dataset to every configured sink and announces
// jobs not seen before
func PublishAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	indexers, err := appCtx.Indexers(ctx)
	if err != nil {
		return err
	}
	defer closeAll(indexers)

	rdb, err := appCtx.Redis(ctx)
	if err != nil {
		return err
	}

	var seen publish.SeenTracker
	var announcer publish.Announcer
	if rdb != nil {
		defer rdb.Close()
		seen = dedup.NewDeduplicator(rdb, appCtx.Config.Redis.SeenPrefix, appCtx.Config.Redis.SeenTTL)
		announcer = queue.NewPublisher(rdb, appCtx.Config.Redis.JobQueue)
	}

	if len(indexers) == 0 && rdb == nil {
		return errors.New("no sinks configured: set ELASTICSEARCH_URL, POSTGRES_URL, SQLITE_PATH or REDIS_ADDR")
	}

	svc := publish.NewService(appCtx.Dataset(), indexers, seen, announcer, appCtx.Logger)
	result, err := svc.Run(ctx)

	fmt.Fprintf(appCtx.Out, "Published %d jobs to [%s] | Announced %d new jobs\n",
		result.Rows, strings.Join(result.Sinks, ", "), result.Announced)
	return err
}

// ListenAction prints jobs from the change feed until interrupted
func ListenAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	rdb, err := appCtx.Redis(ctx)
	if err != nil {
		return err
	}
	if rdb == nil {
		return errors.New("listen requires REDIS_ADDR")
	}
	defer rdb.Close()

	consumer := queue.NewConsumer(rdb, appCtx.Config.Redis.JobQueue, 5*time.Second, appCtx.Logger)
	appCtx.Logger.Info("listening for new jobs", "queue", appCtx.Config.Redis.JobQueue)

	err = consumer.Run(ctx, func(job domain.CleanedJob) error {
		_, err := fmt.Fprintf(appCtx.Out, "[%s] %s | %s | %s | %s\n",
			job.ExperienceLevel, job.JobTitle, job.Company, valueOr(job.Location, "-"), valueOr(job.URL, "-"))
		return err
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
