package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"

	"github.com/project-tktt/job-explorer/internal/common/extractor"
	"github.com/project-tktt/job-explorer/internal/common/indexer"
	"github.com/project-tktt/job-explorer/internal/config"
	"github.com/project-tktt/job-explorer/internal/logger"
	"github.com/project-tktt/job-explorer/internal/module"
	"github.com/project-tktt/job-explorer/internal/module/arbeitnow"
	"github.com/project-tktt/job-explorer/internal/module/remoteok"
	"github.com/project-tktt/job-explorer/internal/store"
)

// AppContext holds what every command needs
type AppContext struct {
	Config *config.Config
	Logger *slog.Logger
	Out    io.Writer
}

// NewAppContext loads configuration from the root flags and sets up logging
func NewAppContext(cmd *cli.Command) (*AppContext, error) {
	cfg, err := config.Load(cmd.String("env"), cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	root := cmd.Root()
	errOut := root.ErrWriter
	if errOut == nil {
		errOut = os.Stderr
	}
	out := root.Writer
	if out == nil {
		out = os.Stdout
	}

	log := logger.New(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: errOut,
	}).With("run_id", uuid.NewString(), "command", cmd.Name)

	return &AppContext{Config: cfg, Logger: log, Out: out}, nil
}

func (ac *AppContext) RawStore() *store.RawStore {
	return store.NewRawStore(ac.Config.Storage.RawPath, ac.Config.Storage.LockTimeout)
}

func (ac *AppContext) Dataset() *store.Dataset {
	return store.NewDataset(ac.Config.Storage.CleanedPath, ac.Config.Storage.LockTimeout)
}

// Crawlers builds the enabled source adapters in configured order
func (ac *AppContext) Crawlers() []module.Crawler {
	src := ac.Config.Sources
	fetcher := extractor.NewAPIExtractor(extractor.Config{
		UserAgent:    src.UserAgent,
		Timeout:      src.Timeout,
		RequestDelay: src.RequestDelay,
	})

	crawlers := make([]module.Crawler, 0, len(src.Enabled))
	for _, name := range src.Enabled {
		switch name {
		case config.SourceRemoteOK:
			crawlers = append(crawlers, remoteok.NewCrawler(fetcher, remoteok.Config{
				URL:    src.RemoteOKURL,
				Logger: ac.Logger,
			}))
		case config.SourceArbeitnow:
			crawlers = append(crawlers, arbeitnow.NewCrawler(fetcher, arbeitnow.Config{
				URL:      src.ArbeitnowURL,
				MaxPages: src.ArbeitnowMaxPages,
				Logger:   ac.Logger,
			}))
		}
	}
	return crawlers
}

// Redis connects to the configured server; it returns nil when Redis is not configured
func (ac *AppContext) Redis(ctx context.Context) (*redis.Client, error) {
	if ac.Config.Redis.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     ac.Config.Redis.Addr,
		Password: ac.Config.Redis.Password,
		DB:       ac.Config.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	ac.Logger.Debug("redis connected", "addr", ac.Config.Redis.Addr)
	return rdb, nil
}

// Indexers opens every configured export sink. On error the sinks already
// opened are closed.
func (ac *AppContext) Indexers(ctx context.Context) ([]indexer.Indexer, error) {
	var out []indexer.Indexer
	fail := func(err error) ([]indexer.Indexer, error) {
		closeAll(out)
		return nil, err
	}

	if addrs := ac.Config.Elasticsearch.Addresses; len(addrs) > 0 {
		es, err := indexer.NewElasticsearchIndexer(ctx, addrs, ac.Config.Elasticsearch.Index, ac.Logger)
		if err != nil {
			return fail(fmt.Errorf("elasticsearch connection failed: %w", err))
		}
		out = append(out, es)
	}
	if conn := ac.Config.Postgres.ConnectionString; conn != "" {
		pg, err := indexer.NewPostgresIndexer(ctx, conn, ac.Config.Postgres.TableName)
		if err != nil {
			return fail(fmt.Errorf("postgres connection failed: %w", err))
		}
		out = append(out, pg)
	}
	if path := ac.Config.SQLite.Path; path != "" {
		lite, err := indexer.NewSQLiteIndexer(ctx, path)
		if err != nil {
			return fail(fmt.Errorf("sqlite open failed: %w", err))
		}
		out = append(out, lite)
	}
	return out, nil
}

func closeAll(indexers []indexer.Indexer) {
	for _, idx := range indexers {
		idx.Close()
	}
}
