package commands

import (
	"github.com/urfave/cli/v3"
)

// NewApp builds the root command
func NewApp() *cli.Command {
	return &cli.Command{
		Name:  "explorer",
		Usage: "ingest, clean and explore remote job postings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "environment file path",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML config file path",
				Sources: cli.EnvVars("JOBS_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "fetch every source and append to the raw store",
				Action: IngestAction,
			},
			{
				Name:   "transform",
				Usage:  "rebuild the cleaned dataset from the raw store",
				Action: TransformAction,
			},
			{
				Name:   "run",
				Usage:  "ingest, then transform",
				Action: RunAction,
			},
			{
				Name:   "stamp",
				Usage:  "set fetched_at of every cleaned row to the current time",
				Action: StampAction,
			},
			{
				Name:  "stats",
				Usage: "filter the cleaned dataset and show statistics",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "level",
						Usage: "experience level to keep (Entry-level, Mid-level, Senior); repeatable",
					},
					&cli.StringFlag{
						Name:  "location",
						Usage: "exact location to keep, or All",
						Value: "All",
					},
					&cli.StringFlag{
						Name:  "search",
						Usage: "case-insensitive text to find in titles or skills",
					},
					&cli.IntFlag{
						Name:  "top",
						Usage: "number of top skills to show",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "list",
						Usage: "also list the matching jobs",
					},
				},
				Action: StatsAction,
			},
			{
				Name:   "publish",
				Usage:  "copy the cleaned dataset to the configured sinks and announce new jobs",
				Action: PublishAction,
			},
			{
				Name:   "listen",
				Usage:  "print jobs announced on the change feed",
				Action: ListenAction,
			},
		},
	}
}
