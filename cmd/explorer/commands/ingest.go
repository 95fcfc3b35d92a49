package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/project-tktt/job-explorer/internal/ingest"
	"github.com/project-tktt/job-explorer/internal/transform"
)

// IngestAction fetches every enabled source and appends to the raw store
func IngestAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(cmd)
	if err != nil {
		return err
	}
	return runIngest(ctx, appCtx)
}

// TransformAction rebuilds the cleaned dataset
func TransformAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(cmd)
	if err != nil {
		return err
	}
	return runTransform(ctx, appCtx)
}

// RunAction ingests and then transforms
func RunAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(cmd)
	if err != nil {
		return err
	}
	if err := runIngest(ctx, appCtx); err != nil {
		return err
	}
	return runTransform(ctx, appCtx)
}

func runIngest(ctx context.Context, appCtx *AppContext) error {
	merger := ingest.NewMerger(appCtx.RawStore(), appCtx.Logger, appCtx.Crawlers()...)

	result, err := merger.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	fmt.Fprintln(appCtx.Out, result.String())
	return nil
}

func runTransform(ctx context.Context, appCtx *AppContext) error {
	pipeline := transform.NewPipeline(appCtx.RawStore(), appCtx.Dataset(), appCtx.Logger)

	stats, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("transform: %w", err)
	}

	displayTransformStats(appCtx.Out, stats)
	fmt.Fprintf(appCtx.Out, "Saved cleaned data to %s\n", appCtx.Config.Storage.CleanedPath)
	return nil
}

func displayTransformStats(w io.Writer, stats transform.Stats) {
	table := tablewriter.NewWriter(w)
	table.Header("Step", "Rows")
	table.Append("raw records", fmt.Sprintf("%d", stats.Raw))
	table.Append("missing title", fmt.Sprintf("%d", stats.MissingTitle))
	table.Append("duplicates", fmt.Sprintf("%d", stats.Duplicates))
	table.Append("after dedup", fmt.Sprintf("%d", stats.AfterDedup()))
	table.Append("unparseable skills", fmt.Sprintf("%d", stats.SkillParseErrors))
	table.Append("listing pages", fmt.Sprintf("%d", stats.ListingPages))
	table.Append("no skills", fmt.Sprintf("%d", stats.NoSkills))
	table.Append("saved", fmt.Sprintf("%d", stats.Kept))
	table.Render()
}
