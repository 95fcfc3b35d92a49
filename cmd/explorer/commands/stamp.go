package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/project-tktt/job-explorer/internal/stamp"
)

// StampAction sets fetched_at of every cleaned row to now
func StampAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	stamper, err := stamp.NewStamper(appCtx.Dataset(), appCtx.Config.Stamp.Timezone, appCtx.Logger)
	if err != nil {
		return err
	}

	rows, at, err := stamper.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(appCtx.Out, "Updated fetched_at of %d jobs to %s\n", rows, at)
	return nil
}
