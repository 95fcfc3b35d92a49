package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/project-tktt/job-explorer/cmd/explorer/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
