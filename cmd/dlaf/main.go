// Command dlaf grows a diffusion-limited aggregate indefinitely.
//
// Seed records are read from stdin until end of stream (zero records fall
// back to a single origin seed); every committed particle is written to
// stdout as a 16-byte binary record, in commit order, until the process is
// terminated. There are no flags: parameters are fixed at construction.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hupe1980/dlaf"
	"github.com/hupe1980/dlaf/sink"
)

func main() {
	logger := dlaf.NewTextLogger(slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := sink.New(os.Stdout)
	if err != nil {
		fatal(logger, "create sink", err)
	}

	model, err := dlaf.New(func(o *dlaf.Options) {
		o.Sink = out
	})
	if err != nil {
		fatal(logger, "create model", err)
	}

	seeds, err := model.LoadSeeds(os.Stdin)
	if err != nil {
		fatal(logger, "load seeds", err)
	}
	logger.LogSeeds(ctx, seeds)

	coord := dlaf.NewCoordinator(model, func(o *dlaf.RunOptions) {
		o.Logger = logger
	})

	if err := coord.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fatal(logger, "run", err)
	}

	if err := out.Close(); err != nil {
		fatal(logger, "close sink", err)
	}

	logger.Info("shutdown complete", "particles", model.Count())
}

func fatal(logger *dlaf.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
