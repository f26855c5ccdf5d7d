package dlaf

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with dlaf-specific helpers so call sites log the
// same fields with the same names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogSeeds logs the outcome of seed loading.
func (l *Logger) LogSeeds(ctx context.Context, count int) {
	l.InfoContext(ctx, "seeds loaded", "count", count)
}

// LogRunStart logs the coordinator configuration at the start of a run.
func (l *Logger) LogRunStart(ctx context.Context, workers, batchSize int) {
	l.InfoContext(ctx, "run started",
		"workers", workers,
		"batch_size", batchSize,
	)
}

// LogRound logs the outcome of one committed round.
func (l *Logger) LogRound(ctx context.Context, stats RoundStats, total int) {
	l.InfoContext(ctx, "round committed",
		"round", stats.Round,
		"batch", stats.Batch,
		"committed", stats.Committed,
		"rejected", stats.Rejected,
		"particles", total,
	)
}
