package contactgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with contactgo-specific context.
// This provides structured logging with consistent field names.
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
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithRadius adds the distance threshold field to the logger.
func (l *Logger) WithRadius(radius float64) *Logger {
	return &Logger{Logger: l.Logger.With("radius", radius)}
}

// WithMolecule adds a molecule identifier field to the logger.
func (l *Logger) WithMolecule(id string) *Logger {
	return &Logger{Logger: l.Logger.With("molecule", id)}
}

// LogCalculate logs a contact-map calculation.
func (l *Logger) LogCalculate(ctx context.Context, rows, cols int, radius float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "calculate failed",
			"rows", rows,
			"cols", cols,
			"radius", radius,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "calculate completed",
			"rows", rows,
			"cols", cols,
			"radius", radius,
		)
	}
}

// LogMaterialize logs a bond materialization pass.
func (l *Logger) LogMaterialize(ctx context.Context, bonds int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "bond materialization failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "bond materialization completed",
			"bonds", bonds,
		)
	}
}

// LogSnapshot logs a snapshot save.
func (l *Logger) LogSnapshot(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"name", name,
		)
	}
}

// LogLoad logs a snapshot load.
func (l *Logger) LogLoad(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot loaded",
			"name", name,
		)
	}
}
