// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"context"
	"log/slog"
	"time"
)

type sloggerKey struct{}

// Slogger returns the [slog.Logger] from the context, or [slog.Default]
// if none is set.
//
// This is useful for custom stage decorators that need access to the
// configured structured logger.
func Slogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(sloggerKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// WithSlogger returns a context carrying a specific [slog.Logger] for
// structured logging.
//
// The logger is used by [Logged] stages run with that context. If no
// logger is configured, [Logged] falls back to [slog.Default]. This is
// typically applied once to the context passed to [Run].
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	ctx := tracepipe.WithSlogger(context.Background(), logger)
//	result, err := tracepipe.Run(ctx, stages...)
func WithSlogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, sloggerKey{}, logger)
}

// Logged wraps a stage with structured logging that emits records when
// the stage starts and when its continuation resolves, including the
// elapsed duration and any fault.
//
// The stage's name and declared types are attached as attributes. The
// logger is retrieved from the context (set by [WithSlogger]), falling
// back to [slog.Default].
//
// Example:
//
//	tracepipe.Run(ctx,
//	    tracepipe.Logged(slog.LevelInfo, tracepipe.FromRawFile(path)),
//	    tracepipe.Logged(slog.LevelInfo, tracepipe.Decompress()),
//	)
//
// This emits records similar to:
//
//	{"level":"info","msg":"starting stage","stage":"reader: trace.gz"}
//	{"level":"info","msg":"finished stage","stage":"reader: trace.gz","duration_ms":3}
func Logged(level slog.Level, s Stage) Stage {
	return New(s.name, s.in, s.out, func(ctx context.Context, in any, done Continuation) {
		logger := Slogger(ctx)
		logger.Log(ctx, level, "starting stage",
			"stage", s.name, "input", s.in.String(), "output", s.out.String())
		start := time.Now()
		s.impl(ctx, in, func(out any, err error) {
			duration := time.Since(start)
			if err != nil {
				logger.Log(ctx, level, "stage faulted",
					"stage", s.name, "duration_ms", duration.Milliseconds(), "error", err.Error())
			} else {
				logger.Log(ctx, level, "finished stage",
					"stage", s.name, "duration_ms", duration.Milliseconds())
			}
			done(out, err)
		})
	})
}
