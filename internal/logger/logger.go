// Package logger initializes the process-wide [slog] logger,
// and provides a fatal-error helper on top of it.
package logger

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/lmittmann/tint"
)

// Init sets the default [slog] logger: human-readable console output in
// pretty mode, JSON lines otherwise. Logs are written to stderr either
// way, so stdout stays clean for workflow command annotations.
func Init(pretty bool) {
	var h slog.Handler
	if pretty {
		h = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: "15:04:05.000",
		})
	} else {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	slog.SetDefault(slog.New(h))
}

// Fatal logs an unrecoverable error with the caller's
// source location, and terminates the process.
func Fatal(msg string, err error, attrs ...slog.Attr) {
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:]) // Discard wrapper frames (Callers, Fatal).

	r := slog.NewRecord(time.Now(), slog.LevelError, msg, pcs[0])
	if err != nil {
		r.AddAttrs(slog.Any("error", err))
	}
	r.AddAttrs(attrs...)

	_ = slog.Default().Handler().Handle(context.Background(), r)
	os.Exit(1)
}
