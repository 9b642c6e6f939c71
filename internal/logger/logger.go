// Package logger provides slog helpers for the app.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cinezuva/cinezuva/internal/env"
)

// LevelFatal logs and then exits when the logger was built with ExitOnLevel.
const LevelFatal = slog.Level(12)

// New returns a JSON logger in production and a text logger locally.
// Records at LevelFatal terminate the process.
func New(level slog.Level) *slog.Logger {
	return slog.New(&ExitOnLevel{
		lvl:     LevelFatal,
		exit:    os.Exit,
		Handler: newHandler(os.Stderr, level),
	})
}

func newHandler(w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource: env.Current == env.Production,
		Level:     level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelFatal {
					a.Value = slog.StringValue("FATAL")
				}
			}
			return a
		},
	}
	if env.Current == env.Production {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

type ExitOnLevel struct {
	lvl  slog.Level
	exit func(int)
	slog.Handler
}

//nolint:gocritic // slog.Handler requires Record by value.
func (h *ExitOnLevel) Handle(ctx context.Context, r slog.Record) error {
	err := h.Handler.Handle(ctx, r)
	if r.Level >= h.lvl {
		fmt.Fprintln(os.Stderr, "Level exit triggered")
		h.exit(1)
	}
	return err
}

func (h *ExitOnLevel) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ExitOnLevel{lvl: h.lvl, exit: h.exit, Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ExitOnLevel) WithGroup(name string) slog.Handler {
	return &ExitOnLevel{lvl: h.lvl, exit: h.exit, Handler: h.Handler.WithGroup(name)}
}

// Fatal logs msg at LevelFatal.
func Fatal(log *slog.Logger, msg string, args ...any) {
	log.Log(context.Background(), LevelFatal, msg, args...)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "nil")
	}
	return slog.String("err", err.Error())
}
