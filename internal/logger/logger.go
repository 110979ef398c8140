package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/erazemk/cartconsole/internal/config"
)

// levelRouter is a slog.Handler that routes DEBUG/INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(ctx context.Context, level slog.Level) bool {
	return lr.stdout.Enabled(ctx, level)
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// Setup builds the logger for env and installs it as the slog default.
//
// local uses the pretty handler at debug level, colored only on a terminal.
// dev and prod route ERROR to stderr and everything else to stdout, as text
// (dev, debug level) or JSON (prod, info level). If logPath is non-empty, every
// level is also written to that file, without colors. The returned cleanup closes the file and is never nil.
func Setup(env, logPath string) (*slog.Logger, func(), error) {
	cleanup := func() {}

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	log := New(env, stdoutW, stderrW)
	slog.SetDefault(log)
	return log, cleanup, nil
}

// New builds the logger for env over the given writers without touching the default.
func New(env string, stdout, stderr io.Writer) *slog.Logger {
	switch env {
	case config.EnvLocal:
		return slog.New(NewPrettyHandler(stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvDev:
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		return slog.New(&levelRouter{
			stdout: slog.NewTextHandler(stdout, opts),
			stderr: slog.NewTextHandler(stderr, opts),
		})
	default:
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		return slog.New(&levelRouter{
			stdout: slog.NewJSONHandler(stdout, opts),
			stderr: slog.NewJSONHandler(stderr, opts),
		})
	}
}
