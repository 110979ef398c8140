package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// PrettyHandler writes one line per record, for reading logs in a terminal.
// Lines are colored only when out is a terminal and NO_COLOR is unset.
type PrettyHandler struct {
	opts    slog.HandlerOptions
	mu      *sync.Mutex
	out     io.Writer
	colored bool
	attrs   []slog.Attr
	prefix  string
}

// NewPrettyHandler creates a PrettyHandler writing to out. A nil opts logs at INFO.
func NewPrettyHandler(out io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	h := &PrettyHandler{mu: &sync.Mutex{}, out: out, colored: isTerminal(out)}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func isTerminal(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (h *PrettyHandler) paint(s string, attr color.Attribute) string {
	if !h.colored {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minimum := slog.LevelInfo
	if h.opts.Level != nil {
		minimum = h.opts.Level.Level()
	}
	return level >= minimum
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(r.Time.Format("[15:04:05.000] "))
	b.WriteString(h.levelString(r.Level))
	b.WriteByte(' ')
	b.WriteString(h.paint(r.Message, color.FgCyan))

	write := func(key string, v slog.Value) {
		fmt.Fprintf(&b, " %s=%v", h.paint(key, color.FgWhite), v.Resolve().Any())
	}
	// Stored attrs already carry their group prefix.
	for _, a := range h.attrs {
		write(a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		if !a.Equal(slog.Attr{}) {
			write(h.prefix+a.Key, a.Value)
		}
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *PrettyHandler) levelString(level slog.Level) string {
	s := level.String() + ":"
	switch {
	case level >= slog.LevelError:
		return h.paint(s, color.FgRed)
	case level >= slog.LevelWarn:
		return h.paint(s, color.FgYellow)
	case level >= slog.LevelInfo:
		return h.paint(s, color.FgBlue)
	default:
		return h.paint(s, color.FgMagenta)
	}
}
