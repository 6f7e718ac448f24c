package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/pdfedit/wintools/internal/fsh"
)

const (
	LogFile   = ".wintools.log"
	LogEnvVar = "WINTOOLS_LOG_FILE"
)

// setupLogger configures a logger that writes structured logs to a file in dir
// and clean, human-readable logs to the console. When the file cannot be opened
// the logger still writes to the console and the error is returned.
func setupLogger(stderr io.Writer, logLevel *slog.LevelVar, env fsh.EnvProvider, dir string,
) (*slog.Logger, io.Closer, error) {
	// 1. Determine log file path
	logPath := env.Get(LogEnvVar)
	if logPath == "" {
		logPath = filepath.Join(dir, LogFile)
	}

	// 2. Open log file
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	var logCloser io.Closer
	var fileHandler slog.Handler

	if err == nil {
		logCloser = f
		fileHandler = slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: slog.LevelDebug, // File always gets full debug info
		})
	}

	// 3. Create console handler
	consoleHandler := &consoleHandler{
		w:     stderr,
		level: logLevel,
	}

	// 4. Combine handlers
	var handlers []slog.Handler
	if fileHandler != nil {
		handlers = append(handlers, fileHandler)
	}
	handlers = append(handlers, consoleHandler)

	multi := &multiHandler{
		handlers: handlers,
	}

	return slog.New(multi), logCloser, err
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// consoleHandler writes one plain line per record. Loggers built with a
// "component" attribute (pack, sln, vcproj, watcher) get a "[component]" prefix
// on warnings and errors, and on every line at debug level. Other attributes are
// only shown at debug level, except "error" and "source".
type consoleHandler struct {
	w         io.Writer
	level     *slog.LevelVar
	component string
	attrs     []slog.Attr
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

func (c *consoleHandler) debug() bool {
	return c.level.Level() <= slog.LevelDebug
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	msg := record.Message
	if c.component != "" && (record.Level >= slog.LevelWarn || c.debug()) {
		msg = "[" + c.component + "] " + msg
	}
	switch {
	case record.Level >= slog.LevelError:
		fmt.Fprintf(c.w, "Error: %s", msg)
	case record.Level >= slog.LevelWarn:
		fmt.Fprintf(c.w, "Warning: %s", msg)
	default:
		fmt.Fprint(c.w, msg)
	}

	for _, a := range c.attrs {
		c.formatAttr(a)
	}
	record.Attrs(func(a slog.Attr) bool {
		c.formatAttr(a)
		return true
	})

	fmt.Fprintln(c.w)
	return nil
}

func (c *consoleHandler) formatAttr(a slog.Attr) {
	switch {
	case a.Key == "error" || a.Key == "err":
		fmt.Fprintf(c.w, ": %v", a.Value)
	case a.Key == "source":
		// The tool source that triggered a watch run.
		fmt.Fprintf(c.w, " %v", a.Value)
	case c.debug():
		fmt.Fprintf(c.w, " %s=%v", a.Key, a.Value)
	}
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h := &consoleHandler{
		w:         c.w,
		level:     c.level,
		component: c.component,
		attrs:     slices.Clip(c.attrs),
	}
	for _, a := range attrs {
		if a.Key == "component" {
			h.component = a.Value.String()
			continue
		}
		h.attrs = append(h.attrs, a)
	}
	return h
}

func (c *consoleHandler) WithGroup(_ string) slog.Handler {
	// Groups are flattened on the console.
	return c
}
