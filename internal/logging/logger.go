package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"nagctl/internal/config"
)

// LevelTrace sits below debug and is used for per-file read messages.
const LevelTrace = slog.LevelDebug - 4

// Options adjusts sinks from command-line state.
// Params: console destination, color toggle, and optional verbosity override.
// Returns: logger construction options.
type Options struct {
	Console   io.Writer
	Color     bool
	Verbosity *int
}

// New builds a logger for configured sinks and returns a cleanup function.
// Params: cfg contains console/file sink settings; opts carries CLI overrides.
// Returns: slog logger, cleanup callback, and setup error.
func New(cfg config.LogConfig, opts Options) (*slog.Logger, func(), error) {
	var (
		handlers []slog.Handler
		closers  []io.Closer
	)

	if cfg.Console.IsEnabled() {
		handler, err := buildConsoleHandler(cfg.Console, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("build console handler: %w", err)
		}
		handlers = append(handlers, handler)
	}

	if cfg.File.IsEnabled() {
		handler, closer, err := buildFileHandler(cfg.File)
		if err != nil {
			return nil, nil, fmt.Errorf("build file handler: %w", err)
		}
		handlers = append(handlers, handler)
		closers = append(closers, closer)
	}

	closeFn := func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.NewTextHandler(io.Discard, nil)), closeFn, nil
	case 1:
		return slog.New(handlers[0]), closeFn, nil
	default:
		return slog.New(teeHandler{handlers: handlers}), closeFn, nil
	}
}

// LevelForVerbosity maps the -v count to a console level.
// Params: verbosity count (1 is the default, dry-run adds one).
// Returns: 0 warn, 1 info, 2 debug, 3+ trace.
func LevelForVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	case verbosity == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// ShouldColor reports whether console output may carry ANSI colors.
// Params: destination file and the --no-color flag.
// Returns: true for terminals when NO_COLOR is unset and colors are not disabled.
func ShouldColor(dst *os.File, noColor bool) bool {
	if noColor || dst == nil {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return term.IsTerminal(int(dst.Fd()))
}

// buildConsoleHandler creates a console sink handler.
// Params: sink contains level and format; opts selects writer, color and verbosity.
// Returns: configured slog handler or error.
func buildConsoleHandler(sink config.LogSinkConfig, opts Options) (slog.Handler, error) {
	level, err := parseLevel(sink.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbosity != nil {
		level = LevelForVerbosity(*opts.Verbosity)
	}

	dst := opts.Console
	if dst == nil {
		dst = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return renameLevel(attr)
		},
	}

	switch sink.Format {
	case "line":
		if opts.Color {
			dst = &colorLineWriter{dst: dst}
		}
		return slog.NewTextHandler(dst, handlerOpts), nil
	case "json":
		return slog.NewJSONHandler(dst, handlerOpts), nil
	default:
		return nil, fmt.Errorf("unsupported console format %q", sink.Format)
	}
}

// buildFileHandler creates a file sink handler.
// Params: sink contains path, level, and format.
// Returns: handler, file closer, and error.
func buildFileHandler(sink config.LogSinkConfig) (slog.Handler, io.Closer, error) {
	level, err := parseLevel(sink.Level)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.OpenFile(sink.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open file %q: %w", sink.Path, err)
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			return renameLevel(attr)
		},
	}
	switch sink.Format {
	case "line":
		return slog.NewTextHandler(file, opts), file, nil
	case "json":
		return slog.NewJSONHandler(file, opts), file, nil
	default:
		_ = file.Close()
		return nil, nil, fmt.Errorf("unsupported file format %q", sink.Format)
	}
}

func renameLevel(attr slog.Attr) slog.Attr {
	if attr.Key != slog.LevelKey {
		return attr
	}
	if level, ok := attr.Value.Any().(slog.Level); ok && level <= LevelTrace {
		return slog.String(slog.LevelKey, "TRACE")
	}
	return attr
}

// parseLevel converts configuration level into slog.Level.
// Params: value is lower-case log level name.
// Returns: slog level or error.
func parseLevel(value string) (slog.Level, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unsupported level %q", value)
	}
}

// teeHandler fan-outs one record to multiple handlers.
// Params: handlers list to call.
// Returns: composed handler behavior.
type teeHandler struct {
	handlers []slog.Handler
}

// Enabled checks if at least one downstream handler is enabled.
func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range t.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle forwards the record to all enabled downstream handlers.
// Params: ctx context and record to write.
// Returns: first error if any sink fails.
func (t teeHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range t.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}

		if err := handler.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

// WithAttrs applies attrs to each downstream handler.
func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, 0, len(t.handlers))
	for _, handler := range t.handlers {
		next = append(next, handler.WithAttrs(attrs))
	}
	return teeHandler{handlers: next}
}

// WithGroup applies group to each downstream handler.
func (t teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, 0, len(t.handlers))
	for _, handler := range t.handlers {
		next = append(next, handler.WithGroup(name))
	}
	return teeHandler{handlers: next}
}

// colorLineWriter wraps console line logs with level-based color.
type colorLineWriter struct {
	dst io.Writer
}

// Write colors one line according to its level marker.
// Params: payload is rendered slog line.
// Returns: bytes written or write error.
func (w *colorLineWriter) Write(payload []byte) (int, error) {
	tone := levelColor(string(payload))
	if tone == nil {
		return w.dst.Write(payload)
	}

	line := strings.TrimSuffix(string(payload), "\n")
	rendered := tone.Sprint(line) + "\n"
	n, err := io.WriteString(w.dst, rendered)
	if n > len(payload) {
		n = len(payload)
	}
	return n, err
}

var (
	traceTone = colored(color.FgHiBlack)
	debugTone = colored(color.FgHiBlack)
	infoTone  = colored(color.FgBlue)
	warnTone  = colored(color.FgYellow)
	errorTone = colored(color.FgRed)
)

func colored(attr color.Attribute) *color.Color {
	tone := color.New(attr)
	tone.EnableColor()
	return tone
}

// levelColor maps rendered level token to a color.
// Params: line is one rendered slog line.
// Returns: color or nil when the line has no known level.
func levelColor(line string) *color.Color {
	switch {
	case strings.Contains(line, "level=TRACE"):
		return traceTone
	case strings.Contains(line, "level=DEBUG"):
		return debugTone
	case strings.Contains(line, "level=INFO"):
		return infoTone
	case strings.Contains(line, "level=WARN"):
		return warnTone
	case strings.Contains(line, "level=ERROR"):
		return errorTone
	default:
		return nil
	}
}
