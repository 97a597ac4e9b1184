package utils

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type LoggerOptions struct {
	Service string
	Env     string
	Level   string
	Format  string // json or text
	File    string // optional, appended to
}

// NewLogger builds the process logger. The returned close func releases the
// log file when one was opened and is safe to call more than once.
func NewLogger(opts LoggerOptions) (*slog.Logger, func() error, error) {
	var (
		out     io.Writer = os.Stdout
		closeFn           = func() error { return nil }
	)
	if path := strings.TrimSpace(opts.File); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(os.Stdout, f)
		closed := false
		closeFn = func() error {
			if closed {
				return nil
			}
			closed = true
			if err := f.Sync(); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		}
	}
	return NewLoggerTo(out, opts), closeFn, nil
}

// NewLoggerTo writes to w; used by NewLogger and by tests.
func NewLoggerTo(w io.Writer, opts LoggerOptions) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	var h slog.Handler
	if strings.EqualFold(opts.Format, "text") {
		h = slog.NewTextHandler(w, hopts)
	} else {
		h = slog.NewJSONHandler(w, hopts)
	}
	l := slog.New(h)
	if opts.Service != "" {
		l = l.With("service", opts.Service)
	}
	if opts.Env != "" {
		l = l.With("env", opts.Env)
	}
	return l
}

// Discard is a logger for tests and optional collaborators.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogEvent prints a standardized line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(log *slog.Logger, requestID, module, action, message string) {
	if log == nil {
		return
	}
	log.Info(message,
		"module", strings.ToUpper(module),
		"action", action,
		"request_id", strings.TrimSpace(requestID),
	)
}
