package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// New creates the application logger.
// Human readable records go to Stderr so they do not mix with the progress output on Stdout;
// every extra writer receives the same records as JSON lines.
func New(level slog.Level, extra ...io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}
	handlers := []slog.Handler{slog.NewTextHandler(os.Stderr, opts)}
	for _, w := range extra {
		handlers = append(handlers, slog.NewJSONHandler(w, opts))
	}
	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// replaceAttr standardizes the 'error' key to 'err'.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}
