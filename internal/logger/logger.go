package logger

import (
	"io"
	"log/slog"
	"os"
)

const service = "finance-tracker"

func New(env string) *slog.Logger { return NewTo(os.Stdout, env) }

// NewTo writes JSON at info level in prod and text at debug level elsewhere.
func NewTo(w io.Writer, env string) *slog.Logger {
	var h slog.Handler
	if env == "prod" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(h).With("service", service, "env", env)
}
