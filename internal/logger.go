package internal

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// NewLogger builds the process logger: JSON by default, coloured console
// output when the format is "text".
func NewLogger(cfg ApplicationConfig, w io.Writer) *slog.Logger {
	if cfg.LogFormat == LogFormatText {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			TimeFormat: "[15:04:05.000]",
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
}
