package internal

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger: JSON lines, or charm's text handler
// for terminals.
func NewLogger(w io.Writer, cfg ApplicationConfig) *slog.Logger {
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		}))
	}
	return slog.New(log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           log.Level(cfg.LogLevel),
	}))
}
