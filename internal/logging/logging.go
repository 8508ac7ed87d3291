package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/navikt/hm-oppgave-sink/internal/config"
)

const (
	secureLogMaxSizeMB  = 50
	secureLogMaxBackups = 3
	secureLogMaxAgeDays = 7
)

// New returns the operational logger. It never receives national ids or full
// payloads; those go to the secure logger.
func New(cfg config.LogConfig) *slog.Logger {
	return slog.New(newHandler(os.Stdout, cfg))
}

// NewSecure returns the restricted logger and a closer for its sink. Without
// SECURE_LOG_PATH it writes to stdout, which is only acceptable locally.
func NewSecure(cfg config.LogConfig) (*slog.Logger, io.Closer) {
	if cfg.SecureLogPath == "" {
		logger := slog.New(newHandler(os.Stdout, cfg)).With("log", "secure")
		return logger, io.NopCloser(nil)
	}

	sink := &lumberjack.Logger{
		Filename:   cfg.SecureLogPath,
		MaxSize:    secureLogMaxSizeMB,
		MaxBackups: secureLogMaxBackups,
		MaxAge:     secureLogMaxAgeDays,
	}
	return slog.New(newHandler(sink, cfg)), sink
}

func newHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
