package log

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/muliswilliam/vending-machine/common/config"
)

// ParseLevel maps a config log level onto slog. Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// Init builds the service logger and installs it as the slog default.
// Console output is tinted text or JSON depending on cfg.LogFormat; with
// telemetry enabled every record is also sent to the OTel log bridge.
func Init(cfg *config.Config, out io.Writer) *slog.Logger {
	level := ParseLevel(cfg.LogLevel)

	var console slog.Handler
	if strings.ToLower(cfg.LogFormat) == "json" {
		console = slog.NewJSONHandler(out, &slog.HandlerOptions{
			AddSource: true,
			Level:     level,
		})
	} else {
		console = tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	}

	handler := console
	if cfg.OtelEnabled {
		handler = slogmulti.Fanout(console, otelslog.NewHandler(cfg.ServiceName))
	}

	logger := slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)
	slog.SetDefault(logger)

	logger.Debug("Logger initialized", slog.String("level", level.String()), slog.Bool("otel_bridge", cfg.OtelEnabled))
	return logger
}

// Discard returns a logger that drops every record; used by tests and tools.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
