package logging

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/muliswilliam/vending-machine/common/config"
)

func formatter(format string) logrus.Formatter {
	if format == "json" {
		return &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	}
	return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339Nano}
}

// SetupLogrus builds the logrus logger for the HTTP access log and shutdown
// sequence, and applies the same level, format and output to the logrus
// standard logger. Entries are bridged to OpenTelemetry when export is on.
func SetupLogrus(cfg *config.Config, out io.Writer) *logrus.Logger {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}

	logger := &logrus.Logger{
		Out:       out,
		Formatter: formatter(cfg.LogFormat),
		Hooks:     make(logrus.LevelHooks),
		Level:     level,
		ExitFunc:  logrus.StandardLogger().ExitFunc,
	}
	if cfg.OtelEnabled {
		logger.AddHook(NewOtelHook())
	}

	std := logrus.StandardLogger()
	std.SetOutput(out)
	std.SetFormatter(logger.Formatter)
	std.SetLevel(level)

	if err != nil {
		logger.WithError(err).Warnf("Unknown log level %q, using info", cfg.LogLevel)
	}
	return logger
}
