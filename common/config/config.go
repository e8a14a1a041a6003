package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Minimal logger for the config loading phase, before logging.SetupLogrus runs.
var configLogger = logrus.New()

func init() {
	configLogger.SetOutput(os.Stderr)
	configLogger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	configLogger.SetLevel(logrus.InfoLevel)
}

const (
	envConfigFile             = "CONFIG_FILE"
	envServiceName            = "OTEL_SERVICE_NAME"
	envServiceVersion         = "SERVICE_VERSION"
	envEnvironment            = "ENVIRONMENT"
	envOtelEnabled            = "OTEL_ENABLED"
	envOtelExporterEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelExporterInsecure   = "OTEL_EXPORTER_INSECURE"
	envOtelSampleRatio        = "OTEL_SAMPLE_RATIO"
	envOtelBatchTimeoutMS     = "OTEL_BATCH_TIMEOUT_MS"
	envOtelMetricIntervalMS   = "OTEL_METRIC_EXPORT_INTERVAL_MS"
	envLogLevel               = "LOG_LEVEL"
	envLogFormat              = "LOG_FORMAT"
	envPort                   = "PORT"
	envDataFilePath           = "DATA_FILE_PATH"
	envShutdownTotalTimeout   = "SHUTDOWN_TOTAL_TIMEOUT_SEC"
	envShutdownServerTimeout  = "SHUTDOWN_SERVER_TIMEOUT_SEC"
	envShutdownOtelMinTimeout = "SHUTDOWN_OTEL_MIN_TIMEOUT_SEC"
	envKafkaBrokers           = "KAFKA_BROKERS"
	envKafkaSalesTopic        = "KAFKA_SALES_TOPIC"
)

var (
	allowedLogLevels  = []string{"debug", "info", "warn", "error"}
	allowedLogFormats = []string{"text", "json"}
)

// Config is the runtime configuration of the vending machine service.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	// OTLP export; when disabled the global no-op providers stay in place
	OtelEnabled        bool
	OtelEndpoint       string
	OtelInsecure       bool
	OtelSampleRatio    float64
	OtelBatchTimeout   time.Duration
	OtelMetricInterval time.Duration

	LogLevel  string
	LogFormat string

	Port         string
	DataFilePath string

	// Sale events; publishing goes to the log when no brokers are configured
	KafkaBrokers    []string
	KafkaSalesTopic string

	// Graceful shutdown budget, split between the HTTP server and the OTel flush
	ShutdownTotalTimeout   time.Duration
	ShutdownServerTimeout  time.Duration
	ShutdownOtelMinTimeout time.Duration
}

// NewConfig creates a new Config with the provided options applied over the defaults.
func NewConfig(opts ...Option) *Config {
	c := NewDefaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads the configuration from the environment and, when CONFIG_FILE
// is set, from that file. Environment variables win over file values.
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom is Load with a caller-supplied viper instance.
func LoadFrom(v *viper.Viper) (*Config, error) {
	d := NewDefaultConfig()
	defaults := map[string]any{
		envServiceName:            d.ServiceName,
		envServiceVersion:         d.ServiceVersion,
		envEnvironment:            d.Environment,
		envOtelEnabled:            d.OtelEnabled,
		envOtelExporterEndpoint:   d.OtelEndpoint,
		envOtelExporterInsecure:   d.OtelInsecure,
		envOtelSampleRatio:        d.OtelSampleRatio,
		envOtelBatchTimeoutMS:     d.OtelBatchTimeout.Milliseconds(),
		envOtelMetricIntervalMS:   d.OtelMetricInterval.Milliseconds(),
		envLogLevel:               d.LogLevel,
		envLogFormat:              d.LogFormat,
		envPort:                   d.Port,
		envDataFilePath:           d.DataFilePath,
		envKafkaBrokers:           "",
		envKafkaSalesTopic:        d.KafkaSalesTopic,
		envShutdownTotalTimeout:   int(d.ShutdownTotalTimeout.Seconds()),
		envShutdownServerTimeout:  int(d.ShutdownServerTimeout.Seconds()),
		envShutdownOtelMinTimeout: int(d.ShutdownOtelMinTimeout.Seconds()),
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if file := v.GetString(envConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
		configLogger.WithField("file", v.ConfigFileUsed()).Info("Config file loaded")
	}

	millis := func(key string) time.Duration { return time.Duration(v.GetInt64(key)) * time.Millisecond }
	seconds := func(key string) time.Duration { return time.Duration(v.GetInt(key)) * time.Second }

	cfg := &Config{
		ServiceName:            v.GetString(envServiceName),
		ServiceVersion:         v.GetString(envServiceVersion),
		Environment:            v.GetString(envEnvironment),
		OtelEnabled:            v.GetBool(envOtelEnabled),
		OtelEndpoint:           v.GetString(envOtelExporterEndpoint),
		OtelInsecure:           v.GetBool(envOtelExporterInsecure),
		OtelSampleRatio:        v.GetFloat64(envOtelSampleRatio),
		OtelBatchTimeout:       millis(envOtelBatchTimeoutMS),
		OtelMetricInterval:     millis(envOtelMetricIntervalMS),
		LogLevel:               strings.ToLower(v.GetString(envLogLevel)),
		LogFormat:              strings.ToLower(v.GetString(envLogFormat)),
		Port:                   v.GetString(envPort),
		DataFilePath:           v.GetString(envDataFilePath),
		KafkaBrokers:           splitList(v.GetString(envKafkaBrokers)),
		KafkaSalesTopic:        v.GetString(envKafkaSalesTopic),
		ShutdownTotalTimeout:   seconds(envShutdownTotalTimeout),
		ShutdownServerTimeout:  seconds(envShutdownServerTimeout),
		ShutdownOtelMinTimeout: seconds(envShutdownOtelMinTimeout),
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, err := range errs {
			configLogger.WithError(err).Error("Invalid configuration")
		}
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func splitList(raw string) []string {
	parts := lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(parts)
}

// Validate returns one error per rejected setting.
func (c *Config) Validate() []error {
	v := NewValidator()
	v.RequireNonEmpty("ServiceName", c.ServiceName)
	v.RequireNonEmpty("ServiceVersion", c.ServiceVersion)
	v.RequireOneOf("LogLevel", c.LogLevel, allowedLogLevels)
	v.RequireOneOf("LogFormat", c.LogFormat, allowedLogFormats)

	port, err := strconv.Atoi(c.Port)
	v.Check(err == nil, "Port", "must be a valid integer")
	if err == nil {
		RequireInRange(v, "Port", port, 1, 65535)
	}

	if c.OtelEnabled {
		v.RequireNonEmpty("OtelEndpoint", c.OtelEndpoint)
		RequireInRange(v, "OtelSampleRatio", c.OtelSampleRatio, 0, 1)
	}
	if len(c.KafkaBrokers) > 0 {
		v.RequireNonEmpty("KafkaSalesTopic", c.KafkaSalesTopic)
	}
	v.Check(c.ShutdownServerTimeout <= c.ShutdownTotalTimeout,
		"ShutdownServerTimeout", "cannot exceed ShutdownTotalTimeout")

	return v.Errors()
}

// Log writes the effective configuration at info level.
func (c *Config) Log() {
	logrus.WithFields(logrus.Fields{
		"service_name":      c.ServiceName,
		"service_version":   c.ServiceVersion,
		"environment":       c.Environment,
		"otel_enabled":      c.OtelEnabled,
		"otel_endpoint":     c.OtelEndpoint,
		"otel_insecure":     c.OtelInsecure,
		"otel_sample_ratio": c.OtelSampleRatio,
		"log_level":         c.LogLevel,
		"log_format":        c.LogFormat,
		"port":              c.Port,
		"data_file_path":    c.DataFilePath,
		"kafka_brokers":     c.KafkaBrokers,
		"kafka_sales_topic": c.KafkaSalesTopic,
		"shutdown_total":    c.ShutdownTotalTimeout,
		"shutdown_server":   c.ShutdownServerTimeout,
		"shutdown_otel":     c.ShutdownOtelMinTimeout,
	}).Info("Configuration loaded")
}
