package config

// Option overrides part of a Config built by NewConfig.
type Option func(*Config)

// WithLogging sets the minimum level and the output format ("text" or "json").
func WithLogging(level, format string) Option {
	return func(c *Config) {
		c.LogLevel, c.LogFormat = level, format
	}
}

// WithTelemetry turns the OTLP exporters on against endpoint.
func WithTelemetry(endpoint string, sampleRatio float64) Option {
	return func(c *Config) {
		c.OtelEnabled = true
		c.OtelEndpoint = endpoint
		c.OtelSampleRatio = sampleRatio
	}
}

// WithKafka routes sale events to topic on brokers.
func WithKafka(brokers []string, topic string) Option {
	return func(c *Config) {
		c.KafkaBrokers = brokers
		c.KafkaSalesTopic = topic
	}
}
