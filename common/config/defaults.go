package config

import "time"

const (
	defaultServiceName = "vending-machine"
	defaultPort        = "3000"
	defaultSeedFile    = "vending-machine/data.json"
	defaultSalesTopic  = "vending-machine.sales"
)

// NewDefaultConfig returns the settings used for a local run: text logs at
// info, telemetry off and sale events written to the log.
func NewDefaultConfig() *Config {
	return &Config{
		ServiceName:    defaultServiceName,
		ServiceVersion: "dev",
		Environment:    "development",

		OtelEndpoint:       "localhost:4317",
		OtelInsecure:       true,
		OtelSampleRatio:    1,
		OtelBatchTimeout:   5 * time.Second,
		OtelMetricInterval: 15 * time.Second,

		LogLevel:  "info",
		LogFormat: "text",

		Port:            defaultPort,
		DataFilePath:    defaultSeedFile,
		KafkaSalesTopic: defaultSalesTopic,

		ShutdownTotalTimeout:   30 * time.Second,
		ShutdownServerTimeout:  10 * time.Second,
		ShutdownOtelMinTimeout: 5 * time.Second,
	}
}
