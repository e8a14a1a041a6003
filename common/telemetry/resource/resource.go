package resource

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/muliswilliam/vending-machine/common/config"
)

const serviceNamespace = "vending"

// NewResource identifies this machine's telemetry. OTEL_RESOURCE_ATTRIBUTES
// can add to it but the service attributes from cfg take precedence.
func NewResource(ctx context.Context, cfg *config.Config) (*resource.Resource, error) {
	detected, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithHost(),
		resource.WithOS(),
		resource.WithProcessRuntimeName(),
		resource.WithProcessRuntimeVersion(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("detecting resource: %w", err)
	}

	service := resource.NewSchemaless(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.ServiceNamespace(serviceNamespace),
		semconv.DeploymentEnvironment(cfg.Environment),
	)
	merged, err := resource.Merge(detected, service)
	if err != nil {
		return nil, fmt.Errorf("merging resource: %w", err)
	}
	return merged, nil
}
