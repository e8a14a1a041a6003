package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/host"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/muliswilliam/vending-machine/common/config"
	"github.com/muliswilliam/vending-machine/common/telemetry/exporter"
	"github.com/muliswilliam/vending-machine/common/telemetry/resource"
)

// ShutdownFunc flushes and stops every provider created by InitTelemetry.
type ShutdownFunc func(context.Context) error

// stoppers shuts providers down in reverse order of installation.
type stoppers []func(context.Context) error

func (s *stoppers) shutdown(ctx context.Context) error {
	var errs error
	for i := len(*s) - 1; i >= 0; i-- {
		errs = errors.Join(errs, (*s)[i](ctx))
	}
	*s = nil
	return errs
}

// InitTelemetry installs the W3C trace-context and baggage propagator. With
// cfg.OtelEnabled it also installs OTLP/gRPC backed tracer, meter and logger
// providers and starts runtime and host metrics. On failure everything
// already installed is shut down before the error is returned.
func InitTelemetry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	var installed stoppers
	if !cfg.OtelEnabled {
		logger.Info("Telemetry export disabled")
		return installed.shutdown, nil
	}

	if err := install(ctx, cfg, &installed); err != nil {
		logger.Error("OpenTelemetry SDK initialization failed", slog.Any("error", err))
		if cleanupErr := installed.shutdown(context.Background()); cleanupErr != nil {
			logger.Error("Partial OpenTelemetry SDK did not shut down cleanly", slog.Any("error", cleanupErr))
		}
		return nil, err
	}

	logger.Info("OpenTelemetry SDK initialized",
		slog.String("endpoint", cfg.OtelEndpoint),
		slog.Float64("sample_ratio", cfg.OtelSampleRatio),
	)
	return installed.shutdown, nil
}

func install(ctx context.Context, cfg *config.Config, installed *stoppers) error {
	res, err := resource.NewResource(ctx, cfg)
	if err != nil {
		return err
	}
	for _, step := range []func(context.Context, *config.Config, *sdkresource.Resource) (func(context.Context) error, error){
		installTracing,
		installMetrics,
		installLogs,
	} {
		stop, err := step(ctx, cfg, res)
		if err != nil {
			return err
		}
		*installed = append(*installed, stop)
	}

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
		return fmt.Errorf("starting runtime instrumentation: %w", err)
	}
	if err := host.Start(); err != nil {
		return fmt.Errorf("starting host instrumentation: %w", err)
	}
	return nil
}

func installTracing(ctx context.Context, cfg *config.Config, res *sdkresource.Resource) (func(context.Context) error, error) {
	exp, err := exporter.NewTraceExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.OtelSampleRatio))),
		sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(cfg.OtelBatchTimeout)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func installMetrics(ctx context.Context, cfg *config.Config, res *sdkresource.Resource) (func(context.Context) error, error) {
	exp, err := exporter.NewMetricExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(cfg.OtelMetricInterval))),
	)
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

func installLogs(ctx context.Context, cfg *config.Config, res *sdkresource.Resource) (func(context.Context) error, error) {
	exp, err := exporter.NewLogExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exp, sdklog.WithExportTimeout(cfg.OtelBatchTimeout))),
	)
	global.SetLoggerProvider(lp)
	return lp.Shutdown, nil
}
