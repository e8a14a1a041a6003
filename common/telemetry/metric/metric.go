package metric

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
)

const operationInstrumentationName = "github.com/muliswilliam/vending-machine/operations"

// operationInstruments are created on first use.
type operationInstruments struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

var (
	instrumentsOnce sync.Once
	instruments     operationInstruments
)

func operations() operationInstruments {
	instrumentsOnce.Do(func() {
		meter := otel.Meter(operationInstrumentationName)
		instruments.calls, _ = meter.Int64Counter("vending.operation.calls",
			metric.WithDescription("Operations run by layer, operation and error code"),
			metric.WithUnit("{call}"))
		instruments.duration, _ = meter.Float64Histogram("vending.operation.duration",
			metric.WithDescription("Operation latency"),
			metric.WithUnit("ms"))
	})
	return instruments
}

// Timer measures one call of a handler, service or repository operation.
type Timer struct {
	start     time.Time
	layer     string
	operation string
}

func StartMetricsTimer(layer, operation string) *Timer {
	return &Timer{start: time.Now(), layer: layer, operation: operation}
}

// End records the call. A failed call is tagged with its error code, or
// "internal" when the error is not an *apierrors.AppError.
func (t *Timer) End(ctx context.Context, errp *error, attrs ...attribute.KeyValue) {
	elapsed := float64(time.Since(t.start).Microseconds()) / 1000

	errorCode := ""
	if errp != nil && *errp != nil {
		errorCode = "internal"
		var appErr *apierrors.AppError
		if errors.As(*errp, &appErr) {
			errorCode = appErr.Code
		}
	}

	all := make([]attribute.KeyValue, 0, len(attrs)+3)
	all = append(all,
		attribute.String("vending.layer", t.layer),
		attribute.String("vending.operation", t.operation),
		attribute.String("error.type", errorCode),
	)
	opt := metric.WithAttributes(append(all, attrs...)...)

	ops := operations()
	ops.calls.Add(ctx, 1, opt)
	ops.duration.Record(ctx, elapsed, opt)
}
