package trace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func dispenseProduct(ctx context.Context, fail bool) (err error) {
	_, span := StartSpan(ctx, attribute.Int("product.slot", 3))
	defer EndSpan(span, &err)
	if fail {
		err = errors.New("jammed")
	}
	return err
}

func TestStartSpanNamesSpanAfterCaller(t *testing.T) {
	recorder := withRecorder(t)

	require.NoError(t, dispenseProduct(context.Background(), false))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "dispenseProduct", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int("product.slot", 3))
}

func TestEndSpanRecordsError(t *testing.T) {
	recorder := withRecorder(t)

	require.Error(t, dispenseProduct(context.Background(), true))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "jammed", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestEndSpanLeavesBusinessRejectionsUnset(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartSpan(context.Background())
	err := error(apierrors.NewBusinessError(apierrors.ErrCodeProductNotFound, "Product not found", nil))
	EndSpan(span, &err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "rejected", spans[0].Events()[0].Name)
}

func TestStartProducerSpan(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartProducerSpan(context.Background(), "vending-machine.sales")
	EndSpan(span, nil)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "vending-machine.sales publish", spans[0].Name())
	assert.Equal(t, trace.SpanKindProducer, spans[0].SpanKind())
	assert.Contains(t, spans[0].Attributes(), attribute.String("messaging.destination.name", "vending-machine.sales"))
}
