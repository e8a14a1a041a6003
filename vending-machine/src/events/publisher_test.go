package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	commonlog "github.com/muliswilliam/vending-machine/common/log"
	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func sampleSale() SaleRecorded {
	product := models.Product{Slot: 1, Name: "Coke", Price: 2500, Quantity: 9}
	return NewSaleRecorded(product,
		models.CoinBag{models.MustDenomination(20): 2},
		models.CoinBag{models.MustDenomination(10): 1, models.MustDenomination(5): 1})
}

func TestKafkaPublisherWritesMessage(t *testing.T) {
	previous := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(previous) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	writer := &fakeWriter{}
	pub := NewKafkaPublisherWithWriter(writer, "vending-machine.sales", commonlog.Discard())
	sale := sampleSale()

	require.NoError(t, pub.PublishSale(ctx, sale))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "1", string(msg.Key))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "SaleRecorded", headers["event-type"])
	assert.Contains(t, headers["traceparent"], "4bf92f3577b34da6a3ce929d0e0e4736")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, sale.ID, decoded["id"])
	assert.Equal(t, "Coke", decoded["productName"])
	assert.EqualValues(t, 25, decoded["price"])
	assert.Equal(t, map[string]any{"20": float64(2)}, decoded["inserted"])

	require.NoError(t, pub.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("broker unreachable")
	pub := NewKafkaPublisherWithWriter(&fakeWriter{err: boom}, "sales", commonlog.Discard())

	err := pub.PublishSale(context.Background(), sampleSale())
	assert.ErrorIs(t, err, boom)
}

func TestLogPublisher(t *testing.T) {
	pub := NewLogPublisher(commonlog.Discard())
	assert.NoError(t, pub.PublishSale(context.Background(), sampleSale()))
	assert.NoError(t, pub.Close())
}

func TestNewSaleRecordedAssignsID(t *testing.T) {
	a, b := sampleSale(), sampleSale()
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.OccurredAt.IsZero())
}
