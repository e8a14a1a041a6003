package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	commontrace "github.com/muliswilliam/vending-machine/common/telemetry/trace"
)

// MessageWriter is the subset of *kafka.Writer used by KafkaPublisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher sends sale events as JSON, keyed by slot, with the W3C trace
// context of the purchase carried in message headers.
type KafkaPublisher struct {
	writer MessageWriter
	topic  string
	logger *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return NewKafkaPublisherWithWriter(writer, topic, logger)
}

func NewKafkaPublisherWithWriter(writer MessageWriter, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		topic:  topic,
		logger: logger.With(slog.String("component", "sale_events"), slog.String("topic", topic)),
	}
}

func (p *KafkaPublisher) PublishSale(ctx context.Context, event SaleRecorded) (err error) {
	ctx, span := commontrace.StartProducerSpan(ctx, p.topic,
		semconv.MessagingSystemKafka,
		attribute.String("sale.id", event.ID),
	)
	defer commontrace.EndSpan(span, &err)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding sale event %s: %w", event.ID, err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := make([]kafka.Header, 0, len(carrier)+1)
	headers = append(headers, kafka.Header{Key: "event-type", Value: []byte("SaleRecorded")})
	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	msg := kafka.Message{
		Key:     []byte(strconv.Itoa(event.Slot)),
		Value:   payload,
		Headers: headers,
		Time:    event.OccurredAt,
	}
	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish sale event", slog.String("event_id", event.ID), slog.Any("error", err))
		return fmt.Errorf("publishing sale event %s: %w", event.ID, err)
	}

	p.logger.DebugContext(ctx, "Sale event published", slog.String("event_id", event.ID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
