package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes sale events to the service log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With(slog.String("component", "sale_events"))}
}

func (p *LogPublisher) PublishSale(ctx context.Context, event SaleRecorded) error {
	p.logger.InfoContext(ctx, "Sale recorded",
		slog.String("event_id", event.ID),
		slog.Int("slot", event.Slot),
		slog.String("product_name", event.ProductName),
		slog.String("price", event.Price.String()),
		slog.String("inserted", event.Inserted.FormatTotal()),
		slog.String("change", event.Change.FormatTotal()),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
