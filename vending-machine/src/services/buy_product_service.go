package services

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/muliswilliam/vending-machine/common/telemetry/metric"
	commontrace "github.com/muliswilliam/vending-machine/common/telemetry/trace"
	"github.com/muliswilliam/vending-machine/vending-machine/src/events"
	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
)

const outcomeSuccess = "success"

// BuyProduct runs one purchase. A refused purchase is a normal outcome, not an
// error: its change is exactly the inserted coins and no state is touched.
func (s *vendingMachineService) BuyProduct(ctx context.Context, slot int, inserted models.CoinBag) (outcome models.PurchaseOutcome) {
	mc := metric.StartMetricsTimer(layer, "BuyProduct")
	ctx, span := commontrace.StartSpan(ctx,
		attribute.Int("product.slot", slot),
		attribute.Int("coins.inserted", inserted.Count()),
		attribute.String("coins.inserted_total", inserted.FormatTotal()),
	)
	defer func() {
		label := outcomeSuccess
		if !outcome.Success {
			label = string(outcome.Reason)
		}
		span.SetAttributes(attribute.String(metric.AttrOutcome, label))
		commontrace.EndSpan(span, nil)
		mc.End(ctx, nil, attribute.String(metric.AttrOutcome, label))
		if s.metrics != nil {
			s.metrics.RecordPurchase(ctx, label, attribute.Int(metric.AttrProductSlot, slot))
		}
	}()

	inserted = inserted.Clone()
	outcome, sale := s.buyLocked(ctx, slot, inserted)
	if !outcome.Success {
		s.logger.InfoContext(ctx, "Purchase refused", slog.Int("slot", slot), slog.String("reason", string(outcome.Reason)))
		return outcome
	}

	s.logger.InfoContext(ctx, "Purchase completed",
		slog.Int("slot", slot),
		slog.String("product_name", sale.ProductName),
		slog.String("paid", inserted.FormatTotal()),
		slog.String("change", outcome.Change.FormatTotal()))

	if s.metrics != nil {
		s.metrics.RecordSale(ctx, sale.ProductName, sale.Price.Float64(), int64(outcome.Change.Count()))
	}
	if err := s.publisher.PublishSale(ctx, sale); err != nil {
		span.AddEvent("sale_event_publish_failed", trace.WithAttributes(attribute.String("error", err.Error())))
		s.logger.ErrorContext(ctx, "Failed to publish sale event", slog.String("event_id", sale.ID), slog.Any("error", err))
	}
	return outcome
}

// buyLocked performs the checks and the commit under the machine write lock.
func (s *vendingMachineService) buyLocked(ctx context.Context, slot int, inserted models.CoinBag) (models.PurchaseOutcome, events.SaleRecorded) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for d := range inserted {
		if !s.coins.IsAccepted(d) {
			s.logger.DebugContext(ctx, "Inserted coin not accepted", slog.String("denomination", d.String()))
			return models.Refused(models.CoinsNotAccepted, inserted), events.SaleRecorded{}
		}
	}

	// The machine cannot hold a payment whose value, alone or added to the
	// coins already held, does not fit in an Amount.
	held := s.coins.Total(ctx)
	paid, err := inserted.Total()
	if err == nil {
		_, err = held.Plus(paid)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Inserted coins out of range", slog.Any("error", err))
		return models.Refused(models.CoinsNotAccepted, inserted), events.SaleRecorded{}
	}

	product, ok := s.catalog.FindOne(ctx, slot)
	if !ok || product.Quantity <= 0 {
		return models.Refused(models.ProductNotFound, inserted), events.SaleRecorded{}
	}

	if paid < product.Price {
		return models.Refused(models.InsufficientMoneyInserted, inserted), events.SaleRecorded{}
	}

	due := paid - product.Price
	if due > held {
		return models.Refused(models.InsufficientChange, inserted), events.SaleRecorded{}
	}

	change, ok := MakeChange(due, s.coins.Accepted(ctx), s.coins.Count)
	if !ok {
		return models.Refused(models.InsufficientCoinsToReturnChange, inserted), events.SaleRecorded{}
	}

	remaining := product.Quantity - 1
	stored, err := s.catalog.Update(ctx, slot, models.ProductPatch{Quantity: &remaining})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to decrement product stock", slog.Int("slot", slot), slog.Any("error", err))
		return models.Refused(models.ProductNotFound, inserted), events.SaleRecorded{}
	}
	if err := s.coins.Transfer(ctx, inserted, change); err != nil {
		// MakeChange only takes coins that Count reports, so this means the
		// inventory changed outside the machine lock. Put the product back.
		s.logger.ErrorContext(ctx, "Failed to move coins", slog.Int("slot", slot), slog.Any("error", err))
		restore := product.Quantity
		if _, restoreErr := s.catalog.Update(ctx, slot, models.ProductPatch{Quantity: &restore}); restoreErr != nil {
			s.logger.ErrorContext(ctx, "Failed to restore product stock",
				slog.Int("slot", slot), slog.Int("quantity", restore), slog.Any("error", restoreErr))
		}
		return models.Refused(models.InsufficientCoinsToReturnChange, inserted), events.SaleRecorded{}
	}

	return models.Dispensed(stored, change), events.NewSaleRecorded(stored, inserted, change)
}
