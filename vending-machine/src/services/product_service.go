package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
	"github.com/muliswilliam/vending-machine/common/telemetry/metric"
	commontrace "github.com/muliswilliam/vending-machine/common/telemetry/trace"
	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
	"github.com/muliswilliam/vending-machine/vending-machine/src/repositories"
)

const layer = "service"

func (s *productService) Create(ctx context.Context, name string, price models.Amount, quantity int) (product models.Product, appErr *apierrors.AppError) {
	mc := metric.StartMetricsTimer(layer, "CreateProduct")
	ctx, span := commontrace.StartSpan(ctx,
		attribute.String("product.name", name),
		attribute.String("product.price", price.String()),
		attribute.Int("product.quantity", quantity),
	)
	defer func() {
		var telemetryErr error
		if appErr != nil {
			telemetryErr = appErr
		}
		commontrace.EndSpan(span, &telemetryErr)
		mc.End(ctx, &telemetryErr)
	}()

	s.lock.Lock()
	defer s.lock.Unlock()

	product, err := s.catalog.Create(ctx, name, price, quantity)
	if err != nil {
		appErr = catalogError(err, fmt.Sprintf("Product '%s' already exists", name))
		s.logger.WarnContext(ctx, "Product creation rejected", slog.String("product_name", name), slog.String("error_code", appErr.Code))
		return models.Product{}, appErr
	}

	span.SetAttributes(attribute.Int("product.slot", product.Slot))
	s.logger.InfoContext(ctx, "Product created", slog.Int("slot", product.Slot), slog.String("product_name", product.Name))
	return product, nil
}

func (s *productService) FindAll(ctx context.Context) []models.Product {
	s.lock.RLock()
	defer s.lock.RUnlock()

	products := s.catalog.FindAll(ctx)
	s.logger.DebugContext(ctx, "Products listed", slog.Int("product_count", len(products)))
	return products
}

func (s *productService) FindOne(ctx context.Context, slot int) (models.Product, *apierrors.AppError) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	product, ok := s.catalog.FindOne(ctx, slot)
	if !ok {
		return models.Product{}, notFound(slot, nil)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, slot int, patch models.ProductPatch) (product models.Product, appErr *apierrors.AppError) {
	mc := metric.StartMetricsTimer(layer, "UpdateProduct")
	ctx, span := commontrace.StartSpan(ctx, attribute.Int("product.slot", slot))
	defer func() {
		var telemetryErr error
		if appErr != nil {
			telemetryErr = appErr
		}
		commontrace.EndSpan(span, &telemetryErr)
		mc.End(ctx, &telemetryErr)
	}()

	s.lock.Lock()
	defer s.lock.Unlock()

	product, err := s.catalog.Update(ctx, slot, patch)
	if err != nil {
		name := ""
		if patch.Name != nil {
			name = *patch.Name
		}
		if errors.Is(err, repositories.ErrProductNotFound) {
			appErr = notFound(slot, err)
		} else {
			appErr = catalogError(err, fmt.Sprintf("Product '%s' already exists", name))
		}
		s.logger.WarnContext(ctx, "Product update rejected", slog.Int("slot", slot), slog.String("error_code", appErr.Code))
		return models.Product{}, appErr
	}

	s.logger.InfoContext(ctx, "Product updated",
		slog.Int("slot", slot),
		slog.String("product_name", product.Name),
		slog.String("price", product.Price.String()),
		slog.Int("quantity", product.Quantity))
	return product, nil
}

func (s *productService) Remove(ctx context.Context, slot int) (product models.Product, appErr *apierrors.AppError) {
	mc := metric.StartMetricsTimer(layer, "RemoveProduct")
	ctx, span := commontrace.StartSpan(ctx, attribute.Int("product.slot", slot))
	defer func() {
		var telemetryErr error
		if appErr != nil {
			telemetryErr = appErr
		}
		commontrace.EndSpan(span, &telemetryErr)
		mc.End(ctx, &telemetryErr)
	}()

	s.lock.Lock()
	defer s.lock.Unlock()

	product, err := s.catalog.Remove(ctx, slot)
	if err != nil {
		appErr = notFound(slot, err)
		s.logger.WarnContext(ctx, "Product removal rejected", slog.Int("slot", slot))
		return models.Product{}, appErr
	}

	s.logger.InfoContext(ctx, "Product removed", slog.Int("slot", slot), slog.String("product_name", product.Name))
	return product, nil
}

func notFound(slot int, cause error) *apierrors.AppError {
	return apierrors.NewBusinessError(apierrors.ErrCodeProductNotFound,
		fmt.Sprintf("No product in slot %d", slot), cause).
		WithContext("slot", slot)
}

// catalogError maps a repository sentinel onto its AppError.
func catalogError(err error, duplicateMsg string) *apierrors.AppError {
	switch {
	case errors.Is(err, repositories.ErrDuplicateName):
		return apierrors.NewBusinessError(apierrors.ErrCodeDuplicateProductName, duplicateMsg, err)
	default:
		return apierrors.NewApplicationError(apierrors.ErrCodeInternalProcessing, "Catalog operation failed", err)
	}
}
