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

// Configure replaces the accepted coin set. Coins of denominations dropped
// from the set stay in the inventory.
func (s *vendingMachineService) Configure(ctx context.Context, denominations []models.Denomination) []models.Denomination {
	ctx, span := commontrace.StartSpan(ctx, attribute.Int("coins.denominations", len(denominations)))
	defer commontrace.EndSpan(span, nil)

	s.lock.Lock()
	defer s.lock.Unlock()

	accepted := s.coins.SetAccepted(ctx, denominations)
	s.logger.InfoContext(ctx, "Accepted coins configured", slog.Any("accepted", accepted))
	return accepted
}

func (s *vendingMachineService) AcceptedCoins(ctx context.Context) []models.Denomination {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.coins.Accepted(ctx)
}

func (s *vendingMachineService) CoinInventory(ctx context.Context) []models.CoinCount {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.coins.Inventory(ctx)
}

// UpdateCoinInventory sets counts entry by entry. It stops at the first
// rejected entry; entries before it remain applied.
func (s *vendingMachineService) UpdateCoinInventory(ctx context.Context, entries []models.CoinCount) (inventory []models.CoinCount, appErr *apierrors.AppError) {
	mc := metric.StartMetricsTimer(layer, "UpdateCoinInventory")
	ctx, span := commontrace.StartSpan(ctx, attribute.Int("coins.entries", len(entries)))
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

	for i, entry := range entries {
		if err := s.coins.SetCount(ctx, entry.Denomination, entry.Quantity); err != nil {
			switch {
			case errors.Is(err, repositories.ErrUnacceptedDenomination):
				appErr = apierrors.NewBusinessError(apierrors.ErrCodeUnacceptedDenomination,
					fmt.Sprintf("Coin %s is not accepted by this machine", entry.Denomination), err)
			case errors.Is(err, models.ErrAmountOutOfRange):
				appErr = apierrors.NewBusinessError(apierrors.ErrCodeInvalidMoneyAmount,
					"Coin inventory value out of range", err)
			default:
				appErr = apierrors.NewApplicationError(apierrors.ErrCodeRequestValidation, err.Error(), err)
			}
			appErr = appErr.WithContext("applied_entries", i)
			s.logger.WarnContext(ctx, "Coin inventory update stopped",
				slog.String("denomination", entry.Denomination.String()),
				slog.Int("applied_entries", i),
				slog.String("error_code", appErr.Code))
			return nil, appErr
		}
	}

	inventory = s.coins.Inventory(ctx)
	s.logger.InfoContext(ctx, "Coin inventory updated", slog.Int("entries", len(entries)))
	return inventory, nil
}

func (s *vendingMachineService) AvailableAmount(ctx context.Context) models.Amount {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.coins.Total(ctx)
}
