package services

import (
	"context"
	"log/slog"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
)

// ApplySeed loads the startup configuration into an empty machine: the
// accepted coins first, then the inventory, then the products in file order.
func ApplySeed(ctx context.Context, products ProductService, vending VendingMachineService, seed models.MachineSeed, logger *slog.Logger) *apierrors.AppError {
	accepted := vending.Configure(ctx, seed.AcceptedCoins)

	if len(seed.CoinInventory) > 0 {
		if _, appErr := vending.UpdateCoinInventory(ctx, seed.CoinInventory); appErr != nil {
			return appErr
		}
	}

	for _, p := range seed.Products {
		if _, appErr := products.Create(ctx, p.Name, p.Price, p.Quantity); appErr != nil {
			return appErr.WithContext("seed_product", p.Name)
		}
	}

	logger.InfoContext(ctx, "Machine seeded",
		slog.Int("accepted_coins", len(accepted)),
		slog.Int("products", len(seed.Products)),
		slog.String("available_amount", vending.AvailableAmount(ctx).String()))
	return nil
}
