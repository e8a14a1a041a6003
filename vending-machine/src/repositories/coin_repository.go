package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	commontrace "github.com/muliswilliam/vending-machine/common/telemetry/trace"
	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
)

// CoinRepository holds the accepted denominations and the coins in the machine.
// Denominations dropped from the accepted set keep their inventory rows.
type CoinRepository interface {
	SetAccepted(ctx context.Context, denominations []models.Denomination) []models.Denomination
	Accepted(ctx context.Context) []models.Denomination
	IsAccepted(d models.Denomination) bool
	Inventory(ctx context.Context) []models.CoinCount
	Count(d models.Denomination) int
	SetCount(ctx context.Context, d models.Denomination, quantity int) error
	Transfer(ctx context.Context, deposit, withdraw models.CoinBag) error
	Total(ctx context.Context) models.Amount
}

type coinRepository struct {
	mu        sync.RWMutex
	accepted  map[models.Denomination]struct{}
	inventory map[models.Denomination]int
	logger    *slog.Logger
}

func NewCoinRepository(logger *slog.Logger) CoinRepository {
	return &coinRepository{
		accepted:  make(map[models.Denomination]struct{}),
		inventory: make(map[models.Denomination]int),
		logger:    logger.With(slog.String(component, "coin_repository")),
	}
}

// SetAccepted replaces the accepted set and returns it de-duplicated and ascending.
func (r *coinRepository) SetAccepted(ctx context.Context, denominations []models.Denomination) []models.Denomination {
	normalized := models.SortDenominations(denominations)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.accepted = make(map[models.Denomination]struct{}, len(normalized))
	for _, d := range normalized {
		r.accepted[d] = struct{}{}
	}

	r.logger.DebugContext(ctx, "Accepted coin set replaced", slog.Any("denominations", normalized))
	return normalized
}

func (r *coinRepository) Accepted(ctx context.Context) []models.Denomination {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.accepted))
}

func (r *coinRepository) IsAccepted(d models.Denomination) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.accepted[d]
	return ok
}

func (r *coinRepository) Inventory(ctx context.Context) []models.CoinCount {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.CoinCount, 0, len(r.inventory))
	for _, d := range slices.Sorted(maps.Keys(r.inventory)) {
		out = append(out, models.CoinCount{Denomination: d, Quantity: r.inventory[d]})
	}
	return out
}

func (r *coinRepository) Count(d models.Denomination) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.inventory[d]
}

// SetCount overwrites the number of coins held for an accepted denomination.
func (r *coinRepository) SetCount(ctx context.Context, d models.Denomination, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accepted[d]; !ok {
		return fmt.Errorf("%w: %s", ErrUnacceptedDenomination, d)
	}
	if quantity < 0 {
		return fmt.Errorf("negative quantity %d for denomination %s", quantity, d)
	}
	if quantity > models.MaxCoinQuantity {
		return fmt.Errorf("%w: %d coins of %s, at most %d", ErrCoinQuantityTooLarge, quantity, d, models.MaxCoinQuantity)
	}
	next := maps.Clone(r.inventory)
	next[d] = quantity
	if _, err := models.CoinBag(next).Total(); err != nil {
		return fmt.Errorf("setting %d coins of %s: %w", quantity, d, err)
	}
	r.inventory = next

	r.logger.DebugContext(ctx, "Coin count set", slog.String("denomination", d.String()), slog.Int("quantity", quantity))
	return nil
}

// Transfer adds deposit to and removes withdraw from the inventory as one step.
// Nothing changes if withdraw asks for more coins than are held.
func (r *coinRepository) Transfer(ctx context.Context, deposit, withdraw models.CoinBag) (err error) {
	ctx, span := commontrace.StartSpan(ctx,
		attribute.Int("coins.deposit", deposit.Count()),
		attribute.Int("coins.withdraw", withdraw.Count()),
	)
	defer commontrace.EndSpan(span, &err)

	r.mu.Lock()
	defer r.mu.Unlock()

	next := maps.Clone(r.inventory)
	for d, n := range deposit {
		next[d] += n
	}
	for d, n := range withdraw {
		if next[d] < n {
			return fmt.Errorf("%w: need %d of %s, have %d", ErrInsufficientCoins, n, d, next[d])
		}
		next[d] -= n
	}
	if _, err := models.CoinBag(next).Total(); err != nil {
		return fmt.Errorf("depositing %s: %w", deposit.FormatTotal(), err)
	}
	r.inventory = next

	r.logger.DebugContext(ctx, "Coins transferred",
		slog.String("deposited", deposit.FormatTotal()),
		slog.String("withdrawn", withdraw.FormatTotal()))
	return nil
}

// Total is the value of every coin held, accepted or not. Every write keeps
// it within range.
func (r *coinRepository) Total(ctx context.Context) models.Amount {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total, err := models.CoinBag(r.inventory).Total()
	if err != nil {
		r.logger.ErrorContext(ctx, "Coin inventory total out of range", slog.Any("error", err))
	}
	return total
}
