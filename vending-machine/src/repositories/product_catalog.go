package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	commontrace "github.com/muliswilliam/vending-machine/common/telemetry/trace"
	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
)

// ProductCatalog stores products by slot. Every method returns copies.
type ProductCatalog interface {
	Create(ctx context.Context, name string, price models.Amount, quantity int) (models.Product, error)
	FindAll(ctx context.Context) []models.Product
	FindOne(ctx context.Context, slot int) (models.Product, bool)
	Update(ctx context.Context, slot int, patch models.ProductPatch) (models.Product, error)
	Remove(ctx context.Context, slot int) (models.Product, error)
}

type productCatalog struct {
	mu       sync.RWMutex
	products map[int]models.Product
	lastSlot int
	logger   *slog.Logger
}

// NewProductCatalog returns an empty in-memory catalog. Slots start at 1 and
// are never reused, even after a product is removed.
func NewProductCatalog(logger *slog.Logger) ProductCatalog {
	return &productCatalog{
		products: make(map[int]models.Product),
		logger:   logger.With(slog.String(component, "product_catalog")),
	}
}

func dbAttrs(op string) []attribute.KeyValue {
	return []attribute.KeyValue{
		semconv.DBSystemKey.String("memory"),
		semconv.DBOperationKey.String(op),
	}
}

func (r *productCatalog) Create(ctx context.Context, name string, price models.Amount, quantity int) (product models.Product, err error) {
	ctx, span := commontrace.StartSpan(ctx, append(dbAttrs("INSERT"), attribute.String("product.name", name))...)
	defer commontrace.EndSpan(span, &err)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTakenLocked(name, 0) {
		r.logger.WarnContext(ctx, "Rejected duplicate product name", slog.String("product_name", name))
		return models.Product{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	r.lastSlot++
	product = models.Product{
		Slot:     r.lastSlot,
		Name:     name,
		Price:    price,
		Quantity: quantity,
	}
	r.products[product.Slot] = product

	span.SetAttributes(attribute.Int("product.slot", product.Slot))
	r.logger.DebugContext(ctx, "Product stored",
		slog.Int("slot", product.Slot),
		slog.String("product_name", name),
		slog.String("price", price.String()),
		slog.Int("quantity", quantity))
	return product, nil
}

func (r *productCatalog) FindAll(ctx context.Context) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0, len(r.products))
	for _, slot := range slices.Sorted(maps.Keys(r.products)) {
		out = append(out, r.products[slot])
	}
	return out
}

func (r *productCatalog) FindOne(ctx context.Context, slot int) (models.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[slot]
	return product, ok
}

func (r *productCatalog) Update(ctx context.Context, slot int, patch models.ProductPatch) (product models.Product, err error) {
	ctx, span := commontrace.StartSpan(ctx, append(dbAttrs("UPDATE"), attribute.Int("product.slot", slot))...)
	defer commontrace.EndSpan(span, &err)

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[slot]
	if !ok {
		return models.Product{}, fmt.Errorf("%w: slot %d", ErrProductNotFound, slot)
	}

	if patch.Name != nil && !strings.EqualFold(*patch.Name, current.Name) && r.nameTakenLocked(*patch.Name, slot) {
		r.logger.WarnContext(ctx, "Rejected rename to existing product name",
			slog.Int("slot", slot),
			slog.String("product_name", *patch.Name))
		return models.Product{}, fmt.Errorf("%w: %q", ErrDuplicateName, *patch.Name)
	}

	product = patch.Apply(current)
	r.products[slot] = product

	r.logger.DebugContext(ctx, "Product updated",
		slog.Int("slot", slot),
		slog.String("product_name", product.Name),
		slog.Int("old_quantity", current.Quantity),
		slog.Int("new_quantity", product.Quantity))
	return product, nil
}

func (r *productCatalog) Remove(ctx context.Context, slot int) (product models.Product, err error) {
	ctx, span := commontrace.StartSpan(ctx, append(dbAttrs("DELETE"), attribute.Int("product.slot", slot))...)
	defer commontrace.EndSpan(span, &err)

	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[slot]
	if !ok {
		return models.Product{}, fmt.Errorf("%w: slot %d", ErrProductNotFound, slot)
	}
	delete(r.products, slot)

	r.logger.DebugContext(ctx, "Product removed", slog.Int("slot", slot), slog.String("product_name", product.Name))
	return product, nil
}

// nameTakenLocked reports whether another slot already holds name, ignoring case.
func (r *productCatalog) nameTakenLocked(name string, exceptSlot int) bool {
	return lo.SomeBy(lo.Values(r.products), func(p models.Product) bool {
		return p.Slot != exceptSlot && strings.EqualFold(p.Name, name)
	})
}
