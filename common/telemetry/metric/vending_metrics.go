package metric

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	VendingInstrumentationName = "github.com/muliswilliam/vending-machine/vending"

	AttrOutcome      = "vending.outcome"
	AttrProductName  = "product.name"
	AttrProductSlot  = "product.slot"
	AttrDenomination = "coin.denomination"
)

// Reading is one observation reported by an inventory gauge callback.
type Reading struct {
	Attrs []attribute.KeyValue
	Value int64
}

// VendingMetrics holds the machine-level instruments.
type VendingMetrics struct {
	meter     metric.Meter
	purchases metric.Int64Counter
	revenue   metric.Float64Counter
	coinsOut  metric.Int64Counter
}

func NewVendingMetrics(meter metric.Meter) (*VendingMetrics, error) {
	purchases, err := meter.Int64Counter(
		"vending.purchases",
		metric.WithDescription("Purchase attempts by outcome"),
		metric.WithUnit("{purchase}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vending.purchases counter: %w", err)
	}

	revenue, err := meter.Float64Counter(
		"vending.revenue",
		metric.WithDescription("Sum of prices of dispensed products"),
		metric.WithUnit("{currency}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vending.revenue counter: %w", err)
	}

	coinsOut, err := meter.Int64Counter(
		"vending.change.coins",
		metric.WithDescription("Coins paid out as change"),
		metric.WithUnit("{coin}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vending.change.coins counter: %w", err)
	}

	return &VendingMetrics{meter: meter, purchases: purchases, revenue: revenue, coinsOut: coinsOut}, nil
}

// RecordPurchase counts one purchase attempt. outcome is "success" or the failure reason.
func (m *VendingMetrics) RecordPurchase(ctx context.Context, outcome string, attrs ...attribute.KeyValue) {
	attrs = append(attrs, attribute.String(AttrOutcome, outcome))
	m.purchases.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *VendingMetrics) RecordSale(ctx context.Context, productName string, price float64, changeCoins int64) {
	attrs := metric.WithAttributes(attribute.String(AttrProductName, productName))
	m.revenue.Add(ctx, price, attrs)
	if changeCoins > 0 {
		m.coinsOut.Add(ctx, changeCoins, attrs)
	}
}

// ObserveInventory registers gauges for coin counts and product stock.
// The callbacks run on every collection and must not block.
func (m *VendingMetrics) ObserveInventory(coins, stock func() []Reading) (metric.Registration, error) {
	coinGauge, err := m.meter.Int64ObservableGauge(
		"vending.coin_inventory",
		metric.WithDescription("Coins held per denomination"),
		metric.WithUnit("{coin}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vending.coin_inventory gauge: %w", err)
	}

	stockGauge, err := m.meter.Int64ObservableGauge(
		"vending.product_stock",
		metric.WithDescription("Units left per product slot"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vending.product_stock gauge: %w", err)
	}

	return m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for _, r := range coins() {
			o.ObserveInt64(coinGauge, r.Value, metric.WithAttributes(r.Attrs...))
		}
		for _, r := range stock() {
			o.ObserveInt64(stockGauge, r.Value, metric.WithAttributes(r.Attrs...))
		}
		return nil
	}, coinGauge, stockGauge)
}
