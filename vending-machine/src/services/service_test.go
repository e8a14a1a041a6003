package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	commonlog "github.com/muliswilliam/vending-machine/common/log"
	"github.com/muliswilliam/vending-machine/vending-machine/src/events"
	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
	"github.com/muliswilliam/vending-machine/vending-machine/src/repositories"
)

type recordingPublisher struct {
	mu    sync.Mutex
	sales []events.SaleRecorded
	err   error
}

func (p *recordingPublisher) PublishSale(_ context.Context, event events.SaleRecorded) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sales = append(p.sales, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []events.SaleRecorded {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.SaleRecorded(nil), p.sales...)
}

var errBrokerDown = errors.New("broker down")

type machine struct {
	products  ProductService
	vending   VendingMachineService
	catalog   repositories.ProductCatalog
	coins     repositories.CoinRepository
	publisher *recordingPublisher
}

// newMachine builds a machine accepting [0.5,1,5,10,20,40] with coinsEach of
// every denomination and no products.
func newMachine(t *testing.T, coinsEach int) *machine {
	t.Helper()
	ctx := context.Background()
	logger := commonlog.Discard()

	lock := &MachineLock{}
	catalog := repositories.NewProductCatalog(logger)
	coins := repositories.NewCoinRepository(logger)
	publisher := &recordingPublisher{}

	m := &machine{
		products: NewProductService(lock, catalog, logger),
		vending: NewVendingMachineService(VendingMachineDeps{
			Lock:      lock,
			Catalog:   catalog,
			Coins:     coins,
			Publisher: publisher,
			Logger:    logger,
		}),
		catalog:   catalog,
		coins:     coins,
		publisher: publisher,
	}

	m.vending.Configure(ctx, allCoins)
	entries := make([]models.CoinCount, 0, len(allCoins))
	for _, d := range allCoins {
		entries = append(entries, models.CoinCount{Denomination: d, Quantity: coinsEach})
	}
	_, appErr := m.vending.UpdateCoinInventory(ctx, entries)
	require.Nil(t, appErr)
	return m
}

func (m *machine) addProduct(t *testing.T, name string, price models.Amount, quantity int) models.Product {
	t.Helper()
	p, appErr := m.products.Create(context.Background(), name, price, quantity)
	require.Nil(t, appErr)
	return p
}

func total(t *testing.T, bag models.CoinBag) models.Amount {
	t.Helper()
	sum, err := bag.Total()
	require.NoError(t, err)
	return sum
}
