package services

import (
	"context"
	"log/slog"
	"sync"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
	"github.com/muliswilliam/vending-machine/common/telemetry/metric"
	"github.com/muliswilliam/vending-machine/vending-machine/src/events"
	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
	"github.com/muliswilliam/vending-machine/vending-machine/src/repositories"
)

// MachineLock serializes every mutation of machine state. ProductService and
// VendingMachineService must share one instance.
type MachineLock struct {
	sync.RWMutex
}

type ProductService interface {
	Create(ctx context.Context, name string, price models.Amount, quantity int) (models.Product, *apierrors.AppError)
	FindAll(ctx context.Context) []models.Product
	FindOne(ctx context.Context, slot int) (models.Product, *apierrors.AppError)
	Update(ctx context.Context, slot int, patch models.ProductPatch) (models.Product, *apierrors.AppError)
	Remove(ctx context.Context, slot int) (models.Product, *apierrors.AppError)
}

type VendingMachineService interface {
	Configure(ctx context.Context, denominations []models.Denomination) []models.Denomination
	AcceptedCoins(ctx context.Context) []models.Denomination
	CoinInventory(ctx context.Context) []models.CoinCount
	UpdateCoinInventory(ctx context.Context, entries []models.CoinCount) ([]models.CoinCount, *apierrors.AppError)
	AvailableAmount(ctx context.Context) models.Amount
	BuyProduct(ctx context.Context, slot int, inserted models.CoinBag) models.PurchaseOutcome
}

type productService struct {
	lock    *MachineLock
	catalog repositories.ProductCatalog
	logger  *slog.Logger
}

func NewProductService(lock *MachineLock, catalog repositories.ProductCatalog, logger *slog.Logger) ProductService {
	return &productService{
		lock:    lock,
		catalog: catalog,
		logger:  logger.With(slog.String("component", "product_service")),
	}
}

// VendingMachineDeps are the collaborators of the vending machine service.
// Metrics and Publisher are optional.
type VendingMachineDeps struct {
	Lock      *MachineLock
	Catalog   repositories.ProductCatalog
	Coins     repositories.CoinRepository
	Metrics   *metric.VendingMetrics
	Publisher events.Publisher
	Logger    *slog.Logger
}

type vendingMachineService struct {
	lock      *MachineLock
	catalog   repositories.ProductCatalog
	coins     repositories.CoinRepository
	metrics   *metric.VendingMetrics
	publisher events.Publisher
	logger    *slog.Logger
}

func NewVendingMachineService(deps VendingMachineDeps) VendingMachineService {
	logger := deps.Logger.With(slog.String("component", "vending_machine_service"))
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NewLogPublisher(deps.Logger)
	}
	return &vendingMachineService{
		lock:      deps.Lock,
		catalog:   deps.Catalog,
		coins:     deps.Coins,
		metrics:   deps.Metrics,
		publisher: publisher,
		logger:    logger,
	}
}
