package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/muliswilliam/vending-machine/common/config"
	"github.com/muliswilliam/vending-machine/common/db"
	commonhttp "github.com/muliswilliam/vending-machine/common/http"
	"github.com/muliswilliam/vending-machine/common/lifecycle"
	commonlog "github.com/muliswilliam/vending-machine/common/log"
	"github.com/muliswilliam/vending-machine/common/logging"
	"github.com/muliswilliam/vending-machine/common/telemetry"
	"github.com/muliswilliam/vending-machine/common/telemetry/metric"
	"github.com/muliswilliam/vending-machine/vending-machine/src/events"
	"github.com/muliswilliam/vending-machine/vending-machine/src/handlers"
	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
	"github.com/muliswilliam/vending-machine/vending-machine/src/repositories"
	"github.com/muliswilliam/vending-machine/vending-machine/src/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vending-machine: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Configuration Loading ---
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	cfg.Log()

	// --- Initialization (Telemetry & Logging) ---
	httpLogger := logging.SetupLogrus(cfg, os.Stdout)
	logger := commonlog.Init(cfg, os.Stdout)

	shutdownTelemetry, err := telemetry.InitTelemetry(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// --- Machine State ---
	lock := &services.MachineLock{}
	catalog := repositories.NewProductCatalog(logger)
	coins := repositories.NewCoinRepository(logger)

	vendingMetrics, err := metric.NewVendingMetrics(otel.Meter(metric.VendingInstrumentationName))
	if err != nil {
		return err
	}
	if _, err := vendingMetrics.ObserveInventory(coinReadings(coins), stockReadings(catalog)); err != nil {
		return err
	}

	publisher := newPublisher(cfg, logger)

	productService := services.NewProductService(lock, catalog, logger)
	vendingService := services.NewVendingMachineService(services.VendingMachineDeps{
		Lock:      lock,
		Catalog:   catalog,
		Coins:     coins,
		Metrics:   vendingMetrics,
		Publisher: publisher,
		Logger:    logger,
	})

	if err := seedMachine(ctx, cfg, productService, vendingService, logger); err != nil {
		return err
	}

	// --- Fiber App Setup ---
	app := commonhttp.NewApp(commonhttp.Options{
		Name:    cfg.ServiceName,
		Logger:  httpLogger,
		Tracing: cfg.OtelEnabled,
	})

	handlers.RegisterRoutes(app,
		handlers.NewProductHandler(productService, logger),
		handlers.NewVendingMachineHandler(vendingService, logger),
		handlers.NewStatusHandler(productService, vendingService, cfg.ServiceVersion, logger))

	// --- Server Startup ---
	addr := ":" + cfg.Port
	go func() {
		httpLogger.WithField("address", addr).Info("Server starting to listen")
		if err := app.Listen(addr); err != nil {
			httpLogger.WithError(err).Error("Server listener failed")
			cancel()
		}
	}()

	return lifecycle.WaitForGracefulShutdown(ctx, cfg, httpLogger,
		lifecycle.ServerTask("HTTP server", cfg.ShutdownServerTimeout, app),
		lifecycle.CloserTask("sale event publisher", cfg.ShutdownServerTimeout, publisher),
		lifecycle.Task{
			Name:     "OpenTelemetry",
			Timeout:  max(cfg.ShutdownOtelMinTimeout, 5*time.Second),
			Shutdown: shutdownTelemetry,
		},
	)
}

func newPublisher(cfg *config.Config, logger *slog.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, sale events go to the log")
		return events.NewLogPublisher(logger)
	}
	logger.Info("Publishing sale events to Kafka",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.String("topic", cfg.KafkaSalesTopic))
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaSalesTopic, logger)
}

// seedMachine loads the data file. A missing file leaves the machine empty.
func seedMachine(ctx context.Context, cfg *config.Config, products services.ProductService, vending services.VendingMachineService, logger *slog.Logger) error {
	var seed models.MachineSeed
	file := db.NewJSONFile(cfg.DataFilePath, logger)
	if err := file.Load(ctx, &seed); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.WarnContext(ctx, "Seed file not found, starting with an empty machine", slog.String("path", file.Path))
			return nil
		}
		return fmt.Errorf("reading seed file: %w", err)
	}
	if appErr := services.ApplySeed(ctx, products, vending, seed, logger); appErr != nil {
		return fmt.Errorf("applying seed file %s: %w", file.Path, appErr)
	}
	return nil
}

func coinReadings(coins repositories.CoinRepository) func() []metric.Reading {
	return func() []metric.Reading {
		inventory := coins.Inventory(context.Background())
		out := make([]metric.Reading, 0, len(inventory))
		for _, row := range inventory {
			out = append(out, metric.Reading{
				Attrs: []attribute.KeyValue{attribute.String(metric.AttrDenomination, row.Denomination.String())},
				Value: int64(row.Quantity),
			})
		}
		return out
	}
}

func stockReadings(catalog repositories.ProductCatalog) func() []metric.Reading {
	return func() []metric.Reading {
		products := catalog.FindAll(context.Background())
		out := make([]metric.Reading, 0, len(products))
		for _, p := range products {
			out = append(out, metric.Reading{
				Attrs: []attribute.KeyValue{
					attribute.Int(metric.AttrProductSlot, p.Slot),
					attribute.String(metric.AttrProductName, p.Name),
				},
				Value: int64(p.Quantity),
			})
		}
		return out
	}
}
