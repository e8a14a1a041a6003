package handlers

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/muliswilliam/vending-machine/vending-machine/src/services"
)

type StatusHandler struct {
	products  services.ProductService
	vending   services.VendingMachineService
	version   string
	startedAt time.Time
	logger    *slog.Logger
}

func NewStatusHandler(products services.ProductService, vending services.VendingMachineService, version string, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{
		products:  products,
		vending:   vending,
		version:   version,
		startedAt: time.Now(),
		logger:    logger.With(slog.String("component", "status_handler")),
	}
}

func (h *StatusHandler) Health(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// Status reports machine state alongside process details.
func (h *StatusHandler) Status(c *fiber.Ctx) error {
	ctx := c.UserContext()

	h.logger.DebugContext(ctx, "Status requested")

	products := h.products.FindAll(ctx)
	inStock := 0
	for _, p := range products {
		if p.Quantity > 0 {
			inStock++
		}
	}

	return respond(c, http.StatusOK, fiber.Map{
		"status":          "ok",
		"version":         h.version,
		"uptime":          time.Since(h.startedAt).Round(time.Second).String(),
		"goroutines":      runtime.NumGoroutine(),
		"products":        len(products),
		"productsInStock": inStock,
		"acceptedCoins":   h.vending.AcceptedCoins(ctx),
		"availableAmount": h.vending.AvailableAmount(ctx),
	})
}
