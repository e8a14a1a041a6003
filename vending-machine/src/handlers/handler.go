package handlers

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
	apiresponses "github.com/muliswilliam/vending-machine/common/apiresponses"
	"github.com/muliswilliam/vending-machine/common/http/middleware"
	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
	"github.com/muliswilliam/vending-machine/vending-machine/src/services"
)

type ProductHandler struct {
	service services.ProductService
	logger  *slog.Logger
}

func NewProductHandler(svc services.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger.With(slog.String("component", "product_handler")),
	}
}

type VendingMachineHandler struct {
	service services.VendingMachineService
	logger  *slog.Logger
}

func NewVendingMachineHandler(svc services.VendingMachineService, logger *slog.Logger) *VendingMachineHandler {
	return &VendingMachineHandler{
		service: svc,
		logger:  logger.With(slog.String("component", "vending_machine_handler")),
	}
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(apiresponses.Success(middleware.GetRequestID(c), data))
}

func slotParam(c *fiber.Ctx) (int, *apierrors.AppError) {
	raw := c.Params("productSlot")
	slot, err := strconv.Atoi(raw)
	if err != nil || slot <= 0 {
		return 0, apierrors.NewApplicationError(apierrors.ErrCodeRequestValidation,
			fmt.Sprintf("Validation failed: productSlot must be a positive integer, got %q", raw), err)
	}
	return slot, nil
}

func parseBody(c *fiber.Ctx, dest any) *apierrors.AppError {
	if err := c.BodyParser(dest); err != nil {
		return apierrors.NewApplicationError(apierrors.ErrCodeMalformedData, "Invalid request body format", err)
	}
	return nil
}

func denomination(value float64) (models.Denomination, *apierrors.AppError) {
	d, err := models.NewDenomination(value)
	if err != nil {
		return 0, apierrors.NewBusinessError(apierrors.ErrCodeInvalidMoneyAmount,
			fmt.Sprintf("Invalid coin value %v", value), err)
	}
	return d, nil
}

func price(value float64) (models.Amount, *apierrors.AppError) {
	a, err := models.NonNegativeAmountFromFloat(value)
	if err != nil {
		return 0, apierrors.NewBusinessError(apierrors.ErrCodeInvalidMoneyAmount,
			fmt.Sprintf("Invalid price %v", value), err)
	}
	return a, nil
}
