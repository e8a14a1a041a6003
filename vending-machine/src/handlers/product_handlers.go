package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
	apirequests "github.com/muliswilliam/vending-machine/common/apirequests"
	apiresponses "github.com/muliswilliam/vending-machine/common/apiresponses"
	commontrace "github.com/muliswilliam/vending-machine/common/telemetry/trace"
	"github.com/muliswilliam/vending-machine/common/validator"
	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
)

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) (err error) {
	ctx := c.UserContext()

	var req apirequests.CreateProductRequest
	if appErr := parseBody(c, &req); appErr != nil {
		err = appErr
		return
	}
	if validatorErr := validator.ValidateRequest(&req); validatorErr != nil {
		h.logger.WarnContext(ctx, "Invalid product data", slog.String("validator_error", validatorErr.Message))
		err = validatorErr
		return
	}
	amount, appErr := price(*req.Price)
	if appErr != nil {
		err = appErr
		return
	}

	ctx, span := commontrace.StartSpan(ctx, attribute.String("product.name", req.Name))
	defer commontrace.EndSpan(span, &err)

	product, appErr := h.service.Create(ctx, strings.TrimSpace(req.Name), amount, *req.Quantity)
	if appErr != nil {
		err = appErr
		return
	}

	err = respond(c, http.StatusCreated, product)
	return
}

func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	products := h.service.FindAll(c.UserContext())
	return respond(c, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) (err error) {
	slot, appErr := slotParam(c)
	if appErr != nil {
		err = appErr
		return
	}

	product, appErr := h.service.FindOne(c.UserContext(), slot)
	if appErr != nil {
		err = appErr
		return
	}
	return respond(c, http.StatusOK, product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) (err error) {
	ctx := c.UserContext()

	slot, appErr := slotParam(c)
	if appErr != nil {
		err = appErr
		return
	}

	var req apirequests.UpdateProductRequest
	if appErr := parseBody(c, &req); appErr != nil {
		err = appErr
		return
	}
	if validatorErr := validator.ValidateRequest(&req); validatorErr != nil {
		h.logger.WarnContext(ctx, "Invalid product update", slog.String("validator_error", validatorErr.Message))
		err = validatorErr
		return
	}

	patch := models.ProductPatch{Quantity: req.Quantity}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			err = apierrors.NewApplicationError(apierrors.ErrCodeRequestValidation, "Validation failed: name must not be empty", nil)
			return
		}
		patch.Name = &name
	}
	if req.Price != nil {
		amount, appErr := price(*req.Price)
		if appErr != nil {
			err = appErr
			return
		}
		patch.Price = &amount
	}

	ctx, span := commontrace.StartSpan(ctx, attribute.Int("product.slot", slot))
	defer commontrace.EndSpan(span, &err)

	product, appErr := h.service.Update(ctx, slot, patch)
	if appErr != nil {
		err = appErr
		return
	}

	err = respond(c, http.StatusOK, product)
	return
}

func (h *ProductHandler) RemoveProduct(c *fiber.Ctx) (err error) {
	ctx := c.UserContext()

	slot, appErr := slotParam(c)
	if appErr != nil {
		err = appErr
		return
	}

	ctx, span := commontrace.StartSpan(ctx, attribute.Int("product.slot", slot))
	defer commontrace.EndSpan(span, &err)

	product, appErr := h.service.Remove(ctx, slot)
	if appErr != nil {
		err = appErr
		return
	}

	err = respond(c, http.StatusOK, apiresponses.ActionConfirmation{
		Message: "Product removed",
		Data:    product,
	})
	return
}
