package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
	apirequests "github.com/muliswilliam/vending-machine/common/apirequests"
	commontrace "github.com/muliswilliam/vending-machine/common/telemetry/trace"
	"github.com/muliswilliam/vending-machine/common/validator"
	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
)

func (h *VendingMachineHandler) GetCoinInventory(c *fiber.Ctx) error {
	return respond(c, http.StatusOK, h.service.CoinInventory(c.UserContext()))
}

func (h *VendingMachineHandler) UpdateCoinInventory(c *fiber.Ctx) (err error) {
	ctx := c.UserContext()

	var req []apirequests.CoinQuantityRequest
	if appErr := parseBody(c, &req); appErr != nil {
		err = appErr
		return
	}
	if validatorErr := validator.ValidateEach(req); validatorErr != nil {
		h.logger.WarnContext(ctx, "Invalid coin inventory update", slog.String("validator_error", validatorErr.Message))
		err = validatorErr
		return
	}

	entries := make([]models.CoinCount, 0, len(req))
	for _, r := range req {
		d, appErr := denomination(r.CoinValue)
		if appErr != nil {
			err = appErr
			return
		}
		entries = append(entries, models.CoinCount{Denomination: d, Quantity: r.Quantity})
	}

	ctx, span := commontrace.StartSpan(ctx, attribute.Int("coins.entries", len(entries)))
	defer commontrace.EndSpan(span, &err)

	inventory, appErr := h.service.UpdateCoinInventory(ctx, entries)
	if appErr != nil {
		err = appErr
		return
	}

	err = respond(c, http.StatusOK, inventory)
	return
}

func (h *VendingMachineHandler) Configure(c *fiber.Ctx) (err error) {
	ctx := c.UserContext()

	var req apirequests.ConfigureMachineRequest
	if appErr := parseBody(c, &req); appErr != nil {
		err = appErr
		return
	}
	if validatorErr := validator.ValidateRequest(&req); validatorErr != nil {
		err = validatorErr
		return
	}

	coins := make([]models.Denomination, 0, len(req.Coins))
	for _, v := range req.Coins {
		d, appErr := denomination(v)
		if appErr != nil {
			err = appErr
			return
		}
		coins = append(coins, d)
	}

	accepted := h.service.Configure(ctx, coins)
	h.logger.InfoContext(ctx, "Machine configured", slog.Int("accepted_count", len(accepted)))
	err = respond(c, http.StatusOK, fiber.Map{"acceptedCoins": accepted})
	return
}

func (h *VendingMachineHandler) GetAcceptedCoins(c *fiber.Ctx) error {
	return respond(c, http.StatusOK, fiber.Map{"acceptedCoins": h.service.AcceptedCoins(c.UserContext())})
}

func (h *VendingMachineHandler) GetAvailableAmount(c *fiber.Ctx) error {
	return respond(c, http.StatusOK, fiber.Map{"availableAmount": h.service.AvailableAmount(c.UserContext())})
}

// BuyProduct always answers 200 once the request is well formed; a refused
// purchase is reported in the body.
func (h *VendingMachineHandler) BuyProduct(c *fiber.Ctx) (err error) {
	ctx := c.UserContext()

	var req apirequests.BuyProductRequest
	if appErr := parseBody(c, &req); appErr != nil {
		err = appErr
		return
	}
	if validatorErr := validator.ValidateRequest(&req); validatorErr != nil {
		h.logger.WarnContext(ctx, "Invalid purchase request", slog.String("validator_error", validatorErr.Message))
		err = validatorErr
		return
	}

	inserted, appErr := insertedCoins(req.Coins)
	if appErr != nil {
		err = appErr
		return
	}

	ctx, span := commontrace.StartSpan(ctx,
		attribute.Int("product.slot", req.ProductSlot),
		attribute.Int("coins.inserted", inserted.Count()))
	defer commontrace.EndSpan(span, &err)

	outcome := h.service.BuyProduct(ctx, req.ProductSlot, inserted)
	span.SetAttributes(attribute.Bool("purchase.success", outcome.Success))

	err = respond(c, http.StatusOK, outcome)
	return
}

// insertedCoins drops zero-quantity rows and sums rows of the same value.
func insertedCoins(rows []apirequests.CoinQuantityRequest) (models.CoinBag, *apierrors.AppError) {
	bag := models.CoinBag{}
	for _, r := range lo.Filter(rows, func(r apirequests.CoinQuantityRequest, _ int) bool { return r.Quantity > 0 }) {
		d, appErr := denomination(r.CoinValue)
		if appErr != nil {
			return nil, appErr
		}
		bag.Add(d, r.Quantity)
	}
	if len(bag) == 0 {
		return nil, apierrors.NewApplicationError(apierrors.ErrCodeRequestValidation,
			"Validation failed: at least one coin must be inserted", nil)
	}
	if _, err := bag.Total(); err != nil {
		return nil, apierrors.NewBusinessError(apierrors.ErrCodeInvalidMoneyAmount,
			"Inserted coins exceed the largest amount the machine can hold", err)
	}
	return bag, nil
}
