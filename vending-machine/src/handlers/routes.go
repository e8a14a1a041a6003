package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/muliswilliam/vending-machine/common/http/middleware"
)

// RegisterRoutes mounts the public and maintenance endpoints.
func RegisterRoutes(app *fiber.App, products *ProductHandler, vending *VendingMachineHandler, status *StatusHandler) {
	maintenance := middleware.RequireRole(middleware.RoleMaintenance)

	app.Get("/health", status.Health)
	app.Get("/status", status.Status)
	app.Get("/api/openapi.yaml", OpenAPI)

	v1 := app.Group("/v1")

	p := v1.Group("/products")
	p.Get("/", products.GetAllProducts)
	p.Get("/:productSlot", products.GetProduct)
	p.Post("/", maintenance, products.CreateProduct)
	p.Patch("/:productSlot", maintenance, products.UpdateProduct)
	p.Delete("/:productSlot", maintenance, products.RemoveProduct)

	vm := v1.Group("/vending-machine")
	vm.Post("/buy", vending.BuyProduct)
	vm.Get("/coin-inventory", maintenance, vending.GetCoinInventory)
	vm.Patch("/coin-inventory", maintenance, vending.UpdateCoinInventory)
	vm.Post("/configure", maintenance, vending.Configure)
	vm.Get("/accepted-coins", maintenance, vending.GetAcceptedCoins)
	vm.Get("/available-amount", maintenance, vending.GetAvailableAmount)
}
