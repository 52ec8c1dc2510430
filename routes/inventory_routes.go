package routes

import (
	"shopguard/config"
	"shopguard/controllers"
	"shopguard/database"
	"shopguard/middleware"
	"shopguard/models"

	"github.com/gofiber/fiber/v2"
)

func SetupInventoryRoutes(app *fiber.App) {
	inventoryController := controllers.NewInventoryController(database.GetDB())

	api := app.Group(config.MAIN_ROUTES+"/inventory", middleware.AuthMiddleware)
	api.Get("/", inventoryController.GetInventory)
	api.Get("/sku/:sku_id", inventoryController.GetInventoryBySku)
	api.Post("/restock", middleware.RequireRole(models.RoleOwner), inventoryController.Restock)
	api.Post("/decant", inventoryController.Decant)
}
