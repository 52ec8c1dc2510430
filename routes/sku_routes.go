package routes

import (
	"shopguard/config"
	"shopguard/controllers"
	"shopguard/database"
	"shopguard/middleware"
	"shopguard/models"

	"github.com/gofiber/fiber/v2"
)

func SetupSkuRoutes(app *fiber.App) {
	skuController := controllers.NewSkuController(database.GetDB())

	api := app.Group(config.MAIN_ROUTES+"/skus", middleware.AuthMiddleware)
	api.Get("/", skuController.GetSkus)
	api.Post("/", middleware.RequireRole(models.RoleOwner), skuController.CreateSku)
	api.Delete("/:id", middleware.RequireRole(models.RoleOwner), skuController.DeactivateSku)
}
