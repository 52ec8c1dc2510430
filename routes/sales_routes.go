package routes

import (
	"shopguard/config"
	"shopguard/controllers"
	"shopguard/database"
	"shopguard/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupSalesRoutes(app *fiber.App) {
	salesController := controllers.NewSalesController(database.GetDB())

	api := app.Group(config.MAIN_ROUTES+"/sales", middleware.AuthMiddleware)
	api.Post("/sync", salesController.SyncSales)
	api.Get("/history", salesController.GetSalesHistory)
	api.Get("/summary", salesController.GetSalesSummary)
}
