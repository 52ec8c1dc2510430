package routes

import (
	"shopguard/config"
	"shopguard/controllers"
	"shopguard/database"
	"shopguard/middleware"
	"shopguard/models"

	"github.com/gofiber/fiber/v2"
)

func SetupAlertRoutes(app *fiber.App) {
	alertController := controllers.NewAlertController(database.GetDB())

	api := app.Group(config.MAIN_ROUTES+"/alerts", middleware.AuthMiddleware)
	api.Get("/", alertController.GetAlerts)
	api.Get("/summary", alertController.GetAlertSummary)
	api.Get("/:id", alertController.GetAlertDetails)
	api.Put("/:id/acknowledge", alertController.AcknowledgeAlert)
	api.Put("/:id/resolve", middleware.RequireRole(models.RoleOwner), alertController.ResolveAlert)
}
