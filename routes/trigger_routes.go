package routes

import (
	"shopguard/config"
	"shopguard/controllers"
	"shopguard/database"
	"shopguard/middleware"
	"shopguard/models"

	"github.com/gofiber/fiber/v2"
)

func SetupTriggerRoutes(app *fiber.App) {
	triggerController := controllers.NewTriggerController(database.GetDB())

	api := app.Group(config.MAIN_ROUTES+"/ai", middleware.AuthMiddleware)
	api.Get("/trigger-count", triggerController.GetTriggerCount)
	api.Get("/theft-patterns", middleware.RequireRole(models.RoleOwner), triggerController.GetTheftPatterns)
}
