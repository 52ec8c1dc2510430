package routes

import (
	"shopguard/config"
	"shopguard/controllers"
	"shopguard/database"
	"shopguard/middleware"
	"shopguard/models"
	"shopguard/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuditRoutes(app *fiber.App) {
	auditController := controllers.NewAuditController(database.GetDB(), services.NewNotifier())

	api := app.Group(config.MAIN_ROUTES+"/audit", middleware.AuthMiddleware)
	api.Post("/verify", auditController.VerifyCount)
	api.Get("/history", auditController.GetAuditHistory)
	api.Get("/export", middleware.RequireRole(models.RoleOwner), auditController.ExportAudits)
}
