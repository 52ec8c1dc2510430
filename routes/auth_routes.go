package routes

import (
	"shopguard/config"
	"shopguard/controllers"
	"shopguard/database"
	"shopguard/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authController := controllers.NewAuthController(database.GetDB())

	api := app.Group(config.MAIN_ROUTES + "/auth")
	api.Post("/login", authController.Login)
	api.Post("/logout", middleware.AuthMiddleware, authController.Logout)
	api.Get("/me", middleware.AuthMiddleware, authController.Me)
}
