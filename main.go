package main

import (
	"fmt"
	"log"

	"shopguard/config"
	"shopguard/controllers/idgen"
	"shopguard/database"
	"shopguard/migration"
	"shopguard/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {
	config.LoadConfig()

	database.EnsureDatabaseExists(config.DBName)

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	app := fiber.New()
	config.SetupCORS(app)

	routes.SetupAuthRoutes(app)
	routes.SetupSalesRoutes(app)
	routes.SetupTriggerRoutes(app)
	routes.SetupAuditRoutes(app)
	routes.SetupAlertRoutes(app)
	routes.SetupInventoryRoutes(app)
	routes.SetupSkuRoutes(app)

	addr := fmt.Sprintf(":%s", config.APP_PORT)
	log.Printf("Listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
