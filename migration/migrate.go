package migration

import (
	"shopguard/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Shop{},
		&models.User{},
		&models.SKU{},
		&models.Inventory{},
		&models.StockTransaction{},
		&models.SaleEvent{},
		&models.Restock{},
		&models.Decant{},
		&models.AuditLog{},
		&models.Alert{},
	)
}
