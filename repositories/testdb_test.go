package repositories

import (
	"testing"
	"time"

	"shopguard/controllers/idgen"
	"shopguard/migration"
	"shopguard/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	idgen.Init()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// In-memory sqlite is per connection; keep the pool at one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := migration.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedShopWithStock(t *testing.T, db *gorm.DB, quantity int) (shopID, skuID uint) {
	t.Helper()

	shop := models.Shop{Name: "Test Shop", OwnerName: "Ada", OwnerPhone: "0800000001", IsActive: true}
	if err := db.Create(&shop).Error; err != nil {
		t.Fatalf("seed shop: %v", err)
	}

	sku := models.SKU{Brand: "King's Oil", Size: "5L", IsActive: true}
	if err := db.Create(&sku).Error; err != nil {
		t.Fatalf("seed sku: %v", err)
	}

	inv := models.Inventory{
		ShopID:       shop.ID,
		SkuID:        sku.ID,
		Quantity:     quantity,
		CostPrice:    20,
		SellingPrice: 25,
	}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	return shop.ID, sku.ID
}

func inventoryQty(t *testing.T, db *gorm.DB, shopID, skuID uint) int {
	t.Helper()
	var inv models.Inventory
	if err := db.Where("shop_id = ? AND sku_id = ?", shopID, skuID).First(&inv).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	return inv.Quantity
}

func saleAt(saleID string, skuID uint, qty int, at time.Time) SaleInput {
	return SaleInput{
		SaleID:    saleID,
		SkuID:     skuID,
		Quantity:  qty,
		UnitPrice: 25,
		SoldAt:    at,
	}
}
