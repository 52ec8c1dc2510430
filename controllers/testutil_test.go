package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopguard/config"
	"shopguard/controllers/idgen"
	"shopguard/migration"
	"shopguard/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.LoadConfig()
	idgen.Init()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

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

// newTestApp builds a fiber app whose requests carry a fixed staff
// identity, standing in for the token middleware.
func newTestApp(shopID, userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(ctx *fiber.Ctx) error {
		ctx.Locals("userID", float64(userID))
		ctx.Locals("shopID", float64(shopID))
		ctx.Locals("role", models.RoleStaff)
		return ctx.Next()
	})
	return app
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

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp, decoded
}
