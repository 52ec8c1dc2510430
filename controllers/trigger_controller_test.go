package controllers

import (
	"net/http"
	"testing"
	"time"
)

func setupTriggerApp(t *testing.T, sample float64) (run func(path string) (*http.Response, map[string]interface{}), shopID, skuID uint, controller *TriggerController) {
	db := newTestDB(t)
	shopID, skuID = seedShopWithStock(t, db, 30)

	app := newTestApp(shopID, 1)
	controller = NewTriggerController(db)
	controller.Sample = func() float64 { return sample }
	app.Get("/ai/trigger-count", controller.GetTriggerCount)

	sales := NewSalesController(db)
	app.Post("/sales/sync", sales.SyncSales)

	run = func(path string) (*http.Response, map[string]interface{}) {
		return doJSON(t, app, "GET", path, nil)
	}

	// Three quick sales put the SKU over the counter threshold and
	// give it a recent-activity signal.
	doJSON(t, app, "POST", "/sales/sync", syncPayload(skuID, "sale-aaaa-0001", "sale-aaaa-0002", "sale-aaaa-0003"))
	return run, shopID, skuID, controller
}

func TestGetTriggerCountFiresOnActiveSku(t *testing.T) {
	run, _, skuID, _ := setupTriggerApp(t, 0.99)

	resp, body := run("/ai/trigger-count?device_id=pos-device-1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: want 200, got %d (%v)", resp.StatusCode, body)
	}

	if body["should_trigger"] != true {
		t.Fatalf("expected trigger, got %v", body)
	}

	// Three sales inside the hour against a thin weekly baseline is a
	// spike; VOLUME at priority 3 outranks TIME and COUNTER.
	if body["type"].(string) != "VOLUME" {
		t.Fatalf("winner: want VOLUME, got %v", body["type"])
	}
	if body["priority"].(float64) != 3 {
		t.Fatalf("priority: want 3, got %v", body["priority"])
	}

	sku := body["sku_to_check"].(map[string]interface{})
	if uint(sku["id"].(float64)) != skuID {
		t.Fatalf("subject sku: want %d, got %v", skuID, sku["id"])
	}
	if sku["current_stock"].(float64) != 27 {
		t.Fatalf("current stock: want 27 after three sales, got %v", sku["current_stock"])
	}

	if body["prompt"].(string) != "Quick Check: How many King's Oil 5L on shelf?" {
		t.Fatalf("prompt: got %q", body["prompt"])
	}

	ui := body["ui_config"].(map[string]interface{})
	if ui["background_color"].(string) != "#D4AF37" {
		t.Fatalf("background color: got %v", ui["background_color"])
	}
	if ui["ui_locked"] != true {
		t.Fatal("ui must lock during the check")
	}
	if ui["timeout_seconds"].(float64) != 60 {
		t.Fatalf("timeout: want 60, got %v", ui["timeout_seconds"])
	}

	metadata := body["metadata"].(map[string]interface{})
	if metadata["last_hour_sales"].(float64) != 3 {
		t.Fatalf("last hour sales: want 3, got %v", metadata["last_hour_sales"])
	}
}

func TestGetTriggerCountRandomRule(t *testing.T) {
	run, _, _, controller := setupTriggerApp(t, 0.05)

	// Fresh checkpoint kills TIME and COUNTER; only the random draw
	// can fire.
	now := time.Now()
	db := controller.DB
	if err := db.Exec("UPDATE inventories SET last_count_at = ?", now).Error; err != nil {
		t.Fatalf("set checkpoint: %v", err)
	}
	if err := db.Exec("UPDATE stock_transactions SET occurred_at = ?", now.Add(-2*time.Hour)).Error; err != nil {
		t.Fatalf("age movements: %v", err)
	}

	resp, body := run("/ai/trigger-count?device_id=pos-device-1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: want 200, got %d", resp.StatusCode)
	}
	if body["should_trigger"] != true {
		t.Fatalf("expected random trigger, got %v", body)
	}
	if body["type"].(string) != "RANDOM" {
		t.Fatalf("winner: want RANDOM, got %v", body["type"])
	}
}

func TestGetTriggerCountQuietShop(t *testing.T) {
	db := newTestDB(t)
	shopID, _ := seedShopWithStock(t, db, 30)

	app := newTestApp(shopID, 1)
	controller := NewTriggerController(db)
	controller.Sample = func() float64 { return 0.0 }
	app.Get("/ai/trigger-count", controller.GetTriggerCount)

	// No sales at all: even a guaranteed random draw stays silent.
	resp, body := doJSON(t, app, "GET", "/ai/trigger-count?device_id=pos-device-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: want 200, got %d", resp.StatusCode)
	}
	if body["should_trigger"] != false {
		t.Fatalf("quiet shop must not trigger, got %v", body)
	}
}

func TestGetTriggerCountRequiresDevice(t *testing.T) {
	run, _, _, _ := setupTriggerApp(t, 0.5)

	resp, _ := run("/ai/trigger-count")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: want 400, got %d", resp.StatusCode)
	}
}
