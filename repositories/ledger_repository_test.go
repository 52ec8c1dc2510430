package repositories

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"shopguard/models"
)

func TestApplySaleDecrementsAndLogs(t *testing.T) {
	db := newTestDB(t)
	shopID, skuID := seedShopWithStock(t, db, 10)
	repo := NewLedgerRepository(db)

	result, err := repo.ApplySale(shopID, 1, "pos-1", saleAt("sale-0001-aaaa", skuID, 3, time.Now()))
	if err != nil {
		t.Fatalf("apply sale: %v", err)
	}
	if result != SaleApplied {
		t.Fatalf("want SaleApplied, got %v", result)
	}

	if qty := inventoryQty(t, db, shopID, skuID); qty != 7 {
		t.Fatalf("quantity: want 7, got %d", qty)
	}

	var movement models.StockTransaction
	if err := db.Where("shop_id = ? AND sale_id = ?", shopID, "sale-0001-aaaa").First(&movement).Error; err != nil {
		t.Fatalf("movement row missing: %v", err)
	}
	if movement.Type != models.TransSale {
		t.Fatalf("movement type: want SALE, got %s", movement.Type)
	}
	if movement.Quantity != -3 {
		t.Fatalf("movement quantity: want -3, got %d", movement.Quantity)
	}
}

func TestApplySaleIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	shopID, skuID := seedShopWithStock(t, db, 10)
	repo := NewLedgerRepository(db)

	sale := saleAt("sale-0002-bbbb", skuID, 4, time.Now())
	if _, err := repo.ApplySale(shopID, 1, "pos-1", sale); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	// The device re-sends after a lost acknowledgement.
	result, err := repo.ApplySale(shopID, 1, "pos-1", sale)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if result != SaleDuplicate {
		t.Fatalf("want SaleDuplicate, got %v", result)
	}

	if qty := inventoryQty(t, db, shopID, skuID); qty != 6 {
		t.Fatalf("quantity decremented twice: want 6, got %d", qty)
	}

	var movements int64
	db.Model(&models.StockTransaction{}).Where("sale_id = ?", sale.SaleID).Count(&movements)
	if movements != 1 {
		t.Fatalf("movement logged twice: want 1, got %d", movements)
	}
}

func TestApplySaleConcurrentSyncsLoseNoUpdates(t *testing.T) {
	db := newTestDB(t)
	shopID, skuID := seedShopWithStock(t, db, 30)
	repo := NewLedgerRepository(db)

	// Two devices flush their queues at the same time. Every decrement
	// must land; the single-row atomic update carries the guarantee.
	const perDevice = 4
	errs := make(chan error, 2*perDevice)
	var wg sync.WaitGroup
	for d := 0; d < 2; d++ {
		wg.Add(1)
		go func(device int) {
			defer wg.Done()
			for i := 0; i < perDevice; i++ {
				saleID := fmt.Sprintf("sale-dev%d-%04d", device, i)
				_, err := repo.ApplySale(shopID, 1, fmt.Sprintf("pos-%d", device), saleAt(saleID, skuID, 1, time.Now()))
				errs <- err
			}
		}(d)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent apply: %v", err)
		}
	}

	if qty := inventoryQty(t, db, shopID, skuID); qty != 22 {
		t.Fatalf("quantity after 8 concurrent sales: want 22, got %d", qty)
	}

	var movements int64
	db.Model(&models.StockTransaction{}).Where("shop_id = ? AND sku_id = ?", shopID, skuID).Count(&movements)
	if movements != 8 {
		t.Fatalf("movement rows: want 8, got %d", movements)
	}
}

func TestApplySaleAllowsOversell(t *testing.T) {
	db := newTestDB(t)
	shopID, skuID := seedShopWithStock(t, db, 2)
	repo := NewLedgerRepository(db)

	if _, err := repo.ApplySale(shopID, 1, "pos-1", saleAt("sale-0003-cccc", skuID, 5, time.Now())); err != nil {
		t.Fatalf("apply sale: %v", err)
	}

	if qty := inventoryQty(t, db, shopID, skuID); qty != -3 {
		t.Fatalf("oversell must go negative: want -3, got %d", qty)
	}
}

func TestApplySaleUnknownSku(t *testing.T) {
	db := newTestDB(t)
	shopID, _ := seedShopWithStock(t, db, 10)
	repo := NewLedgerRepository(db)

	_, err := repo.ApplySale(shopID, 1, "pos-1", saleAt("sale-0004-dddd", 9999, 1, time.Now()))
	if !errors.Is(err, ErrSkuNotInLedger) {
		t.Fatalf("want ErrSkuNotInLedger, got %v", err)
	}

	// Nothing may be recorded for a rejected event.
	var events int64
	db.Model(&models.SaleEvent{}).Count(&events)
	if events != 0 {
		t.Fatalf("rejected sale left an event row, count %d", events)
	}
}

func TestApplyRestockUpsertsLedger(t *testing.T) {
	db := newTestDB(t)
	shopID, skuID := seedShopWithStock(t, db, 5)
	repo := NewLedgerRepository(db)

	restock, after, err := repo.ApplyRestock(shopID, 1, RestockInput{
		SkuID:        skuID,
		OrderedQty:   24,
		ReceivedQty:  20,
		CostPrice:    18,
		SellingPrice: 26,
		SupplierName: "Acme Distributors",
	})
	if err != nil {
		t.Fatalf("apply restock: %v", err)
	}
	if after != 25 {
		t.Fatalf("quantity after: want 25, got %d", after)
	}
	if restock.Discrepancy != -4 {
		t.Fatalf("discrepancy: want -4, got %d", restock.Discrepancy)
	}

	var movement models.StockTransaction
	if err := db.Where("shop_id = ? AND type = ?", shopID, models.TransRestock).First(&movement).Error; err != nil {
		t.Fatalf("restock movement missing: %v", err)
	}
	if movement.Quantity != 20 {
		t.Fatalf("movement quantity: want 20, got %d", movement.Quantity)
	}
}

func TestApplyRestockCreatesMissingLedgerRow(t *testing.T) {
	db := newTestDB(t)
	shopID, _ := seedShopWithStock(t, db, 5)

	sku := models.SKU{Brand: "King's Oil", Size: "1L", IsActive: true}
	if err := db.Create(&sku).Error; err != nil {
		t.Fatalf("seed second sku: %v", err)
	}

	repo := NewLedgerRepository(db)
	_, after, err := repo.ApplyRestock(shopID, 1, RestockInput{
		SkuID:        sku.ID,
		OrderedQty:   12,
		ReceivedQty:  12,
		CostPrice:    5,
		SellingPrice: 7,
		SupplierName: "Acme Distributors",
	})
	if err != nil {
		t.Fatalf("apply restock: %v", err)
	}
	if after != 12 {
		t.Fatalf("quantity after: want 12, got %d", after)
	}
}

func TestApplyDecantMovesStockBetweenForms(t *testing.T) {
	db := newTestDB(t)
	shopID, _ := seedShopWithStock(t, db, 5)

	carton := models.SKU{Brand: "King's Oil", Size: "1L", IsCarton: true, UnitsPerCarton: 12, IsActive: true}
	unit := models.SKU{Brand: "King's Oil", Size: "1L", IsActive: true}
	if err := db.Create(&carton).Error; err != nil {
		t.Fatalf("seed carton sku: %v", err)
	}
	if err := db.Create(&unit).Error; err != nil {
		t.Fatalf("seed unit sku: %v", err)
	}
	if err := db.Create(&models.Inventory{ShopID: shopID, SkuID: carton.ID, Quantity: 4}).Error; err != nil {
		t.Fatalf("seed carton inventory: %v", err)
	}

	repo := NewLedgerRepository(db)
	decant, err := repo.ApplyDecant(shopID, 1, DecantInput{
		CartonSkuID:    carton.ID,
		UnitSkuID:      unit.ID,
		Cartons:        2,
		UnitsPerCarton: 12,
	})
	if err != nil {
		t.Fatalf("apply decant: %v", err)
	}
	if decant.UnitsCreated != 24 {
		t.Fatalf("units created: want 24, got %d", decant.UnitsCreated)
	}

	if qty := inventoryQty(t, db, shopID, carton.ID); qty != 2 {
		t.Fatalf("carton quantity: want 2, got %d", qty)
	}
	if qty := inventoryQty(t, db, shopID, unit.ID); qty != 24 {
		t.Fatalf("unit quantity: want 24, got %d", qty)
	}

	var movements int64
	db.Model(&models.StockTransaction{}).
		Where("shop_id = ? AND type IN ?", shopID, []string{models.TransDecantOut, models.TransDecantIn}).
		Count(&movements)
	if movements != 2 {
		t.Fatalf("want paired decant movements, got %d", movements)
	}
}

func TestApplyDecantRejectsShortCartons(t *testing.T) {
	db := newTestDB(t)
	shopID, skuID := seedShopWithStock(t, db, 1)
	repo := NewLedgerRepository(db)

	_, err := repo.ApplyDecant(shopID, 1, DecantInput{
		CartonSkuID:    skuID,
		UnitSkuID:      skuID,
		Cartons:        3,
		UnitsPerCarton: 12,
	})
	if !errors.Is(err, ErrInsufficientCartons) {
		t.Fatalf("want ErrInsufficientCartons, got %v", err)
	}
}

func TestResetCheckpoint(t *testing.T) {
	db := newTestDB(t)
	shopID, skuID := seedShopWithStock(t, db, 10)
	repo := NewLedgerRepository(db)

	if _, err := repo.ApplySale(shopID, 1, "pos-1", saleAt("sale-0005-eeee", skuID, 8, time.Now())); err != nil {
		t.Fatalf("apply sale: %v", err)
	}

	now := time.Now()
	if err := repo.ResetCheckpoint(db, shopID, skuID, 1, now); err != nil {
		t.Fatalf("reset checkpoint: %v", err)
	}

	var inv models.Inventory
	if err := db.Where("shop_id = ? AND sku_id = ?", shopID, skuID).First(&inv).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if inv.Quantity != 1 {
		t.Fatalf("quantity: want counted value 1, got %d", inv.Quantity)
	}
	if inv.LastCountAt == nil {
		t.Fatal("last_count_at not set by checkpoint reset")
	}
}
