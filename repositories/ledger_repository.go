package repositories

import (
	"errors"
	"time"

	"shopguard/models"

	"gorm.io/gorm"
)

var (
	ErrSkuNotInLedger      = errors.New("sku not found in inventory ledger")
	ErrInsufficientCartons = errors.New("insufficient carton inventory")
)

// LedgerRepository owns every mutation of the inventory quantity
// column. All three writers (sale reconciliation, restock, audit
// checkpoint reset) go through single-row atomic updates here, so two
// service instances can mutate the same row without lost updates.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db}
}

type SaleInput struct {
	SaleID    string
	SkuID     uint
	Quantity  int
	UnitPrice float64
	SoldAt    time.Time
}

type ApplyResult int

const (
	SaleApplied ApplyResult = iota
	SaleDuplicate
)

// ApplySale applies one client sale event exactly once: the dedup row,
// the ledger decrement and the movement-log append commit together or
// not at all. A sale id already on record is reported as a duplicate,
// never an error, so devices can re-send a whole batch after a dropped
// acknowledgement.
//
// The decrement is unconditional and quantity may go negative. An
// oversold ledger is exactly the drift the audit verifier exists to
// surface, so rejecting the sale here would hide the signal.
func (r *LedgerRepository) ApplySale(shopID, userID uint, deviceID string, in SaleInput) (ApplyResult, error) {
	result := SaleApplied

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.SaleEvent
		err := tx.Where("shop_id = ? AND sale_id = ?", shopID, in.SaleID).First(&existing).Error
		if err == nil {
			result = SaleDuplicate
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var inv models.Inventory
		if err := tx.Where("shop_id = ? AND sku_id = ?", shopID, in.SkuID).First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSkuNotInLedger
			}
			return err
		}

		event := models.SaleEvent{
			ShopID:    shopID,
			SaleID:    in.SaleID,
			DeviceID:  deviceID,
			SkuID:     in.SkuID,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			SoldAt:    in.SoldAt,
			SyncedAt:  time.Now(),
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Inventory{}).
			Where("shop_id = ? AND sku_id = ?", shopID, in.SkuID).
			UpdateColumns(map[string]interface{}{
				"quantity":   gorm.Expr("quantity - ?", in.Quantity),
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		movement := models.StockTransaction{
			ShopID:      shopID,
			SkuID:       in.SkuID,
			Type:        models.TransSale,
			Quantity:    -in.Quantity,
			UnitPrice:   in.UnitPrice,
			TotalAmount: float64(in.Quantity) * in.UnitPrice,
			UserID:      userID,
			DeviceID:    deviceID,
			SaleID:      in.SaleID,
			OccurredAt:  in.SoldAt,
		}
		return tx.Create(&movement).Error
	})

	if err != nil {
		// A concurrent sync of the same batch can slip past the
		// membership check; the unique index on (shop_id, sale_id)
		// then rejects the second insert. That is a duplicate, not
		// a failure.
		var existing models.SaleEvent
		if r.db.Where("shop_id = ? AND sale_id = ?", shopID, in.SaleID).
			First(&existing).Error == nil {
			return SaleDuplicate, nil
		}
		return SaleApplied, err
	}

	return result, nil
}

type RestockInput struct {
	SkuID        uint
	OrderedQty   int
	ReceivedQty  int
	CostPrice    float64
	SellingPrice float64
	SupplierName string
}

// ApplyRestock records a supplier delivery: the restock row, the
// ledger increment (upsert) and the movement row commit together. Only
// the received quantity enters the ledger; the ordered/received
// discrepancy stays on the restock record for reporting.
func (r *LedgerRepository) ApplyRestock(shopID, userID uint, in RestockInput) (*models.Restock, int, error) {
	restock := models.Restock{
		ShopID:       shopID,
		SkuID:        in.SkuID,
		OrderedQty:   in.OrderedQty,
		ReceivedQty:  in.ReceivedQty,
		Discrepancy:  in.ReceivedQty - in.OrderedQty,
		CostPrice:    in.CostPrice,
		SellingPrice: in.SellingPrice,
		SupplierName: in.SupplierName,
		UserID:       userID,
	}

	var quantityAfter int

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&restock).Error; err != nil {
			return err
		}

		update := tx.Model(&models.Inventory{}).
			Where("shop_id = ? AND sku_id = ?", shopID, in.SkuID).
			UpdateColumns(map[string]interface{}{
				"quantity":      gorm.Expr("quantity + ?", in.ReceivedQty),
				"cost_price":    in.CostPrice,
				"selling_price": in.SellingPrice,
				"updated_at":    time.Now(),
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			inv := models.Inventory{
				ShopID:       shopID,
				SkuID:        in.SkuID,
				Quantity:     in.ReceivedQty,
				CostPrice:    in.CostPrice,
				SellingPrice: in.SellingPrice,
			}
			if err := tx.Create(&inv).Error; err != nil {
				return err
			}
		}

		var inv models.Inventory
		if err := tx.Where("shop_id = ? AND sku_id = ?", shopID, in.SkuID).First(&inv).Error; err != nil {
			return err
		}
		quantityAfter = inv.Quantity

		movement := models.StockTransaction{
			ShopID:      shopID,
			SkuID:       in.SkuID,
			Type:        models.TransRestock,
			Quantity:    in.ReceivedQty,
			UnitPrice:   in.CostPrice,
			TotalAmount: float64(in.ReceivedQty) * in.CostPrice,
			UserID:      userID,
			DeviceID:    "web-dashboard",
			OccurredAt:  time.Now(),
		}
		return tx.Create(&movement).Error
	})

	if err != nil {
		return nil, 0, err
	}
	return &restock, quantityAfter, nil
}

type DecantInput struct {
	CartonSkuID    uint
	UnitSkuID      uint
	Cartons        int
	UnitsPerCarton int
}

// ApplyDecant moves stock from carton form to unit form. Paired
// DECANT_OUT / DECANT_IN movements keep the log balanced; total stock
// value does not change.
func (r *LedgerRepository) ApplyDecant(shopID, userID uint, in DecantInput) (*models.Decant, error) {
	unitsCreated := in.Cartons * in.UnitsPerCarton
	decant := models.Decant{
		ShopID:       shopID,
		CartonSkuID:  in.CartonSkuID,
		UnitSkuID:    in.UnitSkuID,
		CartonsUsed:  in.Cartons,
		UnitsCreated: unitsCreated,
		UserID:       userID,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var cartonInv models.Inventory
		err := tx.Where("shop_id = ? AND sku_id = ?", shopID, in.CartonSkuID).First(&cartonInv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && cartonInv.Quantity < in.Cartons) {
			return ErrInsufficientCartons
		}
		if err != nil {
			return err
		}

		if err := tx.Create(&decant).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Inventory{}).
			Where("shop_id = ? AND sku_id = ?", shopID, in.CartonSkuID).
			UpdateColumns(map[string]interface{}{
				"quantity":   gorm.Expr("quantity - ?", in.Cartons),
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		update := tx.Model(&models.Inventory{}).
			Where("shop_id = ? AND sku_id = ?", shopID, in.UnitSkuID).
			UpdateColumns(map[string]interface{}{
				"quantity":   gorm.Expr("quantity + ?", unitsCreated),
				"updated_at": time.Now(),
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			inv := models.Inventory{ShopID: shopID, SkuID: in.UnitSkuID, Quantity: unitsCreated}
			if err := tx.Create(&inv).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		movements := []models.StockTransaction{
			{
				ShopID:     shopID,
				SkuID:      in.CartonSkuID,
				Type:       models.TransDecantOut,
				Quantity:   -in.Cartons,
				UserID:     userID,
				DeviceID:   "web-dashboard",
				OccurredAt: now,
			},
			{
				ShopID:     shopID,
				SkuID:      in.UnitSkuID,
				Type:       models.TransDecantIn,
				Quantity:   unitsCreated,
				UserID:     userID,
				DeviceID:   "web-dashboard",
				OccurredAt: now,
			},
		}
		return tx.Create(&movements).Error
	})

	if err != nil {
		return nil, err
	}
	return &decant, nil
}

// ResetCheckpoint re-anchors the ledger after a verified physical
// count: quantity becomes the counted value and the count timestamp
// moves to now. This is the only place accumulated drift is collapsed.
func (r *LedgerRepository) ResetCheckpoint(tx *gorm.DB, shopID, skuID uint, counted int, now time.Time) error {
	return tx.Model(&models.Inventory{}).
		Where("shop_id = ? AND sku_id = ?", shopID, skuID).
		UpdateColumns(map[string]interface{}{
			"quantity":      counted,
			"last_count_at": now,
			"updated_at":    now,
		}).Error
}
