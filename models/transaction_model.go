package models

import (
	"time"

	"shopguard/controllers/idgen"
	"shopguard/types"

	"gorm.io/gorm"
)

const (
	TransSale      = "SALE"
	TransRestock   = "RESTOCK"
	TransDecantOut = "DECANT_OUT"
	TransDecantIn  = "DECANT_IN"
)

// StockTransaction is the append-only movement log. Sales carry a
// negative quantity, restocks and decant-ins a positive one. Rows are
// never updated or deleted.
type StockTransaction struct {
	ID          types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	ShopID      uint              `json:"shop_id" gorm:"index:idx_trans_shop_sku;not null"`
	SkuID       uint              `json:"sku_id" gorm:"index:idx_trans_shop_sku;not null"`
	Type        string            `json:"type" gorm:"index;not null"`
	Quantity    int               `json:"quantity"`
	UnitPrice   float64           `json:"unit_price" gorm:"default:0"`
	TotalAmount float64           `json:"total_amount" gorm:"default:0"`
	UserID      uint              `json:"user_id"`
	DeviceID    string            `json:"device_id"`
	SaleID      string            `json:"sale_id"`
	OccurredAt  time.Time         `json:"occurred_at" gorm:"index"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (t *StockTransaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == 0 {
		t.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

// SaleEvent is the durable proof that a client sale was applied to the
// ledger. The client-generated sale id is the sole dedup key: a second
// sync of the same id is a no-op.
type SaleEvent struct {
	ID        uint      `json:"ID" gorm:"primaryKey"`
	ShopID    uint      `json:"shop_id" gorm:"uniqueIndex:idx_sale_event_identity;not null"`
	SaleID    string    `json:"sale_id" gorm:"uniqueIndex:idx_sale_event_identity;not null"`
	DeviceID  string    `json:"device_id"`
	SkuID     uint      `json:"sku_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	SoldAt    time.Time `json:"sold_at"`
	SyncedAt  time.Time `json:"synced_at"`
}
