package models

import (
	"time"

	"gorm.io/gorm"
)

// Inventory is the ledger entry: one row per (shop, sku). Quantity is
// deliberately allowed to go negative: oversell recorded by an offline
// device is a loss signal for the audit verifier, not an error.
//
// Invariant: Quantity = count at LastCountAt + restocks - sales (+ decant
// in - decant out) since that count. Only the audit verifier resets
// LastCountAt, collapsing accumulated drift back to zero.
type Inventory struct {
	gorm.Model
	ShopID       uint       `json:"shop_id" gorm:"uniqueIndex:idx_inventory_shop_sku;not null"`
	SkuID        uint       `json:"sku_id" gorm:"uniqueIndex:idx_inventory_shop_sku;not null"`
	Quantity     int        `json:"quantity" gorm:"default:0"`
	CostPrice    float64    `json:"cost_price" gorm:"default:0"`
	SellingPrice float64    `json:"selling_price" gorm:"default:0"`
	ReorderLevel int        `json:"reorder_level" gorm:"default:0"`
	LastCountAt  *time.Time `json:"last_count_at"`
	Sku          SKU        `json:"sku" gorm:"foreignKey:SkuID"`
}
