package models

import "gorm.io/gorm"

// Restock records a supplier delivery. Ordered vs received discrepancy
// is kept on the row; only the received quantity enters the ledger.
type Restock struct {
	gorm.Model
	ShopID       uint    `json:"shop_id" gorm:"index;not null"`
	SkuID        uint    `json:"sku_id" gorm:"index;not null"`
	OrderedQty   int     `json:"ordered_qty"`
	ReceivedQty  int     `json:"received_qty"`
	Discrepancy  int     `json:"discrepancy"`
	CostPrice    float64 `json:"cost_price"`
	SellingPrice float64 `json:"selling_price"`
	SupplierName string  `json:"supplier_name" gorm:"size:150"`
	UserID       uint    `json:"user_id"`
}

// Decant records breaking cartons into unit bottles. Total stock value
// is unchanged; only the storage form moves.
type Decant struct {
	gorm.Model
	ShopID       uint `json:"shop_id" gorm:"index;not null"`
	CartonSkuID  uint `json:"carton_sku_id"`
	UnitSkuID    uint `json:"unit_sku_id"`
	CartonsUsed  int  `json:"cartons_used"`
	UnitsCreated int  `json:"units_created"`
	UserID       uint `json:"user_id"`
}
