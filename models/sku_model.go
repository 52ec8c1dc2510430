package models

import (
	"time"

	"gorm.io/gorm"
)

// SKU is the catalog entry for one sellable product form. The same
// brand/size pair can exist twice, once as carton and once as bottle.
type SKU struct {
	gorm.Model
	Brand          string     `json:"brand" gorm:"not null;uniqueIndex:idx_sku_identity"`
	Size           string     `json:"size" gorm:"not null;uniqueIndex:idx_sku_identity"`
	IsCarton       bool       `json:"is_carton" gorm:"default:false;uniqueIndex:idx_sku_identity"`
	UnitsPerCarton int        `json:"units_per_carton" gorm:"default:12"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	DiscontinuedAt *time.Time `json:"discontinued_at"`
	CreatedBy      int        `json:"created_by"`
}
