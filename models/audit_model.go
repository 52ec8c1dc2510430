package models

import (
	"time"

	"shopguard/controllers/idgen"
	"shopguard/types"

	"gorm.io/gorm"
)

// AuditLog records one physical count submission. Immutable after
// creation except the Resolved flag, toggled by an owner.
type AuditLog struct {
	ID              types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	ShopID          uint              `json:"shop_id" gorm:"index:idx_audit_shop_sku;not null"`
	SkuID           uint              `json:"sku_id" gorm:"index:idx_audit_shop_sku;not null"`
	UserID          uint              `json:"user_id"`
	TriggerType     string            `json:"trigger_type" gorm:"default:'MANUAL'"`
	ExpectedQty     int               `json:"expected_qty"`
	ActualQty       int               `json:"actual_qty"`
	Variance        int               `json:"variance"`
	VariancePercent float64           `json:"variance_percent"`
	EstimatedLoss   float64           `json:"estimated_loss"`
	Severity        string            `json:"severity"`
	Resolved        bool              `json:"resolved" gorm:"default:false"`
	CreatedAt       time.Time         `json:"created_at" gorm:"index"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == 0 {
		a.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}
