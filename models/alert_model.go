package models

import (
	"time"

	"shopguard/controllers/idgen"
	"shopguard/types"

	"gorm.io/gorm"
)

const (
	AlertStatusNew          = "new"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusResolved     = "resolved"
)

// Alert is the dashboard-visible escalation of a material audit
// variance. One alert per audit submission at most.
type Alert struct {
	ID              types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	ShopID          uint              `json:"shop_id" gorm:"index;not null"`
	SkuID           uint              `json:"sku_id" gorm:"index;not null"`
	AuditLogID      types.SnowflakeID `json:"audit_log_id" gorm:"index"`
	Type            string            `json:"type" gorm:"default:'VARIANCE_DETECTED'"`
	Severity        string            `json:"severity"`
	Message         string            `json:"message"`
	ExpectedQty     int               `json:"expected_qty"`
	ActualQty       int               `json:"actual_qty"`
	Variance        int               `json:"variance"`
	VariancePercent float64           `json:"variance_percent"`
	EstimatedLoss   float64           `json:"estimated_loss" gorm:"default:0"`
	Status          string            `json:"status" gorm:"default:'new';index"`
	ResolvedBy      uint              `json:"resolved_by"`
	ResolvedAt      *time.Time        `json:"resolved_at"`
	ResolutionNotes string            `json:"resolution_notes"`
	CreatedAt       time.Time         `json:"created_at" gorm:"index"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == 0 {
		a.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}
