package repositories

import (
	"time"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db}
}

type AuditFilter struct {
	SkuID    uint
	Severity string
	Days     int
	Limit    int
	Offset   int
}

type AuditRow struct {
	ID              int64     `json:"id,string" gorm:"column:id"`
	SkuID           uint      `json:"sku_id" gorm:"column:sku_id"`
	Brand           string    `json:"brand" gorm:"column:brand"`
	Size            string    `json:"size" gorm:"column:size"`
	TriggerType     string    `json:"trigger_type" gorm:"column:trigger_type"`
	ExpectedQty     int       `json:"expected_qty" gorm:"column:expected_qty"`
	ActualQty       int       `json:"actual_qty" gorm:"column:actual_qty"`
	Variance        int       `json:"variance" gorm:"column:variance"`
	VariancePercent float64   `json:"variance_percent" gorm:"column:variance_percent"`
	EstimatedLoss   float64   `json:"estimated_loss" gorm:"column:estimated_loss"`
	Severity        string    `json:"severity" gorm:"column:severity"`
	CountedBy       string    `json:"counted_by" gorm:"column:counted_by"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
}

// History returns settled counts for a shop newest first. The same
// rows feed both the dashboard list and the spreadsheet export.
func (r *AuditRepository) History(shopID uint, f AuditFilter) ([]AuditRow, error) {
	query := r.db.Table("audit_logs a").
		Select(`a.id, a.sku_id, s.brand, s.size, a.trigger_type,
			a.expected_qty, a.actual_qty, a.variance, a.variance_percent,
			a.estimated_loss, a.severity, u.full_name AS counted_by, a.created_at`).
		Joins("INNER JOIN skus s ON s.id = a.sku_id").
		Joins("LEFT JOIN users u ON u.id = a.user_id").
		Where("a.shop_id = ?", shopID).
		Order("a.created_at DESC")

	if f.SkuID > 0 {
		query = query.Where("a.sku_id = ?", f.SkuID)
	}
	if f.Severity != "" {
		query = query.Where("a.severity = ?", f.Severity)
	}
	if f.Days > 0 {
		query = query.Where("a.created_at >= ?", time.Now().AddDate(0, 0, -f.Days))
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit).Offset(f.Offset)
	}

	var rows []AuditRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
