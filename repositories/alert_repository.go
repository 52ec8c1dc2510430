package repositories

import (
	"time"

	"shopguard/engine"
	"shopguard/models"

	"gorm.io/gorm"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db}
}

type AlertFilter struct {
	Status   string
	Severity string
	Days     int
	Limit    int
	Offset   int
}

type AlertRow struct {
	ID              int64      `json:"id,string" gorm:"column:id"`
	SkuID           uint       `json:"sku_id" gorm:"column:sku_id"`
	Brand           string     `json:"brand" gorm:"column:brand"`
	Size            string     `json:"size" gorm:"column:size"`
	Type            string     `json:"type" gorm:"column:type"`
	Severity        string     `json:"severity" gorm:"column:severity"`
	Message         string     `json:"message" gorm:"column:message"`
	ExpectedQty     int        `json:"expected_qty" gorm:"column:expected_qty"`
	ActualQty       int        `json:"actual_qty" gorm:"column:actual_qty"`
	Variance        int        `json:"variance" gorm:"column:variance"`
	VariancePercent float64    `json:"variance_percent" gorm:"column:variance_percent"`
	EstimatedLoss   float64    `json:"estimated_loss" gorm:"column:estimated_loss"`
	Status          string     `json:"status" gorm:"column:status"`
	ResolvedBy      *string    `json:"resolved_by" gorm:"column:resolved_by"`
	ResolvedAt      *time.Time `json:"resolved_at" gorm:"column:resolved_at"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at"`
}

// List returns alerts for a shop newest first, optionally narrowed by
// status, severity and age.
func (r *AlertRepository) List(shopID uint, f AlertFilter) ([]AlertRow, error) {
	query := r.db.Table("alerts a").
		Select(`a.id, a.sku_id, s.brand, s.size, a.type, a.severity, a.message,
			a.expected_qty, a.actual_qty, a.variance, a.variance_percent,
			a.estimated_loss, a.status, u.full_name AS resolved_by,
			a.resolved_at, a.created_at`).
		Joins("INNER JOIN skus s ON s.id = a.sku_id").
		Joins("LEFT JOIN users u ON u.id = a.resolved_by").
		Where("a.shop_id = ?", shopID).
		Order("a.created_at DESC")

	if f.Status != "" {
		query = query.Where("a.status = ?", f.Status)
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

	var rows []AlertRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type AlertSummary struct {
	TotalActive   int64   `json:"total_active"`
	CriticalCount int64   `json:"critical_count"`
	WarningCount  int64   `json:"warning_count"`
	MinorCount    int64   `json:"minor_count"`
	TotalLoss     float64 `json:"total_estimated_loss"`
	PeriodDays    int     `json:"period_days"`
}

// Summary aggregates unresolved alert counts by severity plus the
// estimated loss accumulated over the given window.
func (r *AlertRepository) Summary(shopID uint, days int) (*AlertSummary, error) {
	since := time.Now().AddDate(0, 0, -days)

	var row struct {
		TotalActive   int64   `gorm:"column:total_active"`
		CriticalCount int64   `gorm:"column:critical_count"`
		WarningCount  int64   `gorm:"column:warning_count"`
		MinorCount    int64   `gorm:"column:minor_count"`
		TotalLoss     float64 `gorm:"column:total_loss"`
	}

	err := r.db.Raw(`
SELECT
	COALESCE(SUM(CASE WHEN status <> ? THEN 1 ELSE 0 END), 0) AS total_active,
	COALESCE(SUM(CASE WHEN severity = ? AND status <> ? THEN 1 ELSE 0 END), 0) AS critical_count,
	COALESCE(SUM(CASE WHEN severity = ? AND status <> ? THEN 1 ELSE 0 END), 0) AS warning_count,
	COALESCE(SUM(CASE WHEN severity = ? AND status <> ? THEN 1 ELSE 0 END), 0) AS minor_count,
	COALESCE(SUM(CASE WHEN created_at >= ? THEN estimated_loss ELSE 0 END), 0) AS total_loss
FROM alerts
WHERE shop_id = ?`,
		models.AlertStatusResolved,
		engine.SeverityCritical, models.AlertStatusResolved,
		engine.SeverityWarning, models.AlertStatusResolved,
		engine.SeverityMinor, models.AlertStatusResolved,
		since, shopID,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &AlertSummary{
		TotalActive:   row.TotalActive,
		CriticalCount: row.CriticalCount,
		WarningCount:  row.WarningCount,
		MinorCount:    row.MinorCount,
		TotalLoss:     row.TotalLoss,
		PeriodDays:    days,
	}, nil
}
