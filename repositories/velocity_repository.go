package repositories

import (
	"time"

	"shopguard/engine"

	"gorm.io/gorm"
)

// VelocityRepository computes the per-SKU sales-velocity snapshot the
// spot-check engine decides on. The aggregation runs as one grouped
// query over the movement log; conditional sums keep it portable
// across the supported database drivers.
type VelocityRepository struct {
	db *gorm.DB
}

func NewVelocityRepository(db *gorm.DB) *VelocityRepository {
	return &VelocityRepository{db}
}

type velocityRow struct {
	SkuID           uint       `gorm:"column:sku_id"`
	Brand           string     `gorm:"column:brand"`
	Size            string     `gorm:"column:size"`
	CurrentStock    int        `gorm:"column:current_stock"`
	LastHourSales   int        `gorm:"column:last_hour_sales"`
	SevenDayAvg     float64    `gorm:"column:seven_day_avg"`
	SalesSinceCount int        `gorm:"column:sales_since_count"`
	Last24hSales    int        `gorm:"column:last_day_sales"`
	LastCountAt     *time.Time `gorm:"column:last_count_at"`
}

const velocityQuery = `
SELECT
	i.sku_id AS sku_id,
	s.brand AS brand,
	s.size AS size,
	i.quantity AS current_stock,
	i.last_count_at AS last_count_at,
	COALESCE(SUM(CASE WHEN t.occurred_at >= ? THEN 1 ELSE 0 END), 0) AS last_hour_sales,
	COALESCE(SUM(CASE WHEN t.occurred_at >= ? THEN 1 ELSE 0 END), 0) / 168.0 AS seven_day_avg,
	COALESCE(SUM(CASE WHEN t.occurred_at > COALESCE(i.last_count_at, ?) THEN 1 ELSE 0 END), 0) AS sales_since_count,
	COALESCE(SUM(CASE WHEN t.occurred_at >= ? THEN 1 ELSE 0 END), 0) AS last_day_sales
FROM inventories i
INNER JOIN skus s ON s.id = i.sku_id
LEFT JOIN stock_transactions t
	ON t.shop_id = i.shop_id AND t.sku_id = i.sku_id AND t.type = ?
WHERE i.shop_id = ? AND i.deleted_at IS NULL AND s.deleted_at IS NULL AND s.is_active = ?
GROUP BY i.sku_id, s.brand, s.size, i.quantity, i.last_count_at
HAVING COALESCE(SUM(CASE WHEN t.occurred_at >= ? THEN 1 ELSE 0 END), 0) > 0
ORDER BY last_hour_sales DESC, sales_since_count DESC
`

// TopCandidate returns the snapshot for the SKU most worth checking
// right now: among SKUs with at least one sale in the last 24 hours,
// the one with the highest recent activity. Returns nil when nothing
// sold recently, which callers treat as "no check".
func (r *VelocityRepository) TopCandidate(shopID uint, now time.Time) (*engine.VelocitySnapshot, error) {
	hourAgo := now.Add(-1 * time.Hour)
	weekAgo := now.AddDate(0, 0, -7)
	dayAgo := now.Add(-24 * time.Hour)

	var rows []velocityRow
	err := r.db.Raw(velocityQuery,
		hourAgo, weekAgo, dayAgo, dayAgo,
		"SALE", shopID, true,
		dayAgo,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	top := rows[0]
	return &engine.VelocitySnapshot{
		SkuID:           top.SkuID,
		Brand:           top.Brand,
		Size:            top.Size,
		CurrentStock:    top.CurrentStock,
		LastHourSales:   top.LastHourSales,
		SevenDayAvg:     top.SevenDayAvg,
		SalesSinceCount: top.SalesSinceCount,
		Last24hSales:    top.Last24hSales,
		LastCountAt:     top.LastCountAt,
	}, nil
}

// SaleTimes returns the sale timestamps for one SKU since the given
// moment, oldest first. The pattern detector consumes these.
func (r *VelocityRepository) SaleTimes(shopID, skuID uint, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.Raw(`
SELECT occurred_at FROM stock_transactions
WHERE shop_id = ? AND sku_id = ? AND type = ? AND occurred_at >= ?
ORDER BY occurred_at ASC`,
		shopID, skuID, "SALE", since,
	).Scan(&times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}
