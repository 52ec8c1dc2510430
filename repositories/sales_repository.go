package repositories

import (
	"time"

	"shopguard/models"

	"gorm.io/gorm"
)

type SalesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) *SalesRepository {
	return &SalesRepository{db}
}

type SalesFilter struct {
	SkuID    uint
	DeviceID string
	Days     int
	Limit    int
	Offset   int
}

type SaleRow struct {
	SaleID    string    `json:"sale_id" gorm:"column:sale_id"`
	SkuID     uint      `json:"sku_id" gorm:"column:sku_id"`
	Brand     string    `json:"brand" gorm:"column:brand"`
	Size      string    `json:"size" gorm:"column:size"`
	Quantity  int       `json:"quantity" gorm:"column:quantity"`
	UnitPrice float64   `json:"unit_price" gorm:"column:unit_price"`
	DeviceID  string    `json:"device_id" gorm:"column:device_id"`
	SoldAt    time.Time `json:"sold_at" gorm:"column:sold_at"`
	SyncedAt  time.Time `json:"synced_at" gorm:"column:synced_at"`
}

// History lists synced sale events newest first.
func (r *SalesRepository) History(shopID uint, f SalesFilter) ([]SaleRow, error) {
	query := r.db.Table("sale_events e").
		Select(`e.sale_id, e.sku_id, s.brand, s.size, e.quantity,
			e.unit_price, e.device_id, e.sold_at, e.synced_at`).
		Joins("INNER JOIN skus s ON s.id = e.sku_id").
		Where("e.shop_id = ?", shopID).
		Order("e.sold_at DESC")

	if f.SkuID > 0 {
		query = query.Where("e.sku_id = ?", f.SkuID)
	}
	if f.DeviceID != "" {
		query = query.Where("e.device_id = ?", f.DeviceID)
	}
	if f.Days > 0 {
		query = query.Where("e.sold_at >= ?", time.Now().AddDate(0, 0, -f.Days))
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit).Offset(f.Offset)
	}

	var rows []SaleRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type SalesSummary struct {
	TotalSales   int64          `json:"total_sales"`
	TotalUnits   int64          `json:"total_units"`
	TotalRevenue float64        `json:"total_revenue"`
	PeriodDays   int            `json:"period_days"`
	TopProducts  []TopSkuVolume `json:"top_products"`
}

type TopSkuVolume struct {
	SkuID     uint    `json:"sku_id" gorm:"column:sku_id"`
	Brand     string  `json:"brand" gorm:"column:brand"`
	Size      string  `json:"size" gorm:"column:size"`
	UnitsSold int64   `json:"units_sold" gorm:"column:units_sold"`
	Revenue   float64 `json:"revenue" gorm:"column:revenue"`
}

// Summary totals the sale events of the window plus the five
// highest-volume SKUs.
func (r *SalesRepository) Summary(shopID uint, days int) (*SalesSummary, error) {
	since := time.Now().AddDate(0, 0, -days)

	var totals struct {
		TotalSales   int64   `gorm:"column:total_sales"`
		TotalUnits   int64   `gorm:"column:total_units"`
		TotalRevenue float64 `gorm:"column:total_revenue"`
	}
	err := r.db.Raw(`
SELECT
	COUNT(*) AS total_sales,
	COALESCE(SUM(quantity), 0) AS total_units,
	COALESCE(SUM(quantity * unit_price), 0) AS total_revenue
FROM sale_events
WHERE shop_id = ? AND sold_at >= ?`,
		shopID, since,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	var top []TopSkuVolume
	err = r.db.Raw(`
SELECT e.sku_id, s.brand, s.size,
	COALESCE(SUM(e.quantity), 0) AS units_sold,
	COALESCE(SUM(e.quantity * e.unit_price), 0) AS revenue
FROM sale_events e
INNER JOIN skus s ON s.id = e.sku_id
WHERE e.shop_id = ? AND e.sold_at >= ?
GROUP BY e.sku_id, s.brand, s.size
ORDER BY units_sold DESC
LIMIT 5`,
		shopID, since,
	).Scan(&top).Error
	if err != nil {
		return nil, err
	}

	return &SalesSummary{
		TotalSales:   totals.TotalSales,
		TotalUnits:   totals.TotalUnits,
		TotalRevenue: totals.TotalRevenue,
		PeriodDays:   days,
		TopProducts:  top,
	}, nil
}

// CountRecent reports how many sale events a device pushed in the
// window, used by the sync acknowledgement payload.
func (r *SalesRepository) CountRecent(shopID uint, deviceID string, since time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&models.SaleEvent{}).
		Where("shop_id = ? AND device_id = ? AND synced_at >= ?", shopID, deviceID, since).
		Count(&n).Error
	return n, err
}
