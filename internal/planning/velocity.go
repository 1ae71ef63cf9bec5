package planning

import (
	"math"
	"time"

	"stockpilot-backend/internal/models"

	"gorm.io/gorm"
)

// FixedWindows are the trailing windows reported when a caller does not
// pick one explicitly.
var FixedWindows = []int{7, 14, 30, 90}

// SalesTotalInWindow sums sale quantities for a product with sold_at
// inside [now - windowDays, now].
func SalesTotalInWindow(db *gorm.DB, productID uint, windowDays int, now time.Time) (int, error) {
	var total int
	// COALESCE keeps the sum at 0 when the window holds no sales.
	err := db.Model(&models.Sale{}).
		Where("product_id = ? AND sold_at >= ? AND sold_at <= ?", productID, now.AddDate(0, 0, -windowDays), now).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// DailyVelocity converts a window total into units sold per day.
func DailyVelocity(totalQuantity, windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}
	return float64(totalQuantity) / float64(windowDays)
}

// VelocityForProduct recomputes the daily rate from stored sales on every
// call. Sales are append-only, so no caching layer sits in between.
func VelocityForProduct(db *gorm.DB, productID uint, windowDays int, now time.Time) (float64, error) {
	total, err := SalesTotalInWindow(db, productID, windowDays, now)
	if err != nil {
		return 0, err
	}
	return DailyVelocity(total, windowDays), nil
}

// DaysOfStock returns the runway before stockout, or nil when velocity is
// zero or negative (infinite runway, never flagged).
func DaysOfStock(stock int, velocity float64) *float64 {
	if velocity <= 0 {
		return nil
	}
	days := float64(stock) / velocity
	return &days
}

// CeilUnits rounds a fractional unit requirement up to whole units.
func CeilUnits(v float64) int {
	return int(math.Ceil(v))
}
