package planning

import (
	"time"

	"stockpilot-backend/internal/models"

	"gorm.io/gorm"
)

// ReorderRow is the per-product reorder status projection.
type ReorderRow struct {
	ProductID     uint          `json:"product_id"`
	SKU           string        `json:"sku"`
	Name          string        `json:"name"`
	Stock         int           `json:"stock"`
	DailyVelocity float64       `json:"daily_velocity"`
	DaysOfStock   *float64      `json:"days_of_stock"` // null: infinite runway
	LeadTimeDays  int           `json:"lead_time_days"`
	Status        ReorderStatus `json:"status"`
}

// Suggestion is one row of the reorder-suggestion projection. Rows with a
// zero suggested quantity are never part of the list.
type Suggestion struct {
	ProductID     uint    `json:"product_id"`
	SKU           string  `json:"sku"`
	Name          string  `json:"name"`
	Stock         int     `json:"stock"`
	DailyVelocity float64 `json:"daily_velocity"`
	SuggestedQty  int     `json:"suggested_qty"`
}

const (
	StrategyLeadTime = "lead-time"
	StrategyCoverage = "coverage"
)

// SuggestionParams pins down one suggestion computation. Exactly one
// strategy applies; the unused fields are ignored.
type SuggestionParams struct {
	Strategy     string
	WindowDays   int
	LeadTimeDays int // lead-time strategy; per-product resolution overrides when 0
	BufferDays   int // lead-time strategy
	TargetDays   int // coverage strategy
	DefaultLead  int
}

// BuildReorderRows computes the reorder status for every product. One
// implementation backs both the status endpoint and anything layered on
// top of it.
func BuildReorderRows(db *gorm.DB, windowDays, defaultLead int, now time.Time) ([]ReorderRow, error) {
	var products []models.Product
	if err := db.Preload("Supplier").Order("sku asc").Find(&products).Error; err != nil {
		return nil, err
	}

	rows := make([]ReorderRow, 0, len(products))
	for i := range products {
		p := &products[i]
		velocity, err := VelocityForProduct(db, p.ID, windowDays, now)
		if err != nil {
			return nil, err
		}

		days := DaysOfStock(p.Stock, velocity)
		lead := ResolveLeadTime(p, defaultLead)

		rows = append(rows, ReorderRow{
			ProductID:     p.ID,
			SKU:           p.SKU,
			Name:          p.Name,
			Stock:         p.Stock,
			DailyVelocity: velocity,
			DaysOfStock:   days,
			LeadTimeDays:  lead,
			Status:        Classify(days, lead),
		})
	}

	return rows, nil
}

// BuildSuggestions computes the suggestion list for one strategy and
// drops every zero-quantity row.
func BuildSuggestions(db *gorm.DB, params SuggestionParams, now time.Time) ([]Suggestion, error) {
	var products []models.Product
	if err := db.Preload("Supplier").Order("sku asc").Find(&products).Error; err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0)
	for i := range products {
		p := &products[i]
		velocity, err := VelocityForProduct(db, p.ID, params.WindowDays, now)
		if err != nil {
			return nil, err
		}

		qty := SuggestForProduct(p, velocity, params)
		if qty <= 0 {
			continue
		}

		suggestions = append(suggestions, Suggestion{
			ProductID:     p.ID,
			SKU:           p.SKU,
			Name:          p.Name,
			Stock:         p.Stock,
			DailyVelocity: velocity,
			SuggestedQty:  qty,
		})
	}

	return suggestions, nil
}

// SuggestForProduct applies one strategy to one product.
func SuggestForProduct(p *models.Product, velocity float64, params SuggestionParams) int {
	switch params.Strategy {
	case StrategyCoverage:
		return CoverageSuggestion(velocity, p.Stock, params.TargetDays)
	default:
		lead := params.LeadTimeDays
		if lead <= 0 {
			lead = ResolveLeadTime(p, params.DefaultLead)
		}
		return LeadTimeSuggestion(velocity, p.Stock, lead, params.BufferDays)
	}
}
