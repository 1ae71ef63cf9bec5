package planning

import "stockpilot-backend/internal/models"

type ReorderStatus string

const (
	StatusOrderNow  ReorderStatus = "ORDER NOW"
	StatusOrderSoon ReorderStatus = "ORDER SOON"
	StatusOK        ReorderStatus = "OK"
)

// Classify maps a runway against a reference lead time:
// ORDER NOW when days_of_stock <= L, ORDER SOON when <= 1.5*L, OK
// otherwise. A nil runway (zero velocity) is always OK.
func Classify(daysOfStock *float64, leadTimeDays int) ReorderStatus {
	if daysOfStock == nil {
		return StatusOK
	}
	l := float64(leadTimeDays)
	switch {
	case *daysOfStock <= l:
		return StatusOrderNow
	case *daysOfStock <= 1.5*l:
		return StatusOrderSoon
	default:
		return StatusOK
	}
}

// ResolveLeadTime picks the reference lead time for a product: the
// product's own lead_time_days, else its supplier's, else the global
// default. The supplier must be preloaded for the middle step to apply.
func ResolveLeadTime(p *models.Product, defaultDays int) int {
	if p.LeadTimeDays != nil && *p.LeadTimeDays > 0 {
		return *p.LeadTimeDays
	}
	if p.Supplier != nil && p.Supplier.LeadTimeDays > 0 {
		return p.Supplier.LeadTimeDays
	}
	return defaultDays
}

// LeadTimeSuggestion computes ceil((lead + buffer) * velocity - stock),
// clamped to zero. Zero means no reorder is suggested.
func LeadTimeSuggestion(velocity float64, stock, leadTimeDays, bufferDays int) int {
	needed := CeilUnits(float64(leadTimeDays+bufferDays)*velocity - float64(stock))
	if needed < 0 {
		return 0
	}
	return needed
}

// CoverageSuggestion computes the quantity needed to hold targetDays of
// cover: max(ceil(velocity * targetDays) - stock, 0).
func CoverageSuggestion(velocity float64, stock, targetDays int) int {
	neededStock := CeilUnits(velocity * float64(targetDays))
	order := neededStock - stock
	if order < 0 {
		return 0
	}
	return order
}
