package purchasing

import (
	"math"
	"time"

	"stockpilot-backend/internal/database"
	"stockpilot-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type OrderRisk string

const (
	RiskLate    OrderRisk = "LATE"
	RiskAtRisk  OrderRisk = "AT RISK"
	RiskOnTrack OrderRisk = "ON TRACK"
)

// atRiskHorizonDays is the window inside which a due order counts as AT RISK.
const atRiskHorizonDays = 7

type OrderRiskRow struct {
	OrderID      uint      `json:"order_id"`
	Reference    string    `json:"reference"`
	Status       string    `json:"status"`
	SupplierName string    `json:"supplier_name,omitempty"`
	ExpectedDate *string   `json:"expected_date"`
	DaysUntilDue *int      `json:"days_until_due"`
	Risk         OrderRisk `json:"risk"`
}

// ClassifyOrderRisk maps an expected date against "now". Orders without
// an expected date have nothing to be late against and stay ON TRACK.
func ClassifyOrderRisk(expected *time.Time, now time.Time) (OrderRisk, *int) {
	if expected == nil {
		return RiskOnTrack, nil
	}
	days := int(math.Ceil(expected.Sub(now).Hours() / 24))
	switch {
	case days < 0:
		return RiskLate, &days
	case days <= atRiskHorizonDays:
		return RiskAtRisk, &days
	default:
		return RiskOnTrack, &days
	}
}

// GET /api/purchase-orders/intelligence
// Read-only projection over every not-yet-received order.
func OrderIntelligenceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var orders []models.PurchaseOrder
		if err := database.DB.
			Preload("Supplier").
			Where("status <> ?", models.PurchaseOrderReceived).
			Order("expected_date ASC NULLS LAST, id ASC").
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Purchase orders could not be listed")
		}

		now := time.Now()
		rows := make([]OrderRiskRow, 0, len(orders))
		for _, o := range orders {
			risk, days := ClassifyOrderRisk(o.ExpectedDate, now)

			row := OrderRiskRow{
				OrderID:      o.ID,
				Reference:    o.Reference,
				Status:       string(o.Status),
				DaysUntilDue: days,
				Risk:         risk,
			}
			if o.Supplier != nil {
				row.SupplierName = o.Supplier.Name
			}
			if o.ExpectedDate != nil {
				d := o.ExpectedDate.Format("2006-01-02")
				row.ExpectedDate = &d
			}
			rows = append(rows, row)
		}

		return c.JSON(rows)
	}
}
