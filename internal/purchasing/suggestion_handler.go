package purchasing

import (
	"fmt"
	"time"

	"stockpilot-backend/internal/audit"
	"stockpilot-backend/internal/auth"
	"stockpilot-backend/internal/config"
	"stockpilot-backend/internal/database"
	"stockpilot-backend/internal/models"
	"stockpilot-backend/internal/planning"

	"github.com/gofiber/fiber/v2"
)

type CreateFromSuggestionRequest struct {
	ProductID    uint   `json:"product_id"`
	Strategy     string `json:"strategy"`    // "lead-time" (default) or "coverage"
	TargetDays   int    `json:"target_days"` // coverage strategy, default 60
	ExpectedDate string `json:"expected_date"`
}

// POST /api/purchase-orders/from-suggestion
// Computes the suggested quantity for one product and materializes it as
// an open single-line purchase order.
func CreateFromSuggestionHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateFromSuggestionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
		}

		var product models.Product
		if err := database.DB.Preload("Supplier").First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		params := planning.SuggestionParams{
			Strategy:    planning.StrategyLeadTime,
			WindowDays:  cfg.VelocityWindowDays,
			BufferDays:  cfg.ReorderBufferDays,
			TargetDays:  60,
			DefaultLead: cfg.DefaultLeadTimeDays,
		}
		switch body.Strategy {
		case "", planning.StrategyLeadTime:
		case planning.StrategyCoverage:
			params.Strategy = planning.StrategyCoverage
			if body.TargetDays > 0 {
				if body.TargetDays > 365 {
					return fiber.NewError(fiber.StatusBadRequest, "target_days must be between 1 and 365")
				}
				params.TargetDays = body.TargetDays
			}
		default:
			return fiber.NewError(fiber.StatusBadRequest, "strategy must be 'lead-time' or 'coverage'")
		}

		velocity, err := planning.VelocityForProduct(database.DB, product.ID, params.WindowDays, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Velocity could not be computed")
		}

		qty := planning.SuggestForProduct(&product, velocity, params)
		if qty <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No reorder suggested for this product")
		}

		order := models.PurchaseOrder{
			Reference:  newOrderReference(),
			Status:     models.PurchaseOrderOpen,
			ProductID:  &product.ID,
			Quantity:   &qty,
			SupplierID: product.SupplierID,
		}
		if body.ExpectedDate != "" {
			d, err := time.Parse("2006-01-02", body.ExpectedDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "expected_date must be 'YYYY-MM-DD'")
			}
			order.ExpectedDate = &d
		}

		if err := database.DB.Create(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Purchase order could not be created")
		}

		userID, userName := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "purchase_order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Purchase order from suggestion: %s, %s x%d", order.Reference, product.SKU, qty),
			After:       order,
		})

		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(&order, false))
	}
}
