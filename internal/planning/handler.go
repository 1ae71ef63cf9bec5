package planning

import (
	"strconv"
	"time"

	"stockpilot-backend/internal/config"
	"stockpilot-backend/internal/database"
	"stockpilot-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type VelocityWindow struct {
	WindowDays    int     `json:"window_days"`
	TotalQuantity int     `json:"total_quantity"`
	DailyVelocity float64 `json:"daily_velocity"`
}

type VelocityResponse struct {
	ProductID uint             `json:"product_id"`
	SKU       string           `json:"sku"`
	Windows   []VelocityWindow `json:"windows"`
}

// GET /api/inventory/velocity?product_id=&days=
// With days: that single trailing window. Without: the fixed 7/14/30/90
// set in one response.
func VelocityHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID, err := queryUint(c, "product_id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "product_id is required and must be numeric")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		windows := FixedWindows
		if daysStr := c.Query("days"); daysStr != "" {
			days, err := strconv.Atoi(daysStr)
			if err != nil || days < 1 || days > 365 {
				return fiber.NewError(fiber.StatusBadRequest, "days must be between 1 and 365")
			}
			windows = []int{days}
		}

		now := time.Now()
		resp := VelocityResponse{ProductID: product.ID, SKU: product.SKU}
		for _, w := range windows {
			total, err := SalesTotalInWindow(database.DB, product.ID, w, now)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Velocity could not be computed")
			}
			resp.Windows = append(resp.Windows, VelocityWindow{
				WindowDays:    w,
				TotalQuantity: total,
				DailyVelocity: DailyVelocity(total, w),
			})
		}

		return c.JSON(resp)
	}
}

// GET /api/inventory/reorder-status
func ReorderStatusHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := BuildReorderRows(database.DB, cfg.VelocityWindowDays, cfg.DefaultLeadTimeDays, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reorder status could not be computed")
		}
		return c.JSON(rows)
	}
}

// GET /api/inventory/suggestions?strategy=lead-time|coverage&target_days=&lead_time_days=&buffer_days=
func SuggestionsHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params, err := suggestionParamsFromQuery(c, cfg)
		if err != nil {
			return err
		}

		suggestions, buildErr := BuildSuggestions(database.DB, params, time.Now())
		if buildErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suggestions could not be computed")
		}

		return c.JSON(fiber.Map{
			"strategy":    params.Strategy,
			"suggestions": suggestions,
		})
	}
}

func suggestionParamsFromQuery(c *fiber.Ctx, cfg *config.Config) (SuggestionParams, error) {
	params := SuggestionParams{
		Strategy:    StrategyLeadTime,
		WindowDays:  cfg.VelocityWindowDays,
		BufferDays:  cfg.ReorderBufferDays,
		TargetDays:  60,
		DefaultLead: cfg.DefaultLeadTimeDays,
	}

	switch c.Query("strategy") {
	case "", StrategyLeadTime:
	case StrategyCoverage:
		params.Strategy = StrategyCoverage
	default:
		return params, fiber.NewError(fiber.StatusBadRequest, "strategy must be 'lead-time' or 'coverage'")
	}

	if v := c.Query("target_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			return params, fiber.NewError(fiber.StatusBadRequest, "target_days must be between 1 and 365")
		}
		params.TargetDays = n
	}
	if v := c.Query("lead_time_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			return params, fiber.NewError(fiber.StatusBadRequest, "lead_time_days must be between 1 and 365")
		}
		params.LeadTimeDays = n
	}
	if v := c.Query("buffer_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 365 {
			return params, fiber.NewError(fiber.StatusBadRequest, "buffer_days must be between 0 and 365")
		}
		params.BufferDays = n
	}

	return params, nil
}

func queryUint(c *fiber.Ctx, key string) (uint, error) {
	v, err := strconv.ParseUint(c.Query(key), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
