package planning

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"stockpilot-backend/internal/config"
	"stockpilot-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

// GET /api/inventory/suggestions/export
// Same projection as the JSON suggestion list, rendered as a CSV
// attachment.
func ExportSuggestionsHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params, err := suggestionParamsFromQuery(c, cfg)
		if err != nil {
			return err
		}

		suggestions, buildErr := BuildSuggestions(database.DB, params, time.Now())
		if buildErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suggestions could not be computed")
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write([]string{"sku", "name", "stock", "daily_velocity", "suggested_qty"})
		for _, s := range suggestions {
			_ = w.Write([]string{
				s.SKU,
				s.Name,
				fmt.Sprintf("%d", s.Stock),
				fmt.Sprintf("%.4f", s.DailyVelocity),
				fmt.Sprintf("%d", s.SuggestedQty),
			})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "CSV could not be written")
		}

		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="reorder-suggestions.csv"`)
		return c.Send(buf.Bytes())
	}
}
