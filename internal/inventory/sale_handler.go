package inventory

import (
	"fmt"
	"time"

	"stockpilot-backend/internal/audit"
	"stockpilot-backend/internal/auth"
	"stockpilot-backend/internal/database"
	"stockpilot-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateSaleRequest struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	SoldAt    string `json:"sold_at"` // "2006-01-02", defaults to today
}

type SaleResponse struct {
	ID          uint   `json:"id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	SoldAt      string `json:"sold_at"`
	CreatedAt   string `json:"created_at"`
}

// POST /api/sales
// Intentionally non-idempotent: each submission appends a ledger row.
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		soldAt := time.Now()
		if body.SoldAt != "" {
			d, err := time.Parse("2006-01-02", body.SoldAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "sold_at must be 'YYYY-MM-DD'")
			}
			soldAt = d
		}

		sale := models.Sale{
			ProductID: body.ProductID,
			Quantity:  body.Quantity,
			SoldAt:    soldAt,
		}

		if err := database.DB.Create(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sale could not be recorded")
		}

		userID, userName := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Sale recorded: %s x%d", product.SKU, sale.Quantity),
			After:       sale,
		})

		return c.Status(fiber.StatusCreated).JSON(SaleResponse{
			ID:          sale.ID,
			ProductID:   sale.ProductID,
			ProductName: product.Name,
			SKU:         product.SKU,
			Quantity:    sale.Quantity,
			SoldAt:      sale.SoldAt.Format("2006-01-02"),
			CreatedAt:   sale.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/sales?product_id=
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("Product").Model(&models.Sale{})
		if productID := c.Query("product_id"); productID != "" {
			dbq = dbq.Where("product_id = ?", productID)
		}

		var sales []models.Sale
		if err := dbq.Order("sold_at DESC, id DESC").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sales could not be listed")
		}

		resp := make([]SaleResponse, 0, len(sales))
		for _, s := range sales {
			resp = append(resp, SaleResponse{
				ID:          s.ID,
				ProductID:   s.ProductID,
				ProductName: s.Product.Name,
				SKU:         s.Product.SKU,
				Quantity:    s.Quantity,
				SoldAt:      s.SoldAt.Format("2006-01-02"),
				CreatedAt:   s.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}
