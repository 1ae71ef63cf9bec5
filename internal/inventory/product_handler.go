package inventory

import (
	"fmt"
	"strings"

	"stockpilot-backend/internal/audit"
	"stockpilot-backend/internal/auth"
	"stockpilot-backend/internal/database"
	"stockpilot-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID           uint   `json:"id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Stock        int    `json:"stock"`
	ReorderPoint int    `json:"reorder_point"`
	LeadTimeDays *int   `json:"lead_time_days"`
	ImageURL     string `json:"image_url"`
	SupplierID   *uint  `json:"supplier_id"`
	CreatedAt    string `json:"created_at"`
}

type CreateProductRequest struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Stock        int    `json:"stock"`
	ReorderPoint int    `json:"reorder_point"`
	LeadTimeDays *int   `json:"lead_time_days"`
	ImageURL     string `json:"image_url"`
	SupplierID   *uint  `json:"supplier_id"`
}

type UpdateProductRequest struct {
	Name         *string `json:"name"`
	ReorderPoint *int    `json:"reorder_point"`
	LeadTimeDays *int    `json:"lead_time_days"`
	ImageURL     *string `json:"image_url"`
	SupplierID   *uint   `json:"supplier_id"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Stock:        p.Stock,
		ReorderPoint: p.ReorderPoint,
		LeadTimeDays: p.LeadTimeDays,
		ImageURL:     p.ImageURL,
		SupplierID:   p.SupplierID,
		CreatedAt:    p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("sku asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Products could not be listed")
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, toProductResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.SKU = strings.TrimSpace(body.SKU)
		body.Name = strings.TrimSpace(body.Name)

		if body.SKU == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "sku and name are required")
		}
		if body.Stock < 0 || body.ReorderPoint < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stock and reorder_point cannot be negative")
		}

		var existing models.Product
		if err := database.DB.Where("sku = ?", body.SKU).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "This SKU is already in use")
		}

		if body.SupplierID != nil {
			var supplier models.Supplier
			if err := database.DB.First(&supplier, "id = ?", *body.SupplierID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Supplier not found: %d", *body.SupplierID))
			}
		}

		p := models.Product{
			SKU:          body.SKU,
			Name:         body.Name,
			Stock:        body.Stock,
			ReorderPoint: body.ReorderPoint,
			LeadTimeDays: body.LeadTimeDays,
			ImageURL:     body.ImageURL,
			SupplierID:   body.SupplierID,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Product could not be created")
		}

		userID, userName := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Product created: %s (%s)", p.Name, p.SKU),
			After:       p,
		})

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&p))
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			p.Name = name
		}
		if body.ReorderPoint != nil {
			if *body.ReorderPoint < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "reorder_point cannot be negative")
			}
			p.ReorderPoint = *body.ReorderPoint
		}
		if body.LeadTimeDays != nil {
			p.LeadTimeDays = body.LeadTimeDays
		}
		if body.ImageURL != nil {
			p.ImageURL = *body.ImageURL
		}
		if body.SupplierID != nil {
			var supplier models.Supplier
			if err := database.DB.First(&supplier, "id = ?", *body.SupplierID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Supplier not found: %d", *body.SupplierID))
			}
			p.SupplierID = body.SupplierID
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Product could not be updated")
		}

		return c.JSON(toProductResponse(&p))
	}
}

type UpdateStockRequest struct {
	Stock *int `json:"stock"`
}

// PUT /api/products/:id/stock
func UpdateStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var body UpdateStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Stock == nil || *body.Stock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stock is required and cannot be negative")
		}

		previous := p.Stock
		p.Stock = *body.Stock
		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stock could not be updated")
		}

		userID, userName := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Stock adjusted: %s %d -> %d", p.SKU, previous, p.Stock),
			After:       p,
		})

		return c.JSON(toProductResponse(&p))
	}
}

// GET /api/products/reorder-needed
// Plain threshold filter: stock <= reorder_point. Velocity does not
// enter into this list.
func ReorderNeededHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.
			Where("stock <= reorder_point").
			Order("sku asc").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Products could not be listed")
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, toProductResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

type BulkImageUpdate struct {
	ProductID uint   `json:"product_id"`
	ImageURL  string `json:"image_url"`
}

type BulkImageUpdateRequest struct {
	Updates []BulkImageUpdate `json:"updates"`
}

type BulkResultResponse struct {
	Applied int      `json:"applied"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// PUT /api/products/bulk-images
// Rows apply independently; one bad row does not abort the rest.
func BulkImageUpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BulkImageUpdateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "At least one update is required")
		}

		result := BulkResultResponse{Errors: make([]string, 0)}
		for _, u := range body.Updates {
			if u.ProductID == 0 {
				result.Failed++
				result.Errors = append(result.Errors, "product_id is required")
				continue
			}
			res := database.DB.Model(&models.Product{}).
				Where("id = ?", u.ProductID).
				Update("image_url", u.ImageURL)
			if res.Error != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("product %d: %v", u.ProductID, res.Error))
				continue
			}
			if res.RowsAffected == 0 {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("product %d: not found", u.ProductID))
				continue
			}
			result.Applied++
		}

		return c.JSON(result)
	}
}
