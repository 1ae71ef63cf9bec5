package purchasing

import (
	"strings"

	"stockpilot-backend/internal/database"
	"stockpilot-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SupplierResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	LeadTimeDays int    `json:"lead_time_days"`
}

type CreateSupplierRequest struct {
	Name         string `json:"name"`
	LeadTimeDays *int   `json:"lead_time_days"`
}

type UpdateSupplierRequest struct {
	Name         *string `json:"name"`
	LeadTimeDays *int    `json:"lead_time_days"`
}

// POST /api/suppliers
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		leadTime := 30
		if body.LeadTimeDays != nil {
			if *body.LeadTimeDays < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "lead_time_days must be positive")
			}
			leadTime = *body.LeadTimeDays
		}

		s := models.Supplier{Name: body.Name, LeadTimeDays: leadTime}
		if err := database.DB.Create(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Supplier could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(SupplierResponse{
			ID:           s.ID,
			Name:         s.Name,
			LeadTimeDays: s.LeadTimeDays,
		})
	}
}

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []models.Supplier
		if err := database.DB.Order("name asc").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppliers could not be listed")
		}

		res := make([]SupplierResponse, 0, len(suppliers))
		for _, s := range suppliers {
			res = append(res, SupplierResponse{ID: s.ID, Name: s.Name, LeadTimeDays: s.LeadTimeDays})
		}
		return c.JSON(res)
	}
}

// PUT /api/suppliers/:id
func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		var body UpdateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			s.Name = name
		}
		if body.LeadTimeDays != nil {
			if *body.LeadTimeDays < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "lead_time_days must be positive")
			}
			s.LeadTimeDays = *body.LeadTimeDays
		}

		if err := database.DB.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Supplier could not be updated")
		}

		return c.JSON(SupplierResponse{ID: s.ID, Name: s.Name, LeadTimeDays: s.LeadTimeDays})
	}
}
