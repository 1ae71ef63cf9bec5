package inventory

import (
	"encoding/json"
	"fmt"
	"testing"

	"stockpilot-backend/internal/database"
	"stockpilot-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func TestCreateSale_AppendsLedgerRow(t *testing.T) {
	app := setupTest(t)
	p := mustCreateProduct(t, "WID-001", 100, 10)

	body := fiber.Map{"product_id": p.ID, "quantity": 3, "sold_at": "2026-08-15"}

	// Each submission appends; nothing deduplicates identical sales.
	for i := 0; i < 2; i++ {
		resp := doJSON(t, app, "POST", "/sales", body)
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("status = %d, want 201", resp.StatusCode)
		}
	}

	var count int64
	if err := database.DB.Model(&models.Sale{}).Where("product_id = ?", p.ID).Count(&count).Error; err != nil {
		t.Fatalf("count sales: %v", err)
	}
	if count != 2 {
		t.Errorf("ledger rows = %d, want 2", count)
	}

	// Recording a sale never touches stock.
	var reloaded models.Product
	if err := database.DB.First(&reloaded, "id = ?", p.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.Stock != 100 {
		t.Errorf("stock = %d, want 100", reloaded.Stock)
	}
}

func TestCreateSale_Validation(t *testing.T) {
	app := setupTest(t)
	p := mustCreateProduct(t, "WID-001", 100, 10)

	tests := []struct {
		name string
		body fiber.Map
		want int
	}{
		{"missing product_id", fiber.Map{"quantity": 3}, fiber.StatusBadRequest},
		{"zero quantity", fiber.Map{"product_id": p.ID, "quantity": 0}, fiber.StatusBadRequest},
		{"negative quantity", fiber.Map{"product_id": p.ID, "quantity": -2}, fiber.StatusBadRequest},
		{"bad date", fiber.Map{"product_id": p.ID, "quantity": 1, "sold_at": "15/08/2026"}, fiber.StatusBadRequest},
		{"unknown product", fiber.Map{"product_id": 9999, "quantity": 1}, fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, "POST", "/sales", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestListSales_ProductFilter(t *testing.T) {
	app := setupTest(t)
	a := mustCreateProduct(t, "SKU-A", 0, 0)
	b := mustCreateProduct(t, "SKU-B", 0, 0)

	for _, req := range []fiber.Map{
		{"product_id": a.ID, "quantity": 2, "sold_at": "2026-08-10"},
		{"product_id": a.ID, "quantity": 4, "sold_at": "2026-08-12"},
		{"product_id": b.ID, "quantity": 7, "sold_at": "2026-08-11"},
	} {
		resp := doJSON(t, app, "POST", "/sales", req)
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("seed sale: status = %d", resp.StatusCode)
		}
	}

	resp := doJSON(t, app, "GET", fmt.Sprintf("/sales?product_id=%d", a.ID), nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var sales []SaleResponse
	if err := json.NewDecoder(resp.Body).Decode(&sales); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("got %d sales, want 2", len(sales))
	}
	// Newest first.
	if sales[0].SoldAt != "2026-08-12" || sales[1].SoldAt != "2026-08-10" {
		t.Errorf("sold_at order = [%s, %s]", sales[0].SoldAt, sales[1].SoldAt)
	}
	for _, s := range sales {
		if s.ProductID != a.ID {
			t.Errorf("sale for product %d leaked into filtered list", s.ProductID)
		}
	}
}
