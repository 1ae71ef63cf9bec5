package planning

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stockpilot-backend/internal/config"
	"stockpilot-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

func testConfig() *config.Config {
	return &config.Config{
		VelocityWindowDays:  30,
		DefaultLeadTimeDays: 30,
		ReorderBufferDays:   14,
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	database.DB = testDB(t)

	cfg := testConfig()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unexpected server error"})
		},
	})
	app.Get("/inventory/velocity", VelocityHandler(cfg))
	app.Get("/inventory/reorder-status", ReorderStatusHandler(cfg))
	app.Get("/inventory/suggestions", SuggestionsHandler(cfg))
	app.Get("/inventory/suggestions/export", ExportSuggestionsHandler(cfg))
	return app
}

func doGet(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func TestVelocityHandler_FixedWindows(t *testing.T) {
	app := newTestApp(t)
	p := seedProduct(t, database.DB, "SKU-1", 10, 5)
	seedSale(t, database.DB, p.ID, 14, time.Now().AddDate(0, 0, -3))

	resp := doGet(t, app, fmt.Sprintf("/inventory/velocity?product_id=%d", p.ID))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body VelocityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Windows) != len(FixedWindows) {
		t.Fatalf("got %d windows, want %d", len(body.Windows), len(FixedWindows))
	}
	// The sale lands in every fixed window.
	for _, w := range body.Windows {
		if w.TotalQuantity != 14 {
			t.Errorf("window %d: total = %d, want 14", w.WindowDays, w.TotalQuantity)
		}
	}
	if body.Windows[0].WindowDays != 7 || body.Windows[0].DailyVelocity != 2 {
		t.Errorf("7-day window = %+v, want velocity 2", body.Windows[0])
	}
}

func TestVelocityHandler_Validation(t *testing.T) {
	app := newTestApp(t)
	p := seedProduct(t, database.DB, "SKU-1", 10, 5)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"missing product_id", "/inventory/velocity", fiber.StatusBadRequest},
		{"unknown product", "/inventory/velocity?product_id=9999", fiber.StatusNotFound},
		{"days too small", fmt.Sprintf("/inventory/velocity?product_id=%d&days=0", p.ID), fiber.StatusBadRequest},
		{"days too large", fmt.Sprintf("/inventory/velocity?product_id=%d&days=400", p.ID), fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doGet(t, app, tt.path)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestSuggestionsHandler_RejectsUnknownStrategy(t *testing.T) {
	app := newTestApp(t)

	resp := doGet(t, app, "/inventory/suggestions?strategy=psychic")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	resp = doGet(t, app, "/inventory/suggestions?strategy=coverage&target_days=9999")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("oversized target_days: status = %d, want 400", resp.StatusCode)
	}
}

func TestExportSuggestions_CSVMatchesProjection(t *testing.T) {
	app := newTestApp(t)
	now := time.Now()

	p := seedProduct(t, database.DB, "SKU-SHORT", 50, 10)
	seedSale(t, database.DB, p.ID, 60, now.AddDate(0, 0, -10))
	// Zero-suggestion product stays out of the file too.
	seedProduct(t, database.DB, "SKU-IDLE", 0, 10)

	resp := doGet(t, app, "/inventory/suggestions/export")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd == "" {
		t.Error("Content-Disposition missing")
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d csv rows, want header + 1", len(records))
	}
	if records[0][0] != "sku" || records[0][4] != "suggested_qty" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "SKU-SHORT" || records[1][4] != "38" {
		t.Errorf("row = %v, want SKU-SHORT with quantity 38", records[1])
	}
}
