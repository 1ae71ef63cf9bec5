package main

import (
	"strings"

	"stockpilot-backend/internal/audit"
	"stockpilot-backend/internal/auth"
	"stockpilot-backend/internal/config"
	"stockpilot-backend/internal/database"
	"stockpilot-backend/internal/inventory"
	"stockpilot-backend/internal/models"
	"stockpilot-backend/internal/planning"
	"stockpilot-backend/internal/purchasing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logrus.Errorf("unexpected error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Product catalog and stock
	protected.Get("/products", inventory.ListProductsHandler())
	protected.Post("/products", inventory.CreateProductHandler())
	protected.Get("/products/reorder-needed", inventory.ReorderNeededHandler())
	protected.Put("/products/bulk-images", inventory.BulkImageUpdateHandler())
	protected.Post("/products/import", inventory.ImportStockHandler())
	protected.Put("/products/:id", inventory.UpdateProductHandler())
	protected.Put("/products/:id/stock", inventory.UpdateStockHandler())

	// Sales ledger
	protected.Post("/sales", inventory.CreateSaleHandler())
	protected.Get("/sales", inventory.ListSalesHandler())

	// Planning projections
	protected.Get("/inventory/velocity", planning.VelocityHandler(cfg))
	protected.Get("/inventory/reorder-status", planning.ReorderStatusHandler(cfg))
	protected.Get("/inventory/suggestions", planning.SuggestionsHandler(cfg))
	protected.Get("/inventory/suggestions/export", planning.ExportSuggestionsHandler(cfg))

	// Suppliers (admin only for writes)
	protected.Get("/suppliers", purchasing.ListSuppliersHandler())
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/suppliers", purchasing.CreateSupplierHandler())
	adminRoutes.Put("/suppliers/:id", purchasing.UpdateSupplierHandler())

	// Purchase orders
	protected.Post("/purchase-orders", purchasing.CreateOrderHandler())
	protected.Post("/purchase-orders/from-suggestion", purchasing.CreateFromSuggestionHandler(cfg))
	protected.Get("/purchase-orders", purchasing.ListOrdersHandler())
	protected.Get("/purchase-orders/intelligence", purchasing.OrderIntelligenceHandler())
	protected.Get("/purchase-orders/:id/items", purchasing.OrderItemsHandler())
	protected.Post("/purchase-orders/:id/receive", purchasing.ReceiveOrderHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	logrus.WithField("port", cfg.HTTPPort).Info("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logrus.Fatal(err)
	}
}
