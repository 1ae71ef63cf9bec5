package purchasing

import (
	"fmt"
	"strings"
	"time"

	"stockpilot-backend/internal/audit"
	"stockpilot-backend/internal/auth"
	"stockpilot-backend/internal/database"
	"stockpilot-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type OrderItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateOrderRequest accepts both order shapes: the legacy single-line
// form (product_id + quantity) and the multi-line form (supplier_id +
// items).
type CreateOrderRequest struct {
	SupplierID   *uint              `json:"supplier_id"`
	ProductID    *uint              `json:"product_id"`
	Quantity     *int               `json:"quantity"`
	ExpectedDate string             `json:"expected_date"` // "2006-01-02", optional
	Items        []OrderItemRequest `json:"items"`
}

type OrderItemResponse struct {
	ID          uint   `json:"id"`
	ProductID   uint   `json:"product_id"`
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type OrderResponse struct {
	ID           uint                `json:"id"`
	Reference    string              `json:"reference"`
	Status       string              `json:"status"`
	SupplierID   *uint               `json:"supplier_id"`
	ProductID    *uint               `json:"product_id,omitempty"`
	Quantity     *int                `json:"quantity,omitempty"`
	ExpectedDate *string             `json:"expected_date"`
	ReceivedAt   *string             `json:"received_at"`
	ItemCount    int                 `json:"item_count"`
	UnitCount    int                 `json:"unit_count"`
	Items        []OrderItemResponse `json:"items,omitempty"`
	CreatedAt    string              `json:"created_at"`
}

func newOrderReference() string {
	return "PO-" + strings.ToUpper(uuid.NewString()[:8])
}

func toOrderResponse(o *models.PurchaseOrder, withItems bool) OrderResponse {
	resp := OrderResponse{
		ID:         o.ID,
		Reference:  o.Reference,
		Status:     string(o.Status),
		SupplierID: o.SupplierID,
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		CreatedAt:  o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if o.ExpectedDate != nil {
		d := o.ExpectedDate.Format("2006-01-02")
		resp.ExpectedDate = &d
	}
	if o.ReceivedAt != nil {
		t := o.ReceivedAt.Format("2006-01-02 15:04:05")
		resp.ReceivedAt = &t
	}

	if len(o.Items) > 0 {
		resp.ItemCount = len(o.Items)
		for _, item := range o.Items {
			resp.UnitCount += item.Quantity
			if withItems {
				resp.Items = append(resp.Items, OrderItemResponse{
					ID:          item.ID,
					ProductID:   item.ProductID,
					SKU:         item.Product.SKU,
					ProductName: item.Product.Name,
					Quantity:    item.Quantity,
				})
			}
		}
	} else if o.Quantity != nil {
		// Legacy single-line order: the direct fields stand in for one line.
		resp.ItemCount = 1
		resp.UnitCount = *o.Quantity
	}

	return resp
}

// POST /api/purchase-orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		order := models.PurchaseOrder{
			Reference: newOrderReference(),
			Status:    models.PurchaseOrderOpen,
		}

		if body.ExpectedDate != "" {
			d, err := time.Parse("2006-01-02", body.ExpectedDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "expected_date must be 'YYYY-MM-DD'")
			}
			order.ExpectedDate = &d
		}

		switch {
		case len(body.Items) > 0:
			if body.SupplierID == nil {
				return fiber.NewError(fiber.StatusBadRequest, "supplier_id is required for multi-line orders")
			}
			var supplier models.Supplier
			if err := database.DB.First(&supplier, "id = ?", *body.SupplierID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Supplier not found: %d", *body.SupplierID))
			}
			order.SupplierID = body.SupplierID

			for _, item := range body.Items {
				if item.ProductID == 0 || item.Quantity <= 0 {
					return fiber.NewError(fiber.StatusBadRequest, "every item needs a product_id and a positive quantity")
				}
				var product models.Product
				if err := database.DB.First(&product, "id = ?", item.ProductID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Product not found: %d", item.ProductID))
				}
				order.Items = append(order.Items, models.PurchaseOrderItem{
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
				})
			}

		case body.ProductID != nil:
			if body.Quantity == nil || *body.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
			}
			var product models.Product
			if err := database.DB.First(&product, "id = ?", *body.ProductID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Product not found: %d", *body.ProductID))
			}
			order.ProductID = body.ProductID
			order.Quantity = body.Quantity
			order.SupplierID = body.SupplierID

		default:
			return fiber.NewError(fiber.StatusBadRequest, "either items or product_id + quantity is required")
		}

		if err := database.DB.Create(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Purchase order could not be created")
		}

		if len(order.Items) > 0 {
			if err := database.DB.Preload("Product").Where("purchase_order_id = ?", order.ID).Find(&order.Items).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Order items could not be loaded")
			}
		}

		userID, userName := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "purchase_order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Purchase order created: %s", order.Reference),
			After:       order,
		})

		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(&order, true))
	}
}

// GET /api/purchase-orders?status=
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("Items")
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", strings.ToLower(status))
		}

		var orders []models.PurchaseOrder
		if err := dbq.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Purchase orders could not be listed")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i], false))
		}
		return c.JSON(resp)
	}
}

// GET /api/purchase-orders/:id/items
func OrderItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var order models.PurchaseOrder
		if err := database.DB.Preload("Items.Product").First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Purchase order not found")
		}

		items := make([]OrderItemResponse, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, OrderItemResponse{
				ID:          item.ID,
				ProductID:   item.ProductID,
				SKU:         item.Product.SKU,
				ProductName: item.Product.Name,
				Quantity:    item.Quantity,
			})
		}

		return c.JSON(fiber.Map{
			"order_id":  order.ID,
			"reference": order.Reference,
			"items":     items,
		})
	}
}

// POST /api/purchase-orders/:id/receive
// Credits stock for every line (or the legacy direct quantity) and flips
// the order to received, all inside one transaction. A second receive
// attempt conflicts; a failed line rolls every credit back.
func ReceiveOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var order models.PurchaseOrder
		if err := database.DB.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Purchase order not found")
		}
		if order.IsReceived() {
			return fiber.NewError(fiber.StatusConflict, "Purchase order has already been received")
		}

		type stockCredit struct {
			productID uint
			quantity  int
		}
		credits := make([]stockCredit, 0, len(order.Items))
		for _, item := range order.Items {
			credits = append(credits, stockCredit{item.ProductID, item.Quantity})
		}
		if len(credits) == 0 {
			if order.ProductID == nil || order.Quantity == nil || *order.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Purchase order has no receivable quantities")
			}
			credits = append(credits, stockCredit{*order.ProductID, *order.Quantity})
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaction could not be started")
		}

		// Guarded status flip doubles as the concurrency gate: of two
		// racing receives, only one UPDATE matches a non-received row.
		now := time.Now()
		res := tx.Model(&models.PurchaseOrder{}).
			Where("id = ? AND status <> ?", order.ID, models.PurchaseOrderReceived).
			Updates(map[string]interface{}{
				"status":      models.PurchaseOrderReceived,
				"received_at": now,
			})
		if res.Error != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Purchase order could not be updated")
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return fiber.NewError(fiber.StatusConflict, "Purchase order has already been received")
		}

		totalUnits := 0
		for _, credit := range credits {
			r := tx.Model(&models.Product{}).
				Where("id = ?", credit.productID).
				UpdateColumn("stock", gorm.Expr("stock + ?", credit.quantity))
			if r.Error != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Stock credit failed for product %d", credit.productID))
			}
			if r.RowsAffected == 0 {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Product %d not found during receive", credit.productID))
			}
			totalUnits += credit.quantity
		}

		if err := tx.Commit().Error; err != nil {
			logrus.WithField("order_id", order.ID).Errorf("receive commit failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Receive could not be completed")
		}

		userID, userName := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "purchase_order",
			EntityID:    order.ID,
			Action:      models.AuditActionReceive,
			Description: fmt.Sprintf("Purchase order received: %s, %d units", order.Reference, totalUnits),
		})

		return c.JSON(fiber.Map{
			"message":     "Purchase order received",
			"order_id":    order.ID,
			"reference":   order.Reference,
			"unit_count":  totalUnits,
			"received_at": now.Format("2006-01-02 15:04:05"),
		})
	}
}
