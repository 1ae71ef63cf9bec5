package models

import "time"

type PurchaseOrderStatus string

// Canonical lowercase status values. Legacy rows with other casings are
// normalized by a startup migration.
const (
	PurchaseOrderDraft    PurchaseOrderStatus = "draft"
	PurchaseOrderOpen     PurchaseOrderStatus = "open"
	PurchaseOrderReceived PurchaseOrderStatus = "received"
)

// PurchaseOrder supports two shapes: the legacy single-line form keeps
// product_id + quantity directly on the order, the current form carries a
// supplier and a list of items. An order with no items falls back to its
// direct product/quantity at receipt.
type PurchaseOrder struct {
	ID           uint                `gorm:"primaryKey"`
	Reference    string              `gorm:"size:30;uniqueIndex;not null"`
	Status       PurchaseOrderStatus `gorm:"size:20;not null;default:'open'"`
	SupplierID   *uint               `gorm:"index"`
	Supplier     *Supplier
	ProductID    *uint // legacy single-line form
	Product      *Product
	Quantity     *int // legacy single-line form
	ExpectedDate *time.Time `gorm:"type:date"`
	ReceivedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
}

type PurchaseOrderItem struct {
	ID              uint `gorm:"primaryKey"`
	PurchaseOrderID uint `gorm:"index;not null"`
	ProductID       uint `gorm:"index;not null"`
	Product         Product
	Quantity        int `gorm:"not null"`
	CreatedAt       time.Time
}

func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// IsReceived reports whether the order is in its terminal state.
func (po *PurchaseOrder) IsReceived() bool {
	return po.Status == PurchaseOrderReceived
}
