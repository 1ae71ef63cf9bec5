package models

import "time"

type Product struct {
	ID           uint   `gorm:"primaryKey"`
	SKU          string `gorm:"size:50;uniqueIndex;not null"`
	Name         string `gorm:"size:200;not null"`
	Stock        int    `gorm:"not null;default:0"`
	ReorderPoint int    `gorm:"not null;default:0"`
	LeadTimeDays *int   // nil: fall back to supplier, then global default
	ImageURL     string `gorm:"size:500"`
	SupplierID   *uint  `gorm:"index"`
	Supplier     *Supplier
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
