package models

import "time"

// Sale is an append-only ledger row; it is never updated or deleted.
type Sale struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Quantity  int       `gorm:"not null"`
	SoldAt    time.Time `gorm:"index;not null"` // defaults to the creation date
	CreatedAt time.Time
}
