package models

import "time"

type Supplier struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:200;not null"`
	LeadTimeDays int    `gorm:"not null;default:30"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
