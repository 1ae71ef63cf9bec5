package models

import "time"

type AuditAction string

const (
	AuditActionCreate  AuditAction = "create"
	AuditActionUpdate  AuditAction = "update"
	AuditActionReceive AuditAction = "receive"
	AuditActionImport  AuditAction = "import"
)

type AuditLog struct {
	ID          uint        `gorm:"primaryKey"`
	UserID      uint        `gorm:"index"`
	UserName    string      `gorm:"size:100"`
	EntityType  string      `gorm:"size:50;index;not null"`
	EntityID    uint        `gorm:"index"`
	Action      AuditAction `gorm:"size:20;not null"`
	Description string      `gorm:"size:500"`
	AfterData   string      `gorm:"type:jsonb;default:'null'"`
	CreatedAt   time.Time
}
