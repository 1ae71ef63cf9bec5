package database

import (
	"fmt"
	"time"

	"stockpilot-backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SchemaMigration tracks which migrations have been applied. The sequence
// below runs once per version, in order, at startup.
type SchemaMigration struct {
	Version   int `gorm:"primaryKey"`
	Name      string
	AppliedAt time.Time
}

type migration struct {
	version int
	name    string
	run     func(tx *gorm.DB) error
}

var migrations = []migration{
	{1, "initial schema", func(tx *gorm.DB) error {
		return tx.AutoMigrate(
			&models.User{},
			&models.Supplier{},
			&models.Product{},
			&models.Sale{},
			&models.PurchaseOrder{},
			&models.PurchaseOrderItem{},
			&models.AuditLog{},
		)
	}},
	{2, "normalize purchase order status casing", func(tx *gorm.DB) error {
		// Historical rows carry mixed casings ('DRAFT', 'RECEIVED');
		// lowercase is canonical.
		return tx.Exec("UPDATE purchase_orders SET status = LOWER(status)").Error
	}},
	{3, "default missing supplier lead times", func(tx *gorm.DB) error {
		return tx.Exec("UPDATE suppliers SET lead_time_days = 30 WHERE lead_time_days IS NULL OR lead_time_days = 0").Error
	}},
}

// Migrate applies all pending migrations in order. Each migration runs in
// its own transaction together with its schema_migrations record, so a
// failure leaves the version counter consistent with the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var applied int64
		if err := db.Model(&SchemaMigration{}).Where("version = ?", m.version).Count(&applied).Error; err != nil {
			return fmt.Errorf("check migration %d: %w", m.version, err)
		}
		if applied > 0 {
			continue
		}

		logrus.WithFields(logrus.Fields{"version": m.version, "name": m.name}).Info("applying migration")

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.run(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: m.version, Name: m.name, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}

	return nil
}
