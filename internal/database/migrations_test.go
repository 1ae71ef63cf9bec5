package database

import (
	"testing"

	"stockpilot-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestMigrate_AppliesAllVersionsOnce(t *testing.T) {
	db := openTestDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}

	var count int64
	if err := db.Model(&SchemaMigration{}).Count(&count).Error; err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != int64(len(migrations)) {
		t.Errorf("applied %d migrations, want %d", count, len(migrations))
	}

	// A second run is a no-op.
	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if err := db.Model(&SchemaMigration{}).Count(&count).Error; err != nil {
		t.Fatalf("recount migrations: %v", err)
	}
	if count != int64(len(migrations)) {
		t.Errorf("second run changed the count to %d", count)
	}

	// The schema is usable afterwards.
	p := models.Product{SKU: "SKU-1", Name: "Widget"}
	if err := db.Create(&p).Error; err != nil {
		t.Errorf("insert into migrated schema: %v", err)
	}
}

func TestMigrate_NormalizesLegacyStatusCasing(t *testing.T) {
	db := openTestDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Simulate a legacy row written before the casing migration, then
	// replay that migration against it.
	if err := db.Exec("INSERT INTO purchase_orders (reference, status) VALUES ('PO-LEGACY', 'RECEIVED')").Error; err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}
	if err := db.Where("version = ?", 2).Delete(&SchemaMigration{}).Error; err != nil {
		t.Fatalf("reset migration record: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("re-run Migrate: %v", err)
	}

	var order models.PurchaseOrder
	if err := db.First(&order, "reference = ?", "PO-LEGACY").Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != models.PurchaseOrderReceived {
		t.Errorf("status = %q, want %q", order.Status, models.PurchaseOrderReceived)
	}
}

func TestMigrate_DefaultsSupplierLeadTimes(t *testing.T) {
	db := openTestDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	if err := db.Exec("INSERT INTO suppliers (name, lead_time_days) VALUES ('Zero Lead Co', 0)").Error; err != nil {
		t.Fatalf("insert supplier: %v", err)
	}
	if err := db.Where("version = ?", 3).Delete(&SchemaMigration{}).Error; err != nil {
		t.Fatalf("reset migration record: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("re-run Migrate: %v", err)
	}

	var supplier models.Supplier
	if err := db.First(&supplier, "name = ?", "Zero Lead Co").Error; err != nil {
		t.Fatalf("load supplier: %v", err)
	}
	if supplier.LeadTimeDays != 30 {
		t.Errorf("lead_time_days = %d, want 30", supplier.LeadTimeDays)
	}
}
