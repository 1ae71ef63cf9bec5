package database

import (
	"stockpilot-backend/internal/config"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("database connection failed: %v", err)
	}

	if err := Migrate(DB); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	logrus.Info("database ready")
}
