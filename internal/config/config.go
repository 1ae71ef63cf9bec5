package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Planning defaults. Callers may override per request where the API
	// exposes a parameter; these are the fallbacks.
	VelocityWindowDays  int
	DefaultLeadTimeDays int
	ReorderBufferDays   int
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:         getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=stockpilot port=5432 sslmode=disable"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		CORSOrigins:         getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		VelocityWindowDays:  getEnvInt("VELOCITY_WINDOW_DAYS", 30),
		DefaultLeadTimeDays: getEnvInt("DEFAULT_LEAD_TIME_DAYS", 30),
		ReorderBufferDays:   getEnvInt("REORDER_BUFFER_DAYS", 14),
	}

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is not set; it is required")
	}
	if len(cfg.JWTSecret) < 32 {
		logrus.Fatal("JWT_SECRET must be at least 32 characters")
	}
	if cfg.VelocityWindowDays <= 0 || cfg.DefaultLeadTimeDays <= 0 || cfg.ReorderBufferDays < 0 {
		logrus.Fatal("planning defaults must be positive")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).Fatalf("invalid integer value %q", v)
	}
	return n
}
