package db

import (
	"fmt"
	"os"

	"app/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	// DATABASE_URL があれば最優先で使う
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser,
		cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
	)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}
