package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	models "smartpark-alliance/smartpark/internal/models/gorm"
)

var ORM *gorm.DB

// InitORM opens the GORM connection. DB_DRIVER selects the backend:
// "sqlite" runs against a local file (standalone mode and tests),
// anything else connects to Postgres with the PG_* environment variables.
func InitORM() (*gorm.DB, error) {
	var (
		conn *gorm.DB
		err  error
	)

	switch os.Getenv("DB_DRIVER") {
	case "sqlite":
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "smartpark.db"
		}
		conn, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	default:
		conn, err = gorm.Open(postgres.Open(PostgresDSN()), &gorm.Config{})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ORM = conn
	return conn, nil
}

// Migrate creates or updates the schema for all domain tables
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.Aircraft{},
		&models.Stand{},
		&models.Flight{},
		&models.Incident{},
		&models.AllocationHistory{},
	)
}
