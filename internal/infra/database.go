package infra

import (
	"fmt"

	"shalom/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx, runs AutoMigrate and
// then applies the idempotent SQL patches GORM cannot express (sequences,
// extensions).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	// gen_random_uuid() needs pgcrypto on Postgres < 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return nil, fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.StockMovement{},
		&model.Customer{},
		&model.Vehicle{},
		&model.ServiceOrder{},
		&model.ServiceItem{},
		&model.Invoice{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches creates the document-number sequences. CREATE SEQUENCE
// IF NOT EXISTS makes re-runs a no-op, and the sequences survive row
// deletion so numbers are never reused.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{
			"service order number sequence",
			`CREATE SEQUENCE IF NOT EXISTS service_orders_numero_seq START 1`,
		},
		{
			"invoice number sequence",
			`CREATE SEQUENCE IF NOT EXISTS invoices_numero_seq START 1`,
		},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("%s: %w", p.descr, err)
		}
	}
	return nil
}
