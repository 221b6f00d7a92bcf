package database

import (
	"strings"

	"certify-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

// Open opens a GORM DB from DSN. "sqlite://<path>" selects the embedded SQLite driver
// (local runs and tests); anything else is treated as a Postgres URL.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers such as PgBouncer.
func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
	if IsSQLite(dsn) {
		return openSQLite(strings.TrimPrefix(dsn, sqlitePrefix), cfg)
	}
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), cfg)
}

// IsSQLite reports whether dsn selects the embedded driver.
func IsSQLite(dsn string) bool {
	return strings.HasPrefix(dsn, sqlitePrefix)
}

// SQLite allows a single writer; one pooled connection also keeps ":memory:"
// databases from splitting across connections.
func openSQLite(path string, cfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// AutoMigrate runs migrations for core models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Certificate{})
}
