package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"loan-ledger/internal/config"
	"loan-ledger/internal/domain/ledger"
)

// Open connects to the configured storage engine. sqlite is the default and
// keeps the whole ledger in one local file with the engine's own exclusive
// write locking; there is no application-level locking on top.
func Open(cfg config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch cfg.Driver {
	case "", "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("database path is empty in configuration")
		}
		dial = sqlite.Open(cfg.Path)
	case "postgres":
		if cfg.URL == "" {
			return nil, fmt.Errorf("database URL is empty in configuration")
		}
		dial = postgres.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	logger.Info("Connecting to database...", "driver", cfg.Driver)
	db, err := OpenWithDialector(dial)
	if err != nil {
		return nil, err
	}
	logger.Info("Successfully connected to database.", "driver", cfg.Driver)
	return db, nil
}

// OpenWithDialector opens a gorm session over the given dialector and verifies
// the connection with a ping. Split out so tests can substitute a mocked
// *sql.DB.
func OpenWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dial, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database on connect: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the loans and loan_history tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ledger.Loan{}, &ledger.HistoryEntry{})
}
