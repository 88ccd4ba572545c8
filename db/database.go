package db

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open sets up the database connection with WAL mode for concurrency.
// The returned handle is passed explicitly to services and handlers; there
// is no package-level instance.
func Open(dbPath string, environment string) (*gorm.DB, error) {
	// Determine log level based on environment
	logLevel := logger.Warn
	if environment == "development" {
		logLevel = logger.Info
	}

	// Enable WAL mode for better concurrency support
	dsn := dbPath + "?_journal_mode=WAL"

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established (WAL mode enabled)")
	return database, nil
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(database *gorm.DB, models ...interface{}) error {
	if database == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := database.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// Close closes the underlying database connection
func Close(database *gorm.DB) error {
	if database == nil {
		return nil
	}

	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
