// Package database provides the core functionality for creating and managing
// database connections in a clean, isolated manner.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/opc-go/pkg/config"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Supported drivers
const (
	DriverSQLite = "sqlite3"
	DriverLibSQL = "libsql"
)

// DB represents a wrapper around the standard SQL database connection.
type DB struct {
	*sql.DB
	Driver string
}

// NewConnection establishes a new database connection for the specified driver.
func NewConnection(driverName, dataSourceName string) (*DB, error) {
	return NewConnectionWithLogger(driverName, dataSourceName, nil)
}

// NewConnectionWithLogger establishes a new database connection for the specified driver with logging.
func NewConnectionWithLogger(driverName, dataSourceName string, logger *logging.ChanneledLogger) (*DB, error) {
	if driverName != DriverSQLite && driverName != DriverLibSQL {
		return nil, fmt.Errorf("unsupported database driver %q", driverName)
	}

	start := time.Now()
	if logger != nil {
		logger.Database().Debug("Creating new database connection", "driverName", driverName)
	}

	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		if logger != nil {
			logger.Database().Error("Failed to open database connection", "error", err.Error(), "driverName", driverName)
		}
		return nil, fmt.Errorf("failed to open %s connection: %w", driverName, err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		if logger != nil {
			logger.Database().Error("Database ping failed", "error", err.Error(), "driverName", driverName)
		}
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	configurePool(db, driverName, dataSourceName)

	duration := time.Since(start)
	if logger != nil {
		logger.Database().Info("Database connection established", "driverName", driverName, "duration", duration)
		CheckAndLogSlowQuery(logger, "DATABASE_CONNECTION", duration)
	}

	return &DB{DB: db, Driver: driverName}, nil
}

func configurePool(db *sql.DB, driverName, dataSourceName string) {
	// every connection to an in-memory sqlite database is a separate database
	if driverName == DriverSQLite && IsMemoryDSN(dataSourceName) {
		db.SetMaxOpenConns(1)
		return
	}
	db.SetMaxOpenConns(config.DBMaxOpenConns)
	db.SetMaxIdleConns(config.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleMinutes) * time.Minute)
}
