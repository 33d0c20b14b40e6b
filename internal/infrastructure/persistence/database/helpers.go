// Package database provides database helper functions
package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/opc-go/pkg/config"
)

// CheckConnection runs a trivial query against db
func CheckConnection(db *DB) error {
	var result int
	if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("connection test query failed: %w", err)
	}
	if result != 1 {
		return fmt.Errorf("unexpected query result: %d", result)
	}
	return nil
}

// IsMemoryDSN reports whether a sqlite DSN names an in-memory database
func IsMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// GetSlowQueryThreshold returns the configured slow query threshold
func GetSlowQueryThreshold() time.Duration {
	return config.SlowQueryThreshold
}

// CheckAndLogSlowQuery checks if a query duration exceeds threshold
// and logs it using the slow query channel if it does
func CheckAndLogSlowQuery(logger *logging.ChanneledLogger, query string, duration time.Duration) {
	if logger == nil {
		return
	}
	if duration > GetSlowQueryThreshold() {
		logger.LogSlowQuery(query, duration)
	}
}
