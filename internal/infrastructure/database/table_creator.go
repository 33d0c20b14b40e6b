// Package database provides schema creation for the blueprint store
package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedInitialContent idempotently adds the starter blueprint.
func (tc *TableCreator) SeedInitialContent(db *sql.DB) error {
	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM opc_blueprints WHERE slug = ?)", slug.Make(starterName)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check for starter blueprint: %w", err)
	}
	if exists {
		return nil
	}

	data, err := json.Marshal(starterTree)
	if err != nil {
		return fmt.Errorf("failed to encode starter blueprint: %w", err)
	}
	_, err = db.Exec(`INSERT INTO opc_blueprints (id, name, slug, data, created) VALUES (?, ?, ?, ?, ?)`,
		ulid.Make().String(), starterName, slug.Make(starterName), string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert starter blueprint: %w", err)
	}
	return nil
}

const starterName = "Starter Section"

var starterTree = map[string]any{
	"class": "Container",
	"subareas": []any{
		map[string]any{
			"id": "content",
			"items": []any{
				map[string]any{"class": "Heading", "properties": map[string]any{"level": "h1", "text": "Welcome"}},
				map[string]any{"class": "Text", "properties": map[string]any{"text": "<p>Start composing here.</p>"}},
			},
		},
	},
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS opc_blueprints (id TEXT PRIMARY KEY, name TEXT NOT NULL, slug TEXT NOT NULL UNIQUE, data TEXT NOT NULL, created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, changed TIMESTAMP)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_opc_blueprints_slug ON opc_blueprints(slug)`,
	`CREATE INDEX IF NOT EXISTS idx_opc_blueprints_name ON opc_blueprints(name)`,
}
