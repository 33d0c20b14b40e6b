// Package blueprints provides the SQL-backed blueprint repository
package blueprints

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/persistence/database"
)

const selectColumns = `SELECT id, name, slug, data, created, changed FROM opc_blueprints`

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

type BlueprintRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewBlueprintRepository(db *sql.DB, logger *logging.ChanneledLogger) *BlueprintRepository {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &BlueprintRepository{
		db:     db,
		logger: logger,
	}
}

func (r *BlueprintRepository) FindByID(id string) (*opc.Blueprint, error) {
	return r.findOne(selectColumns+` WHERE id = ?`, id)
}

func (r *BlueprintRepository) FindBySlug(slug string) (*opc.Blueprint, error) {
	return r.findOne(selectColumns+` WHERE slug = ?`, slug)
}

// FindAll returns every blueprint ordered by name
func (r *BlueprintRepository) FindAll() ([]*opc.Blueprint, error) {
	query := selectColumns + ` ORDER BY name, id`

	start := time.Now()
	r.logger.Database().Debug("Loading all blueprints from database")

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to query blueprints", "error", err.Error())
		return nil, fmt.Errorf("failed to query blueprints: %w", err)
	}
	defer rows.Close()

	result := []*opc.Blueprint{}
	for rows.Next() {
		bp, err := scanBlueprint(rows)
		if err != nil {
			r.logger.Database().Error("Failed to scan blueprint", "error", err.Error())
			return nil, err
		}
		result = append(result, bp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blueprints: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Loaded blueprints from database", "count", len(result), "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return result, nil
}

func (r *BlueprintRepository) Store(bp *opc.Blueprint) error {
	data, err := json.Marshal(bp.Data)
	if err != nil {
		return fmt.Errorf("failed to encode blueprint %s: %w", bp.ID, err)
	}

	query := `INSERT INTO opc_blueprints (id, name, slug, data, created) VALUES (?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing blueprint insert", "id", bp.ID)

	_, err = r.db.Exec(query, bp.ID, bp.Name, bp.Slug, string(data), formatTime(bp.Created))
	if err != nil {
		r.logger.Database().Error("Blueprint insert failed", "error", err.Error(), "id", bp.ID)
		return fmt.Errorf("failed to insert blueprint: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Blueprint insert completed", "id", bp.ID, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return nil
}

// Update rewrites name, slug and data and stamps the change time on bp
func (r *BlueprintRepository) Update(bp *opc.Blueprint) error {
	data, err := json.Marshal(bp.Data)
	if err != nil {
		return fmt.Errorf("failed to encode blueprint %s: %w", bp.ID, err)
	}
	changed := time.Now().UTC()

	query := `UPDATE opc_blueprints SET name = ?, slug = ?, data = ?, changed = ? WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Executing blueprint update", "id", bp.ID)

	res, err := r.db.Exec(query, bp.Name, bp.Slug, string(data), formatTime(changed), bp.ID)
	if err != nil {
		r.logger.Database().Error("Blueprint update failed", "error", err.Error(), "id", bp.ID)
		return fmt.Errorf("failed to update blueprint: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to update blueprint %s: %w", bp.ID, opc.ErrBlueprintNotFound)
	}
	bp.Changed = &changed

	duration := time.Since(start)
	r.logger.Database().Info("Blueprint update completed", "id", bp.ID, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return nil
}

func (r *BlueprintRepository) Delete(id string) error {
	query := `DELETE FROM opc_blueprints WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Executing blueprint delete", "id", id)

	res, err := r.db.Exec(query, id)
	if err != nil {
		r.logger.Database().Error("Blueprint delete failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to delete blueprint: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to delete blueprint %s: %w", id, opc.ErrBlueprintNotFound)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Blueprint delete completed", "id", id, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return nil
}

func (r *BlueprintRepository) findOne(query string, arg string) (*opc.Blueprint, error) {
	start := time.Now()
	r.logger.Database().Debug("Loading blueprint from database", "key", arg)

	bp, err := scanBlueprint(r.db.QueryRow(query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to load blueprint", "error", err.Error(), "key", arg)
		return nil, err
	}

	duration := time.Since(start)
	r.logger.Database().Info("Blueprint loaded from database", "id", bp.ID, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return bp, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlueprint(row scanner) (*opc.Blueprint, error) {
	var (
		bp      opc.Blueprint
		data    string
		created sql.NullString
		changed sql.NullString
	)
	if err := row.Scan(&bp.ID, &bp.Name, &bp.Slug, &data, &created, &changed); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan blueprint: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &bp.Data); err != nil {
		return nil, fmt.Errorf("failed to parse blueprint %s data: %w", bp.ID, err)
	}
	if created.Valid {
		bp.Created = parseTime(created.String)
	}
	if changed.Valid && changed.String != "" {
		t := parseTime(changed.String)
		bp.Changed = &t
	}
	return &bp, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
