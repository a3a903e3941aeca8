package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"chatbot-admin/internal/models"
	"chatbot-admin/internal/store"
)

// --- Tool Catalog Methods ---

const toolColumns = `id, name, display_name, description, icon, category,
       required_config, optional_config, is_available, created_at, updated_at`

func scanTool(row rowScanner) (*models.ChatbotTool, error) {
	t := &models.ChatbotTool{}
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.DisplayName,
		&t.Description,
		&t.Icon,
		&t.Category,
		&t.RequiredConfig,
		&t.OptionalConfig,
		&t.IsAvailable,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

const upsertToolQuery = `-- name: UpsertTool :one
INSERT INTO chatbot_tools (id, name, display_name, description, icon, category, required_config, optional_config, is_available)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (name) DO UPDATE
SET display_name    = EXCLUDED.display_name,
    description     = EXCLUDED.description,
    icon            = EXCLUDED.icon,
    category        = EXCLUDED.category,
    required_config = EXCLUDED.required_config,
    optional_config = EXCLUDED.optional_config,
    is_available    = EXCLUDED.is_available,
    updated_at      = NOW()
RETURNING ` + toolColumns

// UpsertTool creates or refreshes a catalog entry keyed by its unique name.
func (s *PostgresStore) UpsertTool(ctx context.Context, arg store.UpsertToolParams) (*models.ChatbotTool, error) {
	required, err := json.Marshal(nonNil(arg.RequiredConfig))
	if err != nil {
		return nil, fmt.Errorf("encoding required_config: %w", err)
	}
	optional, err := json.Marshal(nonNil(arg.OptionalConfig))
	if err != nil {
		return nil, fmt.Errorf("encoding optional_config: %w", err)
	}

	t, err := scanTool(s.db.QueryRow(ctx, upsertToolQuery,
		arg.ID,
		arg.Name,
		arg.DisplayName,
		arg.Description,
		arg.Icon,
		arg.Category,
		required,
		optional,
		arg.IsAvailable,
	))
	if err != nil {
		return nil, mapError(err, "upserting tool")
	}
	return t, nil
}

const getToolQuery = `-- name: GetTool :one
SELECT ` + toolColumns + `
FROM chatbot_tools
WHERE id = $1`

func (s *PostgresStore) GetTool(ctx context.Context, id int64) (*models.ChatbotTool, error) {
	t, err := scanTool(s.db.QueryRow(ctx, getToolQuery, id))
	if err != nil {
		return nil, mapError(err, "fetching tool")
	}
	return t, nil
}

const listToolsQuery = `-- name: ListTools :many
SELECT ` + toolColumns + `
FROM chatbot_tools
WHERE ($1::boolean = FALSE OR is_available)
ORDER BY category, display_name`

// ListTools returns the catalog, optionally restricted to available tools.
func (s *PostgresStore) ListTools(ctx context.Context, onlyAvailable bool) ([]models.ChatbotTool, error) {
	rows, err := s.db.Query(ctx, listToolsQuery, onlyAvailable)
	if err != nil {
		return nil, mapError(err, "listing tools")
	}
	defer rows.Close()

	tools := []models.ChatbotTool{}
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, mapError(err, "scanning tool")
		}
		tools = append(tools, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterating tools")
	}
	return tools, nil
}

// --- Tool Configuration Methods ---

const toolConfigColumns = `id, chatbot_config_id, chatbot_tool_id, is_enabled, configuration, created_at, updated_at`

func scanToolConfig(row rowScanner) (*models.ChatbotToolConfig, error) {
	tc := &models.ChatbotToolConfig{}
	err := row.Scan(
		&tc.ID,
		&tc.ChatbotConfigID,
		&tc.ChatbotToolID,
		&tc.IsEnabled,
		&tc.Configuration,
		&tc.CreatedAt,
		&tc.UpdatedAt,
	)
	return tc, err
}

const upsertToolConfigQuery = `-- name: UpsertToolConfig :one
INSERT INTO chatbot_tool_configs (id, chatbot_config_id, chatbot_tool_id, is_enabled, configuration)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (chatbot_config_id, chatbot_tool_id) DO UPDATE
SET is_enabled    = EXCLUDED.is_enabled,
    configuration = EXCLUDED.configuration,
    updated_at    = NOW()
RETURNING ` + toolConfigColumns

// UpsertToolConfig creates or updates the (config, tool) pair. It never creates a second row.
func (s *PostgresStore) UpsertToolConfig(ctx context.Context, arg store.UpsertToolConfigParams) (*models.ChatbotToolConfig, error) {
	configuration := arg.Configuration
	if len(configuration) == 0 {
		configuration = json.RawMessage(`{}`)
	}

	tc, err := scanToolConfig(s.db.QueryRow(ctx, upsertToolConfigQuery,
		arg.ID,
		arg.ChatbotConfigID,
		arg.ChatbotToolID,
		arg.IsEnabled,
		configuration,
	))
	if err != nil {
		return nil, mapError(err, "upserting tool config")
	}
	return tc, nil
}

const listToolConfigsByConfigQuery = `-- name: ListToolConfigsByConfig :many
SELECT ` + toolConfigColumns + `
FROM chatbot_tool_configs
WHERE chatbot_config_id = ANY($1)
ORDER BY created_at ASC`

func (s *PostgresStore) ListToolConfigsByConfig(ctx context.Context, configIDs ...int64) ([]models.ChatbotToolConfig, error) {
	if len(configIDs) == 0 {
		return []models.ChatbotToolConfig{}, nil
	}
	rows, err := s.db.Query(ctx, listToolConfigsByConfigQuery, configIDs)
	if err != nil {
		return nil, mapError(err, "listing tool configs")
	}
	defer rows.Close()

	configs := []models.ChatbotToolConfig{}
	for rows.Next() {
		tc, err := scanToolConfig(rows)
		if err != nil {
			return nil, mapError(err, "scanning tool config")
		}
		configs = append(configs, *tc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterating tool configs")
	}
	return configs, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
