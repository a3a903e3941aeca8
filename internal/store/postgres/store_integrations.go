package postgres

import (
	"context"
	"encoding/json"

	"chatbot-admin/internal/models"
	"chatbot-admin/internal/store"
)

// --- Integration Setting Methods ---
// Credentials arrive already sealed; this layer never sees plaintext secrets.

const integrationColumns = `id, chatbot_config_id, service_name, display_name, is_enabled, credentials,
       settings, last_sync_at, status, error_message, created_at, updated_at`

func scanIntegration(row rowScanner) (*models.IntegrationSetting, error) {
	i := &models.IntegrationSetting{}
	err := row.Scan(
		&i.ID,
		&i.ChatbotConfigID,
		&i.ServiceName,
		&i.DisplayName,
		&i.IsEnabled,
		&i.EncryptedCredentials,
		&i.Settings,
		&i.LastSyncAt,
		&i.Status,
		&i.ErrorMessage,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertIntegrationQuery = `-- name: UpsertIntegration :one
INSERT INTO integration_settings (id, chatbot_config_id, service_name, display_name, is_enabled, credentials, settings, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (chatbot_config_id, service_name) DO UPDATE
SET display_name = EXCLUDED.display_name,
    is_enabled   = EXCLUDED.is_enabled,
    credentials  = EXCLUDED.credentials,
    settings     = EXCLUDED.settings,
    status       = EXCLUDED.status,
    updated_at   = NOW()
RETURNING ` + integrationColumns

// UpsertIntegration saves an integration keyed by (chatbot_config_id, service_name).
func (s *PostgresStore) UpsertIntegration(ctx context.Context, arg store.UpsertIntegrationParams) (*models.IntegrationSetting, error) {
	settings := arg.Settings
	if len(settings) == 0 {
		settings = json.RawMessage(`{}`)
	}

	i, err := scanIntegration(s.db.QueryRow(ctx, upsertIntegrationQuery,
		arg.ID,
		arg.ChatbotConfigID,
		arg.ServiceName,
		arg.DisplayName,
		arg.IsEnabled,
		arg.EncryptedCredentials,
		settings,
		arg.Status,
	))
	if err != nil {
		s.logger.Error().Err(err).Int64("chatbot_config_id", arg.ChatbotConfigID).Str("service", arg.ServiceName).Msg("UpsertIntegration failed")
		return nil, mapError(err, "upserting integration")
	}
	return i, nil
}

const getIntegrationQuery = `-- name: GetIntegration :one
SELECT ` + integrationColumns + `
FROM integration_settings
WHERE id = $1`

func (s *PostgresStore) GetIntegration(ctx context.Context, id int64) (*models.IntegrationSetting, error) {
	i, err := scanIntegration(s.db.QueryRow(ctx, getIntegrationQuery, id))
	if err != nil {
		return nil, mapError(err, "fetching integration")
	}
	return i, nil
}

const listIntegrationsByConfigQuery = `-- name: ListIntegrationsByConfig :many
SELECT ` + integrationColumns + `
FROM integration_settings
WHERE chatbot_config_id = ANY($1)
ORDER BY created_at DESC, id DESC`

func (s *PostgresStore) ListIntegrationsByConfig(ctx context.Context, configIDs ...int64) ([]models.IntegrationSetting, error) {
	if len(configIDs) == 0 {
		return []models.IntegrationSetting{}, nil
	}
	rows, err := s.db.Query(ctx, listIntegrationsByConfigQuery, configIDs)
	if err != nil {
		return nil, mapError(err, "listing integrations")
	}
	defer rows.Close()

	settings := []models.IntegrationSetting{}
	for rows.Next() {
		i, err := scanIntegration(rows)
		if err != nil {
			return nil, mapError(err, "scanning integration")
		}
		settings = append(settings, *i)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterating integrations")
	}
	return settings, nil
}

const updateIntegrationStateQuery = `-- name: UpdateIntegrationState :one
UPDATE integration_settings
SET is_enabled    = COALESCE($2, is_enabled),
    status        = $3,
    error_message = $4,
    last_sync_at  = $5,
    updated_at    = NOW()
WHERE id = $1
RETURNING ` + integrationColumns

// UpdateIntegrationState records the outcome of a test or disconnect action.
func (s *PostgresStore) UpdateIntegrationState(ctx context.Context, arg store.UpdateIntegrationStateParams) (*models.IntegrationSetting, error) {
	i, err := scanIntegration(s.db.QueryRow(ctx, updateIntegrationStateQuery,
		arg.ID,
		arg.IsEnabled,
		arg.Status,
		arg.ErrorMessage,
		arg.LastSyncAt,
	))
	if err != nil {
		return nil, mapError(err, "updating integration state")
	}
	return i, nil
}
