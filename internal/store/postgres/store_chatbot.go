package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chatbot-admin/internal/models"
	"chatbot-admin/internal/store"

	"github.com/jackc/pgx/v5"
)

const chatbotColumns = `id, name, description, avatar_url, greeting_message, fallback_message,
       personality_traits, status, created_at, updated_at`

func scanChatbotConfig(row rowScanner) (*models.ChatbotConfig, error) {
	c := &models.ChatbotConfig{}
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.AvatarURL,
		&c.GreetingMessage,
		&c.FallbackMessage,
		&c.PersonalityTraits,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if c.PersonalityTraits == nil {
		c.PersonalityTraits = []string{}
	}
	return c, err
}

// nullIfEmpty maps "" to SQL NULL so clearing an optional field removes it.
func nullIfEmpty(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

func traitsJSON(traits []string) ([]byte, error) {
	if traits == nil {
		traits = []string{}
	}
	return json.Marshal(traits)
}

const createChatbotConfigQuery = `-- name: CreateChatbotConfig :one
INSERT INTO chatbot_configs (id, name, description, avatar_url, greeting_message, fallback_message, personality_traits, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + chatbotColumns

const insertDefaultIntegrationQuery = `-- name: InsertDefaultIntegration :exec
INSERT INTO integration_settings (id, chatbot_config_id, service_name, display_name, is_enabled, status)
VALUES ($1, $2, $3, $4, FALSE, 'disconnected')`

// CreateChatbotConfig inserts a config and its default integration rows in one transaction.
func (s *PostgresStore) CreateChatbotConfig(ctx context.Context, arg store.ChatbotConfigParams, defaults []store.DefaultIntegrationParams) (*models.ChatbotConfig, error) {
	if arg.Name == nil || arg.Status == nil {
		return nil, fmt.Errorf("creating chatbot config: name and status are required")
	}
	traits, err := traitsJSON(arg.PersonalityTraits)
	if err != nil {
		return nil, fmt.Errorf("encoding personality traits: %w", err)
	}

	var created *models.ChatbotConfig
	err = pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		c, err := scanChatbotConfig(tx.QueryRow(ctx, createChatbotConfigQuery,
			arg.ID,
			*arg.Name,
			arg.Description,
			arg.AvatarURL,
			arg.GreetingMessage,
			arg.FallbackMessage,
			traits,
			*arg.Status,
		))
		if err != nil {
			return err
		}

		for _, d := range defaults {
			if _, err := tx.Exec(ctx, insertDefaultIntegrationQuery, d.ID, c.ID, d.ServiceName, d.DisplayName); err != nil {
				return fmt.Errorf("seeding integration %s: %w", d.ServiceName, err)
			}
		}
		created = c
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("CreateChatbotConfig failed")
		return nil, mapError(err, "creating chatbot config")
	}

	s.logger.Debug().Int64("chatbot_config_id", created.ID).Int("default_integrations", len(defaults)).Msg("chatbot config created")
	return created, nil
}

const getChatbotConfigQuery = `-- name: GetChatbotConfig :one
SELECT ` + chatbotColumns + `
FROM chatbot_configs
WHERE id = $1`

func (s *PostgresStore) GetChatbotConfig(ctx context.Context, id int64) (*models.ChatbotConfig, error) {
	c, err := scanChatbotConfig(s.db.QueryRow(ctx, getChatbotConfigQuery, id))
	if err != nil {
		return nil, mapError(err, "fetching chatbot config")
	}
	return c, nil
}

const listChatbotConfigsQuery = `-- name: ListChatbotConfigs :many
SELECT ` + chatbotColumns + `
FROM chatbot_configs
ORDER BY created_at DESC, id DESC`

// ListChatbotConfigs returns every config, latest first.
func (s *PostgresStore) ListChatbotConfigs(ctx context.Context) ([]models.ChatbotConfig, error) {
	rows, err := s.db.Query(ctx, listChatbotConfigsQuery)
	if err != nil {
		return nil, mapError(err, "listing chatbot configs")
	}
	defer rows.Close()

	configs := []models.ChatbotConfig{}
	for rows.Next() {
		c, err := scanChatbotConfig(rows)
		if err != nil {
			return nil, mapError(err, "scanning chatbot config")
		}
		configs = append(configs, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterating chatbot configs")
	}
	return configs, nil
}

// UpdateChatbotConfig writes only the non-nil fields of arg. An empty optional
// string clears its column.
func (s *PostgresStore) UpdateChatbotConfig(ctx context.Context, arg store.ChatbotConfigParams) (*models.ChatbotConfig, error) {
	setClauses := []string{}
	args := []interface{}{}
	argID := 1

	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if arg.Name != nil {
		add("name", *arg.Name)
	}
	if arg.Description != nil {
		add("description", nullIfEmpty(*arg.Description))
	}
	if arg.AvatarURL != nil {
		add("avatar_url", nullIfEmpty(*arg.AvatarURL))
	}
	if arg.GreetingMessage != nil {
		add("greeting_message", nullIfEmpty(*arg.GreetingMessage))
	}
	if arg.FallbackMessage != nil {
		add("fallback_message", nullIfEmpty(*arg.FallbackMessage))
	}
	if arg.PersonalityTraits != nil {
		traits, err := traitsJSON(arg.PersonalityTraits)
		if err != nil {
			return nil, fmt.Errorf("encoding personality traits: %w", err)
		}
		add("personality_traits", traits)
	}
	if arg.Status != nil {
		add("status", *arg.Status)
	}

	if len(setClauses) == 0 {
		return s.GetChatbotConfig(ctx, arg.ID)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, arg.ID)

	query := fmt.Sprintf(`-- name: UpdateChatbotConfig :one
UPDATE chatbot_configs
SET %s
WHERE id = $%d
RETURNING `+chatbotColumns,
		strings.Join(setClauses, ", "),
		argID,
	)

	c, err := scanChatbotConfig(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "updating chatbot config")
	}
	return c, nil
}

const deleteChatbotConfigQuery = `-- name: DeleteChatbotConfig :exec
DELETE FROM chatbot_configs
WHERE id = $1`

// DeleteChatbotConfig removes a config; documents, tool configs and integrations cascade.
func (s *PostgresStore) DeleteChatbotConfig(ctx context.Context, id int64) error {
	cmdTag, err := s.db.Exec(ctx, deleteChatbotConfigQuery, id)
	if err != nil {
		return mapError(err, "deleting chatbot config")
	}
	if cmdTag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
