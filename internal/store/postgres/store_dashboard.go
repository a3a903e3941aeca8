package postgres

import (
	"context"

	"chatbot-admin/internal/models"
)

const dashboardCountsQuery = `-- name: GetDashboardCounts :one
SELECT
    (SELECT COUNT(*) FROM chatbot_configs),
    (SELECT COUNT(*) FROM chatbot_configs WHERE status = 'active'),
    (SELECT COUNT(*) FROM knowledge_base_documents),
    (SELECT COUNT(*) FROM knowledge_base_documents WHERE status = 'ready'),
    (SELECT COUNT(*) FROM chatbot_tools WHERE is_available),
    (SELECT COUNT(*) FROM integration_settings WHERE status = 'connected')`

func (s *PostgresStore) GetDashboardCounts(ctx context.Context) (*models.DashboardCounts, error) {
	c := &models.DashboardCounts{}
	err := s.db.QueryRow(ctx, dashboardCountsQuery).Scan(
		&c.TotalChatbots,
		&c.ActiveChatbots,
		&c.TotalDocuments,
		&c.ReadyDocuments,
		&c.AvailableTools,
		&c.ConnectedIntegrations,
	)
	if err != nil {
		return nil, mapError(err, "counting dashboard stats")
	}
	return c, nil
}

const listRecentChatbotsQuery = `-- name: ListRecentChatbots :many
SELECT c.id, c.name, c.description, c.avatar_url, c.greeting_message, c.fallback_message,
       c.personality_traits, c.status, c.created_at, c.updated_at,
       (SELECT COUNT(*) FROM knowledge_base_documents d WHERE d.chatbot_config_id = c.id),
       (SELECT COUNT(*) FROM integration_settings i WHERE i.chatbot_config_id = c.id)
FROM chatbot_configs c
ORDER BY c.created_at DESC, c.id DESC
LIMIT $1`

func (s *PostgresStore) ListRecentChatbots(ctx context.Context, limit int) ([]models.RecentChatbot, error) {
	rows, err := s.db.Query(ctx, listRecentChatbotsQuery, limit)
	if err != nil {
		return nil, mapError(err, "listing recent chatbots")
	}
	defer rows.Close()

	recent := []models.RecentChatbot{}
	for rows.Next() {
		var r models.RecentChatbot
		if err := rows.Scan(
			&r.ID,
			&r.Name,
			&r.Description,
			&r.AvatarURL,
			&r.GreetingMessage,
			&r.FallbackMessage,
			&r.PersonalityTraits,
			&r.Status,
			&r.CreatedAt,
			&r.UpdatedAt,
			&r.DocumentCount,
			&r.IntegrationCount,
		); err != nil {
			return nil, mapError(err, "scanning recent chatbot")
		}
		recent = append(recent, r)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterating recent chatbots")
	}
	return recent, nil
}

const listRecentDocumentsQuery = `-- name: ListRecentDocuments :many
SELECT d.id, d.chatbot_config_id, d.title, d.filename, d.file_path, d.file_type, d.file_size,
       d.content, d.metadata, d.status, d.error_message, d.created_at, d.updated_at,
       c.name
FROM knowledge_base_documents d
JOIN chatbot_configs c ON c.id = d.chatbot_config_id
ORDER BY d.created_at DESC, d.id DESC
LIMIT $1`

func (s *PostgresStore) ListRecentDocuments(ctx context.Context, limit int) ([]models.RecentDocument, error) {
	rows, err := s.db.Query(ctx, listRecentDocumentsQuery, limit)
	if err != nil {
		return nil, mapError(err, "listing recent documents")
	}
	defer rows.Close()

	recent := []models.RecentDocument{}
	for rows.Next() {
		var r models.RecentDocument
		if err := rows.Scan(
			&r.ID,
			&r.ChatbotConfigID,
			&r.Title,
			&r.Filename,
			&r.FilePath,
			&r.FileType,
			&r.FileSize,
			&r.Content,
			&r.Metadata,
			&r.Status,
			&r.ErrorMessage,
			&r.CreatedAt,
			&r.UpdatedAt,
			&r.ChatbotName,
		); err != nil {
			return nil, mapError(err, "scanning recent document")
		}
		recent = append(recent, r)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterating recent documents")
	}
	return recent, nil
}
