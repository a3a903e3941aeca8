package postgres

import (
	"context"

	"chatbot-admin/internal/models"
	"chatbot-admin/internal/store"

	"github.com/jackc/pgx/v5"
)

// --- Knowledge Base Document Methods ---

const documentColumns = `id, chatbot_config_id, title, filename, file_path, file_type, file_size,
       content, metadata, status, error_message, created_at, updated_at`

func scanDocument(row rowScanner) (*models.KnowledgeBaseDocument, error) {
	d := &models.KnowledgeBaseDocument{}
	err := row.Scan(
		&d.ID,
		&d.ChatbotConfigID,
		&d.Title,
		&d.Filename,
		&d.FilePath,
		&d.FileType,
		&d.FileSize,
		&d.Content,
		&d.Metadata,
		&d.Status,
		&d.ErrorMessage,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func collectDocuments(rows pgx.Rows) ([]models.KnowledgeBaseDocument, error) {
	defer rows.Close()

	docs := []models.KnowledgeBaseDocument{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, mapError(err, "scanning document")
		}
		docs = append(docs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterating documents")
	}
	return docs, nil
}

const createDocumentQuery = `-- name: CreateDocument :one
INSERT INTO knowledge_base_documents
    (id, chatbot_config_id, title, filename, file_path, file_type, file_size, content, metadata, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + documentColumns

// CreateDocument inserts a document row. An unknown config yields store.ErrForeignKey.
func (s *PostgresStore) CreateDocument(ctx context.Context, arg store.CreateDocumentParams) (*models.KnowledgeBaseDocument, error) {
	d, err := scanDocument(s.db.QueryRow(ctx, createDocumentQuery,
		arg.ID,
		arg.ChatbotConfigID,
		arg.Title,
		arg.Filename,
		arg.FilePath,
		arg.FileType,
		arg.FileSize,
		arg.Content,
		arg.Metadata,
		arg.Status,
	))
	if err != nil {
		s.logger.Error().Err(err).Int64("chatbot_config_id", arg.ChatbotConfigID).Msg("CreateDocument failed")
		return nil, mapError(err, "creating document")
	}
	return d, nil
}

const getDocumentQuery = `-- name: GetDocument :one
SELECT ` + documentColumns + `
FROM knowledge_base_documents
WHERE id = $1`

func (s *PostgresStore) GetDocument(ctx context.Context, id int64) (*models.KnowledgeBaseDocument, error) {
	d, err := scanDocument(s.db.QueryRow(ctx, getDocumentQuery, id))
	if err != nil {
		return nil, mapError(err, "fetching document")
	}
	return d, nil
}

const listDocumentsByConfigQuery = `-- name: ListDocumentsByConfig :many
SELECT ` + documentColumns + `
FROM knowledge_base_documents
WHERE chatbot_config_id = ANY($1)
ORDER BY created_at DESC, id DESC`

// ListDocumentsByConfig returns the documents of the given configs, latest first.
func (s *PostgresStore) ListDocumentsByConfig(ctx context.Context, configIDs ...int64) ([]models.KnowledgeBaseDocument, error) {
	if len(configIDs) == 0 {
		return []models.KnowledgeBaseDocument{}, nil
	}
	rows, err := s.db.Query(ctx, listDocumentsByConfigQuery, configIDs)
	if err != nil {
		return nil, mapError(err, "listing documents")
	}
	return collectDocuments(rows)
}

const listDocumentsByStatusQuery = `-- name: ListDocumentsByStatus :many
SELECT ` + documentColumns + `
FROM knowledge_base_documents
WHERE status = $1
ORDER BY created_at ASC
LIMIT $2`

// ListDocumentsByStatus returns the oldest documents in the given status.
func (s *PostgresStore) ListDocumentsByStatus(ctx context.Context, status models.DocumentStatus, limit int) ([]models.KnowledgeBaseDocument, error) {
	rows, err := s.db.Query(ctx, listDocumentsByStatusQuery, status, limit)
	if err != nil {
		return nil, mapError(err, "listing documents by status")
	}
	return collectDocuments(rows)
}

const completeDocumentQuery = `-- name: CompleteDocument :one
UPDATE knowledge_base_documents
SET status        = $2,
    content       = $3,
    error_message = $4,
    metadata      = COALESCE(metadata, '{}'::jsonb) || COALESCE($5::jsonb, '{}'::jsonb),
    updated_at    = NOW()
WHERE id = $1 AND status = 'processing'
RETURNING ` + documentColumns

// CompleteDocument moves a processing document to a terminal state.
// Returns store.ErrNotFound when the document is gone or no longer processing.
func (s *PostgresStore) CompleteDocument(ctx context.Context, arg store.CompleteDocumentParams) (*models.KnowledgeBaseDocument, error) {
	d, err := scanDocument(s.db.QueryRow(ctx, completeDocumentQuery,
		arg.ID,
		arg.Status,
		arg.Content,
		arg.ErrorMessage,
		arg.Metadata,
	))
	if err != nil {
		return nil, mapError(err, "completing document")
	}
	return d, nil
}

const deleteDocumentQuery = `-- name: DeleteDocument :exec
DELETE FROM knowledge_base_documents
WHERE id = $1`

func (s *PostgresStore) DeleteDocument(ctx context.Context, id int64) error {
	cmdTag, err := s.db.Exec(ctx, deleteDocumentQuery, id)
	if err != nil {
		return mapError(err, "deleting document")
	}
	if cmdTag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
