package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"chatbot-admin/internal/extract"
	"chatbot-admin/internal/id"
	"chatbot-admin/internal/logging"
	"chatbot-admin/internal/models"
	"chatbot-admin/internal/monitoring"
	"chatbot-admin/internal/queue"
	"chatbot-admin/internal/store"
	"chatbot-admin/internal/validation"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	msgTitleRequired    = "Document title is required."
	msgTitleMax         = "Document title cannot exceed 255 characters."
	msgDocumentRequired = "Please select a document to upload."
	msgDocumentMimes    = "Document must be a PDF, Word document, text file, or Markdown file."
	msgConfigRequired   = "Chatbot configuration is required."
	msgConfigExists     = "Selected chatbot configuration does not exist."
)

// MsgDocumentMax is the field message for an upload over the size limit.
const MsgDocumentMax = "Document size cannot exceed 10MB."

var uploadMessages = map[string]string{
	"title.required":             msgTitleRequired,
	"title.max":                  msgTitleMax,
	"chatbot_config_id.required": msgConfigRequired,
}

// allowedExtensions are the storage extensions accepted for uploads.
var allowedExtensions = map[string]bool{
	"pdf":  true,
	"doc":  true,
	"docx": true,
	"txt":  true,
	"md":   true,
}

// allowedTypes are the content-sniffed MIME types accepted for uploads.
// Markdown sniffs as text/plain.
var allowedTypes = map[string]bool{
	extract.MIMEPlainText: true,
	extract.MIMEPDF:       true,
	extract.MIMEDocx:      true,
	extract.MIMEDoc:       true,
}

// FileStore persists uploaded document bytes.
type FileStore interface {
	Put(key string, r io.Reader) (int64, error)
	Delete(key string) error
}

// UploadDocumentInput is a parsed multipart upload. Content is nil when no file part was sent.
type UploadDocumentInput struct {
	models.UploadDocumentRequest
	Filename string
	Size     int64
	Content  io.Reader
}

// DocumentService handles knowledge base document ingestion.
type DocumentService struct {
	store          store.Store
	files          FileStore
	producer       queue.Producer
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewDocumentService creates a DocumentService. producer may be nil, in which case
// processing documents wait until they are requeued.
func NewDocumentService(s store.Store, files FileStore, producer queue.Producer, maxUploadBytes int64) *DocumentService {
	return &DocumentService{
		store:          s,
		files:          files,
		producer:       producer,
		maxUploadBytes: maxUploadBytes,
		logger:         logging.NewLogger("document-service"),
	}
}

// ListDocuments returns a config summary with its documents, latest first.
func (s *DocumentService) ListDocuments(ctx context.Context, configID int64) (*models.DocumentListResponse, error) {
	c, err := getChatbotConfig(ctx, s.store, configID)
	if err != nil {
		return nil, err
	}
	docs, err := s.store.ListDocumentsByConfig(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return &models.DocumentListResponse{
		ChatbotConfig: mapChatbotConfigToResponse(*c),
		Documents:     mapDocumentsToResponse(docs),
	}, nil
}

// UploadDocument validates and stores an upload. Nothing is written unless every check passes.
// Plain text is ready immediately; other types stay processing until the extraction worker resolves them.
func (s *DocumentService) UploadDocument(ctx context.Context, in UploadDocumentInput) (*models.DocumentListResponse, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.ChatbotConfigID = strings.TrimSpace(in.ChatbotConfigID)

	errs := validation.Errors{}
	if err := validation.Struct(in.UploadDocumentRequest, uploadMessages); err != nil {
		verrs, ok := validation.AsErrors(err)
		if !ok {
			return nil, err
		}
		for field, msgs := range verrs {
			errs[field] = append(errs[field], msgs...)
		}
	}

	var cfg *models.ChatbotConfig
	if in.ChatbotConfigID != "" {
		configID, err := strconv.ParseInt(in.ChatbotConfigID, 10, 64)
		if err != nil {
			errs.Add("chatbot_config_id", msgConfigExists)
		} else {
			cfg, err = getChatbotConfig(ctx, s.store, configID)
			if errors.Is(err, ErrChatbotNotFound) {
				errs.Add("chatbot_config_id", msgConfigExists)
			} else if err != nil {
				return nil, err
			}
		}
	}

	data, docErr, err := s.readUpload(in)
	if err != nil {
		return nil, err
	}
	var fileType string
	if docErr == "" {
		fileType = extract.BaseMIME(mimetype.Detect(data).String())
		if !allowedTypes[fileType] {
			docErr = msgDocumentMimes
		}
	}
	if docErr != "" {
		errs.Add("document", docErr)
	}

	if len(errs) > 0 {
		monitoring.RecordDocumentUploaded("rejected")
		return nil, errs
	}

	ext := storageExtension(in.Filename, data)
	key := fmt.Sprintf("%s/%s.%s", documentDir(cfg.ID), uuid.NewString(), ext)
	if _, err := s.files.Put(key, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	metadata, err := json.Marshal(map[string]string{
		"original_name": in.Filename,
		"extension":     ext,
	})
	if err != nil {
		_ = s.files.Delete(key)
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}

	params := store.CreateDocumentParams{
		ID:              id.New(),
		ChatbotConfigID: cfg.ID,
		Title:           in.Title,
		Filename:        in.Filename,
		FilePath:        key,
		FileType:        fileType,
		FileSize:        int64(len(data)),
		Metadata:        metadata,
		Status:          models.DocumentStatusProcessing,
	}
	if extract.IsPlainText(fileType) {
		if text, err := extract.Text(fileType, data); err == nil {
			params.Content = &text
			params.Status = models.DocumentStatusReady
		}
	}

	doc, err := s.store.CreateDocument(ctx, params)
	if err != nil {
		if delErr := s.files.Delete(key); delErr != nil {
			s.logger.Warn().Err(delErr).Str("key", key).Msg("removing orphaned upload")
		}
		if errors.Is(err, store.ErrForeignKey) {
			return nil, validation.Field("chatbot_config_id", msgConfigExists)
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	monitoring.RecordDocumentUploaded(string(doc.Status))

	s.logger.Info().
		Int64("document_id", doc.ID).
		Int64("chatbot_config_id", doc.ChatbotConfigID).
		Str("file_type", doc.FileType).
		Str("status", string(doc.Status)).
		Msg("document uploaded")

	if doc.Status == models.DocumentStatusProcessing && s.producer != nil {
		if err := s.producer.Enqueue(ctx, doc.ID); err != nil {
			s.logger.Error().Err(err).Int64("document_id", doc.ID).Msg("enqueueing document for extraction")
		}
	}

	return s.ListDocuments(ctx, cfg.ID)
}

// readUpload reads at most maxUploadBytes+1 bytes. A non-empty docErr is a field message.
func (s *DocumentService) readUpload(in UploadDocumentInput) ([]byte, string, error) {
	if in.Content == nil {
		return nil, msgDocumentRequired, nil
	}
	if in.Size > s.maxUploadBytes {
		return nil, MsgDocumentMax, nil
	}

	data, err := io.ReadAll(io.LimitReader(in.Content, s.maxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading upload: %w", err)
	}
	switch {
	case len(data) == 0:
		return nil, msgDocumentRequired, nil
	case int64(len(data)) > s.maxUploadBytes:
		return nil, MsgDocumentMax, nil
	}
	return data, "", nil
}

// storageExtension prefers the client's extension when it is allowed, else the sniffed one.
func storageExtension(filename string, data []byte) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if allowedExtensions[ext] {
		return ext
	}
	sniffed := strings.TrimPrefix(mimetype.Detect(data).Extension(), ".")
	if sniffed == "" {
		return "bin"
	}
	return sniffed
}

// DeleteDocument removes the stored file and the row, then returns the owner's document list.
// A file that cannot be removed is logged and does not block the delete.
func (s *DocumentService) DeleteDocument(ctx context.Context, documentID int64) (*models.DocumentListResponse, error) {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	if err := s.files.Delete(doc.FilePath); err != nil {
		s.logger.Warn().Err(err).Int64("document_id", doc.ID).Str("key", doc.FilePath).Msg("removing stored document")
	}

	if err := s.store.DeleteDocument(ctx, doc.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to delete document: %w", err)
	}

	s.logger.Info().Int64("document_id", doc.ID).Int64("chatbot_config_id", doc.ChatbotConfigID).Msg("document deleted")
	return s.ListDocuments(ctx, doc.ChatbotConfigID)
}

// RequeueProcessing enqueues up to limit of the oldest processing documents and returns how many were enqueued.
func (s *DocumentService) RequeueProcessing(ctx context.Context, limit int) (int, error) {
	if s.producer == nil {
		return 0, ErrQueueDisabled
	}

	docs, err := s.store.ListDocumentsByStatus(ctx, models.DocumentStatusProcessing, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list processing documents: %w", err)
	}

	var errs []error
	enqueued := 0
	for _, d := range docs {
		if err := s.producer.Enqueue(ctx, d.ID); err != nil {
			errs = append(errs, err)
			continue
		}
		enqueued++
	}

	s.logger.Info().Int("enqueued", enqueued).Int("failed", len(errs)).Msg("requeued processing documents")
	return enqueued, errors.Join(errs...)
}
