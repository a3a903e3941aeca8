package worker

import (
	"context"
	"io"

	"chatbot-admin/internal/models"
	"chatbot-admin/internal/queue"
	"chatbot-admin/internal/store"
)

// Consumer is the subset of queue.RedisConsumer the worker drives.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// DocumentStore is the slice of store.Store needed to resolve documents.
type DocumentStore interface {
	GetDocument(ctx context.Context, id int64) (*models.KnowledgeBaseDocument, error)
	CompleteDocument(ctx context.Context, arg store.CompleteDocumentParams) (*models.KnowledgeBaseDocument, error)
}

// FileOpener reads stored uploads.
type FileOpener interface {
	Open(key string) (io.ReadCloser, error)
}
