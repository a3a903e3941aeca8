package queue

import (
	"context"
	"fmt"

	"chatbot-admin/internal/logging"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Producer enqueues documents for text extraction.
type Producer interface {
	Enqueue(ctx context.Context, documentID int64) error
}

type redisProducer struct {
	client redis.UniversalClient
	stream string
	logger zerolog.Logger
}

func NewRedisProducer(client redis.UniversalClient, stream string) Producer {
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logging.NewLogger("queue-producer"),
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, documentID int64) error {
	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: messageValues(documentID, 1),
	}).Err(); err != nil {
		return fmt.Errorf("enqueue document %d: %w", documentID, err)
	}

	p.logger.Info().Int64("document_id", documentID).Str("stream", p.stream).Msg("enqueued document for extraction")
	return nil
}

// NewClient parses a redis:// URL and verifies the connection.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}
