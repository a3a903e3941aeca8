package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"chatbot-admin/internal/logging"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type ConsumerConfig struct {
	Stream       string        // Redis stream name
	Group        string        // Redis consumer group name
	Consumer     string        // Redis consumer name
	DLQStream    string        // Dead letter stream for messages that exhausted their attempts
	BatchSize    int64         // Messages per XREADGROUP
	Block        time.Duration // How long to block waiting for new messages
	RequeueDelay time.Duration // Pause before re-adding a failed message
}

// Message is one extraction job read from the stream.
type Message struct {
	ID         string
	DocumentID int64
	Attempt    int
	LastError  string
	Raw        redis.XMessage
}

type RedisConsumer struct {
	client redis.UniversalClient
	cfg    ConsumerConfig
	logger zerolog.Logger
}

func NewRedisConsumer(ctx context.Context, client redis.UniversalClient, cfg ConsumerConfig) (*RedisConsumer, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	consumer := &RedisConsumer{
		client: client,
		cfg:    cfg,
		logger: logging.NewLogger("queue-consumer"),
	}

	if err := consumer.ensureGroup(ctx); err != nil {
		return nil, err
	}
	return consumer, nil
}

func (c *RedisConsumer) ensureGroup(ctx context.Context) error {
	// "0" rather than "$" so a recreated group still sees jobs already in the stream.
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("creating consumer group: %w", err)
	}
	return nil
}

// Read blocks up to cfg.Block for new messages. Unparseable messages are acked and dropped.
func (c *RedisConsumer) Read(ctx context.Context) ([]Message, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		Streams:  []string{c.cfg.Stream, ">"},
		Count:    c.cfg.BatchSize,
		Block:    c.cfg.Block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Message{}, nil
		}
		return nil, fmt.Errorf("reading from stream: %w", err)
	}

	var messages []Message
	for _, stream := range streams {
		for _, raw := range stream.Messages {
			parsed, parseErr := ParseMessage(raw)
			if parseErr != nil {
				c.logger.Error().Err(parseErr).
					Str("raw_message_id", raw.ID).
					Str("stream", c.cfg.Stream).
					Msg("failed to parse message")
				_ = c.Ack(ctx, Message{ID: raw.ID, Raw: raw})
				continue
			}
			messages = append(messages, parsed)
		}
	}

	if len(messages) > 0 {
		c.logger.Debug().Int("count", len(messages)).Str("consumer", c.cfg.Consumer).Msg("read messages from stream")
	}
	return messages, nil
}

func (c *RedisConsumer) Ack(ctx context.Context, msg Message) error {
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, msg.ID).Err(); err != nil {
		return fmt.Errorf("xack (stream=%s): %w", c.cfg.Stream, err)
	}
	return nil
}

// Requeue acks msg and re-adds it with the attempt counter incremented.
func (c *RedisConsumer) Requeue(ctx context.Context, msg Message, errMsg string) error {
	if err := c.Ack(ctx, msg); err != nil {
		return fmt.Errorf("acking failed message for requeue: %w", err)
	}

	values := messageValues(msg.DocumentID, msg.Attempt+1)
	if errMsg != "" {
		values["last_error"] = errMsg
	}

	if c.cfg.RequeueDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.RequeueDelay):
		}
	}

	if err := c.client.XAdd(ctx, &redis.XAddArgs{Stream: c.cfg.Stream, Values: values}).Err(); err != nil {
		return fmt.Errorf("xadd requeue: %w", err)
	}

	c.logger.Info().Int64("document_id", msg.DocumentID).Int("next_attempt", msg.Attempt+1).Str("reason", errMsg).Msg("message requeued for retry")
	return nil
}

// SendDLQ acks msg and parks it on the dead letter stream.
func (c *RedisConsumer) SendDLQ(ctx context.Context, msg Message, errMsg string) error {
	if err := c.Ack(ctx, msg); err != nil {
		return fmt.Errorf("acking failed message for dlq: %w", err)
	}

	values := messageValues(msg.DocumentID, msg.Attempt)
	values["error"] = errMsg

	if err := c.client.XAdd(ctx, &redis.XAddArgs{Stream: c.cfg.DLQStream, Values: values}).Err(); err != nil {
		return fmt.Errorf("xadd dlq (stream=%s): %w", c.cfg.DLQStream, err)
	}

	c.logger.Error().Int64("document_id", msg.DocumentID).Str("final_error", errMsg).Str("dlq_stream", c.cfg.DLQStream).Msg("message sent to DLQ")
	return nil
}

// ParseMessage decodes the stream fields of an extraction job.
func ParseMessage(msg redis.XMessage) (Message, error) {
	raw, ok := msg.Values["document_id"]
	if !ok {
		return Message{}, fmt.Errorf("missing document_id")
	}
	documentID, err := strconv.ParseInt(fmt.Sprint(raw), 10, 64)
	if err != nil {
		return Message{}, fmt.Errorf("parsing document_id: %w", err)
	}

	attempt := 1
	if raw, ok := msg.Values["attempt"]; ok {
		attempt, err = strconv.Atoi(fmt.Sprint(raw))
		if err != nil {
			return Message{}, fmt.Errorf("parsing attempt: %w", err)
		}
		if attempt <= 0 {
			attempt = 1
		}
	}

	var lastError string
	if raw, ok := msg.Values["last_error"]; ok {
		lastError = fmt.Sprint(raw)
	}

	return Message{
		ID:         msg.ID,
		DocumentID: documentID,
		Attempt:    attempt,
		LastError:  lastError,
		Raw:        msg,
	}, nil
}

func messageValues(documentID int64, attempt int) map[string]any {
	if attempt <= 0 {
		attempt = 1
	}
	return map[string]any{
		"document_id": documentID,
		"attempt":     attempt,
	}
}
