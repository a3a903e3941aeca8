package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"chatbot-admin/internal/extract"
	"chatbot-admin/internal/logging"
	"chatbot-admin/internal/models"
	"chatbot-admin/internal/monitoring"
	"chatbot-admin/internal/queue"
	"chatbot-admin/internal/store"

	"github.com/rs/zerolog"
)

type Config struct {
	MaxAttempts int
	// ErrorBackoff is the pause after a failed read from the stream.
	ErrorBackoff time.Duration
}

// Worker resolves processing documents to ready or error.
type Worker struct {
	consumer Consumer
	docs     DocumentStore
	files    FileOpener
	cfg      Config
	logger   zerolog.Logger

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, docs DocumentStore, files FileOpener, cfg Config) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}
	return &Worker{
		consumer:  consumer,
		docs:      docs,
		files:     files,
		cfg:       cfg,
		logger:    logging.NewLogger("worker"),
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run consumes until ctx is cancelled or Stop is called.
func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	w.logger.Info().Int("max_attempts", w.cfg.MaxAttempts).Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			w.logger.Info().Msg("worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				w.logger.Error().Err(err).Msg("batch processing error")
				select {
				case <-ctx.Done():
				case <-w.stopCh:
				case <-time.After(w.cfg.ErrorBackoff):
				}
			}
		}
	}
}

// Stop signals Run to return and waits for the current batch to finish.
func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessageSafe(ctx, msg); err != nil {
			w.logger.Error().Err(err).
				Str("message_id", msg.ID).
				Int64("document_id", msg.DocumentID).
				Msg("message processing failed")
			w.handleFailedMessage(ctx, msg, err)
		}
	}
	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().
				Interface("panic", r).
				Str("message_id", msg.ID).
				Int64("document_id", msg.DocumentID).
				Msg("panic recovered in message processing")
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage extracts one document. A returned error is transient and the
// message is retried; documents that cannot be extracted are marked error and acked.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	log := w.logger.With().Str("message_id", msg.ID).Int64("document_id", msg.DocumentID).Int("attempt", msg.Attempt).Logger()
	if msg.Attempt > 1 && msg.LastError != "" {
		log.Warn().Str("last_error", msg.LastError).Msg("retrying message")
	} else {
		log.Info().Msg("processing message")
	}

	doc, err := w.docs.GetDocument(ctx, msg.DocumentID)
	if errors.Is(err, store.ErrNotFound) {
		log.Info().Msg("document no longer exists, skipping")
		return w.ack(ctx, msg, "skipped")
	}
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}
	if doc.Status != models.DocumentStatusProcessing {
		log.Info().Str("status", string(doc.Status)).Msg("document already resolved, skipping")
		return w.ack(ctx, msg, "skipped")
	}

	data, err := w.readFile(doc.FilePath)
	if err != nil {
		return err
	}

	params := store.CompleteDocumentParams{ID: doc.ID}
	text, extractErr := extract.Text(doc.FileType, data)
	if extractErr != nil {
		errMsg := extractErr.Error()
		params.Status = models.DocumentStatusError
		params.ErrorMessage = &errMsg
		log.Warn().Err(extractErr).Str("file_type", doc.FileType).Msg("document could not be extracted")
	} else {
		params.Status = models.DocumentStatusReady
		params.Content = &text
		params.Metadata, _ = json.Marshal(map[string]any{
			"extracted_at":    time.Now().UTC().Format(time.RFC3339),
			"extracted_chars": len([]rune(text)),
		})
	}

	if _, err := w.docs.CompleteDocument(ctx, params); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info().Msg("document resolved or deleted concurrently, skipping")
			return w.ack(ctx, msg, "skipped")
		}
		return fmt.Errorf("completing document: %w", err)
	}

	monitoring.RecordDocumentExtracted(string(params.Status))
	log.Info().Str("status", string(params.Status)).Msg("document resolved")
	return w.ack(ctx, msg, "processed")
}

func (w *Worker) readFile(key string) ([]byte, error) {
	rc, err := w.files.Open(key)
	if err != nil {
		return nil, fmt.Errorf("opening stored file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading stored file: %w", err)
	}
	return data, nil
}

func (w *Worker) ack(ctx context.Context, msg queue.Message, outcome string) error {
	monitoring.RecordQueueJob(outcome)
	if err := w.consumer.Ack(ctx, msg); err != nil {
		// The document state is already final; a redelivery is skipped.
		w.logger.Warn().Err(err).Str("message_id", msg.ID).Msg("failed to ACK message")
	}
	return nil
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		w.logger.Error().
			Str("message_id", msg.ID).
			Int64("document_id", msg.DocumentID).
			Int("attempts", msg.Attempt).
			Msg("max attempts reached, sending to DLQ")

		monitoring.RecordQueueJob("dead_lettered")
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			w.logger.Error().Err(dlqErr).Msg("failed to send to DLQ")
		}
		w.markFailed(ctx, msg, err)
		return
	}

	w.logger.Warn().
		Str("message_id", msg.ID).
		Int64("document_id", msg.DocumentID).
		Int("attempt", msg.Attempt).
		Msg("requeuing failed message")

	monitoring.RecordQueueJob("requeued")
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		w.logger.Error().Err(requeueErr).Msg("failed to requeue message")
	}
}

// markFailed records the final failure on the document so it does not stay processing forever.
func (w *Worker) markFailed(ctx context.Context, msg queue.Message, cause error) {
	errMsg := fmt.Sprintf("extraction failed after %d attempts: %v", msg.Attempt, cause)
	_, err := w.docs.CompleteDocument(ctx, store.CompleteDocumentParams{
		ID:           msg.DocumentID,
		Status:       models.DocumentStatusError,
		ErrorMessage: &errMsg,
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		w.logger.Error().Err(err).Int64("document_id", msg.DocumentID).Msg("failed to mark document as error")
		return
	}
	if err == nil {
		monitoring.RecordDocumentExtracted(string(models.DocumentStatusError))
	}
}
