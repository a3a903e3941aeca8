package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"chatbot-admin/internal/monitoring"
	"chatbot-admin/internal/queue"
	"chatbot-admin/internal/storage"
	"chatbot-admin/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errQueueNotConfigured = errors.New("REDIS_URL is not set")

func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the document extraction worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWorker(ctx)
		},
	}
}

func runWorker(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.QueueEnabled() {
		return errQueueNotConfigured
	}
	monitoring.Init()

	files, err := storage.NewLocal(a.cfg.StorageDir)
	if err != nil {
		return err
	}

	client, err := queue.NewClient(ctx, a.cfg.RedisURL)
	if err != nil {
		return err
	}
	defer client.Close()

	consumer, err := queue.NewRedisConsumer(ctx, client, queue.ConsumerConfig{
		Stream:    a.cfg.ExtractionStream,
		Group:     a.cfg.ExtractionGroup,
		Consumer:  a.cfg.WorkerName,
		DLQStream: a.cfg.ExtractionDLQ,
		BatchSize: 10,
		Block:     a.cfg.WorkerBlock,
	})
	if err != nil {
		return err
	}

	w := worker.New(consumer, a.store, files, worker.Config{MaxAttempts: a.cfg.WorkerMaxAttempts})
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("worker stopped")
	return nil
}
