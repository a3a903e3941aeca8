package cli

import (
	"fmt"

	"chatbot-admin/internal/queue"
	"chatbot-admin/internal/services"

	"github.com/spf13/cobra"
)

func newDocumentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Manage knowledge base documents",
	}

	var limit int
	requeue := &cobra.Command{
		Use:   "requeue",
		Short: "Enqueue extraction for documents stuck in processing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.cfg.QueueEnabled() {
				return errQueueNotConfigured
			}
			client, err := queue.NewClient(ctx, a.cfg.RedisURL)
			if err != nil {
				return err
			}
			defer client.Close()

			producer := queue.NewRedisProducer(client, a.cfg.ExtractionStream)
			n, err := services.NewDocumentService(a.store, nil, producer, a.cfg.MaxUploadBytes).RequeueProcessing(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "requeued %d documents\n", n)
			return nil
		},
	}
	requeue.Flags().IntVar(&limit, "limit", 500, "maximum number of documents to enqueue")

	cmd.AddCommand(requeue)
	return cmd
}
