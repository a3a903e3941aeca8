package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"chatbot-admin/internal/api"
	"chatbot-admin/internal/handlers"
	"chatbot-admin/internal/integrations"
	"chatbot-admin/internal/monitoring"
	"chatbot-admin/internal/queue"
	"chatbot-admin/internal/services"
	"chatbot-admin/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	monitoring.Init()

	files, err := storage.NewLocal(a.cfg.StorageDir)
	if err != nil {
		return err
	}

	var producer queue.Producer
	if a.cfg.QueueEnabled() {
		client, err := queue.NewClient(ctx, a.cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		producer = queue.NewRedisProducer(client, a.cfg.ExtractionStream)
	} else {
		log.Warn().Msg("REDIS_URL not set, uploaded documents will stay processing until requeued")
	}

	registry := integrations.NewDefaultRegistry(integrations.Options{
		LiveChecks:  a.cfg.LiveIntegrationChecks,
		SuccessRate: a.cfg.IntegrationSuccessRate,
	})
	log.Info().
		Strs("live_testers", registry.Services()).
		Float64("simulated_success_rate", a.cfg.IntegrationSuccessRate).
		Msg("integration testers ready")

	// --- Initialize Services ---
	authService := services.NewAuthService(a.store, a.cfg)
	chatbotService := services.NewChatbotService(a.store, files, a.aead)
	documentService := services.NewDocumentService(a.store, files, producer, a.cfg.MaxUploadBytes)
	toolService := services.NewToolService(a.store)
	integrationService := services.NewIntegrationService(a.store, a.aead, registry)
	dashboardService := services.NewDashboardService(a.store)

	router := api.NewRouter(api.RouterDependencies{
		AuthHandler:        handlers.NewAuthHandler(authService),
		ChatbotHandler:     handlers.NewChatbotHandlers(chatbotService),
		DocumentHandler:    handlers.NewDocumentHandlers(documentService, a.cfg.MaxUploadBytes),
		ToolHandler:        handlers.NewToolHandlers(toolService),
		IntegrationHandler: handlers.NewIntegrationHandlers(integrationService),
		DashboardHandler:   handlers.NewDashboardHandler(dashboardService),
		Config:             a.cfg,
	})

	server := &http.Server{
		Addr:         ":" + a.cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go reportPoolStats(ctx, a.pool)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", a.cfg.HTTPPort).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server shutdown complete")
	return nil
}

// reportPoolStats publishes pool usage to the connection gauges until ctx ends.
func reportPoolStats(ctx context.Context, pool *pgxpool.Pool) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		stat := pool.Stat()
		monitoring.SetDBConnections(stat.AcquiredConns(), stat.IdleConns())

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
