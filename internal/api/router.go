package api

import (
	"time"

	"chatbot-admin/internal/config"
	"chatbot-admin/internal/handlers"
	"chatbot-admin/internal/logging"
	"chatbot-admin/internal/monitoring"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	AuthHandler        *handlers.AuthHandler
	ChatbotHandler     *handlers.ChatbotHandlers
	DocumentHandler    *handlers.DocumentHandlers
	ToolHandler        *handlers.ToolHandlers
	IntegrationHandler *handlers.IntegrationHandlers
	DashboardHandler   *handlers.DashboardHandler
	Config             *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger)
	r.Use(monitoring.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes ---
	r.Get("/health-check", handlers.HealthCheck)
	r.Get("/", handlers.Welcome)
	r.Handle("/metrics", monitoring.Handler())

	r.Route("/auth", func(r chi.Router) {
		if deps.AuthHandler == nil {
			panic("AuthHandler dependency is nil in router setup")
		}
		r.Post("/signup", deps.AuthHandler.HandleSignup)
		r.Post("/login", deps.AuthHandler.HandleLogin)
		r.Post("/verify-email", deps.AuthHandler.HandleVerifyEmail)
	})

	// --- Authenticated, Verified Routes ---
	r.Group(func(r chi.Router) {
		r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))
		r.Use(RequireVerified)

		if deps.DashboardHandler != nil {
			r.Get("/dashboard", deps.DashboardHandler.GetDashboard)
		} else {
			log.Warn().Msg("DashboardHandler dependency is nil, skipping /dashboard")
		}

		if deps.ChatbotHandler != nil {
			r.Route("/chatbot-configs", func(r chi.Router) {
				r.Get("/", deps.ChatbotHandler.ListChatbotConfigs)
				r.Post("/", deps.ChatbotHandler.CreateChatbotConfig)
				r.Get("/{configID}", deps.ChatbotHandler.GetChatbotConfig)
				r.Put("/{configID}", deps.ChatbotHandler.UpdateChatbotConfig)
				r.Patch("/{configID}", deps.ChatbotHandler.UpdateChatbotConfig)
				r.Delete("/{configID}", deps.ChatbotHandler.DeleteChatbotConfig)
			})
		} else {
			log.Warn().Msg("ChatbotHandler dependency is nil, skipping /chatbot-configs routes")
		}

		if deps.DocumentHandler != nil {
			r.Route("/knowledge-base", func(r chi.Router) {
				r.Post("/", deps.DocumentHandler.UploadDocument)
				r.Get("/{configID}", deps.DocumentHandler.ListDocuments)
				r.Delete("/{documentID}", deps.DocumentHandler.DeleteDocument)
			})
		} else {
			log.Warn().Msg("DocumentHandler dependency is nil, skipping /knowledge-base routes")
		}

		if deps.ToolHandler != nil {
			r.Route("/chatbot-tools", func(r chi.Router) {
				r.Post("/", deps.ToolHandler.ToggleTool)
				r.Get("/{configID}", deps.ToolHandler.ListTools)
			})
		} else {
			log.Warn().Msg("ToolHandler dependency is nil, skipping /chatbot-tools routes")
		}

		if deps.IntegrationHandler != nil {
			r.Route("/integrations", func(r chi.Router) {
				r.Post("/", deps.IntegrationHandler.SaveIntegration)
				r.Get("/{configID}", deps.IntegrationHandler.ListIntegrations)
				r.Patch("/{integrationID}", deps.IntegrationHandler.RunAction)
			})
		} else {
			log.Warn().Msg("IntegrationHandler dependency is nil, skipping /integrations routes")
		}
	})

	return r
}
