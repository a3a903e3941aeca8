package handlers

import (
	"net/http"
	"time"

	"chatbot-admin/internal/models"
	"chatbot-admin/pkg/httputil"
)

// AppName is reported by the landing route.
const AppName = "Chatbot Admin"

// HealthCheck handles GET /health-check.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Welcome handles GET /, telling clients which account routes exist.
func Welcome(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, models.WelcomeResponse{
		Name:        AppName,
		CanLogin:    true,
		CanRegister: true,
	})
}
