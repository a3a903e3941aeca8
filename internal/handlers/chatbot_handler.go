package handlers

import (
	"context"
	"net/http"

	"chatbot-admin/internal/models"
	"chatbot-admin/pkg/httputil"
)

// ChatbotService is the chatbot configuration behavior the handlers depend on.
type ChatbotService interface {
	ListChatbotConfigs(ctx context.Context) ([]models.ChatbotConfigResponse, error)
	CreateChatbotConfig(ctx context.Context, req models.ChatbotConfigRequest) (*models.ChatbotConfigResponse, error)
	GetChatbotConfig(ctx context.Context, configID int64) (*models.ChatbotConfigDetailResponse, error)
	UpdateChatbotConfig(ctx context.Context, configID int64, req models.ChatbotConfigRequest) (*models.ChatbotConfigResponse, error)
	DeleteChatbotConfig(ctx context.Context, configID int64) error
}

// ChatbotHandlers holds the dependencies for chatbot configuration handlers.
type ChatbotHandlers struct {
	Service ChatbotService
}

// NewChatbotHandlers creates a new ChatbotHandlers.
func NewChatbotHandlers(cs ChatbotService) *ChatbotHandlers {
	return &ChatbotHandlers{Service: cs}
}

const chatbotNotFound = "Chatbot configuration not found"

// ListChatbotConfigs handles GET /chatbot-configs.
func (h *ChatbotHandlers) ListChatbotConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.Service.ListChatbotConfigs(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "list chatbot configurations")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, configs)
}

// CreateChatbotConfig handles POST /chatbot-configs.
func (h *ChatbotHandlers) CreateChatbotConfig(w http.ResponseWriter, r *http.Request) {
	var req models.ChatbotConfigRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.Service.CreateChatbotConfig(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, "create chatbot configuration")
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, created)
}

// GetChatbotConfig handles GET /chatbot-configs/{configID}.
func (h *ChatbotHandlers) GetChatbotConfig(w http.ResponseWriter, r *http.Request) {
	configID, ok := parseIDParam(w, r, "configID", chatbotNotFound)
	if !ok {
		return
	}

	detail, err := h.Service.GetChatbotConfig(r.Context(), configID)
	if err != nil {
		respondServiceError(w, r, err, "get chatbot configuration")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, detail)
}

// UpdateChatbotConfig handles PUT and PATCH /chatbot-configs/{configID}.
func (h *ChatbotHandlers) UpdateChatbotConfig(w http.ResponseWriter, r *http.Request) {
	configID, ok := parseIDParam(w, r, "configID", chatbotNotFound)
	if !ok {
		return
	}

	var req models.ChatbotConfigRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.Service.UpdateChatbotConfig(r.Context(), configID, req)
	if err != nil {
		respondServiceError(w, r, err, "update chatbot configuration")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, updated)
}

// DeleteChatbotConfig handles DELETE /chatbot-configs/{configID}.
func (h *ChatbotHandlers) DeleteChatbotConfig(w http.ResponseWriter, r *http.Request) {
	configID, ok := parseIDParam(w, r, "configID", chatbotNotFound)
	if !ok {
		return
	}

	if err := h.Service.DeleteChatbotConfig(r.Context(), configID); err != nil {
		respondServiceError(w, r, err, "delete chatbot configuration")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
