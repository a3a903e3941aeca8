package handlers

import (
	"context"
	"net/http"

	"chatbot-admin/internal/models"
	"chatbot-admin/pkg/httputil"
)

// IntegrationService is the integration settings behavior the handlers depend on.
type IntegrationService interface {
	ListIntegrations(ctx context.Context, configID int64) (*models.IntegrationListResponse, error)
	SaveIntegration(ctx context.Context, req models.SaveIntegrationRequest) (*models.IntegrationListResponse, error)
	RunAction(ctx context.Context, integrationID int64, req models.IntegrationActionRequest) (*models.IntegrationListResponse, error)
}

// IntegrationHandlers serves the integration settings routes.
type IntegrationHandlers struct {
	Service IntegrationService
}

func NewIntegrationHandlers(is IntegrationService) *IntegrationHandlers {
	return &IntegrationHandlers{Service: is}
}

// ListIntegrations handles GET /integrations/{configID}.
func (h *IntegrationHandlers) ListIntegrations(w http.ResponseWriter, r *http.Request) {
	configID, ok := parseIDParam(w, r, "configID", chatbotNotFound)
	if !ok {
		return
	}

	resp, err := h.Service.ListIntegrations(r.Context(), configID)
	if err != nil {
		respondServiceError(w, r, err, "list integrations")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// SaveIntegration handles POST /integrations, an upsert keyed by config and service name.
func (h *IntegrationHandlers) SaveIntegration(w http.ResponseWriter, r *http.Request) {
	var req models.SaveIntegrationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.Service.SaveIntegration(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, "save integration")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// RunAction handles PATCH /integrations/{integrationID} with a test or disconnect action.
func (h *IntegrationHandlers) RunAction(w http.ResponseWriter, r *http.Request) {
	integrationID, ok := parseIDParam(w, r, "integrationID", "Integration not found")
	if !ok {
		return
	}

	var req models.IntegrationActionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.Service.RunAction(r.Context(), integrationID, req)
	if err != nil {
		respondServiceError(w, r, err, "update integration")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}
