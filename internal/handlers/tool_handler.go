package handlers

import (
	"context"
	"net/http"

	"chatbot-admin/internal/models"
	"chatbot-admin/pkg/httputil"
)

// ToolService is the per-config tool behavior the handlers depend on.
type ToolService interface {
	ListToolsForConfig(ctx context.Context, configID int64) (*models.ToolListResponse, error)
	ToggleTool(ctx context.Context, req models.ToggleToolRequest) (*models.ToolListResponse, error)
}

type ToolHandlers struct {
	Service ToolService
}

func NewToolHandlers(ts ToolService) *ToolHandlers {
	return &ToolHandlers{Service: ts}
}

// ListTools handles GET /chatbot-tools/{configID}.
func (h *ToolHandlers) ListTools(w http.ResponseWriter, r *http.Request) {
	configID, ok := parseIDParam(w, r, "configID", chatbotNotFound)
	if !ok {
		return
	}

	resp, err := h.Service.ListToolsForConfig(r.Context(), configID)
	if err != nil {
		respondServiceError(w, r, err, "list tools")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// ToggleTool handles POST /chatbot-tools.
func (h *ToolHandlers) ToggleTool(w http.ResponseWriter, r *http.Request) {
	var req models.ToggleToolRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.Service.ToggleTool(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, "update tool")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}
