package handlers

import (
	"context"
	"net/http"

	"chatbot-admin/internal/models"
	"chatbot-admin/pkg/httputil"
)

type DashboardService interface {
	GetDashboard(ctx context.Context) (*models.DashboardResponse, error)
}

type DashboardHandler struct {
	Service DashboardService
}

func NewDashboardHandler(ds DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: ds}
}

// GetDashboard handles GET /dashboard.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.GetDashboard(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "load dashboard")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}
