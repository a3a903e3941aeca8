package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chatbot-admin/internal/handlers"
	"chatbot-admin/internal/models"
	"chatbot-admin/internal/services"
)

var _ = Describe("IntegrationHandlers", func() {
	var (
		router *chi.Mux
		svc    *mockIntegrationService
	)

	BeforeEach(func() {
		router = chi.NewRouter()
		svc = &mockIntegrationService{}
		h := handlers.NewIntegrationHandlers(svc)
		router.Get("/integrations/{configID}", h.ListIntegrations)
		router.Post("/integrations", h.SaveIntegration)
		router.Patch("/integrations/{integrationID}", h.RunAction)
	})

	It("saves an integration with credentials", func() {
		svc.saveFn = func(_ context.Context, req models.SaveIntegrationRequest) (*models.IntegrationListResponse, error) {
			Expect(req.ChatbotConfigID).To(Equal(int64(4)))
			Expect(req.ServiceName).To(Equal("slack"))
			Expect(req.Credentials).To(HaveKeyWithValue("bot_token", "xoxb"))
			return &models.IntegrationListResponse{Integrations: []models.IntegrationSettingResponse{}}, nil
		}

		body := `{"chatbot_config_id":"4","service_name":"slack","display_name":"Slack","is_enabled":true,"credentials":{"bot_token":"xoxb"}}`
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/integrations", bytes.NewBufferString(body)))

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("runs an action against the path id", func() {
		svc.actionFn = func(_ context.Context, id int64, req models.IntegrationActionRequest) (*models.IntegrationListResponse, error) {
			Expect(id).To(Equal(int64(11)))
			Expect(req.Action).To(Equal(services.ActionDisconnect))
			return &models.IntegrationListResponse{Integrations: []models.IntegrationSettingResponse{}}, nil
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/integrations/11", bytes.NewBufferString(`{"action":"disconnect"}`)))

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("returns 404 for a missing integration", func() {
		svc.actionFn = func(context.Context, int64, models.IntegrationActionRequest) (*models.IntegrationListResponse, error) {
			return nil, services.ErrIntegrationNotFound
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/integrations/11", bytes.NewBufferString(`{"action":"test"}`)))

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("lists integrations for a configuration", func() {
		svc.listFn = func(_ context.Context, id int64) (*models.IntegrationListResponse, error) {
			Expect(id).To(Equal(int64(4)))
			return &models.IntegrationListResponse{Integrations: []models.IntegrationSettingResponse{}}, nil
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/integrations/4", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
	})
})
