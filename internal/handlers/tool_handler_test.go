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
	"chatbot-admin/internal/validation"
)

var _ = Describe("ToolHandlers", func() {
	var (
		router *chi.Mux
		svc    *mockToolService
	)

	BeforeEach(func() {
		router = chi.NewRouter()
		svc = &mockToolService{}
		h := handlers.NewToolHandlers(svc)
		router.Get("/chatbot-tools/{configID}", h.ListTools)
		router.Post("/chatbot-tools", h.ToggleTool)
	})

	It("lists tools for a configuration", func() {
		svc.listFn = func(_ context.Context, id int64) (*models.ToolListResponse, error) {
			Expect(id).To(Equal(int64(8)))
			return &models.ToolListResponse{Tools: []models.ToolWithConfigResponse{}}, nil
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chatbot-tools/8", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("decodes string ids in the toggle payload", func() {
		svc.toggleFn = func(_ context.Context, req models.ToggleToolRequest) (*models.ToolListResponse, error) {
			Expect(req.ChatbotConfigID).To(Equal(int64(8)))
			Expect(req.ChatbotToolID).To(Equal(int64(2)))
			Expect(req.IsEnabled).NotTo(BeNil())
			Expect(*req.IsEnabled).To(BeTrue())
			return &models.ToolListResponse{Tools: []models.ToolWithConfigResponse{}}, nil
		}

		body := `{"chatbot_config_id":"8","chatbot_tool_id":"2","is_enabled":true,"configuration":{"api_key":"k"}}`
		req := httptest.NewRequest(http.MethodPost, "/chatbot-tools", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("returns 422 for an unknown tool", func() {
		svc.toggleFn = func(context.Context, models.ToggleToolRequest) (*models.ToolListResponse, error) {
			return nil, validation.Field("chatbot_tool_id", "Selected tool does not exist.")
		}

		body := `{"chatbot_config_id":"8","chatbot_tool_id":"99","is_enabled":false}`
		req := httptest.NewRequest(http.MethodPost, "/chatbot-tools", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(w.Body.String()).To(ContainSubstring("Selected tool does not exist."))
	})

	It("returns 404 when the configuration is missing", func() {
		svc.listFn = func(context.Context, int64) (*models.ToolListResponse, error) {
			return nil, services.ErrChatbotNotFound
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chatbot-tools/8", nil))

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
