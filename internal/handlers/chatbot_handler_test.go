package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chatbot-admin/internal/handlers"
	"chatbot-admin/internal/models"
	"chatbot-admin/internal/services"
)

var _ = Describe("ChatbotHandlers", func() {
	var (
		router *chi.Mux
		svc    *mockChatbotService
	)

	BeforeEach(func() {
		router = chi.NewRouter()
		svc = &mockChatbotService{}
		h := handlers.NewChatbotHandlers(svc)
		router.Get("/chatbot-configs", h.ListChatbotConfigs)
		router.Post("/chatbot-configs", h.CreateChatbotConfig)
		router.Get("/chatbot-configs/{configID}", h.GetChatbotConfig)
		router.Put("/chatbot-configs/{configID}", h.UpdateChatbotConfig)
		router.Patch("/chatbot-configs/{configID}", h.UpdateChatbotConfig)
		router.Delete("/chatbot-configs/{configID}", h.DeleteChatbotConfig)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("lists configurations with string ids", func() {
		svc.listFn = func(context.Context) ([]models.ChatbotConfigResponse, error) {
			return []models.ChatbotConfigResponse{{ID: 1234567890123, Name: "Support", Status: models.ChatbotStatusActive, PersonalityTraits: []string{}}}, nil
		}

		w := do(http.MethodGet, "/chatbot-configs", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp []map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp).To(HaveLen(1))
		Expect(resp[0]["id"]).To(Equal("1234567890123"))
	})

	It("returns 201 when a configuration is created", func() {
		svc.createFn = func(_ context.Context, req models.ChatbotConfigRequest) (*models.ChatbotConfigResponse, error) {
			Expect(req.Name).To(Equal("Support"))
			Expect(req.PersonalityTraits).To(Equal([]string{"friendly"}))
			return &models.ChatbotConfigResponse{ID: 1, Name: req.Name, Status: models.ChatbotStatusActive}, nil
		}

		w := do(http.MethodPost, "/chatbot-configs", `{"name":"Support","status":"active","personality_traits":["friendly"]}`)

		Expect(w.Code).To(Equal(http.StatusCreated))
	})

	It("passes the path id to get", func() {
		svc.getFn = func(_ context.Context, id int64) (*models.ChatbotConfigDetailResponse, error) {
			Expect(id).To(Equal(int64(42)))
			return &models.ChatbotConfigDetailResponse{AvailableTools: []models.ToolResponse{}}, nil
		}

		w := do(http.MethodGet, "/chatbot-configs/42", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"available_tools":[]`))
	})

	It("returns 404 for a non-numeric id without calling the service", func() {
		svc.getFn = func(context.Context, int64) (*models.ChatbotConfigDetailResponse, error) {
			Fail("service should not be called")
			return nil, nil
		}

		w := do(http.MethodGet, "/chatbot-configs/abc", "")

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns 404 when the configuration is missing", func() {
		svc.updateFn = func(context.Context, int64, models.ChatbotConfigRequest) (*models.ChatbotConfigResponse, error) {
			return nil, services.ErrChatbotNotFound
		}

		w := do(http.MethodPatch, "/chatbot-configs/9", `{"name":"x","status":"active"}`)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("accepts PUT updates", func() {
		svc.updateFn = func(_ context.Context, id int64, req models.ChatbotConfigRequest) (*models.ChatbotConfigResponse, error) {
			return &models.ChatbotConfigResponse{ID: id, Name: req.Name, Status: models.ChatbotStatus(req.Status)}, nil
		}

		w := do(http.MethodPut, "/chatbot-configs/9", `{"name":"Renamed","status":"inactive"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"status":"inactive"`))
	})

	It("returns 204 on delete", func() {
		var deleted int64
		svc.deleteFn = func(_ context.Context, id int64) error {
			deleted = id
			return nil
		}

		w := do(http.MethodDelete, "/chatbot-configs/5", "")

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(deleted).To(Equal(int64(5)))
	})

	It("returns 500 on unexpected errors", func() {
		svc.listFn = func(context.Context) ([]models.ChatbotConfigResponse, error) {
			return nil, errors.New("db down")
		}

		w := do(http.MethodGet, "/chatbot-configs", "")

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).NotTo(ContainSubstring("db down"))
	})
})
