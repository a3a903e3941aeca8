package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chatbot-admin/internal/handlers"
	"chatbot-admin/internal/models"
)

var _ = Describe("System handlers", func() {
	It("reports health with an RFC3339 timestamp", func() {
		w := httptest.NewRecorder()
		handlers.HealthCheck(w, httptest.NewRequest(http.MethodGet, "/health-check", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp models.HealthResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Status).To(Equal("ok"))
		_, err := time.Parse(time.RFC3339, resp.Timestamp)
		Expect(err).NotTo(HaveOccurred())
	})

	It("describes the application on the landing route", func() {
		w := httptest.NewRecorder()
		handlers.Welcome(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"can_login":true`))
	})
})

var _ = Describe("DashboardHandler", func() {
	It("returns the dashboard", func() {
		svc := &mockDashboardService{getFn: func(context.Context) (*models.DashboardResponse, error) {
			return &models.DashboardResponse{Stats: models.DashboardStats{TotalChatbots: 3}}, nil
		}}
		w := httptest.NewRecorder()
		handlers.NewDashboardHandler(svc).GetDashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"total_chatbots":3`))
	})

	It("returns 500 when the rollup fails", func() {
		svc := &mockDashboardService{getFn: func(context.Context) (*models.DashboardResponse, error) {
			return nil, errors.New("boom")
		}}
		w := httptest.NewRecorder()
		handlers.NewDashboardHandler(svc).GetDashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})
