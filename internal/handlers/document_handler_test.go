package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chatbot-admin/internal/handlers"
	"chatbot-admin/internal/models"
	"chatbot-admin/internal/services"
	"chatbot-admin/internal/validation"
)

func multipartRequest(fields map[string]string, filename string, content []byte) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		Expect(mw.WriteField(k, v)).To(Succeed())
	}
	if filename != "" {
		part, err := mw.CreateFormFile("document", filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(content)
		Expect(err).NotTo(HaveOccurred())
	}
	Expect(mw.Close()).To(Succeed())

	req := httptest.NewRequest(http.MethodPost, "/knowledge-base", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var _ = Describe("DocumentHandlers", func() {
	const maxUpload = 1024

	var (
		router *chi.Mux
		svc    *mockDocumentService
	)

	BeforeEach(func() {
		router = chi.NewRouter()
		svc = &mockDocumentService{}
		h := handlers.NewDocumentHandlers(svc, maxUpload)
		router.Get("/knowledge-base/{configID}", h.ListDocuments)
		router.Post("/knowledge-base", h.UploadDocument)
		router.Delete("/knowledge-base/{documentID}", h.DeleteDocument)
	})

	It("passes form fields and the file part to the service", func() {
		var got services.UploadDocumentInput
		var body string
		svc.uploadFn = func(_ context.Context, in services.UploadDocumentInput) (*models.DocumentListResponse, error) {
			got = in
			data, err := io.ReadAll(in.Content)
			Expect(err).NotTo(HaveOccurred())
			body = string(data)
			return &models.DocumentListResponse{Documents: []models.DocumentResponse{}}, nil
		}

		req := multipartRequest(map[string]string{"chatbot_config_id": "12", "title": "Handbook"}, "handbook.txt", []byte("hello"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(got.ChatbotConfigID).To(Equal("12"))
		Expect(got.Title).To(Equal("Handbook"))
		Expect(got.Filename).To(Equal("handbook.txt"))
		Expect(got.Size).To(Equal(int64(5)))
		Expect(body).To(Equal("hello"))
	})

	It("leaves Content nil when no file part is sent", func() {
		svc.uploadFn = func(_ context.Context, in services.UploadDocumentInput) (*models.DocumentListResponse, error) {
			Expect(in.Content).To(BeNil())
			return nil, validation.Field("document", "The document field is required.")
		}

		req := multipartRequest(map[string]string{"chatbot_config_id": "12", "title": "Handbook"}, "", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(w.Body.String()).To(ContainSubstring("The document field is required."))
	})

	It("reports an oversized body as a document field error", func() {
		svc.uploadFn = func(context.Context, services.UploadDocumentInput) (*models.DocumentListResponse, error) {
			Fail("service should not be called")
			return nil, nil
		}

		huge := []byte(strings.Repeat("a", maxUpload+(1<<20)+1))
		req := multipartRequest(map[string]string{"chatbot_config_id": "12", "title": "Big"}, "big.txt", huge)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		var resp models.ErrorResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Fields).To(HaveKeyWithValue("document", []string{services.MsgDocumentMax}))
	})

	It("returns 400 when the body is not multipart", func() {
		req := httptest.NewRequest(http.MethodPost, "/knowledge-base", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("lists documents for a configuration", func() {
		svc.listFn = func(_ context.Context, id int64) (*models.DocumentListResponse, error) {
			Expect(id).To(Equal(int64(3)))
			return &models.DocumentListResponse{Documents: []models.DocumentResponse{}}, nil
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/knowledge-base/3", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"documents":[]`))
	})

	It("returns 404 when deleting a missing document", func() {
		svc.deleteFn = func(context.Context, int64) (*models.DocumentListResponse, error) {
			return nil, services.ErrDocumentNotFound
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/knowledge-base/77", nil))

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns the remaining documents after delete", func() {
		svc.deleteFn = func(_ context.Context, id int64) (*models.DocumentListResponse, error) {
			Expect(id).To(Equal(int64(77)))
			return &models.DocumentListResponse{Documents: []models.DocumentResponse{}}, nil
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/knowledge-base/77", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
	})
})
