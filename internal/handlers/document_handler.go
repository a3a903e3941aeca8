package handlers

import (
	"context"
	"errors"
	"net/http"

	"chatbot-admin/internal/models"
	"chatbot-admin/internal/services"
	"chatbot-admin/internal/validation"
	"chatbot-admin/pkg/httputil"
)

// multipartOverhead is headroom for form fields and part headers on top of the file limit.
const multipartOverhead = 1 << 20

// DocumentService is the knowledge base behavior the handlers depend on.
type DocumentService interface {
	ListDocuments(ctx context.Context, configID int64) (*models.DocumentListResponse, error)
	UploadDocument(ctx context.Context, in services.UploadDocumentInput) (*models.DocumentListResponse, error)
	DeleteDocument(ctx context.Context, documentID int64) (*models.DocumentListResponse, error)
}

// DocumentHandlers serves the knowledge base routes.
type DocumentHandlers struct {
	Service        DocumentService
	MaxUploadBytes int64
}

func NewDocumentHandlers(ds DocumentService, maxUploadBytes int64) *DocumentHandlers {
	return &DocumentHandlers{Service: ds, MaxUploadBytes: maxUploadBytes}
}

// ListDocuments handles GET /knowledge-base/{configID}.
func (h *DocumentHandlers) ListDocuments(w http.ResponseWriter, r *http.Request) {
	configID, ok := parseIDParam(w, r, "configID", chatbotNotFound)
	if !ok {
		return
	}

	resp, err := h.Service.ListDocuments(r.Context(), configID)
	if err != nil {
		respondServiceError(w, r, err, "list documents")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// UploadDocument handles the multipart POST /knowledge-base.
func (h *DocumentHandlers) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.MaxUploadBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondServiceError(w, r, validation.Field("document", services.MsgDocumentMax), "upload document")
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	in := services.UploadDocumentInput{
		UploadDocumentRequest: models.UploadDocumentRequest{
			ChatbotConfigID: r.FormValue("chatbot_config_id"),
			Title:           r.FormValue("title"),
		},
	}

	file, header, err := r.FormFile("document")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// The service reports the missing part alongside any other field errors.
	case err != nil:
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document upload")
		return
	default:
		defer file.Close()
		in.Filename = header.Filename
		in.Size = header.Size
		in.Content = file
	}

	resp, err := h.Service.UploadDocument(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err, "upload document")
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, resp)
}

// DeleteDocument handles DELETE /knowledge-base/{documentID}.
func (h *DocumentHandlers) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	documentID, ok := parseIDParam(w, r, "documentID", "Document not found")
	if !ok {
		return
	}

	resp, err := h.Service.DeleteDocument(r.Context(), documentID)
	if err != nil {
		respondServiceError(w, r, err, "delete document")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}
