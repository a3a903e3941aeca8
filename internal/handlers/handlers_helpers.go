package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"chatbot-admin/internal/services"
	"chatbot-admin/internal/validation"
	"chatbot-admin/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const maxJSONBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst. It writes a 400 and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBodyBytes))
	if err := dec.Decode(dst); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return false
	}
	return true
}

// parseIDParam parses a numeric chi URL parameter. It writes a 404 and returns false when malformed,
// since a non-numeric id can never name an existing record.
func parseIDParam(w http.ResponseWriter, r *http.Request, name, notFoundMessage string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondError(w, http.StatusNotFound, notFoundMessage)
		return 0, false
	}
	return id, true
}

// respondServiceError maps service errors to HTTP responses.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	if verrs, ok := validation.AsErrors(err); ok {
		httputil.RespondValidationError(w, verrs)
		return
	}

	switch {
	case errors.Is(err, services.ErrChatbotNotFound):
		httputil.RespondError(w, http.StatusNotFound, "Chatbot configuration not found")
	case errors.Is(err, services.ErrDocumentNotFound):
		httputil.RespondError(w, http.StatusNotFound, "Document not found")
	case errors.Is(err, services.ErrIntegrationNotFound):
		httputil.RespondError(w, http.StatusNotFound, "Integration not found")
	case errors.Is(err, services.ErrUserAlreadyExists):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrInvalidVerificationToken):
		httputil.RespondError(w, http.StatusBadRequest, "Invalid or expired verification token")
	default:
		log.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("action", action).
			Msg("request failed")
		httputil.RespondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to %s", action))
	}
}
