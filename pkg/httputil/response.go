package httputil

import (
	"encoding/json"
	"net/http"

	"chatbot-admin/internal/models"

	"github.com/rs/zerolog/log"
)

// RespondJSON writes a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Header is already written; nothing left but logging.
		log.Error().Err(err).Int("status", statusCode).Msg("error encoding JSON response")
	}
}

// RespondError writes a JSON error response with the given status code and message.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, models.ErrorResponse{Error: message})
}

// RespondValidationError writes a 422 with the per-field messages.
func RespondValidationError(w http.ResponseWriter, fields map[string][]string) {
	RespondJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
		Error:  "The given data was invalid.",
		Fields: fields,
	})
}
