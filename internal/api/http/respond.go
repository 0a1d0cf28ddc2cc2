package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/logger"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the error taxonomy onto HTTP status codes. Internal
// errors never leak their cause to the client.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case domain.ErrorKindValidation:
		status = http.StatusBadRequest
	case domain.ErrorKindNotFound:
		status = http.StatusNotFound
	case domain.ErrorKindConflict:
		status = http.StatusConflict
	case domain.ErrorKindAuthorization:
		status = http.StatusForbidden
	}

	message := err.Error()
	var field string
	var derr *domain.Error
	if errors.As(err, &derr) {
		message = derr.Message
		field = derr.Field
	}
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		message = "internal server error"
	}

	writeJSON(w, status, errorBody{Error: errorDetail{
		Kind:    string(kind),
		Message: message,
		Field:   field,
	}})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, domain.NewValidationError("body", "request body is not valid JSON"))
		return false
	}
	return true
}
