package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/medirec/medirec-backend/internal/repository"
)

// ErrorResponse is the envelope for all error responses.
type ErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Message: message})
}

func respondValidationErrors(w http.ResponseWriter, errs []string) {
	respondJSON(w, http.StatusBadRequest, ErrorResponse{
		Message: "Validation failed",
		Errors:  errs,
	})
}

// respondRepoError translates repository errors into status codes. Unexpected
// errors are logged in full but reach the client as a generic message.
func respondRepoError(w http.ResponseWriter, log *zap.SugaredLogger, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, repository.ErrDuplicateKey):
		respondError(w, http.StatusBadRequest, "A record with this national ID already exists")
	case errors.Is(err, repository.ErrInvalidSearch):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Errorw("storage error", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
