package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/medirec/medirec-backend/internal/middleware"
	"github.com/medirec/medirec-backend/internal/models"
	"github.com/medirec/medirec-backend/internal/repository"
	"github.com/medirec/medirec-backend/internal/validation"
)

type SymptomRequest struct {
	Category    string     `json:"category" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Severity    int        `json:"severity" validate:"required,gte=1,lte=10"`
	Duration    string     `json:"duration"`
	Notes       string     `json:"notes"`
	Date        *time.Time `json:"date"` // Defaults to submission time when omitted
}

func (req *SymptomRequest) toModel() *models.Symptom {
	s := &models.Symptom{
		Category:    req.Category,
		Description: req.Description,
		Severity:    req.Severity,
		Duration:    req.Duration,
		Notes:       req.Notes,
	}
	if req.Date != nil {
		s.Date = *req.Date
	}
	return s
}

type SymptomHandler struct {
	symptoms repository.SymptomRepository
	log      *zap.SugaredLogger
}

func NewSymptomHandler(symptoms repository.SymptomRepository, log *zap.SugaredLogger) *SymptomHandler {
	return &SymptomHandler{symptoms: symptoms, log: log}
}

func (h *SymptomHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return userID, true
}

func (h *SymptomHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req SymptomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	s := req.toModel()
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	s.UserID = owner

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.symptoms.Create(ctx, s); err != nil {
		respondRepoError(w, h.log, err, "Symptom not found")
		return
	}
	respondJSON(w, http.StatusCreated, s)
}

func (h *SymptomHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	symptoms, err := h.symptoms.GetAll(ctx, ownerID)
	if err != nil {
		respondRepoError(w, h.log, err, "Symptom not found")
		return
	}
	respondJSON(w, http.StatusOK, symptoms)
}

// ListByUser serves /symptoms/user/{userId}. Restricted to self-access: the
// path is kept for client compatibility but a caller may only name their own
// user id.
func (h *SymptomHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	target := chi.URLParam(r, "userId")
	if target != ownerID {
		respondError(w, http.StatusForbidden, "You may only list your own symptoms")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	symptoms, err := h.symptoms.GetAll(ctx, target)
	if err != nil {
		respondRepoError(w, h.log, err, "Symptom not found")
		return
	}
	respondJSON(w, http.StatusOK, symptoms)
}

func (h *SymptomHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.symptoms.GetByID(ctx, chi.URLParam(r, "id"), ownerID)
	if err != nil {
		respondRepoError(w, h.log, err, "Symptom not found")
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func (h *SymptomHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req SymptomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.symptoms.Update(ctx, chi.URLParam(r, "id"), ownerID, req.toModel())
	if err != nil {
		respondRepoError(w, h.log, err, "Symptom not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *SymptomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.symptoms.Delete(ctx, chi.URLParam(r, "id"), ownerID); err != nil {
		respondRepoError(w, h.log, err, "Symptom not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Symptom deleted"})
}
