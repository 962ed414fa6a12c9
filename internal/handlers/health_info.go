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

type DemographicsRequest struct {
	Name       string  `json:"name" validate:"required"`
	NationalID string  `json:"national_id" validate:"required"`
	Phone      string  `json:"phone" validate:"required"`
	Sex        string  `json:"sex"`
	Age        int     `json:"age" validate:"omitempty,gte=0,lte=150"`
	Height     float64 `json:"height" validate:"omitempty,gte=0,lte=300"`
	Weight     float64 `json:"weight" validate:"omitempty,gte=0,lte=700"`
}

type BloodPressureRequest struct {
	Systolic  float64 `json:"systolic" validate:"omitempty,gte=0,lte=400"`
	Diastolic float64 `json:"diastolic" validate:"omitempty,gte=0,lte=300"`
}

type VitalsRequest struct {
	BloodPressure    BloodPressureRequest `json:"blood_pressure"`
	BloodSugar       float64              `json:"blood_sugar" validate:"omitempty,gte=0"`
	Temperature      float64              `json:"temperature" validate:"omitempty,gte=25,lte=45"`
	OxygenSaturation float64              `json:"oxygen_saturation" validate:"omitempty,gte=0,lte=100"`
}

type HealthRecordRequest struct {
	Demographics DemographicsRequest `json:"demographics" validate:"required"`
	Vitals       VitalsRequest       `json:"vitals"`
	Symptoms     []string            `json:"symptoms"`
	Note         string              `json:"note"`
}

// toModel builds the stored record. The owner id always comes from the
// verified token, never from the body, and BMI is recomputed server-side.
func (req *HealthRecordRequest) toModel() *models.HealthRecord {
	return &models.HealthRecord{
		Demographics: models.Demographics{
			Name:       req.Demographics.Name,
			NationalID: req.Demographics.NationalID,
			Phone:      req.Demographics.Phone,
			Sex:        req.Demographics.Sex,
			Age:        req.Demographics.Age,
			Height:     req.Demographics.Height,
			Weight:     req.Demographics.Weight,
			BMI:        models.ComputeBMI(req.Demographics.Height, req.Demographics.Weight),
		},
		Vitals: models.Vitals{
			BloodPressure: models.BloodPressure{
				Systolic:  req.Vitals.BloodPressure.Systolic,
				Diastolic: req.Vitals.BloodPressure.Diastolic,
			},
			BloodSugar:       req.Vitals.BloodSugar,
			Temperature:      req.Vitals.Temperature,
			OxygenSaturation: req.Vitals.OxygenSaturation,
		},
		Symptoms: req.Symptoms,
		Note:     req.Note,
	}
}

type HealthInfoHandler struct {
	records repository.HealthRecordRepository
	log     *zap.SugaredLogger
}

func NewHealthInfoHandler(records repository.HealthRecordRepository, log *zap.SugaredLogger) *HealthInfoHandler {
	return &HealthInfoHandler{records: records, log: log}
}

func (h *HealthInfoHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return userID, true
}

func (h *HealthInfoHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req HealthRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	rec := req.toModel()
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	rec.UserID = owner

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.records.Create(ctx, rec); err != nil {
		respondRepoError(w, h.log, err, "Health record not found")
		return
	}
	respondJSON(w, http.StatusCreated, rec)
}

func (h *HealthInfoHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	records, err := h.records.GetAll(ctx, ownerID)
	if err != nil {
		respondRepoError(w, h.log, err, "Health record not found")
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func (h *HealthInfoHandler) Search(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	criteria := repository.SearchCriteria{
		Type:      q.Get("type"),
		Keyword:   q.Get("keyword"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	records, err := h.records.Search(ctx, ownerID, criteria)
	if err != nil {
		respondRepoError(w, h.log, err, "Health record not found")
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func (h *HealthInfoHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, err := h.records.GetByID(ctx, chi.URLParam(r, "id"), ownerID)
	if err != nil {
		respondRepoError(w, h.log, err, "Health record not found")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (h *HealthInfoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req HealthRecordRequest
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

	updated, err := h.records.Update(ctx, chi.URLParam(r, "id"), ownerID, req.toModel())
	if err != nil {
		respondRepoError(w, h.log, err, "Health record not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *HealthInfoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.records.Delete(ctx, chi.URLParam(r, "id"), ownerID); err != nil {
		respondRepoError(w, h.log, err, "Health record not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Health record deleted"})
}
