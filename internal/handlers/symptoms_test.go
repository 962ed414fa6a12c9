package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medirec/medirec-backend/internal/models"
	"github.com/medirec/medirec-backend/internal/repository"
)

func TestCreateSymptomSetsOwner(t *testing.T) {
	var saved *models.Symptom
	symptoms := &stubSymptomRepo{
		createFn: func(ctx context.Context, sym *models.Symptom) error {
			saved = sym
			sym.ID = primitive.NewObjectID()
			return nil
		},
	}
	r, tokens := newTestRouter(&stubUserRepo{}, &stubRecordRepo{}, symptoms)

	owner := primitive.NewObjectID()
	token, err := tokens.Issue(owner.Hex())
	require.NoError(t, err)

	rr := doJSON(t, r, http.MethodPost, "/symptoms/", token, map[string]interface{}{
		"category":    "neurological",
		"description": "throbbing headache",
		"severity":    6,
		"duration":    "2 days",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, saved)
	assert.Equal(t, owner, saved.UserID)
	assert.True(t, saved.Date.IsZero(), "date left to the repository default when omitted")
}

func TestCreateSymptomWithExplicitDate(t *testing.T) {
	var saved *models.Symptom
	symptoms := &stubSymptomRepo{
		createFn: func(ctx context.Context, sym *models.Symptom) error {
			saved = sym
			return nil
		},
	}
	r, tokens := newTestRouter(&stubUserRepo{}, &stubRecordRepo{}, symptoms)
	token, err := tokens.Issue(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	rr := doJSON(t, r, http.MethodPost, "/symptoms/", token, map[string]interface{}{
		"category":    "respiratory",
		"description": "dry cough",
		"severity":    3,
		"date":        "2024-06-01T09:30:00Z",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	want, _ := time.Parse(time.RFC3339, "2024-06-01T09:30:00Z")
	assert.True(t, saved.Date.Equal(want))
}

func TestCreateSymptomValidation(t *testing.T) {
	r, tokens := newTestRouter(&stubUserRepo{}, &stubRecordRepo{}, &stubSymptomRepo{})
	token, err := tokens.Issue(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	rr := doJSON(t, r, http.MethodPost, "/symptoms/", token, map[string]interface{}{
		"severity": 20,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "category is required")
	assert.Contains(t, rr.Body.String(), "description is required")
	assert.Contains(t, rr.Body.String(), "severity must be 10 or less")
}

func TestListSymptomsByUserSelfAccessOnly(t *testing.T) {
	owner := primitive.NewObjectID()
	symptoms := &stubSymptomRepo{
		getAllFn: func(ctx context.Context, ownerID string) ([]models.Symptom, error) {
			require.Equal(t, owner.Hex(), ownerID)
			return []models.Symptom{}, nil
		},
	}
	r, tokens := newTestRouter(&stubUserRepo{}, &stubRecordRepo{}, symptoms)
	token, err := tokens.Issue(owner.Hex())
	require.NoError(t, err)

	// Own id works
	rr := doJSON(t, r, http.MethodGet, "/symptoms/user/"+owner.Hex(), token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Someone else's id is forbidden
	rr = doJSON(t, r, http.MethodGet, "/symptoms/user/"+primitive.NewObjectID().Hex(), token, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestSymptomNotFoundAcrossOwners(t *testing.T) {
	symptoms := &stubSymptomRepo{
		getByIDFn: func(ctx context.Context, id, ownerID string) (*models.Symptom, error) {
			return nil, repository.ErrNotFound
		},
		deleteFn: func(ctx context.Context, id, ownerID string) error {
			return repository.ErrNotFound
		},
	}
	r, tokens := newTestRouter(&stubUserRepo{}, &stubRecordRepo{}, symptoms)
	token, err := tokens.Issue(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	rr := doJSON(t, r, http.MethodGet, "/symptoms/654321654321654321654321", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, r, http.MethodDelete, "/symptoms/654321654321654321654321", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
