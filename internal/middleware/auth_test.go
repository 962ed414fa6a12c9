package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medirec/medirec-backend/internal/auth"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"well formed", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"scheme only", "Bearer", ""},
		{"scheme with empty token", "Bearer ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBearerToken(tt.header))
		})
	}
}

func authedRequest(t *testing.T, header string) *httptest.ResponseRecorder {
	t.Helper()
	tokens := auth.NewTokenService("test-secret")

	var boundID string
	handler := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		boundID, _ = UserIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health-info", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code == http.StatusOK {
		assert.NotEmpty(t, boundID)
	}
	return rr
}

func TestRequireAuthMissingHeader(t *testing.T) {
	rr := authedRequest(t, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Authentication required")
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	rr := authedRequest(t, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	rr := authedRequest(t, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid token")
}

func TestRequireAuthForeignToken(t *testing.T) {
	other := auth.NewTokenService("other-secret")
	token, err := other.Issue("64f1c0ffee0123456789abcd")
	require.NoError(t, err)

	rr := authedRequest(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuthBindsUserID(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	token, err := tokens.Issue("64f1c0ffee0123456789abcd")
	require.NoError(t, err)

	var boundID string
	handler := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFrom(r.Context())
		require.True(t, ok)
		boundID = id
	}))

	req := httptest.NewRequest(http.MethodGet, "/health-info", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "64f1c0ffee0123456789abcd", boundID)
}

func TestUserIDFromEmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserIDFrom(req.Context())
	assert.False(t, ok)
}
