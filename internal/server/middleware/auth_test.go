package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClaims struct {
	userID uuid.UUID
}

func (c *stubClaims) GetUserID() uuid.UUID { return c.userID }

type stubValidator struct {
	userID uuid.UUID
	err    error
}

func (v *stubValidator) ValidateToken(tokenString string) (UserIDGetter, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &stubClaims{userID: v.userID}, nil
}

func protectedHandler(t *testing.T, wantID uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := GetUserID(r)
		require.NoError(t, err)
		assert.Equal(t, wantID, userID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ValidToken(t *testing.T) {
	userID := uuid.New()
	handler := Auth(&stubValidator{userID: userID})(protectedHandler(t, userID))

	req := httptest.NewRequest("GET", "/analyses", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_CaseInsensitiveBearer(t *testing.T) {
	userID := uuid.New()
	handler := Auth(&stubValidator{userID: userID})(protectedHandler(t, userID))

	req := httptest.NewRequest("GET", "/analyses", nil)
	req.Header.Set("Authorization", "bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		validator *stubValidator
	}{
		{"missing header", "", &stubValidator{}},
		{"wrong scheme", "Basic abc123", &stubValidator{}},
		{"no token", "Bearer", &stubValidator{}},
		{"invalid token", "Bearer bad-token", &stubValidator{err: fmt.Errorf("invalid token")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := Auth(tt.validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest("GET", "/analyses", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/analyses", nil)
	_, err := GetUserID(req)
	assert.Error(t, err)
}
