package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p9e.in/civicgrid/models"
)

func TestTokenRoundTrip_SecretSetAfterInit(t *testing.T) {
	// the package was initialized long before this runs; the signing key
	// must come from the environment as it is now
	t.Setenv("JWT_SECRET", "late-loaded-secret")

	token, err := GenerateToken("user-1", "DEPARTMENT_HEAD", "Jordan Reyes", "jordan@city.gov")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	var got *Claims
	handler := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetClaims(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, models.RoleDepartmentHead, models.Role(got.Role))
}

func TestJWTMiddleware_RejectsBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "late-loaded-secret")

	handler := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
