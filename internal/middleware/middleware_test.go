package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID int, isAdmin bool) string {
	t.Helper()
	claims := &Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func okHandler(t *testing.T, wantUserID int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r)
		assert.True(t, ok)
		assert.Equal(t, wantUserID, userID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticationMissingHeader(t *testing.T) {
	handler := Authentication(testSecret, zerolog.Nop())(okHandler(t, 0))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/cards", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticationMalformedHeader(t *testing.T) {
	handler := Authentication(testSecret, zerolog.Nop())(okHandler(t, 0))

	req := httptest.NewRequest("GET", "/api/v1/cards", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticationInvalidToken(t *testing.T) {
	handler := Authentication(testSecret, zerolog.Nop())(okHandler(t, 0))

	req := httptest.NewRequest("GET", "/api/v1/cards", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticationInjectsIdentity(t *testing.T) {
	handler := Authentication(testSecret, zerolog.Nop())(okHandler(t, 42))

	req := httptest.NewRequest("GET", "/api/v1/cards", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 42, false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	chain := Authentication(testSecret, zerolog.Nop())(RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, GetIsAdmin(r))
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest("GET", "/api/v1/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 1, true))
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminForbidsRegularUser(t *testing.T) {
	chain := Authentication(testSecret, zerolog.Nop())(RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})))

	req := httptest.NewRequest("GET", "/api/v1/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 1, false))
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequestValidationRejectsNonJSON(t *testing.T) {
	handler := RequestValidation()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/api/v1/cards", nil)
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
