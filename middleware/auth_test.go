package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/tournament-server/models"
)

var testSecret = []byte("test-secret")

func signedToken(t *testing.T, userID int, role models.UserRole) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		jwtClaimUserID: userID,
		jwtClaimRole:   string(role),
		"exp":          time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func claimsProbe(t *testing.T) (http.Handler, *int, *models.UserRole) {
	t.Helper()
	var gotID int
	var gotRole models.UserRole
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := GetUserIDFromContext(r.Context()); err == nil {
			gotID = id
		}
		gotRole = RoleOrDefault(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return handler, &gotID, &gotRole
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	probe, gotID, gotRole := claimsProbe(t)
	handler := Authenticate(testSecret)(probe)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, 42, models.RoleCoach))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 42, *gotID)
	assert.Equal(t, models.RoleCoach, *gotRole)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	probe, _, _ := claimsProbe(t)
	handler := Authenticate(testSecret)(probe)

	// No header at all.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer not.a.token")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Token signed with a different key.
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		jwtClaimUserID: 1, jwtClaimRole: "admin",
	})
	signed, err := other.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Expired token.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		jwtClaimUserID: 1, jwtClaimRole: "admin",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err = expired.SignedString(testSecret)
	require.NoError(t, err)
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthenticateAllowsAnonymous(t *testing.T) {
	probe, gotID, gotRole := claimsProbe(t)
	handler := OptionalAuthenticate(testSecret)(probe)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, *gotID)
	assert.Equal(t, models.RolePlayer, *gotRole)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, 7, models.RoleAdmin))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, *gotID)
	assert.Equal(t, models.RoleAdmin, *gotRole)
}

func TestRequireRole(t *testing.T) {
	probe, _, _ := claimsProbe(t)
	handler := Authenticate(testSecret)(RequireRole(models.RoleAdmin, models.RoleCoach)(probe))

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, 1, models.RoleCoach))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	r = httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, 2, models.RolePlayer))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
