package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, userID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   userID + "@example.com",
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// echoIdentity reports what the middleware put in the context.
func echoIdentity() (http.HandlerFunc, *string, *string) {
	var userID, role string
	return func(w http.ResponseWriter, r *http.Request) {
		userID = UserIDFromContext(r.Context())
		role = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}, &userID, &role
}

// ==================== TokenFromRequest ====================

func TestTokenFromRequest(t *testing.T) {
	t.Run("session cookie wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
		req.Header.Set("Authorization", "Bearer header-token")
		assert.Equal(t, "cookie-token", TokenFromRequest(req))
	})

	t.Run("bearer header fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer header-token")
		assert.Equal(t, "header-token", TokenFromRequest(req))
	})

	t.Run("non-bearer scheme ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		assert.Equal(t, "", TokenFromRequest(req))
	})

	t.Run("no credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Equal(t, "", TokenFromRequest(req))
	})
}

// ==================== OptionalAuth ====================

func TestOptionalAuth_ValidCookieSetsIdentity(t *testing.T) {
	handler, userID, role := echoIdentity()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  SessionCookieName,
		Value: signToken(t, testSecret, "user-1", "customer"),
	})

	OptionalAuth(testSecret)(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", *userID)
	assert.Equal(t, "customer", *role)
}

func TestOptionalAuth_MissingTokenPassesThroughAnonymous(t *testing.T) {
	handler, userID, _ := echoIdentity()
	rec := httptest.NewRecorder()

	OptionalAuth(testSecret)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", *userID)
}

func TestOptionalAuth_InvalidSignatureTreatedAsAnonymous(t *testing.T) {
	handler, userID, _ := echoIdentity()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  SessionCookieName,
		Value: signToken(t, "wrong-secret", "user-1", "customer"),
	})

	OptionalAuth(testSecret)(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", *userID, "a bad token must not authenticate anyone")
}

func TestOptionalAuth_ExpiredTokenTreatedAsAnonymous(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	handler, userID, _ := echoIdentity()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: signed})

	OptionalAuth(testSecret)(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", *userID)
}

// ==================== RequireAuth / RequireRole ====================

func TestRequireAuth_RejectsAnonymous(t *testing.T) {
	handler, _, _ := echoIdentity()
	rec := httptest.NewRecorder()

	chain := OptionalAuth(testSecret)(RequireAuth()(handler))
	chain.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestRequireAuth_AllowsAuthenticated(t *testing.T) {
	handler, _, _ := echoIdentity()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  SessionCookieName,
		Value: signToken(t, testSecret, "user-1", "customer"),
	})

	OptionalAuth(testSecret)(RequireAuth()(handler)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_RejectsWrongRole(t *testing.T) {
	handler, _, _ := echoIdentity()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  SessionCookieName,
		Value: signToken(t, testSecret, "user-1", "customer"),
	})

	OptionalAuth(testSecret)(RequireRole("admin")(handler)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	handler, _, role := echoIdentity()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  SessionCookieName,
		Value: signToken(t, testSecret, "admin-1", "admin"),
	})

	OptionalAuth(testSecret)(RequireRole("admin")(handler)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", *role)
}
