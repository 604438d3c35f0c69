package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"dca-oilgas/internal/middleware"
)

func setAdminEnv(t *testing.T) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	t.Setenv("ADMIN_USER", "ops")
	t.Setenv("ADMIN_PASS_HASH", string(hash))
	t.Setenv("ADMIN_JWT_SECRET", "test-secret")
}

func whoami() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(middleware.AdminFromContext(r.Context())))
	})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminAuth_Bearer(t *testing.T) {
	setAdminEnv(t)
	token, exp, err := middleware.GenerateAdminToken("ops", time.Now())
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	req := httptest.NewRequest(http.MethodPost, "/admin/production/upload", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := serve(middleware.AdminAuth(whoami()), req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops", rec.Body.String())
}

func TestAdminAuth_ExpiredToken(t *testing.T) {
	setAdminEnv(t)
	token, _, err := middleware.GenerateAdminToken("ops", time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, serve(middleware.AdminAuth(whoami()), req).Code)
}

func TestAdminAuth_WrongRole(t *testing.T) {
	setAdminEnv(t)
	claims := middleware.AdminClaims{
		Role: "viewer",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "dca-oilgas",
			Subject:   "ops",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, serve(middleware.AdminAuth(whoami()), req).Code)
}

func TestAdminAuth_Basic(t *testing.T) {
	setAdminEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.SetBasicAuth("ops", "s3cret")
	rec := serve(middleware.AdminAuth(whoami()), req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops", rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.SetBasicAuth("ops", "nope")
	assert.Equal(t, http.StatusUnauthorized, serve(middleware.AdminAuth(whoami()), req).Code)
}

func TestAdminAuth_NotConfigured(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")
	t.Setenv("ADMIN_USER", "")
	t.Setenv("ADMIN_PASS_HASH", "")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.Equal(t, http.StatusForbidden, serve(middleware.AdminAuth(whoami()), req).Code)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.SetBasicAuth("ops", "s3cret")
	assert.Equal(t, http.StatusForbidden, serve(middleware.AdminAuth(whoami()), req).Code)
}

func TestAuth_APIKey(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	t.Setenv("API_KEY", "")
	assert.Equal(t, http.StatusOK, serve(middleware.Auth(ok), httptest.NewRequest(http.MethodGet, "/api/forecast", nil)).Code)

	t.Setenv("API_KEY", "k1")
	assert.Equal(t, http.StatusUnauthorized, serve(middleware.Auth(ok), httptest.NewRequest(http.MethodGet, "/api/forecast", nil)).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/forecast", nil)
	req.Header.Set("X-API-Key", "k1")
	assert.Equal(t, http.StatusOK, serve(middleware.Auth(ok), req).Code)
}

func TestRequestID(t *testing.T) {
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "6f1c2b9e-2d3a-4a55-9d0e-0c7a1f3e9b21")
	rec = serve(h, req)
	assert.Equal(t, "6f1c2b9e-2d3a-4a55-9d0e-0c7a1f3e9b21", rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "not a uuid")
	rec = serve(h, req)
	assert.NotEqual(t, "not a uuid", rec.Header().Get("X-Request-ID"))
}

func TestCORS_SetsHeadersAndPassesThrough(t *testing.T) {
	called := false
	h := middleware.CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := serve(h, httptest.NewRequest(http.MethodOptions, "/api/forecast", nil))
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-API-Key")
}
