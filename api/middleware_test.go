package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campushub/campushub/config"
	"github.com/campushub/campushub/utils"
)

func testAPI(t *testing.T) *API {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		JWTTTLHours:    1,
		AllowedOrigins: []string{"http://localhost:5173"},
	}
	return New(cfg, nil, nil, utils.NewMailer("", "Test", "test@example.com"), nil)
}

func TestRequireAuth_NoCookie(t *testing.T) {
	t.Parallel()
	a := testAPI(t)

	handler := a.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/user/data", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Not Authorized")
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	t.Parallel()
	a := testAPI(t)

	handler := a.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user/data", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "not.a.jwt"})

	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	t.Parallel()
	a := testAPI(t)

	tok, err := utils.GenerateToken("64f000000000000000000001", []byte(a.cfg.JWTSecret), -time.Minute)
	require.NoError(t, err)

	handler := a.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user/data", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: tok})

	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	t.Parallel()
	a := testAPI(t)

	const userID = "64f000000000000000000001"
	tok, err := utils.GenerateToken(userID, []byte(a.cfg.JWTSecret), time.Hour)
	require.NoError(t, err)

	var gotUserID string
	handler := a.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, err = GetUserIDFromContext(r.Context())
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user/data", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: tok})

	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, userID, gotUserID)
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := GetUserIDFromContext(req.Context()); err == nil {
		t.Fatal("expected error for missing user id")
	}
}
