package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	a := testAPI(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{"},
		{"missing name", `{"email":"a@b.c","password":"secret"}`},
		{"missing email", `{"name":"Alice","password":"secret"}`},
		{"missing password", `{"name":"Alice","email":"a@b.c"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, a.Register, "/api/auth/register", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestLogin_Validation(t *testing.T) {
	t.Parallel()
	a := testAPI(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{"},
		{"missing email", `{"password":"secret"}`},
		{"missing password", `{"email":"a@b.c"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, a.Login, "/api/auth/login", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSendResetOTP_RequiresEmail(t *testing.T) {
	t.Parallel()
	a := testAPI(t)

	rec := postJSON(t, a.SendResetOTP, "/api/auth/send-reset-otp", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Email is required")
}

func TestResetPassword_Validation(t *testing.T) {
	t.Parallel()
	a := testAPI(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing all", `{}`},
		{"missing otp", `{"email":"a@b.c","newPassword":"secret"}`},
		{"missing new password", `{"email":"a@b.c","otp":"123456"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, a.ResetPassword, "/api/auth/reset-password", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestVerifyAccount_RequiresOTP(t *testing.T) {
	t.Parallel()
	a := testAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-account", strings.NewReader(`{}`))
	req = req.WithContext(context.WithValue(req.Context(), userIDKey, "64f000000000000000000001"))

	rec := httptest.NewRecorder()
	a.VerifyAccount(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "OTP is required")
}

func TestLogout_ClearsCookie(t *testing.T) {
	t.Parallel()
	a := testAPI(t)

	rec := httptest.NewRecorder()
	a.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "token", cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.True(t, cookies[0].MaxAge < 0)
	require.True(t, cookies[0].HttpOnly)
}
