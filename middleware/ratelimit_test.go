package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestRateLimiter_BurstThenReject(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(rate.Limit(1), 2)
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		return req
	}

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler(rec, newReq())
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want 200", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler(rec, newReq())
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("got status %d, want 429", rec.Code)
	}
}

func TestRateLimiter_SeparateBucketsPerIP(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(rate.Limit(1), 1)
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	first := httptest.NewRequest(http.MethodPost, "/", nil)
	first.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	handler(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("first IP: got %d, want 200", rec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/", nil)
	second.RemoteAddr = "192.0.2.2:1234"
	rec = httptest.NewRecorder()
	handler(rec, second)
	if rec.Code != http.StatusOK {
		t.Fatalf("second IP should have its own bucket, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"x-forwarded-for wins", "203.0.113.7", "203.0.113.8", "192.0.2.1:80", "203.0.113.7"},
		{"x-real-ip next", "", "203.0.113.8", "192.0.2.1:80", "203.0.113.8"},
		{"remote addr fallback", "", "", "192.0.2.1:80", "192.0.2.1"},
		{"remote addr without port", "", "", "192.0.2.1", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			req.RemoteAddr = tt.remoteAddr

			if got := ClientIP(req); got != tt.want {
				t.Fatalf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
