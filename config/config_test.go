package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.DBName != "campushub" {
		t.Fatalf("DBName = %q, want campushub", cfg.DBName)
	}
	if cfg.Port != "4000" {
		t.Fatalf("Port = %q, want 4000", cfg.Port)
	}
	if cfg.MaxPDFBytes != 5<<20 {
		t.Fatalf("MaxPDFBytes = %d, want %d", cfg.MaxPDFBytes, 5<<20)
	}
	if cfg.JWTTTLHours != 24*7 {
		t.Fatalf("JWTTTLHours = %d, want %d", cfg.JWTTTLHours, 24*7)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("AllowedOrigins = %v, want two defaults", cfg.AllowedOrigins)
	}
	if cfg.IsProduction() {
		t.Fatal("default environment must not be production")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("PORT", "9999")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CLIENT_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("MAX_PDF_BYTES", "1048576")
	t.Setenv("RATE_LIMIT_AUTH_RPS", "2.5")

	cfg := Load()

	if cfg.DBName != "testdb" {
		t.Fatalf("DBName = %q, want testdb", cfg.DBName)
	}
	if cfg.Port != "9999" {
		t.Fatalf("Port = %q, want 9999", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production environment")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://admin.example.com" {
		t.Fatalf("AllowedOrigins = %v, origins must be trimmed", cfg.AllowedOrigins)
	}
	if cfg.MaxPDFBytes != 1048576 {
		t.Fatalf("MaxPDFBytes = %d, want 1048576", cfg.MaxPDFBytes)
	}
	if cfg.RateLimitAuthRPS != 2.5 {
		t.Fatalf("RateLimitAuthRPS = %v, want 2.5", cfg.RateLimitAuthRPS)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("JWT_TTL_HOURS", "not-a-number")
	t.Setenv("MAX_PDF_BYTES", "also-not")

	cfg := Load()

	if cfg.JWTTTLHours != 24*7 {
		t.Fatalf("JWTTTLHours = %d, want default on parse failure", cfg.JWTTTLHours)
	}
	if cfg.MaxPDFBytes != 5<<20 {
		t.Fatalf("MaxPDFBytes = %d, want default on parse failure", cfg.MaxPDFBytes)
	}
}
