package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("UPSTREAM_API_URL", "https://finance.example.com/")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.UpstreamAPIURL != "https://finance.example.com" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.UpstreamAPIURL)
	}
	if cfg.UpstreamTimeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.UpstreamTimeout)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.DBDriver)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected 24h expiry, got %v", cfg.JWTExpirationDur)
	}
	if cfg.SessionRefreshSchedule != "@every 1m" {
		t.Errorf("unexpected schedule %q", cfg.SessionRefreshSchedule)
	}
	if cfg.CurrencySymbol != "£" {
		t.Errorf("expected £, got %s", cfg.CurrencySymbol)
	}
	if cfg.AdminAPIKey != "" {
		t.Errorf("expected admin endpoints disabled, got key %q", cfg.AdminAPIKey)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("SESSION_REFRESH_SCHEDULE", "*/5 * * * *")
	t.Setenv("CURRENCY_SYMBOL", "€")
	t.Setenv("ADMIN_API_KEY", "admin-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" || cfg.DBDriver != "postgres" {
		t.Errorf("unexpected server/db config: %+v", cfg)
	}
	if cfg.UpstreamTimeout != 3*time.Second || cfg.JWTExpirationDur != 2*time.Hour {
		t.Errorf("unexpected durations: %v, %v", cfg.UpstreamTimeout, cfg.JWTExpirationDur)
	}
	if cfg.CurrencySymbol != "€" {
		t.Errorf("expected €, got %s", cfg.CurrencySymbol)
	}
	if cfg.AdminAPIKey != "admin-key" {
		t.Errorf("expected admin key, got %q", cfg.AdminAPIKey)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing upstream url",
			env:     map[string]string{"UPSTREAM_API_URL": ""},
			wantErr: "UPSTREAM_API_URL is required",
		},
		{
			name:    "invalid driver",
			env:     map[string]string{"DB_DRIVER": "mysql"},
			wantErr: "invalid DB_DRIVER",
		},
		{
			name:    "invalid timeout",
			env:     map[string]string{"UPSTREAM_TIMEOUT": "soon"},
			wantErr: "invalid UPSTREAM_TIMEOUT",
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"UPSTREAM_TIMEOUT": "-1s"},
			wantErr: "must be positive",
		},
		{
			name:    "production without jwt secret",
			env:     map[string]string{"ENV": "production", "JWT_SECRET": "", "TOKEN_ENCRYPTION_KEY": "k"},
			wantErr: "JWT_SECRET is required in production",
		},
		{
			name:    "production without token key",
			env:     map[string]string{"ENV": "production", "JWT_SECRET": "s", "TOKEN_ENCRYPTION_KEY": ""},
			wantErr: "TOKEN_ENCRYPTION_KEY is required in production",
		},
		{
			name:    "invalid schedule",
			env:     map[string]string{"SESSION_REFRESH_SCHEDULE": "every so often"},
			wantErr: "invalid SESSION_REFRESH_SCHEDULE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad_InvalidJWTExpiryFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_EXPIRES_IN", "forever")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected fallback to 24h, got %v", cfg.JWTExpirationDur)
	}
}

func TestLoad_ProductionSecrets(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "prod-jwt")
	t.Setenv("TOKEN_ENCRYPTION_KEY", "prod-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTSecret != "prod-jwt" || cfg.TokenEncryptionKey != "prod-key" {
		t.Errorf("expected configured secrets, got %q and %q", cfg.JWTSecret, cfg.TokenEncryptionKey)
	}
}

func TestLoad_DevelopmentFallbackSecrets(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TOKEN_ENCRYPTION_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTSecret != devJWTSecret || cfg.TokenEncryptionKey != devTokenEncryptionKey {
		t.Error("expected development fallbacks outside production")
	}
}
