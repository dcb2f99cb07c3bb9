package config

import (
	"errors"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SERVER_PORT", "")

	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Store.Driver != StoreDriverPostgres {
		t.Errorf("expected default store driver %q, got %q", StoreDriverPostgres, cfg.Store.Driver)
	}
	if cfg.Seed.AdminUsername != "admin" || cfg.Seed.AdminPassword != "admin123" {
		t.Errorf("unexpected seed admin %q/%q", cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
	}
	if cfg.Auth.Required {
		t.Error("auth must be optional by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/mirror.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.example.com, ,https://shop.example.com")
	t.Setenv("RATE_LIMIT_LOGIN_REQUESTS", "3")
	t.Setenv("SERVER_ENV", "production")

	cfg := Load()

	if cfg.Store.Driver != StoreDriverSQLite {
		t.Errorf("expected driver %q, got %q", StoreDriverSQLite, cfg.Store.Driver)
	}
	if cfg.SQLite.Path != "/tmp/mirror.db" {
		t.Errorf("unexpected sqlite path %q", cfg.SQLite.Path)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("expected 2 allowed origins, got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.RateLimit.LoginRequests != 3 {
		t.Errorf("expected 3 login requests, got %d", cfg.RateLimit.LoginRequests)
	}
	if cfg.IsDevelopment() {
		t.Error("production env must not be development")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		required bool
		secret   string
		wantErr  error
	}{
		{name: "auth off without secret", required: false, secret: "", wantErr: nil},
		{name: "auth on with secret", required: true, secret: "s3cret", wantErr: nil},
		{name: "auth on without secret", required: true, secret: "", wantErr: ErrMissingJWTSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Auth: AuthConfig{Required: tt.required}, JWT: JWTConfig{Secret: tt.secret}}
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadRequiredAuthWithoutSecretFailsValidation(t *testing.T) {
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("JWT_SECRET", "")

	if err := Load().Validate(); !errors.Is(err, ErrMissingJWTSecret) {
		t.Errorf("expected ErrMissingJWTSecret, got %v", err)
	}
}
