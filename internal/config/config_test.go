package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8001" {
		t.Errorf("Expected default port 8001, got %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Expected postgres driver, got %s", cfg.Database.Driver)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("Expected 7 day token ttl, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Upload.MaxUploadSize != 5*1024*1024 {
		t.Errorf("Expected 5MB upload limit, got %d", cfg.Upload.MaxUploadSize)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("MONGO_URL", "mongodb://localhost:27017")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("FRONTEND_URL", "https://petslib.example/")
	t.Setenv("TOKEN_TTL", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Unexpected CORS origins: %v", cfg.Server.CORSOrigins)
	}
	if cfg.Site.FrontendURL != "https://petslib.example" {
		t.Errorf("Expected trailing slash trimmed, got %s", cfg.Site.FrontendURL)
	}
	if cfg.Auth.TokenTTL != 90*time.Minute {
		t.Errorf("Expected 90m ttl, got %s", cfg.Auth.TokenTTL)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: DriverPostgres, Host: "localhost", Name: "petslib"},
			Auth:     AuthConfig{JWTSecret: "secret"},
			Upload:   UploadConfig{MaxUploadSize: 1024},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid postgres", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: "JWT_SECRET"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "sqlite" }, wantErr: "DB_DRIVER"},
		{name: "mongo without url", mutate: func(c *Config) { c.Database.Driver = DriverMongo }, wantErr: "MONGO_URL"},
		{name: "postgres without host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: "DB_HOST"},
		{name: "zero upload size", mutate: func(c *Config) { c.Upload.MaxUploadSize = 0 }, wantErr: "MAX_UPLOAD_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
