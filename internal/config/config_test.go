package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9090"
database:
  host: "db.internal"
jwt:
  secret: "file-secret"
face_service:
  url: "http://faces:8000"
  timeout: "5s"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: unexpected error %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port: got %q, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("db host: got %q", cfg.Database.Host)
	}
	if cfg.FaceService.URL != "http://faces:8000" {
		t.Errorf("face url: got %q", cfg.FaceService.URL)
	}
	// Defaults survive for keys the file omits.
	if cfg.Database.Port != "5432" {
		t.Errorf("db port default: got %q", cfg.Database.Port)
	}
	if cfg.RateLimit.PerMinute != 100 {
		t.Errorf("rate limit default: got %d", cfg.RateLimit.PerMinute)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
jwt:
  secret: "file-secret"
database:
  host: "from-file"
`)
	t.Setenv("DB_HOST", "from-env")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("RATE_LIMIT_PER_MIN", "7")
	t.Setenv("FACE_SERVICE_SKIP", "true")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: unexpected error %v", err)
	}
	if cfg.Database.Host != "from-env" {
		t.Errorf("db host: got %q, want from-env", cfg.Database.Host)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("jwt secret: got %q, want env-secret", cfg.JWT.Secret)
	}
	if cfg.RateLimit.PerMinute != 7 {
		t.Errorf("rate limit: got %d, want 7", cfg.RateLimit.PerMinute)
	}
	if !cfg.FaceService.Skip {
		t.Error("face skip: got false, want true")
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "8080"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig: expected error for missing JWT secret")
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	path := writeConfigFile(t, `
jwt:
  secret: "s"
  token_expiration: "not-a-duration"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig: expected error for invalid duration")
	}
}

func TestPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Database.User = "app"
	cfg.Database.Password = "pw"
	cfg.Database.Host = "db"
	cfg.Database.Port = "5433"
	cfg.Database.DBName = "attend"

	want := "postgres://app:pw@db:5433/attend?sslmode=disable"
	if got := cfg.GetPostgresConnectionString(); got != want {
		t.Errorf("connection string: got %q, want %q", got, want)
	}
}
