package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("GENERATION_WEEKLY_LIMIT", "")

	cfg := Load()
	if cfg.Env != "dev" || !cfg.IsDevLike() {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.LLMProvider != "openai" {
		t.Fatalf("expected openai provider, got %q", cfg.LLMProvider)
	}
	if cfg.AccessTokenTTL != 15*time.Minute || cfg.RefreshTokenTTL != 30*24*time.Hour {
		t.Fatalf("unexpected token ttls %s %s", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	}
	if cfg.WeeklyGenerations != 20 {
		t.Fatalf("expected weekly limit 20, got %d", cfg.WeeklyGenerations)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9090\nS3_BUCKET=from-file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("S3_BUCKET", "")
	os.Unsetenv("S3_BUCKET")

	cfg := Load()
	if cfg.Port != "7070" {
		t.Fatalf("environment should win over .env, got %q", cfg.Port)
	}
	if cfg.S3Bucket != "from-file" {
		t.Fatalf("expected bucket from .env, got %q", cfg.S3Bucket)
	}
}

func TestNormalizers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{name: "env prod", fn: normalizeEnv, in: "PROD", want: "production"},
		{name: "env unknown", fn: normalizeEnv, in: "qa", want: "dev"},
		{name: "store s3", fn: normalizeStoreType, in: " S3 ", want: "s3"},
		{name: "store default", fn: normalizeStoreType, in: "gcs", want: "local"},
		{name: "provider gemini", fn: normalizeProvider, in: "Google", want: "gemini"},
		{name: "provider none", fn: normalizeProvider, in: "disabled", want: "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetIntIgnoresInvalid(t *testing.T) {
	t.Setenv("EMBEDDING_DIMENSIONS", "abc")
	if got := getInt("EMBEDDING_DIMENSIONS", 1536); got != 1536 {
		t.Fatalf("expected default, got %d", got)
	}
}

func TestAutoMigrateDefaultsByEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTO_MIGRATE", "")

	t.Setenv("ENV", "production")
	if Load().AutoMigrate {
		t.Fatalf("production should not migrate on boot by default")
	}
	t.Setenv("ENV", "dev")
	if !Load().AutoMigrate {
		t.Fatalf("dev should migrate on boot by default")
	}
	t.Setenv("AUTO_MIGRATE", "false")
	if Load().AutoMigrate {
		t.Fatalf("explicit AUTO_MIGRATE=false should win")
	}
}
