package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func unsetAfter(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		prev, had := os.LookupEnv(k)
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, prev)
				return
			}
			_ = os.Unsetenv(k)
		})
	}
}

func TestLoadEnvPrecedence(t *testing.T) {
	unsetAfter(t, "LH_TEST_FROM_YAML", "LH_TEST_SHARED", "LH_TEST_LIST", "LH_TEST_ENV_ONLY")
	t.Setenv("LH_TEST_PROCESS", "process")

	envFile := writeFile(t, "test.env", "LH_TEST_SHARED=dotenv\nLH_TEST_ENV_ONLY=dotenv\nLH_TEST_PROCESS=dotenv\n")
	cfgFile := writeFile(t, "config.yaml", `
lh_test_from_yaml: yaml
LH_TEST_SHARED: yaml
LH_TEST_PROCESS: yaml
LH_TEST_LIST:
  - http://a.test
  - http://b.test
`)

	if err := LoadEnv(Sources{EnvFile: envFile, ConfigFile: cfgFile}); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}

	want := map[string]string{
		"LH_TEST_FROM_YAML": "yaml",
		"LH_TEST_SHARED":    "dotenv",
		"LH_TEST_ENV_ONLY":  "dotenv",
		"LH_TEST_PROCESS":   "process",
		"LH_TEST_LIST":      "http://a.test,http://b.test",
	}
	for k, v := range want {
		if got := os.Getenv(k); got != v {
			t.Fatalf("%s: got=%q want=%q", k, got, v)
		}
	}
}

func TestLoadEnvErrors(t *testing.T) {
	if err := LoadEnv(Sources{EnvFile: filepath.Join(t.TempDir(), "missing.env")}); err == nil {
		t.Fatalf("expected error for an explicit missing env file")
	}
	nested := writeFile(t, "nested.yaml", "DB:\n  driver: sqlite\n")
	t.Setenv("CONFIG_FILE", nested)
	if err := LoadEnv(Sources{EnvFile: writeFile(t, "empty.env", "")}); err == nil {
		t.Fatalf("expected error for a nested mapping")
	}
}

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	for _, k := range []string{"PORT", "ACCESS_TOKEN_TTL", "RECOMMEND_FIRST_CATEGORY_ONLY", "RECOMMEND_EXCLUDE_SOURCE", "CORS_ALLOW_ORIGINS", "DB_DRIVER", "JWT_SECRET_KEY"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(logger.Nop())
	if cfg.Address() != ":8080" || cfg.AccessTokenTTL != 24*time.Hour || cfg.RecommendFirstCategoryOnly || cfg.RecommendExcludeSource {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.JWTSecretKey != defaultJWTSecret || cfg.DB.Driver != "postgres" || cfg.CORSOrigins != nil {
		t.Fatalf("defaults: secret=%q driver=%q cors=%v", cfg.JWTSecretKey, cfg.DB.Driver, cfg.CORSOrigins)
	}

	t.Setenv("PORT", "9090")
	t.Setenv("ACCESS_TOKEN_TTL", "60")
	t.Setenv("RECOMMEND_FIRST_CATEGORY_ONLY", "true")
	t.Setenv("RECOMMEND_EXCLUDE_SOURCE", "yes")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://learnhub.test, https://admin.learnhub.test")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	cfg = LoadConfig(logger.Nop())
	if cfg.Address() != ":9090" || cfg.AccessTokenTTL != time.Minute || !cfg.RecommendFirstCategoryOnly || !cfg.RecommendExcludeSource {
		t.Fatalf("overrides: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.DB.Driver != "sqlite" || cfg.JWTSecretKey != "s3cret" {
		t.Fatalf("overrides: cors=%v driver=%q", cfg.CORSOrigins, cfg.DB.Driver)
	}
}
