package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Addr() != ":8080" {
		t.Errorf("unexpected addr %s", cfg.Server.Addr())
	}
	if cfg.Backend.Timeout != defaultBackendTimeout {
		t.Errorf("unexpected backend timeout: %s", cfg.Backend.Timeout)
	}
	if cfg.Backend.BaseURL != "" {
		t.Errorf("expected empty backend url, got %q", cfg.Backend.BaseURL)
	}
	if len(cfg.Backend.ForwardCookies) != 1 || cfg.Backend.ForwardCookies[0] != "JSESSIONID" {
		t.Errorf("unexpected forward cookies %v", cfg.Backend.ForwardCookies)
	}
	if cfg.Backend.LoginPath != "/user/login" {
		t.Errorf("unexpected login path %s", cfg.Backend.LoginPath)
	}
	if cfg.Compare.Store != "cookie" {
		t.Errorf("expected cookie compare store, got %s", cfg.Compare.Store)
	}
	if cfg.Locale.Fallback != "vi" {
		t.Errorf("expected vi fallback, got %s", cfg.Locale.Fallback)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected info log level, got %s", cfg.Log.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	env := map[string]string{
		"STOREFRONT_PORT":                    "9090",
		"STOREFRONT_BACKEND_URL":             "http://backend:8080/",
		"STOREFRONT_BACKEND_TIMEOUT":         "2s",
		"STOREFRONT_BACKEND_FORWARD_COOKIES": "JSESSIONID, remember-me",
		"STOREFRONT_COMPARE_STORE":           "redis",
		"STOREFRONT_REDIS_ADDR":              "localhost:6379",
		"STOREFRONT_ENV":                     "prod",
		"STOREFRONT_DEV":                     "yes",
	}
	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "http://backend:8080" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 2*time.Second {
		t.Errorf("unexpected timeout %s", cfg.Backend.Timeout)
	}
	if len(cfg.Backend.ForwardCookies) != 2 || cfg.Backend.ForwardCookies[1] != "remember-me" {
		t.Errorf("unexpected forward cookies %v", cfg.Backend.ForwardCookies)
	}
	if cfg.Compare.Store != "redis" || cfg.Compare.RedisAddr != "localhost:6379" {
		t.Errorf("unexpected compare config %+v", cfg.Compare)
	}
	if !cfg.Session.Secure {
		t.Errorf("expected secure cookies in prod")
	}
	if !cfg.DevMode {
		t.Errorf("expected dev mode")
	}
}

func TestLoadFallsBackToCloudRunPort(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{"PORT": "7070"}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected PORT fallback, got %s", cfg.Server.Port)
	}
}

func TestLoadValidationError(t *testing.T) {
	env := map[string]string{
		"STOREFRONT_COMPARE_STORE":   "redis",
		"STOREFRONT_LOCALE_FALLBACK": "fr",
	}
	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := vErr.Fields()
	if len(fields) != 2 || fields[0] != "Compare.RedisAddr" || fields[1] != "Locale.Fallback" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestLoadReadsDotEnvAndYAML(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("STOREFRONT_BACKEND_URL=http://from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	yamlPath := filepath.Join(dir, "storefront.yaml")
	yamlBody := "server:\n  port: \"8181\"\nbackend:\n  base_url: http://from-yaml\n  timeout: 3s\nlog:\n  level: debug\n"
	if err := os.WriteFile(yamlPath, []byte(yamlBody), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	cfg, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(envPath), WithConfigFile(yamlPath))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "8181" {
		t.Errorf("expected yaml port, got %s", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "http://from-dotenv" {
		t.Errorf("expected .env to override yaml, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 3*time.Second {
		t.Errorf("expected yaml timeout, got %s", cfg.Backend.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected yaml log level, got %s", cfg.Log.Level)
	}
}

func TestLoadFeaturedProducts(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{"STOREFRONT_FEATURED_PRODUCTS": "12, 7,,3"}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	got := cfg.Catalog.Featured
	if len(got) != 3 || got[0] != "12" || got[1] != "7" || got[2] != "3" {
		t.Fatalf("unexpected featured products %v", got)
	}
}

func TestLoadAnalyticsFromInjectedEnvOnly(t *testing.T) {
	t.Setenv("STOREFRONT_GA_MEASUREMENT_ID", "G-SYSTEM")
	cfg, err := Load(WithEnvMap(map[string]string{"STOREFRONT_GA_MEASUREMENT_ID": "G-TEST123"}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Analytics.GA4MeasurementID != "G-TEST123" {
		t.Fatalf("expected injected measurement id, got %q", cfg.Analytics.GA4MeasurementID)
	}

	cfg, err = Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Analytics.GA4MeasurementID != "" {
		t.Fatalf("system env leaked into config: %q", cfg.Analytics.GA4MeasurementID)
	}
}
