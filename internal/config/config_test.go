package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecomkassa/ferma-gateway/internal/atol"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Environment != EnvProduction {
		t.Errorf("environment = %q, want production", cfg.Environment)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.DefaultGroupCode != "700" {
		t.Errorf("group code = %q, want 700", cfg.DefaultGroupCode)
	}
	if cfg.BaseURL() != atol.ProductionBaseURL {
		t.Errorf("base url = %q, want production host", cfg.BaseURL())
	}
	if cfg.Credentials() != nil {
		t.Error("credentials should be nil without stored login/password")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	content := []byte(`environment: sandbox
port: "9090"
default_group_code: "812"
upstream_login: shop
upstream_password: secret
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Environment != EnvSandbox {
		t.Errorf("environment = %q, want sandbox", cfg.Environment)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Port)
	}
	if cfg.BaseURL() != atol.SandboxBaseURL {
		t.Errorf("base url = %q, want sandbox host", cfg.BaseURL())
	}

	cred := cfg.Credentials()
	if cred == nil {
		t.Fatal("credentials missing")
	}
	if cred.Login != "shop" || cred.Password != "secret" {
		t.Errorf("credentials = %+v", cred)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	if err := os.WriteFile(path, []byte("port: \"9090\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PORT", "7070")
	t.Setenv("GATEWAY_UPSTREAM_URL", "http://localhost:1234/v5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("port = %q, environment must override the file", cfg.Port)
	}
	if cfg.BaseURL() != "http://localhost:1234/v5" {
		t.Errorf("base url = %q, explicit override must win", cfg.BaseURL())
	}
}

func TestLoadRejectsUnknownEnvironment(t *testing.T) {
	t.Setenv("GATEWAY_ENV", "staging")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown environment")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/gateway.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
