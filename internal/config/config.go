// Package config provides configuration for the gateway. Values come from an
// optional YAML settings file overlaid by environment variables; a .env file
// is loaded automatically when present.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ecomkassa/ferma-gateway/internal/atol"
	"github.com/ecomkassa/ferma-gateway/internal/model"
)

// Environments select the upstream host.
const (
	EnvProduction = "production"
	EnvSandbox    = "sandbox"
)

// Config is the immutable gateway configuration. It is built once at startup
// and passed into constructors; nothing mutates it afterwards.
type Config struct {
	Environment      string `yaml:"environment"`
	Port             string `yaml:"port"`
	UpstreamBaseURL  string `yaml:"upstream_base_url"`
	DefaultGroupCode string `yaml:"default_group_code"`
	AuditDBPath      string `yaml:"audit_db_path"`
	SessionDBPath    string `yaml:"session_db_path"`
	StaticDir        string `yaml:"static_dir"`

	AdminLogin    string `yaml:"admin_login"`
	AdminPassword string `yaml:"admin_password"`

	// Stored upstream credentials enable the automatic one-shot token
	// refresh. Without them an expired token is surfaced to the caller.
	UpstreamLogin    string `yaml:"upstream_login"`
	UpstreamPassword string `yaml:"upstream_password"`
}

// Load builds the configuration. An optional YAML settings file path may be
// given; environment variables override file values.
func Load(yamlPath ...string) (*Config, error) {
	// Try to load .env from the current directory, ignore if absent.
	_ = godotenv.Load()

	cfg := &Config{
		Environment:      EnvProduction,
		Port:             "8080",
		DefaultGroupCode: "700",
		AuditDBPath:      "./data/gateway.db",
		SessionDBPath:    "./data/sessions.db",
		StaticDir:        "./dist",
		AdminLogin:       "admin",
	}

	path := ""
	if len(yamlPath) > 0 && yamlPath[0] != "" {
		path = yamlPath[0]
	} else if p := os.Getenv("GATEWAY_CONFIG"); p != "" {
		path = p
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	overlayEnv(cfg)

	if cfg.Environment != EnvProduction && cfg.Environment != EnvSandbox {
		return nil, fmt.Errorf("unknown environment %q", cfg.Environment)
	}

	return cfg, nil
}

func overlayEnv(cfg *Config) {
	setIfPresent(&cfg.Environment, "GATEWAY_ENV")
	setIfPresent(&cfg.Port, "PORT")
	setIfPresent(&cfg.UpstreamBaseURL, "GATEWAY_UPSTREAM_URL")
	setIfPresent(&cfg.DefaultGroupCode, "GATEWAY_GROUP_CODE")
	setIfPresent(&cfg.AuditDBPath, "GATEWAY_DB_PATH")
	setIfPresent(&cfg.SessionDBPath, "GATEWAY_SESSION_DB_PATH")
	setIfPresent(&cfg.StaticDir, "GATEWAY_STATIC_DIR")
	setIfPresent(&cfg.AdminLogin, "ADMIN_LOGIN")
	setIfPresent(&cfg.AdminPassword, "ADMIN_PASSWORD")
	setIfPresent(&cfg.UpstreamLogin, "EKOMKASSA_LOGIN")
	setIfPresent(&cfg.UpstreamPassword, "EKOMKASSA_PASSWORD")
}

func setIfPresent(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// BaseURL resolves the upstream base: an explicit override wins, otherwise
// the environment picks the known host.
func (c *Config) BaseURL() string {
	if c.UpstreamBaseURL != "" {
		return c.UpstreamBaseURL
	}
	if c.Environment == EnvSandbox {
		return atol.SandboxBaseURL
	}
	return atol.ProductionBaseURL
}

// Credentials returns the stored upstream credentials, or nil when token
// refresh is not configured.
func (c *Config) Credentials() *model.AuthCredential {
	if c.UpstreamLogin == "" || c.UpstreamPassword == "" {
		return nil
	}
	return &model.AuthCredential{Login: c.UpstreamLogin, Password: c.UpstreamPassword}
}
