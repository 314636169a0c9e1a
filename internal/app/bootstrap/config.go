// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for AllocHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: data_dir, session_name, etc.
//   - Environment variables: ALLOCHUB_DATA_DIR, ALLOCHUB_SESSION_NAME, etc.
//   - Command-line flags: --data_dir, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "data_dir", Default: "./data", Desc: "Directory holding the JSON collections"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "allochub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Admin account seeded on first run
	{Name: "admin_username", Default: "admin", Desc: "Admin username seeded on first run"},
	{Name: "admin_password", Default: "admin123", Desc: "Admin password seeded on first run (change immediately)"},

	// Base URL for presenting short links
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL used when presenting short links"},

	// Operation timeouts
	{Name: "read_timeout", Default: "5s", Desc: "Timeout for single-collection reads"},
	{Name: "save_timeout", Default: "10s", Desc: "Timeout for read-modify-write updates"},
	{Name: "batch_timeout", Default: "60s", Desc: "Timeout for exports and archive purges"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, ALLOCHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ALLOCHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		DataDir:       appValues.String("data_dir"),
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		AdminUsername: appValues.String("admin_username"),
		AdminPassword: appValues.String("admin_password"),

		BaseURL: appValues.String("base_url"),

		ReadTimeout:  appValues.Duration("read_timeout", 5*time.Second),
		SaveTimeout:  appValues.Duration("save_timeout", 10*time.Second),
		BatchTimeout: appValues.Duration("batch_timeout", 60*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if strings.TrimSpace(appCfg.DataDir) == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if _, err := url.ParseRequestURI(appCfg.BaseURL); err != nil {
		logger.Error("invalid base URL", zap.Error(err))
		return fmt.Errorf("invalid base_url: %w", err)
	}

	// Dev defaults are fine locally but never in production.
	if coreCfg.Env == "prod" {
		if appCfg.SessionKey == "dev-only-change-me-please-0123456789ABCDEF" {
			return fmt.Errorf("session_key must be changed from its dev default in production")
		}
		if appCfg.AdminPassword == "admin123" {
			return fmt.Errorf("admin_password must be changed from its dev default in production")
		}
	}

	return nil
}
