// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the Hyjain server.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: HYJAIN_MONGO_URI, HYJAIN_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "hyjain", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "hyjain-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Role derivation rules
	{Name: "admin_email", Default: "admin@hyjain.com", Desc: "Exact email that is granted the admin role"},
	{Name: "staff_domain", Default: "staff.hyjain.com", Desc: "Email domain that is granted the staff role"},
	{Name: "delivery_domain", Default: "delivery.hyjain.com", Desc: "Email domain that is granted the delivery role"},

	// Live data tuning
	{Name: "live_settle_delay", Default: "400ms", Desc: "Quiet window before a reconciled live feed reports loaded (e.g., 400ms)"},
	{Name: "live_poll_interval", Default: "2s", Desc: "Collection refetch cadence when change streams are unavailable (e.g., 2s)"},

	// File storage configuration
	{Name: "storage_local_path", Default: "./uploads/images", Desc: "Local storage path for uploaded images"},
	{Name: "storage_local_url", Default: "/files/images", Desc: "URL prefix for serving uploaded images"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Base URL for OAuth callbacks
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for OAuth callbacks"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, HYJAIN_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HYJAIN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		// Role derivation
		AdminEmail:     appValues.String("admin_email"),
		StaffDomain:    appValues.String("staff_domain"),
		DeliveryDomain: appValues.String("delivery_domain"),

		// Live data
		LiveSettleDelay:  appValues.Duration("live_settle_delay", 400*time.Millisecond),
		LivePollInterval: appValues.Duration("live_poll_interval", 2*time.Second),

		// File storage
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		// Google OAuth
		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		// Base URL
		BaseURL: appValues.String("base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
//
// The MongoDB URI format is checked early so configuration errors
// surface before any connection attempt. The role rules are checked so
// a misconfigured admin_email cannot silently demote everyone.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.AdminEmail == "" || !strings.Contains(appCfg.AdminEmail, "@") {
		return fmt.Errorf("admin_email must be a valid email address, got %q", appCfg.AdminEmail)
	}
	if appCfg.StaffDomain == "" {
		return fmt.Errorf("staff_domain must be set")
	}
	if appCfg.DeliveryDomain == "" {
		return fmt.Errorf("delivery_domain must be set")
	}
	if appCfg.StaffDomain == appCfg.DeliveryDomain {
		return fmt.Errorf("staff_domain and delivery_domain must differ, both are %q", appCfg.StaffDomain)
	}

	if appCfg.LiveSettleDelay <= 0 {
		return fmt.Errorf("live_settle_delay must be positive, got %s", appCfg.LiveSettleDelay)
	}
	if appCfg.LivePollInterval <= 0 {
		return fmt.Errorf("live_poll_interval must be positive, got %s", appCfg.LivePollInterval)
	}

	return nil
}
