// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration. Framework-level settings
// like HTTP ports, TLS, logging level and request limits live in
// WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: hyjain-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Role derivation rules. Admin is an exact email match; staff and
	// delivery are email-domain suffixes. Roles are derived from the
	// verified session email on every request and are never stored on
	// user records.
	AdminEmail     string
	StaffDomain    string
	DeliveryDomain string

	// Live data tuning
	LiveSettleDelay  time.Duration // quiet window before a reconciled feed reports "loaded"
	LivePollInterval time.Duration // collection refetch cadence when change streams are unavailable

	// File storage for uploaded images (products, categories, slides)
	StorageLocalPath string // Local storage path (e.g., "./uploads/images")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files/images")

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth callbacks
	BaseURL string // e.g., "https://shop.hyjain.com" or "http://localhost:3000"
}
