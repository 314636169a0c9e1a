// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request body size limits. AppConfig is
// where everything specific to this application lives: the data
// directory, session settings, the seeded admin account, and operation
// timeouts.
type AppConfig struct {
	// Flat-file storage configuration
	DataDir string // directory holding the JSON collections (e.g., "./data")

	// Session management configuration
	SessionKey    string // secret key for signing session cookies (must be strong in production)
	SessionName   string // cookie name for admin sessions
	SessionDomain string // cookie domain (blank means current host)

	// Admin account seeded on first run
	AdminUsername string
	AdminPassword string

	// Base URL used when presenting short links (e.g., "https://projects.example.edu")
	BaseURL string

	// Operation timeouts; zero values keep the built-in defaults
	ReadTimeout  time.Duration // single-collection reads
	SaveTimeout  time.Duration // read-modify-write updates
	BatchTimeout time.Duration // exports and archive purges
}
