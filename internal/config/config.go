package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults mirror the values the service falls back to when the
// environment leaves them unset.
const (
	DefaultSessionSecret = "darkx_secret_change_me"
	DefaultAdminPass     = "DARKX2025"
	DefaultUserPasscode  = "DARKX2025USER"
	DefaultPort          = "3000"
	DefaultDataDir       = "data"
	DefaultRateLimit     = 10
)

// Config carries all process-level settings.
type Config struct {
	SessionSecret string // cookie/CSRF signing key material
	AdminPass     string // admin panel password
	UserPasscode  string // public unlock passcode
	Port          string // listen port
	DataDir       string // directory holding the sqlite file, created on first run
	RateLimit     int    // requests per second per IP
}

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// Load reads configuration from the environment, falling back to defaults.
// PRE: LoadDotEnv has been called if a .env file should apply
// POST: every field is non-empty
func Load() Config {
	cfg := Config{
		SessionSecret: envOrDefault("SESSION_SECRET", DefaultSessionSecret),
		AdminPass:     envOrDefault("ADMIN_PASS", DefaultAdminPass),
		UserPasscode:  envOrDefault("USER_PASSCODE", DefaultUserPasscode),
		Port:          envOrDefault("PORT", DefaultPort),
		DataDir:       envOrDefault("GAMEZONE_DATA_DIR", DefaultDataDir),
		RateLimit:     DefaultRateLimit,
	}
	if raw := os.Getenv("GAMEZONE_RATE_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.RateLimit = n
		}
	}
	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
