package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"gamezone/internal/config"
)

// TestLoad_Defaults verifies fallback values with a clean environment.
func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SESSION_SECRET", "ADMIN_PASS", "USER_PASSCODE", "PORT", "GAMEZONE_DATA_DIR", "GAMEZONE_RATE_LIMIT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := config.Load()
	if cfg.SessionSecret != config.DefaultSessionSecret {
		t.Errorf("SessionSecret = %q, want default", cfg.SessionSecret)
	}
	if cfg.AdminPass != config.DefaultAdminPass {
		t.Errorf("AdminPass = %q, want default", cfg.AdminPass)
	}
	if cfg.UserPasscode != config.DefaultUserPasscode {
		t.Errorf("UserPasscode = %q, want default", cfg.UserPasscode)
	}
	if cfg.Port != config.DefaultPort {
		t.Errorf("Port = %q, want %q", cfg.Port, config.DefaultPort)
	}
	if cfg.DataDir != config.DefaultDataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, config.DefaultDataDir)
	}
	if cfg.RateLimit != config.DefaultRateLimit {
		t.Errorf("RateLimit = %d, want %d", cfg.RateLimit, config.DefaultRateLimit)
	}
}

// TestLoad_EnvOverrides verifies the environment wins over defaults.
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADMIN_PASS", "hunter2")
	t.Setenv("PORT", "8081")
	t.Setenv("GAMEZONE_RATE_LIMIT", "50")

	cfg := config.Load()
	if cfg.AdminPass != "hunter2" {
		t.Errorf("AdminPass = %q, want %q", cfg.AdminPass, "hunter2")
	}
	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8081")
	}
	if cfg.RateLimit != 50 {
		t.Errorf("RateLimit = %d, want 50", cfg.RateLimit)
	}
}

// TestLoad_BadRateLimitIgnored keeps the default on unparseable input.
func TestLoad_BadRateLimitIgnored(t *testing.T) {
	t.Setenv("GAMEZONE_RATE_LIMIT", "not-a-number")
	if got := config.Load().RateLimit; got != config.DefaultRateLimit {
		t.Errorf("RateLimit = %d, want default %d", got, config.DefaultRateLimit)
	}
}

// TestLoadDotEnv_MissingFileIsNoError tolerates an absent .env.
func TestLoadDotEnv_MissingFileIsNoError(t *testing.T) {
	if err := config.LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("LoadDotEnv() = %v, want nil", err)
	}
}

// TestLoadDotEnv_DoesNotClobberEnv keeps real env over the file's value.
func TestLoadDotEnv_DoesNotClobberEnv(t *testing.T) {
	t.Setenv("ADMIN_PASS", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ADMIN_PASS=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := config.LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() = %v", err)
	}
	if got := os.Getenv("ADMIN_PASS"); got != "from-env" {
		t.Errorf("ADMIN_PASS = %q, want %q", got, "from-env")
	}
}
