package config_test

import (
	"os"
	"strings"
	"testing"

	"github.com/km-arc/go-inject/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

var appKeys = []string{"APP_NAME", "APP_ENV", "APP_DEBUG", "APP_PORT", "LOG_LEVEL", "LOG_FORMAT"}

// clearEnv blanks every key Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range appKeys {
		t.Setenv(key, "")
	}
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := config.Load("testdata/empty.env")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"App.Name", cfg.App.Name, "GoInject"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Port", cfg.App.Port, "8000"},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}

	if !cfg.App.Debug {
		t.Error("expected App.Debug to default to true outside production")
	}
}

func TestLoad_ProductionDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	cfg := config.Load("testdata/empty.env")

	if cfg.App.Debug {
		t.Error("expected App.Debug to default to false in production")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format: got %q want %q", cfg.Log.Format, "json")
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_NAME", "MyApp")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")

	cfg := config.Load("testdata/empty.env")

	if cfg.App.Name != "MyApp" {
		t.Errorf("App.Name: got %q want %q", cfg.App.Name, "MyApp")
	}
	if cfg.App.Port != "9000" {
		t.Errorf("App.Port: got %q want %q", cfg.App.Port, "9000")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level: got %q want %q", cfg.Log.Level, "warn")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format: got %q want %q", cfg.Log.Format, "json")
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	for _, key := range []string{"APP_NAME", "LOG_LEVEL"} {
		if _, set := os.LookupEnv(key); set {
			t.Skipf("%s already set in the environment", key)
		}
		t.Cleanup(func() { os.Unsetenv(key) })
	}

	cfg := config.Load("testdata/app.env")

	if cfg.App.Name != "FromFile" {
		t.Errorf("App.Name: got %q want %q", cfg.App.Name, "FromFile")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level: got %q want %q", cfg.Log.Level, "debug")
	}
}

func TestLoad_MissingFileIsNotFatal(t *testing.T) {
	clearEnv(t)
	cfg := config.Load("testdata/does-not-exist.env")
	if cfg.App.Name != "GoInject" {
		t.Errorf("App.Name: got %q want %q", cfg.App.Name, "GoInject")
	}
}

func TestLoad_AppDebugTrue(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_DEBUG", "true")
	cfg := config.Load("testdata/empty.env")
	if !cfg.App.Debug {
		t.Error("expected App.Debug to be true")
	}
}

func TestLoad_AppDebugFalse(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_DEBUG", "false")
	cfg := config.Load("testdata/empty.env")
	if cfg.App.Debug {
		t.Error("expected App.Debug to be false")
	}
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet_ReturnsValue(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "hello")
	if got := config.Get("CUSTOM_KEY", "default"); got != "hello" {
		t.Errorf("got %q want %q", got, "hello")
	}
}

func TestGet_ReturnsFallback(t *testing.T) {
	t.Setenv("MISSING_KEY", "")
	if got := config.Get("MISSING_KEY", "fallback"); got != "fallback" {
		t.Errorf("got %q want %q", got, "fallback")
	}
}

func TestGetInt_ReturnsInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	if got := config.GetInt("SOME_INT", 0); got != 42 {
		t.Errorf("got %d want %d", got, 42)
	}
}

func TestGetInt_ReturnsFallbackOnInvalid(t *testing.T) {
	t.Setenv("SOME_INT", "notanint")
	if got := config.GetInt("SOME_INT", 99); got != 99 {
		t.Errorf("got %d want %d", got, 99)
	}
}

func TestGetBool_True(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		t.Setenv("BOOL_KEY", val)
		if !config.GetBool("BOOL_KEY", false) {
			t.Errorf("expected true for %q", val)
		}
	}
}

func TestGetBool_False(t *testing.T) {
	t.Setenv("BOOL_KEY", "false")
	if config.GetBool("BOOL_KEY", true) {
		t.Error("expected false")
	}
}

func TestGetBool_ReturnsFallbackOnInvalid(t *testing.T) {
	t.Setenv("BOOL_KEY", "notabool")
	if !config.GetBool("BOOL_KEY", true) {
		t.Error("expected fallback true")
	}
}

// ── Validate ─────────────────────────────────────────────────────────────────

func TestValidate_Defaults(t *testing.T) {
	clearEnv(t)
	if _, err := config.LoadValid("testdata/empty.env"); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		key, val string
	}{
		{"APP_PORT", "http"},
		{"APP_PORT", "70000"},
		{"APP_ENV", "prod env"},
		{"LOG_LEVEL", "loud"},
		{"LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.val, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := config.LoadValid("testdata/empty.env")
			if err == nil {
				t.Fatalf("expected %s=%q to be rejected", tt.key, tt.val)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q should mention %s", err, tt.key)
			}
		})
	}
}
