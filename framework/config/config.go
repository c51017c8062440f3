package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/km-arc/go-inject/framework/validation"
)

// Config is the central typed configuration struct.
type Config struct {
	App AppConfig
	Log LogConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	Port  string
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // console | json
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	appEnv := env("APP_ENV", "local")
	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "GoInject"),
			Env:   appEnv,
			Debug: envBool("APP_DEBUG", appEnv != "production"),
			Port:  env("APP_PORT", "8000"),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", defaultFormat(appEnv)),
		},
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	return validation.Make(map[string]string{
		"APP_ENV":    c.App.Env,
		"APP_PORT":   c.App.Port,
		"LOG_LEVEL":  c.Log.Level,
		"LOG_FORMAT": c.Log.Format,
	}, validation.Rules{
		"APP_ENV":    "required|alpha_dash",
		"APP_PORT":   "required|integer|gte:1|lte:65535",
		"LOG_LEVEL":  "required|in:debug,info,warn,error",
		"LOG_FORMAT": "required|in:console,json",
	}).Err()
}

// LoadValid is Load followed by Validate.
func LoadValid(envFiles ...string) (*Config, error) {
	cfg := Load(envFiles...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultFormat(appEnv string) string {
	if appEnv == "production" {
		return "json"
	}
	return "console"
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
