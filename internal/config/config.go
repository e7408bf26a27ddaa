// ABOUTME: Configuration loader for the admin console
// ABOUTME: Merges defaults, TOML config file, .env file, XPG_* environment and flag overrides

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/kimguny/xpg-admin/internal/validate"
)

// APIPrefix is appended to the configured origin to form the base endpoint.
const APIPrefix = "/api/v1"

const (
	defaultOrigin   = "http://localhost:8080"
	defaultTimeout  = 30 * time.Second
	defaultTokenTTL = 7 * 24 * time.Hour
	appDirName      = "xpg-admin"
)

// Config holds console settings after all sources are merged.
type Config struct {
	// Backend
	APIOrigin string        `validate:"required,url"`
	Timeout   time.Duration `validate:"gt=0"`
	RateLimit float64       `validate:"gte=0"` // requests per second, 0 disables
	AllProxy  string        `validate:"omitempty,startswith=ssh+socks5://|startswith=socks5://"`
	UserAgent string

	// Session
	Environment string        `validate:"oneof=development production test"`
	TokenTTL    time.Duration `validate:"gt=0"`
	ConfigDir   string        `validate:"required"`

	// Logging
	LogLevel  string `validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat string `validate:"omitempty,oneof=text json"`
}

// fileConfig mirrors the TOML layout of config.toml.
type fileConfig struct {
	API struct {
		Origin    string  `toml:"origin"`
		Timeout   string  `toml:"timeout"`
		RateLimit float64 `toml:"rate_limit"`
		AllProxy  string  `toml:"all_proxy"`
	} `toml:"api"`
	Session struct {
		Environment string `toml:"environment"`
		TokenTTL    string `toml:"token_ttl"`
	} `toml:"session"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
}

// Options control where Load looks for configuration and carry flag overrides.
// Empty fields are ignored.
type Options struct {
	File      string // config.toml path; default <ConfigDir>/config.toml when it exists
	EnvFile   string // .env path; default ./.env when it exists
	APIOrigin string
	Timeout   time.Duration
}

// Production reports whether the console runs against a production backend.
// The stored credential carries the Secure attribute only in production.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// BaseURL returns the backend endpoint root: origin + /api/v1.
func (c *Config) BaseURL() string {
	return BaseURL(c.APIOrigin)
}

// BaseURL joins an origin with the fixed API prefix.
func BaseURL(origin string) string {
	return strings.TrimRight(origin, "/") + APIPrefix
}

// Load builds the configuration. Precedence, lowest first: defaults, config
// file, .env, process environment, Options overrides.
func Load(opts Options) (*Config, error) {
	cfg := &Config{
		APIOrigin:   defaultOrigin,
		Timeout:     defaultTimeout,
		Environment: "development",
		TokenTTL:    defaultTokenTTL,
		ConfigDir:   DefaultConfigDir(),
		LogLevel:    "info",
		LogFormat:   "text",
		UserAgent:   "xpg-admin",
	}
	if dir := os.Getenv("XPG_CONFIG_DIR"); dir != "" {
		cfg.ConfigDir = dir
	}

	if err := cfg.loadFile(opts.File); err != nil {
		return nil, err
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables already present in the environment.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg.APIOrigin = getEnv("XPG_API_ORIGIN", cfg.APIOrigin)
	cfg.Timeout = getEnvDuration("XPG_TIMEOUT", cfg.Timeout)
	cfg.RateLimit = getEnvFloat("XPG_RATE_LIMIT", cfg.RateLimit)
	cfg.AllProxy = getEnv("XPG_ALL_PROXY", cfg.AllProxy)
	cfg.Environment = strings.ToLower(getEnv("XPG_ENV", cfg.Environment))
	cfg.TokenTTL = getEnvDuration("XPG_TOKEN_TTL", cfg.TokenTTL)
	cfg.LogLevel = getEnv("XPG_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(getEnv("XPG_LOG_FORMAT", cfg.LogFormat))

	if opts.APIOrigin != "" {
		cfg.APIOrigin = opts.APIOrigin
	}
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}
	cfg.APIOrigin = ensureScheme(cfg.APIOrigin)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(c.ConfigDir, "config.toml")
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if fc.API.Origin != "" {
		c.APIOrigin = fc.API.Origin
	}
	if fc.API.Timeout != "" {
		d, err := time.ParseDuration(fc.API.Timeout)
		if err != nil {
			return fmt.Errorf("config file %s: api.timeout: %w", path, err)
		}
		c.Timeout = d
	}
	if fc.API.RateLimit > 0 {
		c.RateLimit = fc.API.RateLimit
	}
	if fc.API.AllProxy != "" {
		c.AllProxy = fc.API.AllProxy
	}
	if fc.Session.Environment != "" {
		c.Environment = strings.ToLower(fc.Session.Environment)
	}
	if fc.Session.TokenTTL != "" {
		d, err := time.ParseDuration(fc.Session.TokenTTL)
		if err != nil {
			return fmt.Errorf("config file %s: session.token_ttl: %w", path, err)
		}
		c.TokenTTL = d
	}
	if fc.Log.Level != "" {
		c.LogLevel = fc.Log.Level
	}
	if fc.Log.Format != "" {
		c.LogFormat = strings.ToLower(fc.Log.Format)
	}
	return nil
}

// DefaultConfigDir returns the config directory following the XDG spec.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDirName)
	}
	return filepath.Join(home, ".config", appDirName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("45s") or plain seconds ("45").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// ensureScheme adds http:// for localhost and https:// otherwise when the origin has no scheme
func ensureScheme(origin string) string {
	if origin == "" || strings.Contains(origin, "://") {
		return origin
	}
	if strings.HasPrefix(origin, "localhost") || strings.HasPrefix(origin, "127.0.0.1") {
		return "http://" + origin
	}
	return "https://" + origin
}
