package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MrEthical07/muhasabah"
)

// FileEnv names the optional YAML file layered under the environment.
const FileEnv = "MUHASABAH_CONFIG"

// Config is the process configuration of the muhasabah server.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseDriver string
	DatabaseURL    string

	LogLevel  string
	LogFormat string

	ThrottleBackend string
	RedisURL        string

	OTLPEndpoint string

	Auth muhasabah.Config
}

// Production reports whether the server runs with production hardening.
func (c *Config) Production() bool { return c.Env == "production" }

// file mirrors Config for the YAML layer. Durations use time.ParseDuration syntax.
type file struct {
	Env      string `yaml:"env"`
	HTTPAddr string `yaml:"http_addr"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Throttle struct {
		Backend     string `yaml:"backend"`
		RedisURL    string `yaml:"redis_url"`
		MaxAttempts int    `yaml:"max_attempts"`
		Cooldown    string `yaml:"cooldown"`
		PerIP       *bool  `yaml:"per_ip"`
	} `yaml:"throttle"`
	JWT struct {
		Secret     string `yaml:"secret"`
		AccessTTL  string `yaml:"access_ttl"`
		RefreshTTL string `yaml:"refresh_ttl"`
		Issuer     string `yaml:"issuer"`
		Audience   string `yaml:"audience"`
	} `yaml:"jwt"`
	Cookie struct {
		Domain string `yaml:"domain"`
		Secure *bool  `yaml:"secure"`
	} `yaml:"cookie"`
	Audit   *bool `yaml:"audit"`
	Metrics *bool `yaml:"metrics"`
}

// Load builds the configuration from defaults, then the YAML file named by
// MUHASABAH_CONFIG (if set), then environment variables, and validates it.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv(FileEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := cfg.applyYAML(raw); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Production() {
		cfg.Auth.Security.ProductionMode = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	auth := muhasabah.DefaultConfig()
	auth.Audit.Enabled = true
	auth.Metrics.Enabled = true
	auth.Metrics.EnableLatencyHistograms = true

	return &Config{
		Env:             "development",
		HTTPAddr:        ":8000",
		DatabaseDriver:  "sqlite",
		DatabaseURL:     "muhasabah.db",
		LogLevel:        "info",
		LogFormat:       "text",
		ThrottleBackend: "memory",
		Auth:            auth,
	}
}

func (c *Config) applyYAML(raw []byte) error {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&c.Env, f.Env)
	setString(&c.HTTPAddr, f.HTTPAddr)
	setString(&c.DatabaseDriver, f.Database.Driver)
	setString(&c.DatabaseURL, f.Database.URL)
	setString(&c.LogLevel, f.Log.Level)
	setString(&c.LogFormat, f.Log.Format)
	setString(&c.ThrottleBackend, f.Throttle.Backend)
	setString(&c.RedisURL, f.Throttle.RedisURL)
	setString(&c.Auth.JWT.Issuer, f.JWT.Issuer)
	setString(&c.Auth.JWT.Audience, f.JWT.Audience)
	setString(&c.Auth.Cookie.Domain, f.Cookie.Domain)

	if f.JWT.Secret != "" {
		c.Auth.JWT.PrivateKey = []byte(f.JWT.Secret)
	}
	if f.Throttle.MaxAttempts > 0 {
		c.Auth.Security.MaxLoginAttempts = f.Throttle.MaxAttempts
	}
	if f.Throttle.PerIP != nil {
		c.Auth.Security.EnableIPThrottle = *f.Throttle.PerIP
	}
	if f.Cookie.Secure != nil {
		c.Auth.Cookie.Secure = *f.Cookie.Secure
	}
	if f.Audit != nil {
		c.Auth.Audit.Enabled = *f.Audit
	}
	if f.Metrics != nil {
		c.Auth.Metrics.Enabled = *f.Metrics
	}

	for _, d := range []struct {
		raw string
		dst *time.Duration
		key string
	}{
		{f.JWT.AccessTTL, &c.Auth.JWT.AccessTTL, "jwt.access_ttl"},
		{f.JWT.RefreshTTL, &c.Auth.JWT.RefreshTTL, "jwt.refresh_ttl"},
		{f.Throttle.Cooldown, &c.Auth.Security.LoginCooldownDuration, "throttle.cooldown"},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("config file %s: %w", d.key, err)
		}
		*d.dst = v
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Env, os.Getenv("MUHASABAH_ENV"))
	setString(&c.HTTPAddr, os.Getenv("HTTP_ADDR"))
	if port := os.Getenv("PORT"); port != "" && os.Getenv("HTTP_ADDR") == "" {
		c.HTTPAddr = ":" + port
	}
	setString(&c.DatabaseDriver, os.Getenv("DATABASE_DRIVER"))
	setString(&c.DatabaseURL, os.Getenv("DATABASE_URL"))
	setString(&c.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&c.LogFormat, os.Getenv("LOG_FORMAT"))
	setString(&c.ThrottleBackend, os.Getenv("THROTTLE_BACKEND"))
	setString(&c.RedisURL, os.Getenv("REDIS_URL"))
	setString(&c.OTLPEndpoint, os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	setString(&c.Auth.JWT.Issuer, os.Getenv("JWT_ISSUER"))
	setString(&c.Auth.JWT.Audience, os.Getenv("JWT_AUDIENCE"))
	setString(&c.Auth.Cookie.Domain, os.Getenv("COOKIE_DOMAIN"))

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		key, err := decodeSecret(secret)
		if err != nil {
			return err
		}
		c.Auth.JWT.PrivateKey = key
	}

	var err error
	if c.Auth.JWT.AccessTTL, err = envDuration("JWT_ACCESS_TTL", c.Auth.JWT.AccessTTL); err != nil {
		return err
	}
	if c.Auth.JWT.RefreshTTL, err = envDuration("JWT_REFRESH_TTL", c.Auth.JWT.RefreshTTL); err != nil {
		return err
	}
	if c.Auth.Security.LoginCooldownDuration, err = envDuration("LOGIN_COOLDOWN", c.Auth.Security.LoginCooldownDuration); err != nil {
		return err
	}
	if c.Auth.Security.MaxLoginAttempts, err = envInt("MAX_LOGIN_ATTEMPTS", c.Auth.Security.MaxLoginAttempts); err != nil {
		return err
	}
	if c.Auth.Security.EnableIPThrottle, err = envBool("THROTTLE_PER_IP", c.Auth.Security.EnableIPThrottle); err != nil {
		return err
	}
	if c.Auth.Audit.Enabled, err = envBool("AUDIT_ENABLED", c.Auth.Audit.Enabled); err != nil {
		return err
	}
	if c.Auth.Metrics.Enabled, err = envBool("METRICS_ENABLED", c.Auth.Metrics.Enabled); err != nil {
		return err
	}

	// refresh cookies are Secure in production unless explicitly overridden
	secure := c.Auth.Cookie.Secure || c.Production()
	if c.Auth.Cookie.Secure, err = envBool("COOKIE_SECURE", secure); err != nil {
		return err
	}
	return nil
}

// Validate checks process settings, then the engine configuration.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	switch c.ThrottleBackend {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return errors.New("THROTTLE_BACKEND=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("THROTTLE_BACKEND must be memory or redis, got %q", c.ThrottleBackend)
	}
	if len(c.Auth.JWT.PrivateKey) == 0 {
		return errors.New("JWT_SECRET is required")
	}
	return c.Auth.Validate()
}

// decodeSecret accepts "base64:<data>" or a raw string.
func decodeSecret(v string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(v, "base64:"); ok {
		key, err := base64.StdEncoding.DecodeString(rest)
		if err != nil {
			return nil, fmt.Errorf("JWT_SECRET: %w", err)
		}
		return key, nil
	}
	return []byte(v), nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
