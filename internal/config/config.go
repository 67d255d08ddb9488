package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all HomeHub server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Email    EmailConfig    `yaml:"email"`
	Session  SessionConfig  `yaml:"session"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// BaseURL is the public URL used in invitation links.
	BaseURL string `yaml:"base_url"`
	// AllowedOrigins are extra host patterns accepted for websocket upgrades.
	AllowedOrigins []string `yaml:"allowed_origins"`
	// TrustProxy honours CF-Connecting-IP and X-Forwarded-For when rate
	// limiting. Leave off unless a proxy overwrites those headers.
	TrustProxy bool `yaml:"trust_proxy"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// EmailConfig configures Postmark. Invitations are stored without email
// when the token is empty.
type EmailConfig struct {
	PostmarkToken string `yaml:"postmark_token"`
	From          string `yaml:"from"`
}

type SessionConfig struct {
	TTL             string `yaml:"ttl"`
	CleanupInterval string `yaml:"cleanup_interval"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    ":8080",
			BaseURL: "http://localhost:8080",
		},
		Database: DatabaseConfig{Path: "homehub.db"},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Session: SessionConfig{
			TTL:             "720h",
			CleanupInterval: "1h",
		},
	}
}

// Load reads .env into the environment, then builds the configuration from
// defaults, the YAML file named by HOMEHUB_CONFIG, and HOMEHUB_* variables,
// in that order.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return LoadFile(os.Getenv("HOMEHUB_CONFIG"))
}

// LoadFile is Load without the .env step. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if port := strings.TrimSpace(os.Getenv("HOMEHUB_PORT")); port != "" {
		c.Server.Addr = ":" + port
	}
	set(&c.Server.Addr, "HOMEHUB_ADDR")
	set(&c.Server.BaseURL, "HOMEHUB_BASE_URL")
	if origins := os.Getenv("HOMEHUB_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	if v := strings.TrimSpace(os.Getenv("HOMEHUB_TRUST_PROXY")); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HOMEHUB_TRUST_PROXY: %w", err)
		}
		c.Server.TrustProxy = trust
	}

	set(&c.Database.Path, "HOMEHUB_DB_PATH")
	set(&c.Logging.Level, "HOMEHUB_LOG_LEVEL")
	set(&c.Logging.Format, "HOMEHUB_LOG_FORMAT")
	set(&c.Email.PostmarkToken, "HOMEHUB_POSTMARK_TOKEN")
	set(&c.Email.From, "HOMEHUB_EMAIL_FROM")
	set(&c.Session.TTL, "HOMEHUB_SESSION_TTL")
	set(&c.Session.CleanupInterval, "HOMEHUB_SESSION_CLEANUP_INTERVAL")
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.base_url %q must be an absolute http(s) URL", c.Server.BaseURL)
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}

	if c.Email.PostmarkToken != "" && c.Email.From == "" {
		return errors.New("email.from is required when a Postmark token is set")
	}

	if _, err := positiveDuration("session.ttl", c.Session.TTL); err != nil {
		return err
	}
	if _, err := positiveDuration("session.cleanup_interval", c.Session.CleanupInterval); err != nil {
		return err
	}
	return nil
}

func positiveDuration(field, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", field)
	}
	return d, nil
}

// SessionTTL returns the session lifetime. Only valid after Validate.
func (c *Config) SessionTTL() time.Duration {
	d, _ := time.ParseDuration(c.Session.TTL)
	return d
}

func (c *Config) CleanupInterval() time.Duration {
	d, _ := time.ParseDuration(c.Session.CleanupInterval)
	return d
}
