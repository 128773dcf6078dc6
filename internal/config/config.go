// Package config provides application configuration management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	CipherTrust CipherTrustConfig
	Ksctl       KsctlConfig
	Server      ServerConfig
	RateLimit   RateLimitConfig
	Audit       AuditConfig
	Log         LogConfig
}

// CipherTrustConfig holds the appliance connection settings passed through
// to every ksctl invocation.
type CipherTrustConfig struct {
	URL         string
	User        string
	Password    string
	Domain      string
	AuthDomain  string
	NoSSLVerify bool
}

// KsctlConfig holds settings for the ksctl binary itself.
type KsctlConfig struct {
	Path       string
	ConfigFile string
	Timeout    time.Duration
}

// ServerConfig holds settings for the optional admin HTTP listener.
type ServerConfig struct {
	MetricsAddr     string
	ShutdownTimeout time.Duration
}

// RateLimitConfig holds tool-call rate limiting settings.
type RateLimitConfig struct {
	Enabled  bool
	RedisURL string
	Requests int
	Window   time.Duration
}

// AuditConfig holds invocation audit trail settings.
type AuditConfig struct {
	Backend     string
	Path        string
	DatabaseURL string
	Retention   time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Load reads configuration from the given file (optional), the default
// config file locations, and environment variables, in increasing order of
// precedence.
func Load(file string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".ctmcp"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// Read from environment
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}

	cfg.CipherTrust = CipherTrustConfig{
		URL:         v.GetString("ciphertrust.url"),
		User:        v.GetString("ciphertrust.user"),
		Password:    v.GetString("ciphertrust.password"),
		Domain:      v.GetString("ciphertrust.domain"),
		AuthDomain:  v.GetString("ciphertrust.auth_domain"),
		NoSSLVerify: v.GetBool("ciphertrust.nosslverify"),
	}

	cfg.Ksctl = KsctlConfig{
		Path:       v.GetString("ksctl.path"),
		ConfigFile: v.GetString("ksctl.config_file"),
		Timeout:    v.GetDuration("ksctl.timeout"),
	}

	cfg.Server = ServerConfig{
		MetricsAddr:     v.GetString("server.metrics_addr"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled:  v.GetBool("rate_limit.enabled"),
		RedisURL: v.GetString("rate_limit.redis_url"),
		Requests: v.GetInt("rate_limit.requests"),
		Window:   v.GetDuration("rate_limit.window"),
	}

	cfg.Audit = AuditConfig{
		Backend:     v.GetString("audit.backend"),
		Path:        v.GetString("audit.path"),
		DatabaseURL: v.GetString("audit.database_url"),
		Retention:   v.GetDuration("audit.retention"),
	}

	cfg.Log = LogConfig{
		Level: v.GetString("log.level"),
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// ksctl defaults
	v.SetDefault("ksctl.path", "ksctl")
	v.SetDefault("ksctl.timeout", 60*time.Second)

	// Admin listener defaults (disabled unless an address is set)
	v.SetDefault("server.metrics_addr", "")
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	// Rate limiting defaults
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.redis_url", "redis://localhost:6379/0")
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", 60*time.Second)

	// Audit defaults
	v.SetDefault("audit.backend", "bolt")
	v.SetDefault("audit.path", "")
	v.SetDefault("audit.retention", 90*24*time.Hour) // 90 days

	// Logging defaults
	v.SetDefault("log.level", "info")
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Ksctl.Path == "" {
		return fmt.Errorf("ksctl path is required")
	}
	if c.Ksctl.Timeout <= 0 {
		return fmt.Errorf("ksctl timeout must be positive")
	}

	switch c.Audit.Backend {
	case "bolt", "postgres", "none":
	default:
		return fmt.Errorf("unknown audit backend %q (want bolt, postgres or none)", c.Audit.Backend)
	}
	if c.Audit.Backend == "postgres" && c.Audit.DatabaseURL == "" {
		return fmt.Errorf("audit database URL is required for the postgres backend")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RedisURL == "" {
			return fmt.Errorf("redis URL is required when rate limiting is enabled")
		}
		if c.RateLimit.Requests <= 0 {
			return fmt.Errorf("rate limit requests must be positive")
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	return nil
}

// AuditPath returns the audit database path for the bolt backend, falling
// back to ~/.ctmcp/audit.db when unset.
func (c *Config) AuditPath() string {
	if c.Audit.Path != "" {
		return c.Audit.Path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "audit.db"
	}
	return filepath.Join(home, ".ctmcp", "audit.db")
}
