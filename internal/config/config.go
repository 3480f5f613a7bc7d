package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Downstream  DownstreamConfig  `mapstructure:"downstream"`
	Webhook     WebhookConfig     `mapstructure:"webhook"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Redis       RedisConfig       `mapstructure:"redis"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DownstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WebhookConfig carries per-source signing secrets and verification policy.
// Secrets are read once at start and never logged.
type WebhookConfig struct {
	MaxPayloadSize      int64             `mapstructure:"max_payload_size"`
	RequireVerification bool              `mapstructure:"require_verification"`
	Secrets             map[string]string `mapstructure:"secrets"`
	JWTSecret           string            `mapstructure:"jwt_secret"`
}

type RateLimitConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age"`
}

type MaintenanceConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SecretFor returns the signing secret configured for a source, or empty
// string when none is set.
func (c *WebhookConfig) SecretFor(source string) string {
	return c.Secrets[source]
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8787)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("downstream.base_url", "http://localhost:8000")
	v.SetDefault("downstream.timeout", "30s")
	v.SetDefault("webhook.max_payload_size", 10*1024*1024)
	v.SetDefault("webhook.require_verification", false)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.max_requests", 100)
	v.SetDefault("rate_limit.window", "60s")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type", "Authorization", "X-Trace-ID",
		"X-Slack-Signature", "X-Slack-Request-Timestamp",
		"X-Hub-Signature-256", "X-GitHub-Event",
		"X-Poe-Signature", "X-Signature",
	})
	v.SetDefault("cors.max_age", 300)
	v.SetDefault("maintenance.enabled", true)
	v.SetDefault("maintenance.interval", "60s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/bl1nk/gateway")
	}

	// Environment variables override
	v.SetEnvPrefix("GATEWAY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Webhook.Secrets == nil {
		cfg.Webhook.Secrets = map[string]string{}
	}

	return &cfg, nil
}
