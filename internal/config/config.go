package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	WooCommerce WooCommerceConfig `mapstructure:"woocommerce"`
	Concierge   ConciergeConfig   `mapstructure:"concierge"`
	Proxy       ProxyConfig       `mapstructure:"proxy"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`

	// SessionIdle is how many minutes an untouched session is kept.
	SessionIdle int `mapstructure:"session_idle"`
	// SyncInterval re-runs the catalog sync every N minutes, 0 syncs only at startup and on demand.
	SyncInterval int `mapstructure:"sync_interval"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WooCommerceConfig holds commerce API configuration
type WooCommerceConfig struct {
	SiteURL              string `mapstructure:"site_url"`
	Timeout              int    `mapstructure:"timeout"` // seconds per request, 0 disables
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`

	// ProxyBase routes every request through a same-origin proxy that adds
	// credentials server-side. When set, consumer key and secret are not sent.
	ProxyBase string `mapstructure:"proxy_base"`

	// Authentication
	ConsumerKey    string `mapstructure:"consumer_key"`
	ConsumerSecret string `mapstructure:"consumer_secret"`
}

// HasCredentials reports whether direct Basic authentication is possible.
func (w WooCommerceConfig) HasCredentials() bool {
	return w.SiteURL != "" && w.ConsumerKey != "" && w.ConsumerSecret != ""
}

// ConciergeConfig holds the chat-completion settings for the AI concierge
type ConciergeConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	Timeout  int    `mapstructure:"timeout"`
}

// ProxyConfig controls the credential-hiding reverse proxy
type ProxyConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	PathPrefix string `mapstructure:"path_prefix"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// DSN returns the pgx connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	Database  int    `mapstructure:"database"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from an optional YAML file with environment variable overrides.
// A missing file is not an error: the storefront must come up on defaults alone
// and serve the bundled catalog.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.WooCommerce.SiteURL = strings.TrimRight(strings.TrimSpace(config.WooCommerce.SiteURL), "/")
	config.WooCommerce.ProxyBase = strings.TrimRight(strings.TrimSpace(config.WooCommerce.ProxyBase), "/")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.session_idle", 120)
	v.SetDefault("server.sync_interval", 0)

	v.SetDefault("woocommerce.site_url", "")
	v.SetDefault("woocommerce.timeout", 30)
	v.SetDefault("woocommerce.max_requests_per_second", 10)
	v.SetDefault("woocommerce.proxy_base", "")
	v.SetDefault("woocommerce.consumer_key", "")
	v.SetDefault("woocommerce.consumer_secret", "")

	v.SetDefault("concierge.endpoint", "https://dashscope-us.aliyuncs.com/compatible-mode/v1/chat/completions")
	v.SetDefault("concierge.model", "qwen-plus-2025-12-01-us")
	v.SetDefault("concierge.api_key", "")
	v.SetDefault("concierge.timeout", 45)

	v.SetDefault("proxy.enabled", false)
	v.SetDefault("proxy.path_prefix", "/wp-proxy")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "elysoir")
	v.SetDefault("database.user", "elysoir")
	v.SetDefault("database.password", "elysoir")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.key_prefix", "elysoir:sync:")

	v.SetDefault("log.level", "info")
}
