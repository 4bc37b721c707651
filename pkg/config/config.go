package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	apperrors "github.com/killallgit/podhub/pkg/errors"
)

// EnvPrefix is prepended to every environment override, e.g.
// PODHUB_UPSTREAM_BASE_URL for upstream.base_url.
const EnvPrefix = "PODHUB"

var (
	once    sync.Once
	initErr error

	configFile = "./config/settings.yaml"
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		setDefaults()

		viper.SetEnvPrefix(EnvPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		configPath := filepath.Clean(configFile)
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// A missing file means defaults and env vars only
			if !errors.Is(err, fs.ErrNotExist) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// SetConfigFile overrides the settings file read by Init. It has no effect
// once Init has run.
func SetConfigFile(path string) {
	if path != "" {
		configFile = path
	}
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return apperrors.ConfigError("server.port", fmt.Sprintf("invalid port %d", port))
	}

	if err := validateBaseURL(viper.GetString("upstream.base_url")); err != nil {
		return err
	}

	if viper.GetDuration("upstream.timeout") <= 0 {
		viper.Set("upstream.timeout", 10*time.Second)
	}

	if viper.GetInt("catalog.max_concurrency") <= 0 {
		viper.Set("catalog.max_concurrency", 4)
	}

	if viper.GetInt("catalog.list_retries") < 0 {
		viper.Set("catalog.list_retries", 0)
	}

	if viper.GetString("database.path") == "" {
		log.Warn("No database path configured, feed summaries will not be stored")
	}

	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return apperrors.ConfigError("upstream.base_url", err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apperrors.ConfigError("upstream.base_url", fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return apperrors.ConfigError("upstream.base_url", "missing host")
	}
	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if err := validateBaseURL(c.Upstream.BaseURL); err != nil {
		return err
	}

	if c.Upstream.Timeout <= 0 {
		c.Upstream.Timeout = 10 * time.Second
	}

	if c.Catalog.MaxConcurrency <= 0 {
		c.Catalog.MaxConcurrency = 4
	}

	if c.Catalog.ListRetries < 0 {
		c.Catalog.ListRetries = 0
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Upstream content API defaults
	viper.SetDefault("upstream.base_url", "http://localhost:1337/api")
	viper.SetDefault("upstream.timeout", 10*time.Second)
	viper.SetDefault("upstream.user_agent", "podhub/1.0")
	viper.SetDefault("upstream.max_body_bytes", 32<<20)

	// Catalog defaults
	viper.SetDefault("catalog.max_concurrency", 4)
	viper.SetDefault("catalog.list_retries", 2)
	viper.SetDefault("catalog.retry_interval", 500*time.Millisecond)

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.feed_ttl", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", time.Minute)

	// Database defaults
	viper.SetDefault("database.path", "./data/podhub.db")
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.max_idle_connections", 5)
	viper.SetDefault("database.connection_max_lifetime", 30*time.Minute)
	viper.SetDefault("database.enable_wal", true)
	viper.SetDefault("database.log_queries", false)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})
	viper.SetDefault("security.cors_methods", []string{"GET", "POST", "OPTIONS"})
	viper.SetDefault("security.cors_headers", []string{"Content-Type", "Authorization", "X-Feed-Token", "X-Request-ID"})
	viper.SetDefault("security.enable_request_id", true)
	viper.SetDefault("security.max_request_bytes", 1<<20)

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.requests_per_minute", 120)
	viper.SetDefault("rate_limiting.burst", 20)

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
}

// reset clears all configuration state so Init can run again
func reset() {
	viper.Reset()
	once = sync.Once{}
	initErr = nil
}
