package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string           `mapstructure:"environment"`
	Server       ServerConfig     `mapstructure:"server"`
	Upstream     UpstreamConfig   `mapstructure:"upstream"`
	Catalog      CatalogConfig    `mapstructure:"catalog"`
	Cache        CacheConfig      `mapstructure:"cache"`
	Database     DatabaseConfig   `mapstructure:"database"`
	Logging      LoggingConfig    `mapstructure:"logging"`
	Security     SecurityConfig   `mapstructure:"security"`
	RateLimiting RateLimitConfig  `mapstructure:"rate_limiting"`
	Monitoring   MonitoringConfig `mapstructure:"monitoring"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// UpstreamConfig contains content API settings
type UpstreamConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// CatalogConfig controls how feed lists are fanned out
type CatalogConfig struct {
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	ListRetries    int           `mapstructure:"list_retries"`
	RetryInterval  time.Duration `mapstructure:"retry_interval"`
}

// CacheConfig contains feed document cache settings
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	FeedTTL         time.Duration `mapstructure:"feed_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path                  string        `mapstructure:"path"`
	MaxConnections        int           `mapstructure:"max_connections"`
	MaxIdleConnections    int           `mapstructure:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `mapstructure:"connection_max_lifetime"`
	EnableWAL             bool          `mapstructure:"enable_wal"`
	LogQueries            bool          `mapstructure:"log_queries"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS      bool     `mapstructure:"enable_cors"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
	CORSMethods     []string `mapstructure:"cors_methods"`
	CORSHeaders     []string `mapstructure:"cors_headers"`
	EnableRequestID bool     `mapstructure:"enable_request_id"`
	MaxRequestBytes int64    `mapstructure:"max_request_bytes"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

// MonitoringConfig contains monitoring settings
type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}
