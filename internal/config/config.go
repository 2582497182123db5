// Package config defines gateway configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"time"
)

// Default tuning constants.
const (
	defaultUpstreamTimeout      = 15 * time.Second
	defaultUpstreamRetries      = 2
	defaultUpstreamRateLimit    = 50 // requests per second per upstream
	defaultCatalogTTL           = 30 * time.Second
	defaultSessionTTL           = time.Hour
	defaultSessionSweepInterval = time.Minute
	defaultSessionMax           = 10_000
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataServiceURL is the base URL of the sensor-data storage service.
	DataServiceURL string `koanf:"data_service_url"`

	// DetectServiceURL is the base URL of the anomaly-detection provider.
	DetectServiceURL string `koanf:"detect_service_url"`

	// ExplainServiceURL is the base URL of the explainability provider.
	ExplainServiceURL string `koanf:"explain_service_url"`

	// UpstreamTimeoutMS bounds each upstream call.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// UpstreamRetries sets how often idempotent upstream GETs are retried.
	UpstreamRetries int `koanf:"upstream_retries"`

	// UpstreamRateLimit caps outbound requests per second per upstream.
	UpstreamRateLimit int `koanf:"upstream_rate_limit"`

	// CatalogTTLMS controls how long the algorithm catalog is cached.
	CatalogTTLMS int `koanf:"catalog_ttl_ms"`

	// SessionTTLMS controls how long calculation sessions are retained.
	SessionTTLMS int `koanf:"session_ttl_ms"`

	// SessionSweepIntervalMS sets the janitor sweep interval.
	SessionSweepIntervalMS int `koanf:"session_sweep_interval_ms"`

	// SessionMax bounds the number of retained sessions.
	SessionMax int `koanf:"session_max"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":8080",
		DataServiceURL:         "http://data-management",
		DetectServiceURL:       "http://anomaly-detection",
		ExplainServiceURL:      "http://explainability",
		UpstreamTimeoutMS:      int(defaultUpstreamTimeout / time.Millisecond),
		UpstreamRetries:        defaultUpstreamRetries,
		UpstreamRateLimit:      defaultUpstreamRateLimit,
		CatalogTTLMS:           int(defaultCatalogTTL / time.Millisecond),
		SessionTTLMS:           int(defaultSessionTTL / time.Millisecond),
		SessionSweepIntervalMS: int(defaultSessionSweepInterval / time.Millisecond),
		SessionMax:             defaultSessionMax,
	}
}

// UpstreamTimeout returns the upstream call timeout as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// CatalogTTL returns the catalog cache TTL as a duration.
func (c *Config) CatalogTTL() time.Duration {
	return time.Duration(c.CatalogTTLMS) * time.Millisecond
}

// SessionTTL returns the session retention TTL as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMS) * time.Millisecond
}

// SessionSweepInterval returns the janitor sweep interval as a duration.
func (c *Config) SessionSweepInterval() time.Duration {
	return time.Duration(c.SessionSweepIntervalMS) * time.Millisecond
}
