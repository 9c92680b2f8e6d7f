// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CodeforcesBaseURL is the API root of the submission platform.
	CodeforcesBaseURL string `koanf:"codeforces_base_url"`
	// HTTPTimeoutMS bounds each upstream HTTP request.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`
	// UpstreamRatePerSec paces upstream requests; 0 disables pacing.
	UpstreamRatePerSec float64 `koanf:"upstream_rate_per_sec"`
	// MaxSubmissions caps how many recent submissions are analysed.
	MaxSubmissions int `koanf:"max_submissions"`

	// WindowDays is the trailing activity/statistics window.
	WindowDays int `koanf:"window_days"`
	// Timezone names the location used for calendar-day bucketing.
	Timezone string `koanf:"timezone"`

	// LookupTimeoutMS bounds each per-topic catalog or resource lookup.
	LookupTimeoutMS int `koanf:"lookup_timeout_ms"`
	// MaxPathSteps caps the training path length.
	MaxPathSteps int `koanf:"max_path_steps"`
	// ProblemsPerStep caps recommended problems per step.
	ProblemsPerStep int `koanf:"problems_per_step"`
	// MaxRecommendations caps weak-topic guidance strings.
	MaxRecommendations int `koanf:"max_recommendations"`
	// TopicDifficulty overrides built-in topic difficulty ranks.
	TopicDifficulty map[string]int `koanf:"topic_difficulty"`
	// ExcludedTopics lists meta topics hidden from guidance and curricula,
	// in addition to the always-excluded platform meta topics.
	ExcludedTopics []string `koanf:"excluded_topics"`
	// ResourcesFile is an optional YAML file layered over the built-in
	// resource directory.
	ResourcesFile string `koanf:"resources_file"`

	// CacheURL selects a Redis cache; empty keeps caches in memory.
	CacheURL string `koanf:"cache_url"`
	// CatalogCacheTTLSec is how long catalog answers are reused.
	CatalogCacheTTLSec int `koanf:"catalog_cache_ttl_sec"`
	// ReportCacheTTLSec is how long finished reports are reused; 0 disables.
	ReportCacheTTLSec int `koanf:"report_cache_ttl_sec"`

	// RateLimitPerHour limits POST /analyze per client; 0 disables.
	RateLimitPerHour int `koanf:"rate_limit_per_hour"`
	// TrustProxyHeaders keys rate limiting on X-Forwarded-For/X-Real-IP
	// instead of the socket peer. Enable only behind a rewriting proxy.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":8080",
		CodeforcesBaseURL:  "https://codeforces.com/api",
		HTTPTimeoutMS:      10_000,
		UpstreamRatePerSec: 2,
		MaxSubmissions:     3000,
		WindowDays:         90,
		Timezone:           "Local",
		LookupTimeoutMS:    5_000,
		MaxPathSteps:       5,
		ProblemsPerStep:    3,
		MaxRecommendations: 5,
		TopicDifficulty:    map[string]int{},
		ExcludedTopics:     []string{"special problems", "*special"},
		CatalogCacheTTLSec: 3600,
		ReportCacheTTLSec:  3600,
		RateLimitPerHour:   30,
	}
}

// Validate checks invariants that defaults cannot guarantee once overridden.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WindowDays <= 0:
		return fmt.Errorf("%w: window_days must be positive", ErrInvalidConfig)
	case c.MaxPathSteps <= 0:
		return fmt.Errorf("%w: max_path_steps must be positive", ErrInvalidConfig)
	case c.ProblemsPerStep <= 0:
		return fmt.Errorf("%w: problems_per_step must be positive", ErrInvalidConfig)
	case c.MaxSubmissions <= 0:
		return fmt.Errorf("%w: max_submissions must be positive", ErrInvalidConfig)
	case c.HTTPTimeoutMS <= 0 || c.LookupTimeoutMS <= 0:
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	case c.RateLimitPerHour < 0 || c.ReportCacheTTLSec < 0 || c.CatalogCacheTTLSec < 0:
		return fmt.Errorf("%w: limits and ttls must not be negative", ErrInvalidConfig)
	}
	for topic, rank := range c.TopicDifficulty {
		if rank < 1 {
			return fmt.Errorf("%w: topic_difficulty[%s] must be at least 1", ErrInvalidConfig, topic)
		}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; "" and "Local" mean the process location.
func (c *Config) Location() (*time.Location, error) {
	switch strings.TrimSpace(c.Timezone) {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// HTTPTimeout returns HTTPTimeoutMS as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}

// LookupTimeout returns LookupTimeoutMS as a duration.
func (c *Config) LookupTimeout() time.Duration {
	return time.Duration(c.LookupTimeoutMS) * time.Millisecond
}

// CatalogCacheTTL returns CatalogCacheTTLSec as a duration.
func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheTTLSec) * time.Second
}

// ReportCacheTTL returns ReportCacheTTLSec as a duration.
func (c *Config) ReportCacheTTL() time.Duration {
	return time.Duration(c.ReportCacheTTLSec) * time.Second
}
