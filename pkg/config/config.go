package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	// Empty PostgresURL selects the in-memory store.
	PostgresURL      string `mapstructure:"POSTGRES_URL"`
	PostgresMaxConns int32  `mapstructure:"POSTGRES_MAX_CONNS"`

	// Empty RedisAddr disables the report cache.
	RedisAddr             string `mapstructure:"REDIS_ADDR"`
	RedisPassword         string `mapstructure:"REDIS_PASSWORD"`
	RedisDB               int    `mapstructure:"REDIS_DB"`
	ReportCacheTTLMinutes int    `mapstructure:"REPORT_CACHE_TTL_MINUTES"`

	UserAgent           string `mapstructure:"USER_AGENT"`
	ProbeTimeoutSeconds int    `mapstructure:"PROBE_TIMEOUT_SECONDS"`
	LinkTimeoutSeconds  int    `mapstructure:"LINK_TIMEOUT_SECONDS"`
	MaxRedirectHops     int    `mapstructure:"MAX_REDIRECT_HOPS"`
	ScanLinkLimit       int    `mapstructure:"SCAN_LINK_LIMIT"`
	WebsiteLinkLimit    int    `mapstructure:"WEBSITE_LINK_LIMIT"`
	LinkConcurrency     int    `mapstructure:"LINK_CONCURRENCY"`

	// ProxyURLs are rotated round-robin for outbound probes.
	ProxyURLs []string `mapstructure:"PROXY_URLS"`

	RenderJS               bool `mapstructure:"RENDER_JS"`
	PageLoadTimeoutSeconds int  `mapstructure:"PAGE_LOAD_TIMEOUT_SECONDS"`

	WhoisTimeoutSeconds int    `mapstructure:"WHOIS_TIMEOUT_SECONDS"`
	RDAPServerURL       string `mapstructure:"RDAP_SERVER_URL"`

	OpenAIAPIKey  string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL string `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel   string `mapstructure:"OPENAI_MODEL"`

	RateLimitRPS       float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst     int     `mapstructure:"RATE_LIMIT_BURST"`
	RecentDomainsLimit int     `mapstructure:"RECENT_DOMAINS_LIMIT"`
}

var defaults = map[string]any{
	"SERVER_PORT":               "8080",
	"LOG_LEVEL":                 "info",
	"POSTGRES_URL":              "",
	"POSTGRES_MAX_CONNS":        10,
	"REDIS_ADDR":                "",
	"REDIS_PASSWORD":            "",
	"REDIS_DB":                  0,
	"REPORT_CACHE_TTL_MINUTES":  30,
	"USER_AGENT":                "Mozilla/5.0 (compatible; SEO-Tool/1.0)",
	"PROXY_URLS":                []string{},
	"PROBE_TIMEOUT_SECONDS":     10,
	"LINK_TIMEOUT_SECONDS":      3,
	"MAX_REDIRECT_HOPS":         10,
	"SCAN_LINK_LIMIT":           20,
	"WEBSITE_LINK_LIMIT":        0,
	"LINK_CONCURRENCY":          0,
	"RENDER_JS":                 false,
	"PAGE_LOAD_TIMEOUT_SECONDS": 30,
	"WHOIS_TIMEOUT_SECONDS":     15,
	"RDAP_SERVER_URL":           "",
	"OPENAI_API_KEY":            "",
	"OPENAI_BASE_URL":           "",
	"OPENAI_MODEL":              "gpt-4o",
	"RATE_LIMIT_RPS":            0.0,
	"RATE_LIMIT_BURST":          10,
	"RECENT_DOMAINS_LIMIT":      10,
}

// Load reads configuration from an optional .env file and the environment.
// An empty path means ".env" in the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = ".env"
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing file is fine: production config comes from the environment.
	_ = v.ReadInConfig()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MaxRedirectHops < 0 {
		return fmt.Errorf("MAX_REDIRECT_HOPS must not be negative, got %d", c.MaxRedirectHops)
	}
	if c.LinkTimeoutSeconds <= 0 {
		return fmt.Errorf("LINK_TIMEOUT_SECONDS must be positive, got %d", c.LinkTimeoutSeconds)
	}
	if c.ProbeTimeoutSeconds <= 0 {
		return fmt.Errorf("PROBE_TIMEOUT_SECONDS must be positive, got %d", c.ProbeTimeoutSeconds)
	}
	return nil
}

func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

func (c *Config) LinkTimeout() time.Duration {
	return time.Duration(c.LinkTimeoutSeconds) * time.Second
}

func (c *Config) PageLoadTimeout() time.Duration {
	return time.Duration(c.PageLoadTimeoutSeconds) * time.Second
}

func (c *Config) WhoisTimeout() time.Duration {
	return time.Duration(c.WhoisTimeoutSeconds) * time.Second
}

func (c *Config) ReportCacheTTL() time.Duration {
	return time.Duration(c.ReportCacheTTLMinutes) * time.Minute
}
