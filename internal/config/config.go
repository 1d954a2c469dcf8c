package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Refresh RefreshConfig `yaml:"refresh"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Threat  ThreatConfig  `yaml:"threat"`
	Catalog CatalogConfig `yaml:"catalog"`
	Feeds   []FeedItem    `yaml:"feeds"`
	Alerts  AlertsConfig  `yaml:"alerts"`
	Archive ArchiveConfig `yaml:"archive"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port      int `yaml:"port"`
	ItemLimit int `yaml:"item_limit"` // max items per bucket in responses
}

// RefreshConfig configures the refresh cycle.
type RefreshConfig struct {
	Interval     string `yaml:"interval"`
	FetchTimeout string `yaml:"fetch_timeout"`
	CycleBudget  string `yaml:"cycle_budget"`
	Parallelism  int    `yaml:"parallelism"`
}

// ParseInterval returns the refresh interval as time.Duration.
func (r RefreshConfig) ParseInterval() time.Duration {
	d, err := time.ParseDuration(r.Interval)
	if err != nil {
		return 2 * time.Minute
	}
	return d
}

// ParseFetchTimeout returns the per-feed fetch timeout.
func (r RefreshConfig) ParseFetchTimeout() time.Duration {
	d, err := time.ParseDuration(r.FetchTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ParseCycleBudget returns the whole-cycle deadline.
func (r RefreshConfig) ParseCycleBudget() time.Duration {
	d, err := time.ParseDuration(r.CycleBudget)
	if err != nil {
		return 90 * time.Second
	}
	return d
}

// FetchConfig configures the feed fetcher.
type FetchConfig struct {
	PageSize         int     `yaml:"page_size"`
	DescriptionLimit int     `yaml:"description_limit"`
	RatePerSecond    float64 `yaml:"rate_per_second"`
}

// ThreatConfig configures threat assessment.
type ThreatConfig struct {
	// CriticalThreshold is the number of distinct critical phrases
	// required for red. Historical catalogs used both 1 and 2; the
	// default is 1 (red on any critical phrase).
	CriticalThreshold int      `yaml:"critical_threshold"`
	CriticalPhrases   []string `yaml:"critical_phrases"`
	ElevatedPhrases   []string `yaml:"elevated_phrases"`
}

// CatalogConfig points at an optional catalog override file.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// FeedItem is a feed registered at startup.
type FeedItem struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Kind string `yaml:"kind"`
}

// AlertsConfig configures escalation alert destinations.
type AlertsConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook alerts.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook alerts.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook alerts.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// ArchiveConfig configures the optional SQLite cycle archive.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, ItemLimit: 50},
		Refresh: RefreshConfig{
			Interval:     "2m",
			FetchTimeout: "30s",
			CycleBudget:  "90s",
			Parallelism:  4,
		},
		Fetch: FetchConfig{
			PageSize:         15,
			DescriptionLimit: 300,
			RatePerSecond:    4,
		},
		Threat: ThreatConfig{CriticalThreshold: 1},
		Feeds: []FeedItem{
			{Name: "BBC World", URL: "http://feeds.bbci.co.uk/news/world/rss.xml", Kind: "rss"},
			{Name: "Al Jazeera", URL: "https://www.aljazeera.com/xml/rss/all.xml", Kind: "rss"},
			{Name: "The Guardian World", URL: "https://www.theguardian.com/world/rss", Kind: "rss"},
			{Name: "Defense News", URL: "https://www.defensenews.com/arc/outboundfeeds/rss/", Kind: "rss"},
		},
		Alerts:  AlertsConfig{},
		Archive: ArchiveConfig{Enabled: false, Path: "./conflictradar.db"},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CONFLICTRADAR_CATALOG"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("CONFLICTRADAR_ARCHIVE_PATH"); v != "" {
		cfg.Archive.Path = v
		cfg.Archive.Enabled = true
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
	if v := os.Getenv("CONFLICTRADAR_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
