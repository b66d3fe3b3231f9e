package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-pkgz/lgr"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/umputun/anime-notifier/pkg/domain"
	"github.com/umputun/anime-notifier/pkg/matcher"
)

//go:generate go run ../../cmd/schema/main.go schema.json

const appName = "anime-notifier"

// Counter backends
const (
	CounterFile   = "file"
	CounterSQL    = "sql"
	CounterBolt   = "bolt"
	CounterMemory = "memory"
)

// Config holds the application configuration
type Config struct {
	Env       string              `yaml:"env" toml:"env" json:"env" jsonschema:"default=development,description=Environment name; values starting with dev select the development discord token"`
	Sentry    SentryConfig        `yaml:"sentry" toml:"sentry" json:"sentry" jsonschema:"description=Error reporting"`
	Discord   DiscordConfig       `yaml:"discord" toml:"discord" json:"discord" jsonschema:"description=Discord bot and webhook"`
	Beams     BeamsConfig         `yaml:"beams" toml:"beams" json:"beams" jsonschema:"description=Pusher Beams push notifications"`
	Desktop   DesktopConfig       `yaml:"desktop" toml:"desktop" json:"desktop" jsonschema:"description=Desktop notifications"`
	RSS       RSSConfig           `yaml:"rss" toml:"rss" json:"rss" jsonschema:"description=Polled feeds"`
	Providers map[string]string   `yaml:"providers" toml:"providers" json:"providers,omitempty" jsonschema:"description=Feed source tag to title marker map"`
	Anime     []domain.WatchEntry `yaml:"anime" toml:"anime" json:"anime" jsonschema:"description=Watch-list; later entries win when several slugs match"`
	Kitsu     KitsuConfig         `yaml:"kitsu" toml:"kitsu" json:"kitsu" jsonschema:"description=Import currently watched anime from a Kitsu library"`
	Counter   CounterConfig       `yaml:"counter" toml:"counter" json:"counter" jsonschema:"description=Notification id counter storage"`
	Server    ServerConfig        `yaml:"server" toml:"server" json:"server" jsonschema:"description=Status HTTP server"`
}

// SentryConfig holds error reporting settings
type SentryConfig struct {
	DSN string `yaml:"dsn" toml:"dsn" json:"dsn" jsonschema:"description=Sentry DSN; empty disables reporting"`
}

// DiscordConfig holds discord bot tokens and webhook
type DiscordConfig struct {
	Tokens struct {
		Production  string `yaml:"production" toml:"production" json:"production" jsonschema:"description=Production bot token"`
		Development string `yaml:"development" toml:"development" json:"development" jsonschema:"description=Development bot token"`
	} `yaml:"tokens" toml:"tokens" json:"tokens" jsonschema:"description=Bot tokens per environment"`
	Webhook struct {
		ID    string `yaml:"id" toml:"id" json:"id" jsonschema:"description=Webhook id"`
		Token string `yaml:"token" toml:"token" json:"token" jsonschema:"description=Webhook token"`
	} `yaml:"webhook" toml:"webhook" json:"webhook" jsonschema:"description=Webhook used for release embeds"`
	URLTemplate string `yaml:"url_template" toml:"url_template" json:"url_template" jsonschema:"description=Embed link template with {slug} {episode} {link} placeholders; item link if empty"`
}

// BeamsConfig holds Pusher Beams credentials
type BeamsConfig struct {
	InstanceID string   `yaml:"instance_id" toml:"instance_id" json:"instance_id" jsonschema:"description=Beams instance id"`
	SecretKey  string   `yaml:"secret_key" toml:"secret_key" json:"secret_key" jsonschema:"description=Beams secret key"`
	Interests  []string `yaml:"interests" toml:"interests" json:"interests" jsonschema:"description=Interests to publish to"`
}

// DesktopConfig enables desktop toasts
type DesktopConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled" json:"enabled" jsonschema:"default=false,description=Show desktop notifications"`
}

// RSSConfig holds feed polling settings
type RSSConfig struct {
	URLs        []string      `yaml:"urls" toml:"urls" json:"urls" jsonschema:"required,description=Feed URLs"`
	IgnoreFirst *bool         `yaml:"ignore_first" toml:"ignore_first" json:"ignore_first" jsonschema:"default=true,description=Skip items present on the first poll"`
	Refresh     Duration      `yaml:"refresh" toml:"refresh" json:"refresh" jsonschema:"default=10s,description=Poll interval"`
	Timeout     Duration      `yaml:"timeout" toml:"timeout" json:"timeout" jsonschema:"default=30s,description=Feed request timeout"`
	UserAgent   string        `yaml:"user_agent" toml:"user_agent" json:"user_agent" jsonschema:"description=User agent for feed requests"`
}

// KitsuConfig holds watch-list import settings
type KitsuConfig struct {
	Username string `yaml:"username" toml:"username" json:"username" jsonschema:"description=Kitsu user name; empty disables import"`
	Limit    int    `yaml:"limit" toml:"limit" json:"limit" jsonschema:"default=40,description=Maximum library entries to import"`
}

// CounterConfig selects notification counter storage
type CounterConfig struct {
	Type string `yaml:"type" toml:"type" json:"type" jsonschema:"default=file,enum=file,enum=sql,enum=bolt,enum=memory,description=Counter backend"`
	Path string `yaml:"path" toml:"path" json:"path" jsonschema:"description=Counter file for file and bolt backends"`
	DSN  string `yaml:"dsn" toml:"dsn" json:"dsn" jsonschema:"description=Database for sql backend; postgres:// or sqlite"`
}

// ServerConfig holds status server settings
type ServerConfig struct {
	Enabled bool          `yaml:"enabled" toml:"enabled" json:"enabled" jsonschema:"default=false,description=Run status HTTP server"`
	Listen  string        `yaml:"listen" toml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout Duration      `yaml:"timeout" toml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
}

// Load reads configuration from a YAML file, or TOML if the file has .toml extension
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(expanded, &cfg)
	} else {
		err = yaml.Unmarshal(expanded, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// schema validation is supplementary
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Env == "" {
		c.Env = "development"
	}

	if c.RSS.IgnoreFirst == nil {
		ignore := true
		c.RSS.IgnoreFirst = &ignore
	}
	if c.RSS.Refresh == 0 {
		c.RSS.Refresh = Duration(10 * time.Second)
	}
	if c.RSS.Timeout == 0 {
		c.RSS.Timeout = Duration(30 * time.Second)
	}
	if c.RSS.UserAgent == "" {
		c.RSS.UserAgent = appName
	}

	if len(c.Beams.Interests) == 0 {
		c.Beams.Interests = []string{"anime.new"}
	}

	for i := range c.Anime {
		if c.Anime[i].Title == "" {
			c.Anime[i].Title = c.Anime[i].Slug
		}
	}

	if c.Kitsu.Limit == 0 {
		c.Kitsu.Limit = 40
	}

	if c.Counter.Type == "" {
		c.Counter.Type = CounterFile
	}
	switch c.Counter.Type {
	case CounterFile:
		if c.Counter.Path == "" {
			c.Counter.Path = filepath.Join(xdg.DataHome, appName, "notificationId.json")
		}
	case CounterBolt:
		if c.Counter.Path == "" {
			c.Counter.Path = filepath.Join(xdg.DataHome, appName, "counter.bolt")
		}
	case CounterSQL:
		if c.Counter.DSN == "" {
			dbPath := filepath.Join(xdg.DataHome, appName, appName+".db")
			c.Counter.DSN = "file:" + dbPath + "?cache=shared&mode=rwc&_txlock=immediate"
		}
	}

	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = Duration(30 * time.Second)
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if len(cfg.RSS.URLs) == 0 {
		return fmt.Errorf("rss.urls is required")
	}
	for _, u := range cfg.RSS.URLs {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("rss url %q must be http or https", u)
		}
	}
	if cfg.RSS.Refresh.D() < time.Second {
		return fmt.Errorf("rss.refresh must be at least 1 second")
	}

	if len(cfg.Anime) == 0 && cfg.Kitsu.Username == "" {
		return fmt.Errorf("anime watch-list is empty and kitsu.username is not set")
	}
	for i, a := range cfg.Anime {
		if strings.TrimSpace(a.Slug) == "" {
			return fmt.Errorf("anime[%d].slug is required", i)
		}
		if norm := matcher.Normalize(a.Slug); norm != a.Slug {
			return fmt.Errorf("anime[%d].slug %q never matches normalized titles, use %q", i, a.Slug, norm)
		}
		if a.EpisodeIndex < 0 {
			return fmt.Errorf("anime[%d].episode_index must be non-negative", i)
		}
	}
	if cfg.Kitsu.Limit < 1 {
		return fmt.Errorf("kitsu.limit must be at least 1")
	}

	switch cfg.Counter.Type {
	case CounterFile, CounterBolt, CounterSQL, CounterMemory:
	default:
		return fmt.Errorf("unknown counter.type %q", cfg.Counter.Type)
	}

	if (cfg.Beams.InstanceID == "") != (cfg.Beams.SecretKey == "") {
		return fmt.Errorf("beams.instance_id and beams.secret_key must be set together")
	}
	if (cfg.Discord.Webhook.ID == "") != (cfg.Discord.Webhook.Token == "") {
		return fmt.Errorf("discord.webhook.id and discord.webhook.token must be set together")
	}

	if cfg.Server.Enabled && cfg.Server.Timeout.D() < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// IsDev reports development environment
func (c *Config) IsDev() bool {
	return strings.HasPrefix(c.Env, "dev")
}

// DiscordToken returns bot token for the current environment
func (c *Config) DiscordToken() string {
	if c.IsDev() {
		return c.Discord.Tokens.Development
	}
	return c.Discord.Tokens.Production
}

// BeamsEnabled reports whether push notifications are configured
func (c *Config) BeamsEnabled() bool {
	return c.Beams.InstanceID != "" && c.Beams.SecretKey != ""
}

// WebhookEnabled reports whether discord webhook is configured
func (c *Config) WebhookEnabled() bool {
	return c.Discord.Webhook.ID != "" && c.Discord.Webhook.Token != ""
}

// Subscriptions returns one subscription per feed url
func (c *Config) Subscriptions() []domain.Subscription {
	res := make([]domain.Subscription, 0, len(c.RSS.URLs))
	for _, u := range c.RSS.URLs {
		res = append(res, domain.Subscription{URL: u, IgnoreFirst: c.RSS.IgnoreFirst == nil || *c.RSS.IgnoreFirst, Interval: c.RSS.Refresh.D()})
	}
	return res
}

// Secrets returns configured credentials, used to mask them in logs
func (c *Config) Secrets() []string {
	var res []string
	for _, s := range []string{c.Sentry.DSN, c.Discord.Tokens.Production, c.Discord.Tokens.Development,
		c.Discord.Webhook.Token, c.Beams.SecretKey} {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout.D()
}
