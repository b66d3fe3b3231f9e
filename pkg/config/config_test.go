package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/anime-notifier/pkg/domain"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid yaml config", func(t *testing.T) {
		t.Setenv("TEST_BEAMS_SECRET", "s3cret")
		path := writeConfig(t, "config.yml", `
env: production
sentry:
  dsn: https://key@sentry.example.com/1
discord:
  tokens:
    production: prod-token
    development: dev-token
  webhook:
    id: "123"
    token: hook-token
  url_template: https://example.com/shows/{slug}#{episode}
beams:
  instance_id: instance
  secret_key: ${TEST_BEAMS_SECRET}
rss:
  urls:
    - https://nyaa.si/?page=rss&u=HorribleSubs&q=1080
  ignore_first: false
  refresh: 15s
providers:
  hs: horriblesubs
anime:
  - title: Mob Psycho 100
    slug: mob-psycho-100
    feed: hs
    episode_index: 1
  - slug: one-punch-man
counter:
  type: memory
server:
  enabled: true
  listen: ":9090"
  timeout: 45s
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "production", cfg.Env)
		assert.False(t, cfg.IsDev())
		assert.Equal(t, "prod-token", cfg.DiscordToken())
		assert.True(t, cfg.WebhookEnabled())
		assert.True(t, cfg.BeamsEnabled())
		assert.Equal(t, "s3cret", cfg.Beams.SecretKey, "env expanded")
		assert.Equal(t, []string{"anime.new"}, cfg.Beams.Interests)
		assert.Equal(t, "https://example.com/shows/{slug}#{episode}", cfg.Discord.URLTemplate)

		require.Len(t, cfg.Anime, 2)
		assert.Equal(t, domain.WatchEntry{Title: "Mob Psycho 100", Slug: "mob-psycho-100", Feed: "hs", EpisodeIndex: 1}, cfg.Anime[0])
		assert.Equal(t, "one-punch-man", cfg.Anime[1].Title, "title defaults to slug")
		assert.Equal(t, map[string]string{"hs": "horriblesubs"}, cfg.Providers)

		subs := cfg.Subscriptions()
		require.Len(t, subs, 1)
		assert.False(t, subs[0].IgnoreFirst)
		assert.Equal(t, 15*time.Second, subs[0].Interval)

		listen, timeout := cfg.GetServerConfig()
		assert.Equal(t, ":9090", listen)
		assert.Equal(t, 45*time.Second, timeout)

		assert.ElementsMatch(t, []string{"https://key@sentry.example.com/1", "prod-token", "dev-token", "hook-token", "s3cret"}, cfg.Secrets())
	})

	t.Run("defaults", func(t *testing.T) {
		path := writeConfig(t, "config.yml", `
rss:
  urls: [https://example.com/rss]
anime:
  - {title: A, slug: a}
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.Env)
		assert.True(t, cfg.IsDev())
		require.NotNil(t, cfg.RSS.IgnoreFirst)
		assert.True(t, *cfg.RSS.IgnoreFirst)
		assert.Equal(t, 10*time.Second, cfg.RSS.Refresh.D())
		assert.Equal(t, 30*time.Second, cfg.RSS.Timeout.D())
		assert.Equal(t, "anime-notifier", cfg.RSS.UserAgent)
		assert.Equal(t, 40, cfg.Kitsu.Limit)
		assert.Equal(t, CounterFile, cfg.Counter.Type)
		assert.True(t, strings.HasSuffix(cfg.Counter.Path, filepath.Join("anime-notifier", "notificationId.json")))
		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.False(t, cfg.Server.Enabled)
		assert.False(t, cfg.BeamsEnabled())
		assert.False(t, cfg.WebhookEnabled())
		assert.Empty(t, cfg.Secrets())
	})

	t.Run("sql counter default dsn", func(t *testing.T) {
		path := writeConfig(t, "config.yml", `
rss: {urls: [https://example.com/rss]}
anime: [{slug: a}]
counter: {type: sql}
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(cfg.Counter.DSN, "file:"))
		assert.Contains(t, cfg.Counter.DSN, "anime-notifier.db")
	})

	t.Run("toml config", func(t *testing.T) {
		path := writeConfig(t, "settings.toml", `
env = "dev"

[rss]
urls = ["https://example.com/rss"]
ignore_first = true

[kitsu]
username = "Kurozero"

[[anime]]
title = "Date A Live"
slug = "date-a-live"
episode_index = 1

[counter]
type = "bolt"
path = "/tmp/counter.bolt"
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.True(t, cfg.IsDev())
		assert.Equal(t, "Kurozero", cfg.Kitsu.Username)
		require.Len(t, cfg.Anime, 1)
		assert.Equal(t, 1, cfg.Anime[0].EpisodeIndex)
		assert.Equal(t, CounterBolt, cfg.Counter.Type)
		assert.Equal(t, "/tmp/counter.bolt", cfg.Counter.Path)
		assert.Equal(t, 10*time.Second, cfg.RSS.Refresh.D())
	})

	t.Run("toml durations", func(t *testing.T) {
		path := writeConfig(t, "settings.toml", `
[rss]
urls = ["https://example.com/rss"]
refresh = "15s"
timeout = 5000

[[anime]]
slug = "a"

[server]
enabled = true
timeout = "1m30s"
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Second, cfg.RSS.Refresh.D())
		assert.Equal(t, 5*time.Second, cfg.RSS.Timeout.D(), "bare number is milliseconds")
		assert.Equal(t, 90*time.Second, cfg.Server.Timeout.D())
		require.Len(t, cfg.Subscriptions(), 1)
		assert.Equal(t, 15*time.Second, cfg.Subscriptions()[0].Interval)
	})

	t.Run("yaml bare number duration", func(t *testing.T) {
		path := writeConfig(t, "config.yml", `
rss:
  urls: [https://example.com/rss]
  refresh: 10000
anime: [{slug: a}]
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, cfg.RSS.Refresh.D())
	})

	t.Run("invalid duration", func(t *testing.T) {
		path := writeConfig(t, "settings.toml", `
[rss]
urls = ["https://example.com/rss"]
refresh = "soon"
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid duration")
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "invalid.yml", "invalid: yaml: content: [")
		cfg, err := Load(path)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := writeConfig(t, "invalid.toml", "[rss\nurls = ")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.RSS.URLs = []string{"https://example.com/rss"}
		cfg.Anime = []domain.WatchEntry{{Title: "A", Slug: "a"}}
		cfg.setDefaults()
		return cfg
	}
	require.NoError(t, validate(valid()))

	tbl := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{"no urls", func(c *Config) { c.RSS.URLs = nil }, "rss.urls is required"},
		{"bad url", func(c *Config) { c.RSS.URLs = []string{"ftp://x"} }, "must be http or https"},
		{"short refresh", func(c *Config) { c.RSS.Refresh = Duration(time.Millisecond) }, "rss.refresh"},
		{"empty watch-list", func(c *Config) { c.Anime = nil }, "watch-list is empty"},
		{"empty slug", func(c *Config) { c.Anime = []domain.WatchEntry{{Title: "x"}} }, "anime[0].slug is required"},
		{"slug with spaces", func(c *Config) { c.Anime[0].Slug = "Mob Psycho 100" }, `use "mob-psycho-100"`},
		{"uppercase slug", func(c *Config) { c.Anime[0].Slug = "Date-A-Live" }, "never matches normalized titles"},
		{"triple hyphen slug", func(c *Config) { c.Anime[0].Slug = "a---b" }, `use "a-b"`},
		{"negative index", func(c *Config) { c.Anime[0].EpisodeIndex = -1 }, "episode_index"},
		{"bad counter", func(c *Config) { c.Counter.Type = "redis" }, "unknown counter.type"},
		{"half beams", func(c *Config) { c.Beams.InstanceID = "x" }, "beams.instance_id"},
		{"half webhook", func(c *Config) { c.Discord.Webhook.Token = "x" }, "discord.webhook"},
		{"bad kitsu limit", func(c *Config) { c.Kitsu.Limit = -1 }, "kitsu.limit"},
		{"server timeout", func(c *Config) { c.Server.Enabled = true; c.Server.Timeout = Duration(time.Millisecond) }, "server timeout"},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("kitsu instead of watch-list", func(t *testing.T) {
		cfg := valid()
		cfg.Anime = nil
		cfg.Kitsu.Username = "someone"
		assert.NoError(t, validate(cfg))
	})
}

func TestDuration(t *testing.T) {
	tbl := []struct {
		in  string
		out time.Duration
		err bool
	}{
		{"15s", 15 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"250", 250 * time.Millisecond, false},
		{" 2h ", 2 * time.Hour, false},
		{"", 0, false},
		{"abc", 0, true},
		{"10 seconds", 0, true},
	}
	for _, tt := range tbl {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.in))
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.out, d.D())
		})
	}

	text, err := Duration(90 * time.Second).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))
}
