package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/anime-notifier/pkg/config"
	"github.com/umputun/anime-notifier/pkg/counter"
	"github.com/umputun/anime-notifier/pkg/domain"
	"github.com/umputun/anime-notifier/pkg/matcher"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss xmlns:nyaa="https://nyaa.si/xmlns/nyaa" version="2.0">
<channel>
<title>Nyaa - HorribleSubs</title>
<link>https://nyaa.si/</link>
<description>RSS Feed</description>
<item>
<title>[HorribleSubs] Mob Psycho 100 - 05 [1080p].mkv</title>
<link>https://nyaa.si/download/1.torrent</link>
<guid isPermaLink="true">https://nyaa.si/view/1</guid>
<pubDate>Mon, 22 Apr 2019 15:31:00 -0000</pubDate>
<nyaa:seeders>120</nyaa:seeders>
<description><![CDATA[<a href="https://nyaa.si/view/1">#1 | Mob Psycho 100</a> | 1.3 GiB]]></description>
</item>
<item>
<title>[HorribleSubs] Boruto - 100 [1080p].mkv</title>
<link>https://nyaa.si/download/2.torrent</link>
<guid isPermaLink="true">https://nyaa.si/view/2</guid>
</item>
</channel>
</rss>`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func freePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return port
}

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "invalid: yaml: content: [")

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: path})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_PollMatchAndServe(t *testing.T) {
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testFeed))
	}))
	defer feedSrv.Close()

	port := freePort(t)
	path := writeConfig(t, fmt.Sprintf(`
env: production
rss:
  urls: [%s]
  ignore_first: false
  refresh: 1s
anime:
  - title: Mob Psycho 100
    slug: mob-psycho-100
    episode_index: 1
counter:
  type: memory
server:
  enabled: true
  listen: 127.0.0.1:%d
`, feedSrv.URL, port))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- run(ctx, Opts{Config: path}) }()

	var matches []domain.Match
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/api/v1/matches", port))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return false
		}
		if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
			return false
		}
		return len(matches) > 0
	}, 5*time.Second, 50*time.Millisecond)

	require.Len(t, matches, 1)
	assert.Equal(t, "Mob Psycho 100", matches[0].Entry.Title)
	assert.Equal(t, "05", matches[0].Episode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run didn't stop")
	}
}

func TestRun_Check(t *testing.T) {
	path := writeConfig(t, `
rss: {urls: [https://example.com/rss]}
anime: [{title: Mob Psycho 100, slug: mob-psycho-100, episode_index: 1}]
counter: {type: memory}
`)
	err := run(context.Background(), Opts{Config: path, Check: "[HorribleSubs] Mob Psycho 100 - 05 [1080p].mkv"})
	require.NoError(t, err)
}

func TestCheckTitle(t *testing.T) {
	m := matcher.New([]domain.WatchEntry{
		{Title: "Date A Live", Slug: "date-a-live"},
		{Title: "Date A Live III", Slug: "date-a-live-iii", EpisodeIndex: 1},
	}, nil)

	var buf bytes.Buffer
	checkTitle(&buf, m, "[HorribleSubs] Date A Live III - 03 [1080p].mkv")
	out := buf.String()
	assert.Contains(t, out, "[horriblesubs]-date-a-live-iii-03-[1080p].mkv")
	assert.Contains(t, out, "[03 1080]")
	assert.Contains(t, out, "candidate 1")
	assert.Contains(t, out, "candidate 2")
	assert.Contains(t, out, "Date A Live III #1080")

	buf.Reset()
	checkTitle(&buf, m, "[HorribleSubs] Boruto - 100 [1080p].mkv")
	assert.Contains(t, buf.String(), "none")
	assert.NotContains(t, buf.String(), "candidate")
}

func TestMakeCounter(t *testing.T) {
	dir := t.TempDir()
	tbl := []struct {
		name string
		cfg  config.CounterConfig
	}{
		{"memory", config.CounterConfig{Type: config.CounterMemory}},
		{"file", config.CounterConfig{Type: config.CounterFile, Path: filepath.Join(dir, "file", "id.json")}},
		{"bolt", config.CounterConfig{Type: config.CounterBolt, Path: filepath.Join(dir, "bolt", "counter.bolt")}},
		{"sql", config.CounterConfig{Type: config.CounterSQL, DSN: "file:" + filepath.Join(dir, "sql", "test.db") + "?mode=rwc"}},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Counter: tt.cfg}
			cnt, closeFn, err := makeCounter(context.Background(), cfg)
			require.NoError(t, err)
			defer closeFn()

			var last int64
			for range 3 {
				last, err = cnt.Next(context.Background())
				require.NoError(t, err)
			}
			assert.Equal(t, int64(3), last)
		})
	}

	t.Run("file without path", func(t *testing.T) {
		_, _, err := makeCounter(context.Background(), &config.Config{Counter: config.CounterConfig{Type: config.CounterFile}})
		require.Error(t, err)
	})
}

func TestMakeNotifiers(t *testing.T) {
	cfg := &config.Config{}
	cfg.Beams.InstanceID = "inst"
	cfg.Beams.SecretKey = "secret"
	cfg.Discord.Webhook.ID = "123"
	cfg.Discord.Webhook.Token = "tok"
	cfg.Desktop.Enabled = true

	res, err := makeNotifiers(cfg, counter.NewMemory(0), nil)
	require.NoError(t, err)
	names := make([]string, 0, len(res))
	for _, n := range res {
		names = append(names, n.Name())
	}
	assert.Equal(t, []string{"beams", "discord", "desktop"}, names)

	res, err = makeNotifiers(&config.Config{}, counter.NewMemory(0), nil)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		SetupLog(true, false)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		SetupLog(false, false)
	})

	t.Run("with secrets and color", func(t *testing.T) {
		SetupLog(true, true, "secret1", "secret2")
	})

	t.Run("no color when not a terminal", func(t *testing.T) {
		assert.False(t, useColor(true))
	})
}
