package reporter

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/anime-notifier/pkg/domain"
)

type eventCollector struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (c *eventCollector) beforeSend(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil // never leave the process
}

func (c *eventCollector) list() []*sentry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events
}

func TestSentry_Report(t *testing.T) {
	coll := &eventCollector{}
	rep, err := New(Options{DSN: "https://public@sentry.example.com/1", Environment: "test", Release: "1.0",
		ServerName: "anime-notifier", BeforeSend: coll.beforeSend})
	require.NoError(t, err)

	rep.Report(&domain.FeedError{FeedURL: "https://nyaa.si/rss", Kind: domain.FeedErrorFetch, Err: errors.New("timeout")})
	rep.Report(errors.New("webhook failed"))
	rep.Report(nil)
	rep.Flush(time.Second)

	events := coll.list()
	require.Len(t, events, 2)

	assert.Equal(t, "fetch_url_error", events[0].Tags["type"])
	assert.Equal(t, "https://nyaa.si/rss", events[0].Extra["feed"])
	assert.Equal(t, "FeedError", events[0].Extra["name"])
	assert.NotEmpty(t, events[0].User.IPAddress)
	assert.Equal(t, "test", events[0].Environment)
	assert.Equal(t, "anime-notifier", events[0].ServerName)

	assert.Equal(t, "generic_error", events[1].Tags["type"])
	assert.Equal(t, "*errors.errorString", events[1].Extra["name"])
}

func TestSentry_EmptyDSN(t *testing.T) {
	rep, err := New(Options{})
	require.NoError(t, err)
	rep.Report(errors.New("only logged"))
	assert.True(t, rep.Flush(100*time.Millisecond))
}

func TestSentry_BadDSN(t *testing.T) {
	_, err := New(Options{DSN: "not a dsn"})
	require.Error(t, err)
}

func TestLocalIPs(t *testing.T) {
	for _, ip := range localIPs() {
		parsed := net.ParseIP(ip)
		require.NotNil(t, parsed)
		assert.NotNil(t, parsed.To4())
		assert.False(t, parsed.IsLoopback())
	}
	assert.NotEmpty(t, hostUser().IPAddress)
}
