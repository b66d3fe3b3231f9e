// Package reporter forwards errors to Sentry with host identity attached.
package reporter

import (
	"errors"
	"fmt"
	"net"
	"os/user"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-pkgz/lgr"

	"github.com/umputun/anime-notifier/pkg/domain"
)

// Options for the sentry client
type Options struct {
	DSN         string
	Environment string
	Release     string
	ServerName  string
	Debug       bool
	BeforeSend  func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event
}

// Sentry reports errors to sentry. With empty DSN errors are only logged.
type Sentry struct {
	hub  *sentry.Hub
	user sentry.User
}

// New makes sentry reporter
func New(opts Options) (*Sentry, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Debug:       opts.Debug,
		Release:     opts.Release,
		Environment: opts.Environment,
		ServerName:  opts.ServerName,
		BeforeSend:  opts.BeforeSend,
	})
	if err != nil {
		return nil, fmt.Errorf("make sentry client: %w", err)
	}
	return &Sentry{hub: sentry.NewHub(client, sentry.NewScope()), user: hostUser()}, nil
}

// Report logs the error and sends it to sentry
func (s *Sentry) Report(err error) {
	if err == nil {
		return
	}
	lgr.Printf("[WARN] %v", err)

	s.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetUser(s.user)
		var fe *domain.FeedError
		if errors.As(err, &fe) {
			scope.SetExtras(map[string]interface{}{"feed": fe.FeedURL, "type": string(fe.Kind), "name": "FeedError"})
			scope.SetTag("type", string(fe.Kind))
		} else {
			scope.SetExtra("name", fmt.Sprintf("%T", err))
			scope.SetTag("type", "generic_error")
		}
		s.hub.CaptureException(err)
	})
}

// Flush waits for buffered events to be sent
func (s *Sentry) Flush(timeout time.Duration) bool {
	return s.hub.Flush(timeout)
}

// hostUser makes sentry user from the process owner and the first external ipv4 address
func hostUser() sentry.User {
	res := sentry.User{IPAddress: "unknown"}
	if u, err := user.Current(); err == nil {
		res.ID = u.Uid
		res.Username = u.Username
	}
	if ips := localIPs(); len(ips) > 0 {
		res.IPAddress = ips[0]
	}
	return res
}

// localIPs returns non-loopback ipv4 addresses of the host
func localIPs() []string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	var res []string
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			res = append(res, ip4.String())
		}
	}
	return res
}
