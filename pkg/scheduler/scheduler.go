// Package scheduler consumes poller events, matches items against the watch-list and hands matches to delivery.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/anime-notifier/pkg/domain"
)

//go:generate moq -out mocks/matcher.go -pkg mocks -skip-ensure -fmt goimports . Matcher
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier
//go:generate moq -out mocks/reporter.go -pkg mocks -skip-ensure -fmt goimports . Reporter

// Matcher interface for title matching
type Matcher interface {
	Match(title string) (domain.Match, bool)
}

// Notifier interface for match delivery
type Notifier interface {
	Notify(ctx context.Context, m domain.Match) error
}

// Reporter interface for error reporting
type Reporter interface {
	Report(err error)
}

// Config holds scheduler configuration
type Config struct {
	RecentSize int // number of recent matches kept in memory
}

// Stats is a snapshot of processing counters
type Stats struct {
	StartedAt      time.Time `json:"started_at"`
	LastItemAt     time.Time `json:"last_item_at,omitempty"`
	Items          int64     `json:"items"`
	Matches        int64     `json:"matches"`
	FeedErrors     int64     `json:"feed_errors"`
	DeliveryErrors int64     `json:"delivery_errors"`
}

// Scheduler is the single consumer of feed events. Items are processed one by one, in order of arrival.
type Scheduler struct {
	matcher  Matcher
	notifier Notifier
	reporter Reporter

	mu         sync.RWMutex
	recent     []domain.Match // ring buffer
	recentNext int
	recentSize int
	stats      Stats
}

// NewScheduler creates a new scheduler instance
func NewScheduler(matcher Matcher, notifier Notifier, reporter Reporter, cfg Config) *Scheduler {
	if cfg.RecentSize <= 0 {
		cfg.RecentSize = 50
	}
	return &Scheduler{
		matcher:    matcher,
		notifier:   notifier,
		reporter:   reporter,
		recentSize: cfg.RecentSize,
		recent:     make([]domain.Match, 0, cfg.RecentSize),
		stats:      Stats{StartedAt: time.Now()},
	}
}

// Run consumes events until context canceled or the channel closed
func (s *Scheduler) Run(ctx context.Context, events <-chan domain.Event) error {
	lgr.Printf("[INFO] scheduler started")
	for {
		select {
		case <-ctx.Done():
			lgr.Printf("[INFO] scheduler stopped")
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				lgr.Printf("[INFO] events channel closed, scheduler stopped")
				return nil
			}
			s.Handle(ctx, ev)
		}
	}
}

// Handle processes a single event, feed errors go to reporter and items to matcher and notifier
func (s *Scheduler) Handle(ctx context.Context, ev domain.Event) {
	if ev.Err != nil {
		s.mu.Lock()
		s.stats.FeedErrors++
		s.mu.Unlock()
		if s.reporter != nil {
			s.reporter.Report(ev.Err)
		} else {
			lgr.Printf("[WARN] %v", ev.Err)
		}
		return
	}
	if ev.Item == nil {
		return
	}

	s.mu.Lock()
	s.stats.Items++
	s.stats.LastItemAt = time.Now()
	s.mu.Unlock()

	m, ok := s.matcher.Match(ev.Item.Title)
	if !ok {
		lgr.Printf("[DEBUG] no match for %q", ev.Item.Title)
		return
	}
	m.Item = *ev.Item
	lgr.Printf("[INFO] matched %q as %s #%s", ev.Item.Title, m.Entry.Title, m.Episode)
	s.remember(m)

	if err := s.notifier.Notify(ctx, m); err != nil {
		s.mu.Lock()
		s.stats.DeliveryErrors++
		s.mu.Unlock()
		lgr.Printf("[WARN] delivery for %s #%s incomplete: %v", m.Entry.Title, m.Episode, err)
	}
}

// Recent returns recent matches, newest first
func (s *Scheduler) Recent() []domain.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Match, 0, len(s.recent))
	for i := 1; i <= len(s.recent); i++ {
		idx := (s.recentNext - i + len(s.recent)) % len(s.recent)
		res = append(res, s.recent[idx])
	}
	return res
}

// Stats returns processing counters
func (s *Scheduler) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Scheduler) remember(m domain.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Matches++
	if len(s.recent) < s.recentSize {
		s.recent = append(s.recent, m)
		s.recentNext = len(s.recent) % s.recentSize
		return
	}
	s.recent[s.recentNext] = m
	s.recentNext = (s.recentNext + 1) % s.recentSize
}
