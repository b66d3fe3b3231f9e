package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/anime-notifier/pkg/domain"
)

//go:generate moq -out mocks/items_parser.go -pkg mocks -skip-ensure -fmt goimports . ItemsParser

// ItemsParser retrieves the current items of a feed
type ItemsParser interface {
	Parse(ctx context.Context, url string) ([]domain.FeedItem, error)
}

const defaultSeenLimit = 1000

// Poller polls a single feed and emits events for items it hasn't seen before
type Poller struct {
	sub    domain.Subscription
	parser ItemsParser
	seen   *seenSet
	primed bool // first poll done
}

// NewPoller makes a poller for the subscription
func NewPoller(sub domain.Subscription, parser ItemsParser) *Poller {
	if sub.Interval <= 0 {
		sub.Interval = 10 * time.Second
	}
	return &Poller{sub: sub, parser: parser, seen: newSeenSet(defaultSeenLimit)}
}

// Run polls immediately and then on every interval tick until the context is canceled.
// Events are sent in feed order, oldest item first.
func (p *Poller) Run(ctx context.Context, events chan<- domain.Event) error {
	lgr.Printf("[INFO] polling %s every %v, ignore first batch: %v", p.sub.URL, p.sub.Interval, p.sub.IgnoreFirst)
	ticker := time.NewTicker(p.sub.Interval)
	defer ticker.Stop()

	for {
		for _, ev := range p.Poll(ctx) {
			select {
			case events <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll fetches the feed once and returns events for new items or the feed error
func (p *Poller) Poll(ctx context.Context) []domain.Event {
	items, err := p.parser.Parse(ctx, p.sub.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		var fe *domain.FeedError
		if !errors.As(err, &fe) {
			fe = &domain.FeedError{FeedURL: p.sub.URL, Kind: domain.FeedErrorFetch, Err: err}
		}
		return []domain.Event{{Err: fe}}
	}

	first := !p.primed
	p.primed = true

	var res []domain.Event
	// feeds list newest first, walk backwards to emit in publishing order
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if !p.seen.add(item.GUID) {
			continue
		}
		if first && p.sub.IgnoreFirst {
			continue
		}
		res = append(res, domain.Event{Item: &item})
	}
	if first && p.sub.IgnoreFirst {
		lgr.Printf("[DEBUG] ignored first batch of %d items from %s", len(items), p.sub.URL)
	}
	return res
}

// Group runs several pollers into a single events channel
type Group struct {
	pollers []*Poller
}

// NewGroup makes a group of pollers, one per subscription, sharing the parser
func NewGroup(subs []domain.Subscription, parser ItemsParser) *Group {
	res := &Group{}
	for _, s := range subs {
		res.pollers = append(res.pollers, NewPoller(s, parser))
	}
	return res
}

// Run starts all pollers and blocks until the context is canceled and all pollers are done
func (g *Group) Run(ctx context.Context, events chan<- domain.Event) error {
	var wg sync.WaitGroup
	for _, p := range g.pollers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Run(ctx, events); err != nil && !errors.Is(err, context.Canceled) {
				lgr.Printf("[WARN] poller for %s stopped: %v", p.sub.URL, err)
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}

// seenSet remembers guids up to the limit, forgetting the oldest first
type seenSet struct {
	limit int
	keys  map[string]struct{}
	order []string
}

func newSeenSet(limit int) *seenSet {
	return &seenSet{limit: limit, keys: make(map[string]struct{}, limit)}
}

// add returns false if the key was already there
func (s *seenSet) add(key string) bool {
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	s.order = append(s.order, key)
	if len(s.order) > s.limit {
		delete(s.keys, s.order[0])
		s.order = s.order[1:]
	}
	return true
}
