package domain

import (
	"fmt"
	"time"
)

// Subscription describes a single polled feed
type Subscription struct {
	URL         string
	IgnoreFirst bool          // skip the batch seen on the first poll
	Interval    time.Duration // poll interval
}

// FeedErrorKind classifies feed failures
type FeedErrorKind string

const (
	FeedErrorFetch FeedErrorKind = "fetch_url_error"
	FeedErrorParse FeedErrorKind = "invalid_feed"
)

// FeedError is a failure of a single feed poll
type FeedError struct {
	FeedURL string
	Kind    FeedErrorKind
	Err     error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed %s (%s): %v", e.FeedURL, e.Kind, e.Err)
}

func (e *FeedError) Unwrap() error { return e.Err }

// Event is emitted by a poller, either a new item or a feed error
type Event struct {
	Item *FeedItem
	Err  *FeedError
}
