package domain

import "strings"

// FeedSource restricts which upstream feed a watch entry accepts matches from
type FeedSource string

// FeedAny accepts matches from any feed
const FeedAny FeedSource = "any"

// IsAny reports whether the source doesn't restrict matches
func (f FeedSource) IsAny() bool {
	return f == "" || strings.EqualFold(string(f), string(FeedAny))
}

// WatchEntry is a single show on the watch-list
type WatchEntry struct {
	Title        string     `json:"title" yaml:"title" toml:"title"`
	Slug         string     `json:"slug" yaml:"slug" toml:"slug"`
	Feed         FeedSource `json:"feed,omitempty" yaml:"feed" toml:"feed"`
	EpisodeIndex int        `json:"episode_index,omitempty" yaml:"episode_index" toml:"episode_index"`
}
