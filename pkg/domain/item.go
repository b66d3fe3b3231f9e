package domain

import "time"

// FeedItem represents one entry from a polled feed
type FeedItem struct {
	GUID        string
	Title       string
	Link        string
	Description string // html as published by the feed
	Published   *time.Time
	FeedURL     string
	Fields      map[string]string // provider fields, keyed as "prefix:name", e.g. "nyaa:seeders"
}

// Field returns provider field by key or empty string
func (i FeedItem) Field(key string) string {
	if i.Fields == nil {
		return ""
	}
	return i.Fields[key]
}

// Match is the result of matching a feed item title against the watch-list
type Match struct {
	ID        string     `json:"id"`
	Entry     WatchEntry `json:"entry"`
	Episode   string     `json:"episode"`
	RawTitle  string     `json:"raw_title"`
	Stripped  string     `json:"stripped"`
	Item      FeedItem   `json:"-"`
	MatchedAt time.Time  `json:"matched_at"`
}
