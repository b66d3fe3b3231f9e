package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/umputun/anime-notifier/pkg/domain"
)

// Parser fetches and parses RSS/Atom feeds
type Parser struct {
	client    *http.Client
	userAgent string
}

// NewParser creates a new feed parser
func NewParser(timeout time.Duration, userAgent string) *Parser {
	return &Parser{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Parse fetches and parses a feed from the given URL. Items are returned in feed order.
// Failures are returned as *domain.FeedError.
func (p *Parser) Parse(ctx context.Context, url string) ([]domain.FeedItem, error) {
	body, err := p.fetch(ctx, url)
	if err != nil {
		return nil, &domain.FeedError{FeedURL: url, Kind: domain.FeedErrorFetch, Err: fmt.Errorf("fetch feed: %w", err)}
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, &domain.FeedError{FeedURL: url, Kind: domain.FeedErrorParse, Err: fmt.Errorf("parse feed: %w", err)}
	}

	items := make([]domain.FeedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		parsed := domain.FeedItem{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			FeedURL:     url,
			Fields:      extensionFields(item),
		}

		// set GUID
		switch {
		case item.GUID != "":
			parsed.GUID = item.GUID
		case item.Link != "":
			parsed.GUID = item.Link
		default:
			parsed.GUID = fmt.Sprintf("%s-%s", feed.Title, item.Title)
		}

		// set published time
		if item.PublishedParsed != nil {
			parsed.Published = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			parsed.Published = item.UpdatedParsed
		}

		items = append(items, parsed)
	}

	return items, nil
}

// extensionFields flattens namespaced elements (nyaa:seeders and friends) to "prefix:name" keys
func extensionFields(item *gofeed.Item) map[string]string {
	res := map[string]string{}
	for prefix, elems := range item.Extensions {
		for name, values := range elems {
			if len(values) == 0 || values[0].Value == "" {
				continue
			}
			res[prefix+":"+name] = values[0].Value
		}
	}
	return res
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)
	addBrowserHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
