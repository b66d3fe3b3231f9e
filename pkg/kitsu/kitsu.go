// Package kitsu imports the currently watched anime of a Kitsu user into the watch-list.
package kitsu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/anime-notifier/pkg/domain"
)

// DefaultBaseURL is kitsu json:api root
const DefaultBaseURL = "https://kitsu.io/api/edge"

// DefaultLimit of library entries fetched
const DefaultLimit = 40

// Client for kitsu json:api
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

type userResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

type resourceRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type libraryResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Relationships struct {
			Anime struct {
				Data *resourceRef `json:"data"`
			} `json:"anime"`
		} `json:"relationships"`
	} `json:"data"`
	Included []struct {
		resourceRef
		Attributes animeAttributes `json:"attributes"`
	} `json:"included"`
}

type animeAttributes struct {
	Slug           string `json:"slug"`
	CanonicalTitle string `json:"canonicalTitle"`
	Titles         struct {
		EnJp string `json:"en_jp"`
		En   string `json:"en"`
	} `json:"titles"`
}

// New makes kitsu client, empty baseURL means DefaultBaseURL
func New(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{BaseURL: strings.TrimSuffix(baseURL, "/"), UserAgent: userAgent, HTTP: &http.Client{Timeout: 30 * time.Second}}
}

// WatchList returns anime the user is currently watching, mapped to watch entries
func (c *Client) WatchList(ctx context.Context, username string, limit int) ([]domain.WatchEntry, error) {
	id, err := c.UserID(ctx, username)
	if err != nil {
		return nil, err
	}
	return c.Library(ctx, id, limit)
}

// UserID resolves username to kitsu user id
func (c *Client) UserID(ctx context.Context, username string) (string, error) {
	q := url.Values{}
	q.Set("filter[name]", username)

	var resp userResponse
	if err := c.get(ctx, "/users", q, &resp); err != nil {
		return "", fmt.Errorf("get kitsu user %s: %w", username, err)
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("kitsu user %s not found", username)
	}
	return resp.Data[0].ID, nil
}

// Library returns current anime library entries of the user
func (c *Client) Library(ctx context.Context, userID string, limit int) ([]domain.WatchEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := url.Values{}
	q.Set("fields[anime]", "slug,canonicalTitle,titles")
	q.Set("filter[kind]", "anime")
	q.Set("filter[status]", "current")
	q.Set("filter[userId]", userID)
	q.Set("include", "anime")
	q.Set("page[offset]", "0")
	q.Set("page[limit]", strconv.Itoa(limit))

	var resp libraryResponse
	if err := c.get(ctx, "/library-entries", q, &resp); err != nil {
		return nil, fmt.Errorf("get kitsu library for %s: %w", userID, err)
	}

	anime := make(map[string]animeAttributes, len(resp.Included))
	for _, inc := range resp.Included {
		if inc.Type == "anime" {
			anime[inc.ID] = inc.Attributes
		}
	}

	res := make([]domain.WatchEntry, 0, len(resp.Data))
	for _, entry := range resp.Data {
		ref := entry.Relationships.Anime.Data
		if ref == nil {
			continue
		}
		attrs, ok := anime[ref.ID]
		if !ok || attrs.Slug == "" {
			lgr.Printf("[DEBUG] kitsu library entry %s has no anime attributes", entry.ID)
			continue
		}
		res = append(res, domain.WatchEntry{Title: attrs.title(), Slug: attrs.Slug})
	}
	return res, nil
}

// title picks canonical title, then romanized, then english, then slug
func (a animeAttributes) title() string {
	for _, t := range []string{a.CanonicalTitle, a.Titles.EnJp, a.Titles.En} {
		if t != "" {
			return t
		}
	}
	return a.Slug
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("make request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("kitsu responded with %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Merge appends imported entries after configured ones. Imported entries with a slug
// already on the configured list are dropped, so configured feed and episode index settings stay.
func Merge(configured, imported []domain.WatchEntry) []domain.WatchEntry {
	res := make([]domain.WatchEntry, 0, len(configured)+len(imported))
	res = append(res, configured...)
	seen := make(map[string]bool, len(res))
	for _, e := range configured {
		seen[e.Slug] = true
	}
	for _, e := range imported {
		if seen[e.Slug] {
			continue
		}
		seen[e.Slug] = true
		res = append(res, e)
	}
	return res
}
