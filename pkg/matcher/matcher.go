// Package matcher decides whether a feed item title refers to a watched show and extracts
// the episode number from it. All functions here are pure and never fail; unknown shapes
// of titles degrade to "no match" or to the "00" episode.
package matcher

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/umputun/anime-notifier/pkg/domain"
)

// NoEpisode is returned when the title has no digit run at the requested index
const NoEpisode = "00"

// DefaultProviders maps feed source tags to the marker expected in the raw title
var DefaultProviders = map[string]string{
	"hs": "horriblesubs",
	"af": "animefreak",
}

var (
	reGroupPrefix = regexp.MustCompile(`^\s*\[[^\]]*\]\s*`)
	reSuffix      = regexp.MustCompile(`\s+-\s+\d+(?:v\d+)?(?:\s*[\[(][^\])]*[\])])*(?:\.[A-Za-z0-9]{2,4})?\s*$`)
	reDigits      = regexp.MustCompile(`\d+`)
)

// Strip removes a leading release group tag and a trailing "- NN [quality].ext" suffix
func Strip(title string) string {
	res := reGroupPrefix.ReplaceAllString(title, "")
	res = reSuffix.ReplaceAllString(res, "")
	return strings.TrimSpace(res)
}

// Normalize makes the match key: lowercase, spaces to hyphens and "---" collapsed to "-".
// Collapsing repeats until no "---" is left, so normalizing a key again doesn't change it.
func Normalize(title string) string {
	res := strings.ReplaceAll(strings.ToLower(title), " ", "-")
	for strings.Contains(res, "---") {
		res = strings.ReplaceAll(res, "---", "-")
	}
	return res
}

// Numbers returns all decimal digit runs of the title in order
func Numbers(title string) []string {
	return reDigits.FindAllString(title, -1)
}

// Episode picks the digit run at index from the title, NoEpisode if there is none
func Episode(title string, index int) string {
	nums := Numbers(title)
	if index < 0 || index >= len(nums) {
		return NoEpisode
	}
	return nums[index]
}

// Matcher matches titles against an immutable watch-list
type Matcher struct {
	entries   []domain.WatchEntry
	providers map[string]string
	now       func() time.Time
}

// New makes a matcher for the watch-list. Providers map feed tags to title markers and
// are applied over DefaultProviders. The watch-list order defines the tie-break, the last
// entry wins when several slugs are contained in the same title.
func New(entries []domain.WatchEntry, providers map[string]string) *Matcher {
	prov := make(map[string]string, len(DefaultProviders)+len(providers))
	for _, src := range []map[string]string{DefaultProviders, providers} {
		for k, v := range src {
			prov[strings.ToLower(k)] = strings.ToLower(v)
		}
	}
	res := &Matcher{entries: make([]domain.WatchEntry, len(entries)), providers: prov, now: time.Now}
	copy(res.entries, entries)
	return res
}

// Entries returns a copy of the watch-list
func (m *Matcher) Entries() []domain.WatchEntry {
	res := make([]domain.WatchEntry, len(m.entries))
	copy(res, m.entries)
	return res
}

// Candidates returns all entries with slug contained in the normalized title, in watch-list order
func (m *Matcher) Candidates(title string) []domain.WatchEntry {
	key := Normalize(title)
	var res []domain.WatchEntry
	for _, e := range m.entries {
		if contains(key, e) {
			res = append(res, e)
		}
	}
	return res
}

// Match returns the match for the title, false if no entry accepts it.
// Membership is checked on the normalized raw title, the episode index counts digit runs
// of the raw title as well. The feed source filter applies to the winning entry only.
func (m *Matcher) Match(title string) (domain.Match, bool) {
	key := Normalize(title)
	entry, ok := lastSatisfying(m.entries, func(e domain.WatchEntry) bool { return contains(key, e) })
	if !ok {
		return domain.Match{}, false
	}
	if !m.SourceAllowed(entry, title) {
		return domain.Match{}, false
	}
	return domain.Match{
		ID:        uuid.NewString(),
		Entry:     entry,
		Episode:   Episode(title, entry.EpisodeIndex),
		RawTitle:  title,
		Stripped:  Strip(title),
		MatchedAt: m.now(),
	}, true
}

// SourceAllowed checks the entry's feed source filter against the raw title
func (m *Matcher) SourceAllowed(entry domain.WatchEntry, title string) bool {
	if entry.Feed.IsAny() {
		return true
	}
	tag := strings.ToLower(string(entry.Feed))
	marker, ok := m.providers[tag]
	if !ok || marker == "" {
		marker = tag
	}
	return strings.Contains(strings.ToLower(title), marker)
}

// lastSatisfying folds the list to the last element accepted by fn
func lastSatisfying(entries []domain.WatchEntry, fn func(domain.WatchEntry) bool) (domain.WatchEntry, bool) {
	var res domain.WatchEntry
	found := false
	for _, e := range entries {
		if fn(e) {
			res, found = e, true
		}
	}
	return res, found
}

func contains(key string, e domain.WatchEntry) bool {
	return e.Slug != "" && strings.Contains(key, e.Slug)
}
