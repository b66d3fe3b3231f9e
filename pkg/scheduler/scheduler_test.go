package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/anime-notifier/pkg/domain"
	"github.com/umputun/anime-notifier/pkg/matcher"
	"github.com/umputun/anime-notifier/pkg/scheduler/mocks"
)

func TestScheduler_Handle(t *testing.T) {
	m := matcher.New([]domain.WatchEntry{
		{Title: "Mob Psycho 100", Slug: "mob-psycho-100", EpisodeIndex: 1},
		{Title: "Date A Live", Slug: "date-a-live"},
		{Title: "Date A Live III", Slug: "date-a-live-iii", EpisodeIndex: 1},
	}, nil)
	notifier := &mocks.NotifierMock{NotifyFunc: func(context.Context, domain.Match) error { return nil }}
	reporter := &mocks.ReporterMock{ReportFunc: func(error) {}}
	s := NewScheduler(m, notifier, reporter, Config{})

	ctx := context.Background()
	s.Handle(ctx, domain.Event{Item: &domain.FeedItem{Title: "[HorribleSubs] Mob Psycho 100 - 05 [1080p].mkv", Link: "https://nyaa.si/view/1"}})
	s.Handle(ctx, domain.Event{Item: &domain.FeedItem{Title: "[HorribleSubs] Boruto - 100 [1080p].mkv"}})
	s.Handle(ctx, domain.Event{Item: &domain.FeedItem{Title: "[HorribleSubs] Date A Live III - 03 [1080p].mkv"}})
	s.Handle(ctx, domain.Event{Err: &domain.FeedError{FeedURL: "https://nyaa.si/rss", Kind: domain.FeedErrorFetch, Err: errors.New("timeout")}})
	s.Handle(ctx, domain.Event{})

	calls := notifier.NotifyCalls()
	require.Len(t, calls, 2, "one notification per matched item")
	assert.Equal(t, "Mob Psycho 100", calls[0].M.Entry.Title)
	assert.Equal(t, "05", calls[0].M.Episode)
	assert.Equal(t, "https://nyaa.si/view/1", calls[0].M.Item.Link)
	assert.Equal(t, "Date A Live III", calls[1].M.Entry.Title, "last match wins")
	assert.Equal(t, "1080", calls[1].M.Episode)

	require.Len(t, reporter.ReportCalls(), 1)
	var fe *domain.FeedError
	require.ErrorAs(t, reporter.ReportCalls()[0].Err, &fe)
	assert.Equal(t, domain.FeedErrorFetch, fe.Kind)

	stats := s.Stats()
	assert.Equal(t, int64(3), stats.Items)
	assert.Equal(t, int64(2), stats.Matches)
	assert.Equal(t, int64(1), stats.FeedErrors)
	assert.Equal(t, int64(0), stats.DeliveryErrors)

	recent := s.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "Date A Live III", recent[0].Entry.Title)
	assert.Equal(t, "Mob Psycho 100", recent[1].Entry.Title)
}

func TestScheduler_DeliveryError(t *testing.T) {
	mm := &mocks.MatcherMock{MatchFunc: func(title string) (domain.Match, bool) {
		return domain.Match{Entry: domain.WatchEntry{Title: title}, Episode: "01"}, true
	}}
	notifier := &mocks.NotifierMock{NotifyFunc: func(context.Context, domain.Match) error { return errors.New("discord down") }}
	s := NewScheduler(mm, notifier, nil, Config{})

	s.Handle(context.Background(), domain.Event{Item: &domain.FeedItem{Title: "a"}})
	s.Handle(context.Background(), domain.Event{Item: &domain.FeedItem{Title: "b"}})
	assert.Len(t, notifier.NotifyCalls(), 2, "failure doesn't block next item")
	assert.Equal(t, int64(2), s.Stats().DeliveryErrors)
	assert.Len(t, s.Recent(), 2)

	// feed error without reporter is only logged
	s.Handle(context.Background(), domain.Event{Err: &domain.FeedError{Kind: domain.FeedErrorParse, Err: errors.New("bad xml")}})
	assert.Equal(t, int64(1), s.Stats().FeedErrors)
}

func TestScheduler_RecentRing(t *testing.T) {
	mm := &mocks.MatcherMock{MatchFunc: func(title string) (domain.Match, bool) {
		return domain.Match{Entry: domain.WatchEntry{Title: title}}, true
	}}
	notifier := &mocks.NotifierMock{NotifyFunc: func(context.Context, domain.Match) error { return nil }}
	s := NewScheduler(mm, notifier, nil, Config{RecentSize: 3})
	assert.Empty(t, s.Recent())

	for i := 1; i <= 5; i++ {
		s.Handle(context.Background(), domain.Event{Item: &domain.FeedItem{Title: fmt.Sprintf("t%d", i)}})
	}
	recent := s.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "t5", recent[0].Entry.Title)
	assert.Equal(t, "t4", recent[1].Entry.Title)
	assert.Equal(t, "t3", recent[2].Entry.Title)
	assert.Equal(t, int64(5), s.Stats().Matches)
}

func TestScheduler_Run(t *testing.T) {
	mm := &mocks.MatcherMock{MatchFunc: func(title string) (domain.Match, bool) {
		return domain.Match{Entry: domain.WatchEntry{Title: title}}, title != "skip"
	}}
	notifier := &mocks.NotifierMock{NotifyFunc: func(context.Context, domain.Match) error { return nil }}
	s := NewScheduler(mm, notifier, nil, Config{})

	t.Run("stops on closed channel", func(t *testing.T) {
		events := make(chan domain.Event, 3)
		events <- domain.Event{Item: &domain.FeedItem{Title: "one"}}
		events <- domain.Event{Item: &domain.FeedItem{Title: "skip"}}
		events <- domain.Event{Item: &domain.FeedItem{Title: "two"}}
		close(events)
		require.NoError(t, s.Run(context.Background(), events))

		calls := notifier.NotifyCalls()
		require.Len(t, calls, 2)
		assert.Equal(t, "one", calls[0].M.Entry.Title)
		assert.Equal(t, "two", calls[1].M.Entry.Title)
	})

	t.Run("stops on context cancel", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		err := s.Run(ctx, make(chan domain.Event))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
