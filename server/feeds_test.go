package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedgate/pkg/domain"
)

func TestServer_ListFeeds(t *testing.T) {
	srv, deps := newTestServer(t, "")
	fetched := testNow.Add(-time.Hour)
	deps.feeds.GetFeedsFunc = func(ctx context.Context, activeOnly bool) ([]*domain.Feed, error) {
		return []*domain.Feed{
			{ID: 1, URL: "https://a.example.com/rss", Title: "A", IntervalMinutes: 30, LastFetchedAt: &fetched, Status: domain.FeedActive},
			{ID: 2, URL: "https://b.example.com/rss", IntervalMinutes: 60, Status: domain.FeedPaused},
		}, nil
	}

	w := do(t, srv, "GET", "/api/v1/feeds?active=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	feeds := decodeJSON[[]feedResponse](t, w)
	require.Len(t, feeds, 2)
	assert.Equal(t, "A", feeds[0].Title)
	assert.Equal(t, fetched, *feeds[0].LastFetchedAt)
	assert.Equal(t, domain.FeedPaused, feeds[1].Status)
	assert.Nil(t, feeds[1].LastFetchedAt)
	assert.True(t, deps.feeds.GetFeedsCalls()[0].ActiveOnly)
}

func TestServer_GetFeed(t *testing.T) {
	srv, deps := newTestServer(t, "")
	deps.feeds.GetFeedFunc = func(ctx context.Context, id int64) (*domain.Feed, error) {
		if id == 5 {
			return &domain.Feed{ID: 5, URL: "https://x.example.com/rss", IntervalMinutes: 15, Status: domain.FeedActive}, nil
		}
		return nil, fmt.Errorf("feed %d: %w", id, domain.ErrNotFound)
	}

	w := do(t, srv, "GET", "/api/v1/feeds/5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 15, decodeJSON[feedResponse](t, w).IntervalMinutes)

	w = do(t, srv, "GET", "/api/v1/feeds/6", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, "GET", "/api/v1/feeds/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_CreateFeed(t *testing.T) {
	srv, deps := newTestServer(t, "")
	srv.DefaultInterval = 45
	deps.feeds.CreateFeedFunc = func(ctx context.Context, feed *domain.Feed) error {
		feed.ID = 9
		feed.CreatedAt = testNow
		return nil
	}

	w := do(t, srv, "POST", "/api/v1/feeds", `{"url":"https://go.dev/blog/feed.atom","title":"Go blog"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeJSON[feedResponse](t, w)
	assert.Equal(t, int64(9), created.ID)
	assert.Equal(t, 45, created.IntervalMinutes)
	assert.Equal(t, domain.FeedActive, created.Status)
	assert.Nil(t, created.LastFetchedAt)

	require.Len(t, deps.feeds.CreateFeedCalls(), 1)
	assert.Equal(t, "Go blog", deps.feeds.CreateFeedCalls()[0].Feed.Title)

	tests := []struct {
		name string
		body string
	}{
		{name: "no url", body: `{"title":"x"}`},
		{name: "relative url", body: `{"url":"/feed.xml"}`},
		{name: "ftp url", body: `{"url":"ftp://example.com/feed"}`},
		{name: "interval too long", body: `{"url":"https://example.com/rss","interval_minutes":1441}`},
		{name: "negative interval", body: `{"url":"https://example.com/rss","interval_minutes":-1}`},
		{name: "unknown field", body: `{"url":"https://example.com/rss","owner":"me"}`},
		{name: "broken json", body: `{"url":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, "POST", "/api/v1/feeds", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	assert.Len(t, deps.feeds.CreateFeedCalls(), 1)
}

func TestServer_CreateFeed_StoreError(t *testing.T) {
	srv, deps := newTestServer(t, "")
	deps.feeds.CreateFeedFunc = func(ctx context.Context, feed *domain.Feed) error { return errors.New("db locked") }

	w := do(t, srv, "POST", "/api/v1/feeds", `{"url":"https://example.com/rss"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_DeleteFeed(t *testing.T) {
	srv, deps := newTestServer(t, "")
	deps.feeds.DeleteFeedFunc = func(ctx context.Context, id int64) error { return nil }

	w := do(t, srv, "DELETE", "/api/v1/feeds/3", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, deps.feeds.DeleteFeedCalls(), 1)
	assert.Equal(t, int64(3), deps.feeds.DeleteFeedCalls()[0].Id)
}

func TestServer_FeedStatus(t *testing.T) {
	srv, deps := newTestServer(t, "")
	deps.feeds.SetStatusFunc = func(ctx context.Context, feedID int64, status domain.FeedStatus) error { return nil }

	w := do(t, srv, "PUT", "/api/v1/feeds/3/status", `{"status":"paused"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, deps.feeds.SetStatusCalls(), 1)
	assert.Equal(t, domain.FeedPaused, deps.feeds.SetStatusCalls()[0].Status)

	w = do(t, srv, "PUT", "/api/v1/feeds/3/status", `{"status":"sleeping"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, deps.feeds.SetStatusCalls(), 1)
}

func TestServer_DueFeeds(t *testing.T) {
	srv, deps := newTestServer(t, "")
	deps.scheduler.DueFeedsFunc = func(ctx context.Context, now time.Time) ([]int64, error) {
		return []int64{3, 1, 6}, nil
	}

	w := do(t, srv, "GET", "/api/v1/feeds/due", "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeJSON[struct {
		Time    time.Time `json:"time"`
		FeedIDs []int64   `json:"feed_ids"`
	}](t, w)
	assert.Equal(t, []int64{3, 1, 6}, res.FeedIDs)
	assert.Equal(t, testNow, res.Time)
	assert.Equal(t, testNow, deps.scheduler.DueFeedsCalls()[0].Now)

	deps.scheduler.DueFeedsFunc = func(ctx context.Context, now time.Time) ([]int64, error) { return nil, nil }
	w = do(t, srv, "GET", "/api/v1/feeds/due", "")
	assert.Contains(t, w.Body.String(), `"feed_ids":[]`)
}

func TestServer_FetchNow(t *testing.T) {
	srv, deps := newTestServer(t, "")
	deps.scheduler.FetchNowFunc = func(ctx context.Context, feedID int64) error {
		if feedID == 404 {
			return fmt.Errorf("get feed: %w", domain.ErrNotFound)
		}
		return nil
	}

	w := do(t, srv, "POST", "/api/v1/feeds/7/fetch", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	w = do(t, srv, "POST", "/api/v1/feeds/404/fetch", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_SetInterval(t *testing.T) {
	srv, deps := newTestServer(t, "")
	validate := func(minutes int) error {
		if minutes < 1 || minutes > 1440 {
			return fmt.Errorf("interval %d: %w", minutes, domain.ErrInvalidArgument)
		}
		return nil
	}
	deps.scheduler.SetIntervalFunc = func(ctx context.Context, feedID int64, minutes int) error { return validate(minutes) }
	deps.scheduler.SetGlobalIntervalFunc = func(ctx context.Context, minutes int) error { return validate(minutes) }

	w := do(t, srv, "PUT", "/api/v1/feeds/2/interval", `{"minutes":90}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 90, deps.scheduler.SetIntervalCalls()[0].Minutes)
	assert.Equal(t, int64(2), deps.scheduler.SetIntervalCalls()[0].FeedID)

	w = do(t, srv, "PUT", "/api/v1/feeds/2/interval", `{"minutes":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, "PUT", "/api/v1/feeds/interval", `{"minutes":1440}`)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, srv, "PUT", "/api/v1/feeds/interval", `{"minutes":1441}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_OPML(t *testing.T) {
	srv, deps := newTestServer(t, "")
	deps.feeds.GetFeedsFunc = func(ctx context.Context, activeOnly bool) ([]*domain.Feed, error) {
		return []*domain.Feed{{ID: 1, URL: "https://a.example.com/rss", Title: "A & B", Status: domain.FeedActive}}, nil
	}

	w := do(t, srv, "GET", "/api/v1/feeds.opml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/x-opml; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `xmlUrl="https://a.example.com/rss"`)
	assert.Contains(t, w.Body.String(), "A &amp; B")
	assert.True(t, deps.feeds.GetFeedsCalls()[0].ActiveOnly)
}
