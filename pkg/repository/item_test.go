package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedgate/pkg/domain"
)

func TestItemRepository_CreateItems(t *testing.T) {
	repos, _ := setupTestDB(t)
	ctx := context.Background()

	feed := &domain.Feed{URL: "https://example.com/feed.xml"}
	require.NoError(t, repos.Feed.CreateFeed(ctx, feed))

	published := time.Date(2025, 3, 9, 8, 30, 0, 0, time.UTC)
	ids, err := repos.Item.CreateItems(ctx, feed.ID, []domain.Item{
		{GUID: "a", Title: "first", Link: "https://example.com/a", Published: published},
		{GUID: "b", Title: "second", Content: "<p>body</p>", Author: "jane"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	// same guids again plus one new, only the new one is inserted
	again, err := repos.Item.CreateItems(ctx, feed.ID, []domain.Item{
		{GUID: "a", Title: "first, updated"},
		{GUID: "c", Title: "third"},
		{GUID: "b", Title: "second, updated"},
	})
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Greater(t, again[0], ids[1])

	items, err := repos.Item.GetItemsByIDs(ctx, []int64{ids[1], ids[0], ids[0], 9999})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Title, "existing item not overwritten")
	assert.True(t, published.Equal(items[0].Published))
	assert.Equal(t, "second", items[1].Title)
	assert.Equal(t, "<p>body</p>", items[1].Content)
	assert.Equal(t, "jane", items[1].Author)
	assert.True(t, items[1].Published.IsZero())
	assert.Equal(t, feed.ID, items[1].FeedID)

	none, err := repos.Item.CreateItems(ctx, feed.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	empty, err := repos.Item.GetItemsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	recent, err := repos.Item.GetItems(ctx, feed.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Title)
}

func TestItemRepository_UnknownFeed(t *testing.T) {
	repos, _ := setupTestDB(t)
	_, err := repos.Item.CreateItems(context.Background(), 404, []domain.Item{{GUID: "x"}})
	require.Error(t, err, "foreign key enforced")
}
