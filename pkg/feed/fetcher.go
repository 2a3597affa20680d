// Package feed downloads RSS/Atom feeds, stores their new items and renders results back as feeds.
package feed

import (
	"context"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedgate/pkg/domain"
)

//go:generate moq -out mocks/feed_getter.go -pkg mocks -skip-ensure -fmt goimports . FeedGetter
//go:generate moq -out mocks/item_store.go -pkg mocks -skip-ensure -fmt goimports . ItemStore
//go:generate moq -out mocks/feed_parser.go -pkg mocks -skip-ensure -fmt goimports . FeedParser

// FeedGetter provides feed metadata
type FeedGetter interface {
	GetFeed(ctx context.Context, id int64) (*domain.Feed, error)
}

// ItemStore stores items, skipping the ones already known
type ItemStore interface {
	CreateItems(ctx context.Context, feedID int64, items []domain.Item) ([]int64, error)
}

// FeedParser downloads and parses a feed url
type FeedParser interface {
	Parse(ctx context.Context, url string) (*Parsed, error)
}

// Fetcher fetches a feed by id and stores new items
type Fetcher struct {
	feeds  FeedGetter
	items  ItemStore
	parser FeedParser
}

// NewFetcher creates a fetcher
func NewFetcher(feeds FeedGetter, items ItemStore, parser FeedParser) *Fetcher {
	return &Fetcher{feeds: feeds, items: items, parser: parser}
}

// Fetch downloads the feed and stores its items. A feed that can't be downloaded or parsed is
// reported as an unsuccessful result, errors are returned only for storage failures.
func (f *Fetcher) Fetch(ctx context.Context, feedID int64) (domain.FetchResult, error) {
	feed, err := f.feeds.GetFeed(ctx, feedID)
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("get feed %d: %w", feedID, err)
	}

	parsed, err := f.parser.Parse(ctx, feed.URL)
	if err != nil {
		lgr.Printf("[WARN] failed to fetch feed %d %s: %v", feedID, feed.URL, err)
		return domain.FetchResult{Success: false}, nil
	}

	ids, err := f.items.CreateItems(ctx, feedID, parsed.Items)
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("store items of feed %d: %w", feedID, err)
	}
	if len(ids) > 0 {
		lgr.Printf("[INFO] added %d new items from feed %d %s", len(ids), feedID, feed.URL)
	}
	return domain.FetchResult{Success: true, NewItemIDs: ids}, nil
}
