package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/umputun/feedgate/pkg/domain"
)

// maxFeedSize limits the body read from a feed url
const maxFeedSize = 10 << 20

// Parsed is a downloaded and parsed feed
type Parsed struct {
	Title       string
	Description string
	Link        string
	Items       []domain.Item
}

// Parser downloads and parses RSS/Atom feeds
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
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Parse fetches and parses a feed from the given URL
func (p *Parser) Parse(ctx context.Context, url string) (*Parsed, error) {
	body, err := p.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(io.LimitReader(body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	result := &Parsed{
		Title:       feed.Title,
		Description: feed.Description,
		Link:        feed.Link,
		Items:       make([]domain.Item, 0, len(feed.Items)),
	}
	for _, item := range feed.Items {
		result.Items = append(result.Items, toItem(feed.Title, item))
	}
	return result, nil
}

func toItem(feedTitle string, item *gofeed.Item) domain.Item {
	res := domain.Item{
		Title:       strings.TrimSpace(item.Title),
		Link:        item.Link,
		Description: item.Description,
		Content:     item.Content,
	}

	// items without guid are identified by link, and by title as the last resort
	switch {
	case item.GUID != "":
		res.GUID = item.GUID
	case item.Link != "":
		res.GUID = item.Link
	default:
		res.GUID = fmt.Sprintf("%s-%s", feedTitle, res.Title)
	}

	if item.Author != nil {
		res.Author = item.Author.Name
	}

	switch {
	case item.PublishedParsed != nil:
		res.Published = item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		res.Published = item.UpdatedParsed.UTC()
	}
	return res
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	setFeedHeaders(req, p.userAgent)

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
