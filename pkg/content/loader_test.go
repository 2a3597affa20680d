package content

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedgate/pkg/content/mocks"
	"github.com/umputun/feedgate/pkg/domain"
)

func testJob(t *testing.T, ids ...int64) domain.PendingJob {
	t.Helper()
	payload, err := json.Marshal(domain.JobPayload{ItemIDs: ids})
	require.NoError(t, err)
	return domain.PendingJob{ID: 7, FeedID: 3, Payload: payload, Status: domain.JobProcessing}
}

func storedItems(items ...domain.Item) *mocks.ItemGetterMock {
	return &mocks.ItemGetterMock{
		GetItemsByIDsFunc: func(ctx context.Context, ids []int64) ([]domain.Item, error) {
			// storage order differs from payload order on purpose
			res := make([]domain.Item, 0, len(items))
			for i := len(items) - 1; i >= 0; i-- {
				res = append(res, items[i])
			}
			return res, nil
		},
	}
}

func TestLoader_Load(t *testing.T) {
	getter := storedItems(
		domain.Item{ID: 1, FeedID: 3, Title: "one", Content: "body one"},
		domain.Item{ID: 2, FeedID: 3, Title: "two", Content: "body two"},
	)
	loader := NewLoader(LoaderParams{Items: getter})

	input, err := loader.Load(context.Background(), testJob(t, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(7), input.JobID)
	assert.Equal(t, int64(3), input.FeedID)
	require.Len(t, input.Items, 2)
	assert.Equal(t, "one", input.Items[0].Title)
	assert.Equal(t, "two", input.Items[1].Title)

	require.Len(t, getter.GetItemsByIDsCalls(), 1)
	assert.Equal(t, []int64{1, 2}, getter.GetItemsByIDsCalls()[0].Ids)
}

func TestLoader_Load_MissingItems(t *testing.T) {
	t.Run("some gone", func(t *testing.T) {
		loader := NewLoader(LoaderParams{Items: storedItems(domain.Item{ID: 2, Title: "two"})})
		input, err := loader.Load(context.Background(), testJob(t, 1, 2, 3))
		require.NoError(t, err)
		require.Len(t, input.Items, 1)
		assert.Equal(t, int64(2), input.Items[0].ID)
	})

	t.Run("all gone", func(t *testing.T) {
		loader := NewLoader(LoaderParams{Items: storedItems()})
		_, err := loader.Load(context.Background(), testJob(t, 1, 2))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLoader_Load_BadPayload(t *testing.T) {
	loader := NewLoader(LoaderParams{Items: storedItems()})

	_, err := loader.Load(context.Background(), domain.PendingJob{ID: 1, Payload: []byte("{broken")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode payload of job 1")

	_, err = loader.Load(context.Background(), testJob(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLoader_Load_StoreError(t *testing.T) {
	getter := &mocks.ItemGetterMock{
		GetItemsByIDsFunc: func(ctx context.Context, ids []int64) ([]domain.Item, error) {
			return nil, errors.New("db is down")
		},
	}
	_, err := NewLoader(LoaderParams{Items: getter}).Load(context.Background(), testJob(t, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db is down")
}

func TestLoader_Load_Extraction(t *testing.T) {
	getter := storedItems(
		domain.Item{ID: 1, Link: "https://example.com/1", Description: "summary one"},
		domain.Item{ID: 2, Link: "https://example.com/2", Content: "already here"},
		domain.Item{ID: 3, Link: "https://example.com/3", Description: "summary three"},
		domain.Item{ID: 4, Description: "no link"},
	)
	extractor := &mocks.ExtractorMock{
		ExtractFunc: func(ctx context.Context, url string) (string, error) {
			if url == "https://example.com/3" {
				return "", errors.New("blocked")
			}
			return "full text of " + url, nil
		},
	}
	loader := NewLoader(LoaderParams{Items: getter, Extractor: extractor, MaxConcurrent: 2})

	input, err := loader.Load(context.Background(), testJob(t, 1, 2, 3, 4))
	require.NoError(t, err)
	require.Len(t, input.Items, 4)
	assert.Equal(t, "full text of https://example.com/1", input.Items[0].Content)
	assert.Equal(t, "already here", input.Items[1].Content)
	assert.Empty(t, input.Items[2].Content, "failed extraction keeps the item without content")
	assert.Equal(t, "summary three", input.Items[2].Description)
	assert.Empty(t, input.Items[3].Content)
	assert.Len(t, extractor.ExtractCalls(), 2)
}

func TestLoader_Load_ExtractionConcurrency(t *testing.T) {
	items := make([]domain.Item, 0, 10)
	ids := make([]int64, 0, 10)
	for i := int64(1); i <= 10; i++ {
		items = append(items, domain.Item{ID: i, Link: "https://example.com/x"})
		ids = append(ids, i)
	}
	var active, peak int32
	extractor := &mocks.ExtractorMock{
		ExtractFunc: func(ctx context.Context, url string) (string, error) {
			n := atomic.AddInt32(&active, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return "text", nil
		},
	}
	loader := NewLoader(LoaderParams{Items: storedItems(items...), Extractor: extractor, MaxConcurrent: 3})

	input, err := loader.Load(context.Background(), testJob(t, ids...))
	require.NoError(t, err)
	assert.Len(t, input.Items, 10)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	assert.Len(t, extractor.ExtractCalls(), 10)
}

func TestLoader_Load_Canceled(t *testing.T) {
	getter := storedItems(domain.Item{ID: 1, Link: "https://example.com/1"})
	extractor := &mocks.ExtractorMock{
		ExtractFunc: func(ctx context.Context, url string) (string, error) {
			return "", ctx.Err()
		},
	}
	loader := NewLoader(LoaderParams{Items: getter, Extractor: extractor})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := loader.Load(ctx, testJob(t, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLoader_Defaults(t *testing.T) {
	l := NewLoader(LoaderParams{})
	assert.Equal(t, 5, l.workers)
	assert.Nil(t, l.extractor)

	l = NewLoader(LoaderParams{MaxConcurrent: 2, RateLimit: 100 * time.Millisecond})
	assert.Equal(t, 2, l.workers)
	assert.InDelta(t, 10.0, float64(l.limiter.Limit()), 0.001)
}
