package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/umputun/feedgate/pkg/domain"
)

//go:generate moq -out mocks/item_getter.go -pkg mocks -skip-ensure -fmt goimports . ItemGetter
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

// ItemGetter reads stored items by id
type ItemGetter interface {
	GetItemsByIDs(ctx context.Context, ids []int64) ([]domain.Item, error)
}

// Extractor pulls article text from a page URL
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// LoaderParams configures a Loader
type LoaderParams struct {
	Items         ItemGetter
	Extractor     Extractor     // optional, nil disables extraction
	MaxConcurrent int           // parallel extractions per job, default 5
	RateLimit     time.Duration // minimal delay between extraction starts, 0 for none
}

// Loader resolves a queued job into the items it analyses
type Loader struct {
	items     ItemGetter
	extractor Extractor
	workers   int
	limiter   *rate.Limiter
}

// NewLoader makes a Loader with defaults applied
func NewLoader(params LoaderParams) *Loader {
	workers := params.MaxConcurrent
	if workers <= 0 {
		workers = 5
	}
	limit := rate.Inf
	if params.RateLimit > 0 {
		limit = rate.Every(params.RateLimit)
	}
	return &Loader{
		items:     params.Items,
		extractor: params.Extractor,
		workers:   workers,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Load decodes the job payload and returns the job items in payload order. Ids no longer present
// in storage are skipped; a job whose items are all gone fails with domain.ErrNotFound.
func (l *Loader) Load(ctx context.Context, job domain.PendingJob) (domain.AnalysisInput, error) {
	var payload domain.JobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return domain.AnalysisInput{}, fmt.Errorf("decode payload of job %d: %w", job.ID, err)
	}
	if len(payload.ItemIDs) == 0 {
		return domain.AnalysisInput{}, fmt.Errorf("job %d has no items: %w", job.ID, domain.ErrInvalidArgument)
	}

	stored, err := l.items.GetItemsByIDs(ctx, payload.ItemIDs)
	if err != nil {
		return domain.AnalysisInput{}, fmt.Errorf("get items of job %d: %w", job.ID, err)
	}

	byID := make(map[int64]domain.Item, len(stored))
	for _, item := range stored {
		byID[item.ID] = item
	}
	items := make([]domain.Item, 0, len(payload.ItemIDs))
	for _, id := range payload.ItemIDs {
		if item, ok := byID[id]; ok {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return domain.AnalysisInput{}, fmt.Errorf("items of job %d: %w", job.ID, domain.ErrNotFound)
	}
	if missing := len(payload.ItemIDs) - len(items); missing > 0 {
		lgr.Printf("[WARN] job %d: %d of %d items no longer stored", job.ID, missing, len(payload.ItemIDs))
	}

	if err := l.enrich(ctx, items); err != nil {
		return domain.AnalysisInput{}, err
	}
	return domain.AnalysisInput{JobID: job.ID, FeedID: job.FeedID, Items: items}, nil
}

// enrich fills empty item content from the linked pages. Extraction failures keep the feed
// description, only a canceled context aborts the load.
func (l *Loader) enrich(ctx context.Context, items []domain.Item) error {
	if l.extractor == nil {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i := range items {
		if items[i].Content != "" || items[i].Link == "" {
			continue
		}
		g.Go(func() error {
			if err := l.limiter.Wait(gctx); err != nil {
				return fmt.Errorf("extraction pacing: %w", err)
			}
			text, err := l.extractor.Extract(gctx, items[i].Link)
			if err != nil {
				if gctx.Err() != nil {
					return fmt.Errorf("extract %s: %w", items[i].Link, gctx.Err())
				}
				lgr.Printf("[DEBUG] extraction for item %d failed: %v", items[i].ID, err)
				return nil
			}
			items[i].Content = text
			return nil
		})
	}
	return g.Wait()
}
