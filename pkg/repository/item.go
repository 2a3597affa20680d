package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/umputun/feedgate/pkg/clock"
	"github.com/umputun/feedgate/pkg/domain"
)

// ItemRepository handles item-related database operations
type ItemRepository struct {
	db    *sqlx.DB
	clock clock.Clock
}

// itemSQL represents an item for SQL operations
type itemSQL struct {
	ID          int64      `db:"id"`
	FeedID      int64      `db:"feed_id"`
	GUID        string     `db:"guid"`
	Title       string     `db:"title"`
	Link        string     `db:"link"`
	Description string     `db:"description"`
	Content     string     `db:"content"`
	Author      string     `db:"author"`
	Published   *time.Time `db:"published"`
	CreatedAt   time.Time  `db:"created_at"`
}

// NewItemRepository creates a new item repository
func NewItemRepository(database *sqlx.DB, clk clock.Clock) *ItemRepository {
	return &ItemRepository{db: database, clock: clk}
}

// CreateItems stores fetched items of a feed, skipping ones already known by (feed_id, guid).
// Returns ids of the items actually inserted, in input order.
func (r *ItemRepository) CreateItems(ctx context.Context, feedID int64, items []domain.Item) ([]int64, error) {
	if len(items) == 0 {
		return nil, nil
	}
	now := r.clock.Now().UTC()

	var ids []int64
	err := withLockRetry(ctx, func() error {
		ids = ids[:0]
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		query := `
			INSERT OR IGNORE INTO items (feed_id, guid, title, link, description, content, author, published, created_at)
			VALUES (:feed_id, :guid, :title, :link, :description, :content, :author, :published, :created_at)
		`
		for _, item := range items {
			row := itemSQL{
				FeedID:      feedID,
				GUID:        item.GUID,
				Title:       item.Title,
				Link:        item.Link,
				Description: item.Description,
				Content:     item.Content,
				Author:      item.Author,
				CreatedAt:   now,
			}
			if !item.Published.IsZero() {
				published := item.Published.UTC()
				row.Published = &published
			}
			res, err := tx.NamedExecContext(ctx, query, row)
			if err != nil {
				return fmt.Errorf("insert item %q: %w", item.GUID, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				continue // duplicate guid
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("get insert id: %w", err)
			}
			ids = append(ids, id)
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, fmt.Errorf("create items: %w", err)
	}
	return ids, nil
}

// GetItemsByIDs returns items with the given ids ordered by id, unknown ids are skipped
func (r *ItemRepository) GetItemsByIDs(ctx context.Context, ids []int64) ([]domain.Item, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return []domain.Item{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM items WHERE id IN (?) ORDER BY id", ids)
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}

	var rows []itemSQL
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("get items by ids: %w", err)
	}
	return lo.Map(rows, func(row itemSQL, _ int) domain.Item { return r.toDomainItem(&row) }), nil
}

// GetItems returns the most recent items of a feed
func (r *ItemRepository) GetItems(ctx context.Context, feedID int64, limit int) ([]domain.Item, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []itemSQL
	query := "SELECT * FROM items WHERE feed_id = ? ORDER BY id DESC LIMIT ?"
	if err := r.db.SelectContext(ctx, &rows, query, feedID, limit); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return lo.Map(rows, func(row itemSQL, _ int) domain.Item { return r.toDomainItem(&row) }), nil
}

func (r *ItemRepository) toDomainItem(i *itemSQL) domain.Item {
	item := domain.Item{
		ID:          i.ID,
		FeedID:      i.FeedID,
		GUID:        i.GUID,
		Title:       i.Title,
		Link:        i.Link,
		Description: i.Description,
		Content:     i.Content,
		Author:      i.Author,
		CreatedAt:   i.CreatedAt.UTC(),
	}
	if i.Published != nil {
		item.Published = i.Published.UTC()
	}
	return item
}
