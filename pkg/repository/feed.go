package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/feedgate/pkg/clock"
	"github.com/umputun/feedgate/pkg/domain"
)

// FeedRepository handles feed and schedule state operations
type FeedRepository struct {
	db    *sqlx.DB
	clock clock.Clock
}

// feedSQL represents a feed for SQL operations
type feedSQL struct {
	ID              int64      `db:"id"`
	URL             string     `db:"url"`
	Title           string     `db:"title"`
	IntervalMinutes int        `db:"interval_minutes"`
	LastFetchedAt   *time.Time `db:"last_fetched_at"`
	Status          string     `db:"status"`
	CreatedAt       time.Time  `db:"created_at"`
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(database *sqlx.DB, clk clock.Clock) *FeedRepository {
	return &FeedRepository{db: database, clock: clk}
}

// CreateFeed inserts a new feed. Zero interval and empty status get defaults.
func (r *FeedRepository) CreateFeed(ctx context.Context, feed *domain.Feed) error {
	if feed.IntervalMinutes == 0 {
		feed.IntervalMinutes = 30
	}
	if feed.Status == "" {
		feed.Status = domain.FeedActive
	}
	if feed.IntervalMinutes < domain.MinIntervalMinutes || feed.IntervalMinutes > domain.MaxIntervalMinutes {
		return fmt.Errorf("create feed, interval %d: %w", feed.IntervalMinutes, domain.ErrInvalidArgument)
	}
	feed.CreatedAt = r.clock.Now().UTC()

	sqlFeed := &feedSQL{
		URL:             feed.URL,
		Title:           feed.Title,
		IntervalMinutes: feed.IntervalMinutes,
		LastFetchedAt:   feed.LastFetchedAt,
		Status:          string(feed.Status),
		CreatedAt:       feed.CreatedAt,
	}

	query := `
		INSERT INTO feeds (url, title, interval_minutes, last_fetched_at, status, created_at)
		VALUES (:url, :title, :interval_minutes, :last_fetched_at, :status, :created_at)
	`
	result, err := r.db.NamedExecContext(ctx, query, sqlFeed)
	if err != nil {
		return fmt.Errorf("create feed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get insert id: %w", err)
	}

	feed.ID = id
	return nil
}

// GetFeed retrieves a feed by ID
func (r *FeedRepository) GetFeed(ctx context.Context, id int64) (*domain.Feed, error) {
	var sqlFeed feedSQL
	err := r.db.GetContext(ctx, &sqlFeed, "SELECT * FROM feeds WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get feed %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}
	return r.toDomainFeed(&sqlFeed), nil
}

// GetFeeds retrieves feeds, optionally only active ones
func (r *FeedRepository) GetFeeds(ctx context.Context, activeOnly bool) ([]*domain.Feed, error) {
	query := "SELECT * FROM feeds"
	if activeOnly {
		query += " WHERE status = 'active'"
	}
	query += " ORDER BY id"

	var sqlFeeds []feedSQL
	if err := r.db.SelectContext(ctx, &sqlFeeds, query); err != nil {
		return nil, fmt.Errorf("get feeds: %w", err)
	}

	feeds := make([]*domain.Feed, len(sqlFeeds))
	for i := range sqlFeeds {
		feeds[i] = r.toDomainFeed(&sqlFeeds[i])
	}
	return feeds, nil
}

// ListSchedules returns the schedule state of all feeds ordered by id
func (r *FeedRepository) ListSchedules(ctx context.Context) ([]domain.FeedSchedule, error) {
	var rows []feedSQL
	query := "SELECT id, interval_minutes, last_fetched_at, status FROM feeds ORDER BY id"
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}

	res := make([]domain.FeedSchedule, len(rows))
	for i := range rows {
		res[i] = r.toDomainFeed(&rows[i]).Schedule()
	}
	return res, nil
}

// MarkFetched records a fetch attempt at the given time, regardless of its outcome
func (r *FeedRepository) MarkFetched(ctx context.Context, feedID int64, at time.Time) error {
	return withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, "UPDATE feeds SET last_fetched_at = ? WHERE id = ?", at.UTC(), feedID)
		if err != nil {
			return fmt.Errorf("mark feed fetched: %w", err)
		}
		return expectAffected(res, fmt.Sprintf("feed %d", feedID))
	})
}

// SetInterval changes fetch interval of a single feed
func (r *FeedRepository) SetInterval(ctx context.Context, feedID int64, minutes int) error {
	return withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, "UPDATE feeds SET interval_minutes = ? WHERE id = ?", minutes, feedID)
		if err != nil {
			return fmt.Errorf("set feed interval: %w", err)
		}
		return expectAffected(res, fmt.Sprintf("feed %d", feedID))
	})
}

// SetAllIntervals changes fetch interval of every feed, returns number of updated feeds
func (r *FeedRepository) SetAllIntervals(ctx context.Context, minutes int) (int64, error) {
	var updated int64
	err := withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, "UPDATE feeds SET interval_minutes = ?", minutes)
		if err != nil {
			return fmt.Errorf("set all feed intervals: %w", err)
		}
		updated, err = res.RowsAffected()
		return err
	})
	return updated, err
}

// SetStatus changes scheduling status of a feed
func (r *FeedRepository) SetStatus(ctx context.Context, feedID int64, status domain.FeedStatus) error {
	switch status {
	case domain.FeedActive, domain.FeedPaused, domain.FeedError:
	default:
		return fmt.Errorf("feed status %q: %w", status, domain.ErrInvalidArgument)
	}
	res, err := r.db.ExecContext(ctx, "UPDATE feeds SET status = ? WHERE id = ?", string(status), feedID)
	if err != nil {
		return fmt.Errorf("set feed status: %w", err)
	}
	return expectAffected(res, fmt.Sprintf("feed %d", feedID))
}

// DeleteFeed removes a feed and all its items
func (r *FeedRepository) DeleteFeed(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM feeds WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete feed: %w", err)
	}
	return nil
}

func (r *FeedRepository) toDomainFeed(f *feedSQL) *domain.Feed {
	feed := &domain.Feed{
		ID:              f.ID,
		URL:             f.URL,
		Title:           f.Title,
		IntervalMinutes: f.IntervalMinutes,
		Status:          domain.FeedStatus(f.Status),
		CreatedAt:       f.CreatedAt.UTC(),
	}
	if f.LastFetchedAt != nil {
		t := f.LastFetchedAt.UTC()
		feed.LastFetchedAt = &t
	}
	return feed
}

// expectAffected turns an update touching no rows into ErrNotFound
func expectAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
