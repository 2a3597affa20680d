package domain

import "time"

// FeedStatus is the scheduling status of a feed
type FeedStatus string

// feed statuses
const (
	FeedActive FeedStatus = "active"
	FeedPaused FeedStatus = "paused"
	FeedError  FeedStatus = "error"
)

// interval bounds accepted by the scheduler, in minutes
const (
	MinIntervalMinutes = 1
	MaxIntervalMinutes = 1440
)

// Feed represents a news feed source together with its schedule state
type Feed struct {
	ID              int64
	URL             string
	Title           string
	IntervalMinutes int
	LastFetchedAt   *time.Time
	Status          FeedStatus
	CreatedAt       time.Time
}

// Schedule returns the scheduling view of the feed
func (f *Feed) Schedule() FeedSchedule {
	return FeedSchedule{FeedID: f.ID, IntervalMinutes: f.IntervalMinutes, LastFetchedAt: f.LastFetchedAt, Status: f.Status}
}

// FeedSchedule is the per-feed state the fetch scheduler works on
type FeedSchedule struct {
	FeedID          int64
	IntervalMinutes int
	LastFetchedAt   *time.Time
	Status          FeedStatus
}

// IsDue reports whether the feed should be fetched at now. Never-fetched active feeds are always due,
// paused feeds never are. tolerance absorbs tick jitter.
func (s FeedSchedule) IsDue(now time.Time, tolerance time.Duration) bool {
	if s.Status != FeedActive || s.IntervalMinutes <= 0 {
		return false
	}
	if s.LastFetchedAt == nil {
		return true
	}
	return !now.Before(s.DueAt().Add(-tolerance))
}

// DueAt is the moment the feed becomes due, zero time for never-fetched feeds
func (s FeedSchedule) DueAt() time.Time {
	if s.LastFetchedAt == nil {
		return time.Time{}
	}
	return s.LastFetchedAt.Add(time.Duration(s.IntervalMinutes) * time.Minute)
}

// FetchResult is the outcome of a single feed fetch
type FetchResult struct {
	Success    bool
	NewItemIDs []int64
}

// NewItemCount returns number of new items discovered by the fetch
func (r FetchResult) NewItemCount() int {
	return len(r.NewItemIDs)
}
