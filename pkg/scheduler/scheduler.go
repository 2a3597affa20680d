// Package scheduler decides on every tick which feeds are due and fetches them one by one,
// paced by an inter-feed delay. New items of successful fetches are handed to the admitter.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/time/rate"

	"github.com/umputun/feedgate/pkg/clock"
	"github.com/umputun/feedgate/pkg/domain"
	"github.com/umputun/feedgate/pkg/metrics"
)

//go:generate moq -out mocks/feed_store.go -pkg mocks -skip-ensure -fmt goimports . FeedStore
//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/admitter.go -pkg mocks -skip-ensure -fmt goimports . Admitter

// FeedStore provides and updates feed schedule state
type FeedStore interface {
	ListSchedules(ctx context.Context) ([]domain.FeedSchedule, error)
	GetFeed(ctx context.Context, id int64) (*domain.Feed, error)
	MarkFetched(ctx context.Context, feedID int64, at time.Time) error
	SetInterval(ctx context.Context, feedID int64, minutes int) error
	SetAllIntervals(ctx context.Context, minutes int) (int64, error)
}

// Fetcher fetches a feed and stores its new items
type Fetcher interface {
	Fetch(ctx context.Context, feedID int64) (domain.FetchResult, error)
}

// Admitter turns new items of a feed into an analysis job, if allowed
type Admitter interface {
	Admit(ctx context.Context, feedID int64, itemIDs []int64) (domain.AdmissionDecision, error)
}

// Params for creating a Scheduler
type Params struct {
	FeedStore FeedStore
	Fetcher   Fetcher
	Admitter  Admitter         // optional, new items are not analysed if nil
	Clock     clock.Clock      // real clock if nil
	Metrics   *metrics.Metrics // fresh unexported registry if nil

	TickInterval   time.Duration // how often due feeds are checked, default 60s
	Tolerance      time.Duration // a feed due within tolerance is fetched now, default 5m
	InterFeedDelay time.Duration // pause between two fetches, default 2s, negative for none
}

// Scheduler runs due feeds periodically
type Scheduler struct {
	store    FeedStore
	fetcher  Fetcher
	admitter Admitter
	clock    clock.Clock
	metrics  *metrics.Metrics
	limiter  *rate.Limiter

	tickInterval time.Duration
	tolerance    time.Duration

	wg     sync.WaitGroup
	stopCh chan struct{}
	once   sync.Once
}

// NewScheduler creates a new scheduler instance
func NewScheduler(params Params) *Scheduler {
	if params.TickInterval <= 0 {
		params.TickInterval = 60 * time.Second
	}
	if params.Tolerance == 0 {
		params.Tolerance = 5 * time.Minute
	}
	if params.InterFeedDelay == 0 {
		params.InterFeedDelay = 2 * time.Second
	}
	if params.Clock == nil {
		params.Clock = clock.Real{}
	}
	if params.Metrics == nil {
		params.Metrics = metrics.New()
	}

	limit := rate.Inf
	if params.InterFeedDelay > 0 {
		limit = rate.Every(params.InterFeedDelay)
	}

	return &Scheduler{
		store:        params.FeedStore,
		fetcher:      params.Fetcher,
		admitter:     params.Admitter,
		clock:        params.Clock,
		metrics:      params.Metrics,
		limiter:      rate.NewLimiter(limit, 1),
		tickInterval: params.TickInterval,
		tolerance:    max(params.Tolerance, 0),
		stopCh:       make(chan struct{}),
	}
}

// Start runs a tick immediately and then on every tick interval, until Stop or ctx cancellation.
// A batch in flight is never interrupted, cancellation only prevents the next tick.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.loop(ctx)
	lgr.Printf("[INFO] scheduler started with tick interval %v, tolerance %v", s.tickInterval, s.tolerance)
}

// Stop waits for the in-flight batch to finish and stops the loop
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	s.once.Do(func() { close(s.stopCh) })
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := s.clock.NewTicker(s.tickInterval)
	defer ticker.Stop()

	batchCtx := context.WithoutCancel(ctx)
	s.tick(batchCtx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C():
			if s.stopping(ctx) {
				return
			}
			s.tick(batchCtx)
		}
	}
}

// stopping reports whether Stop was called or ctx canceled while a tick was pending
func (s *Scheduler) stopping(ctx context.Context) bool {
	select {
	case <-s.stopCh:
		return true
	default:
		return ctx.Err() != nil
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.Tick(ctx, s.clock.Now()); err != nil {
		lgr.Printf("[ERROR] scheduler tick failed: %v", err)
	}
}

// Tick finds feeds due at now and fetches them. Returns the due set in fetch order.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) ([]int64, error) {
	s.metrics.SchedulerTicks.Inc()
	due, err := s.DueFeeds(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		lgr.Printf("[DEBUG] no feeds due at %s", now.Format(time.RFC3339))
		return due, nil
	}
	lgr.Printf("[INFO] %d feeds due", len(due))
	s.RunDueFeeds(ctx, due)
	return due, nil
}

// DueFeeds returns active feeds due at now, earliest due first. Never fetched feeds come first,
// ties are broken by feed id.
func (s *Scheduler) DueFeeds(ctx context.Context, now time.Time) ([]int64, error) {
	schedules, err := s.store.ListSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feed schedules: %w", err)
	}
	return dueOrder(schedules, now, s.tolerance), nil
}

func dueOrder(schedules []domain.FeedSchedule, now time.Time, tolerance time.Duration) []int64 {
	due := make([]domain.FeedSchedule, 0, len(schedules))
	for _, sch := range schedules {
		if sch.IsDue(now, tolerance) {
			due = append(due, sch)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		di, dj := due[i].DueAt(), due[j].DueAt()
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return due[i].FeedID < due[j].FeedID
	})

	ids := make([]int64, len(due))
	for i, sch := range due {
		ids[i] = sch.FeedID
	}
	return ids
}

// SetInterval changes the fetch interval of a feed, minutes must be within 1..1440
func (s *Scheduler) SetInterval(ctx context.Context, feedID int64, minutes int) error {
	if err := validateInterval(minutes); err != nil {
		return err
	}
	if err := s.store.SetInterval(ctx, feedID, minutes); err != nil {
		return fmt.Errorf("set interval of feed %d: %w", feedID, err)
	}
	lgr.Printf("[INFO] feed %d interval set to %d minutes", feedID, minutes)
	return nil
}

// SetGlobalInterval changes the fetch interval of all feeds, minutes must be within 1..1440
func (s *Scheduler) SetGlobalInterval(ctx context.Context, minutes int) error {
	if err := validateInterval(minutes); err != nil {
		return err
	}
	n, err := s.store.SetAllIntervals(ctx, minutes)
	if err != nil {
		return fmt.Errorf("set global interval: %w", err)
	}
	lgr.Printf("[INFO] interval of %d feeds set to %d minutes", n, minutes)
	return nil
}

func validateInterval(minutes int) error {
	if minutes < domain.MinIntervalMinutes || minutes > domain.MaxIntervalMinutes {
		return fmt.Errorf("interval %d outside %d..%d minutes: %w", minutes,
			domain.MinIntervalMinutes, domain.MaxIntervalMinutes, domain.ErrInvalidArgument)
	}
	return nil
}
