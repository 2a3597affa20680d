package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"

	"github.com/umputun/feedgate/pkg/metrics"
)

// StaleJobStore returns abandoned processing jobs to pending
type StaleJobStore interface {
	ReapStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// ReaperParams for creating a Reaper
type ReaperParams struct {
	Store      StaleJobStore
	Metrics    *metrics.Metrics
	Schedule   string        // cron spec or descriptor, default "@every 1m"
	StaleAfter time.Duration // processing jobs older than this are abandoned, default 15m
}

// Reaper periodically releases jobs whose worker died or gave up
type Reaper struct {
	store      StaleJobStore
	metrics    *metrics.Metrics
	staleAfter time.Duration
	cron       *cron.Cron
}

// NewReaper makes a reaper, the schedule is validated here
func NewReaper(params ReaperParams) (*Reaper, error) {
	if params.Schedule == "" {
		params.Schedule = "@every 1m"
	}
	if params.StaleAfter <= 0 {
		params.StaleAfter = 15 * time.Minute
	}
	if params.Metrics == nil {
		params.Metrics = metrics.New()
	}

	r := &Reaper{store: params.Store, metrics: params.Metrics, staleAfter: params.StaleAfter}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	r.cron = cron.New(cron.WithParser(parser), cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := r.cron.AddFunc(params.Schedule, func() { r.tick() }); err != nil {
		return nil, fmt.Errorf("invalid reaper schedule %q: %w", params.Schedule, err)
	}
	return r, nil
}

// Start runs the reaper schedule in background
func (r *Reaper) Start() {
	r.cron.Start()
	lgr.Printf("[INFO] stale job reaper started, threshold %v", r.staleAfter)
}

// Stop stops the schedule and waits for a running reap to finish
func (r *Reaper) Stop() {
	<-r.cron.Stop().Done()
	lgr.Printf("[INFO] stale job reaper stopped")
}

func (r *Reaper) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := r.ReapOnce(ctx); err != nil {
		lgr.Printf("[WARN] %v", err)
	}
}

// ReapOnce returns processing jobs older than the threshold to pending
func (r *Reaper) ReapOnce(ctx context.Context) (int64, error) {
	n, err := r.store.ReapStale(ctx, r.staleAfter)
	if err != nil {
		return 0, fmt.Errorf("reap stale jobs: %w", err)
	}
	if n > 0 {
		r.metrics.JobsReaped.Add(float64(n))
		lgr.Printf("[INFO] %d stale jobs returned to pending", n)
	}
	return n, nil
}
