package scheduler

import (
	"context"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedgate/pkg/domain"
)

// RunDueFeeds fetches feeds sequentially, paced by the inter-feed delay. Every attempt is
// recorded as the feed's last fetch, failures and panics of one feed don't stop the batch.
func (s *Scheduler) RunDueFeeds(ctx context.Context, feedIDs []int64) {
	var failed int
	for i, id := range feedIDs {
		if err := s.limiter.Wait(ctx); err != nil {
			lgr.Printf("[WARN] feed batch interrupted, %d feeds left: %v", len(feedIDs)-i, err)
			return
		}
		if err := s.runFeed(ctx, id); err != nil {
			failed++
			lgr.Printf("[WARN] feed %d: %v", id, err)
		}
	}
	lgr.Printf("[INFO] feed batch completed, %d fetched, %d failed", len(feedIDs)-failed, failed)
}

// FetchNow fetches a single feed out of schedule, sharing the pacing of the batches
func (s *Scheduler) FetchNow(ctx context.Context, feedID int64) error {
	if _, err := s.store.GetFeed(ctx, feedID); err != nil {
		return fmt.Errorf("fetch feed %d: %w", feedID, err)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for fetch slot: %w", err)
	}
	return s.runFeed(ctx, feedID)
}

// runFeed fetches one feed, marks it fetched and forwards new items to the admitter
func (s *Scheduler) runFeed(ctx context.Context, feedID int64) (err error) {
	start := s.clock.Now()
	defer func() {
		// recorded even if the caller gave up on the fetch
		if err := s.store.MarkFetched(context.WithoutCancel(ctx), feedID, start); err != nil {
			lgr.Printf("[ERROR] failed to mark feed %d fetched: %v", feedID, err)
		}
	}()

	res, err := s.safeFetch(ctx, feedID)
	s.metrics.FetchDuration.Observe(s.clock.Now().Sub(start).Seconds())
	if err != nil {
		return err
	}
	if !res.Success {
		s.metrics.FeedFetches.WithLabelValues("failure").Inc()
		return fmt.Errorf("fetch reported failure")
	}
	s.metrics.FeedFetches.WithLabelValues("success").Inc()

	if res.NewItemCount() == 0 || s.admitter == nil {
		lgr.Printf("[DEBUG] feed %d fetched, %d new items", feedID, res.NewItemCount())
		return nil
	}

	decision, err := s.admitter.Admit(ctx, feedID, res.NewItemIDs)
	if err != nil {
		// fetch itself succeeded, admission failure is only logged
		lgr.Printf("[ERROR] admission of %d items from feed %d failed: %v", res.NewItemCount(), feedID, err)
		return nil
	}
	switch {
	case decision.Admitted:
		lgr.Printf("[INFO] feed %d, %d new items, job %d enqueued", feedID, res.NewItemCount(), decision.JobID)
	case decision.Shadow:
		lgr.Printf("[DEBUG] feed %d, %d new items, shadow decision %s", feedID, res.NewItemCount(),
			shadowOutcome(decision))
	default:
		lgr.Printf("[INFO] feed %d, %d new items, not admitted: %s %s", feedID, res.NewItemCount(),
			decision.Reason, decision.Message)
	}
	return nil
}

// safeFetch calls the fetcher, turning a panic into an error
func (s *Scheduler) safeFetch(ctx context.Context, feedID int64) (res domain.FetchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.FeedFetches.WithLabelValues("panic").Inc()
			err = fmt.Errorf("fetch panic: %v", r)
		}
	}()
	res, err = s.fetcher.Fetch(ctx, feedID)
	if err != nil {
		s.metrics.FeedFetches.WithLabelValues("failure").Inc()
		return res, fmt.Errorf("fetch: %w", err)
	}
	return res, nil
}

func shadowOutcome(d domain.AdmissionDecision) string {
	if d.Reason == domain.ReasonNone {
		return "allowed"
	}
	return string(d.Reason)
}
