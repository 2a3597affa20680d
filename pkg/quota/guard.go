// Package quota implements the per-feed quota guard: admission limits, cost accounting,
// violation audit log and the circuit breaker that disables misbehaving feeds.
//
// Decisions read only the in-memory snapshot of a feed's quota state. Every mutation builds
// a new snapshot, writes it with an optimistic version check together with its violation
// records, and installs it only after the write succeeded.
package quota

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedgate/pkg/clock"
	"github.com/umputun/feedgate/pkg/domain"
	"github.com/umputun/feedgate/pkg/metrics"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

// Store persists quota states and violations
type Store interface {
	LoadAll(ctx context.Context) ([]*domain.QuotaState, error)
	Get(ctx context.Context, feedID int64) (*domain.QuotaState, error)
	Save(ctx context.Context, next *domain.QuotaState, violations []domain.ViolationRecord) error
	Violations(ctx context.Context, feedID int64, since time.Time, limit int) ([]domain.ViolationRecord, error)
	ViolationsSummary(ctx context.Context, since time.Time) ([]domain.ViolationSummary, error)
}

// Notifier delivers cost alerts
type Notifier interface {
	Alert(ctx context.Context, feedID int64, message string) error
}

// Params for creating a Guard
type Params struct {
	Store    Store
	Notifier Notifier         // optional, alerts are only logged if nil
	Clock    clock.Clock      // real clock if nil
	Metrics  *metrics.Metrics // fresh unexported registry if nil

	OutcomeWindow     int // job outcomes kept per feed for error rate, default 20
	MinOutcomeSamples int // outcomes needed before error rate is evaluated, default 5
	MaxWriteAttempts  int // optimistic write attempts before giving up, default 5
}

// Guard is the quota guard. It is safe for concurrent use.
type Guard struct {
	store    Store
	notifier Notifier
	clock    clock.Clock
	metrics  *metrics.Metrics

	states sync.Map // feedID -> *atomic.Pointer[domain.QuotaState]

	outcomeWindow     int
	minOutcomeSamples int
	maxWriteAttempts  int
	outcomesMu        sync.Mutex
	outcomes          map[int64][]bool
}

// New creates a quota guard. Call Load to populate it from the store.
func New(params Params) *Guard {
	g := &Guard{
		store:             params.Store,
		notifier:          params.Notifier,
		clock:             params.Clock,
		metrics:           params.Metrics,
		outcomeWindow:     params.OutcomeWindow,
		minOutcomeSamples: params.MinOutcomeSamples,
		maxWriteAttempts:  params.MaxWriteAttempts,
		outcomes:          make(map[int64][]bool),
	}
	if g.clock == nil {
		g.clock = clock.Real{}
	}
	if g.metrics == nil {
		g.metrics = metrics.New()
	}
	if g.outcomeWindow <= 0 {
		g.outcomeWindow = 20
	}
	if g.minOutcomeSamples <= 0 {
		g.minOutcomeSamples = 5
	}
	if g.minOutcomeSamples > g.outcomeWindow {
		g.minOutcomeSamples = g.outcomeWindow
	}
	if g.maxWriteAttempts <= 0 {
		g.maxWriteAttempts = 5
	}
	return g
}

// Load reads all quota rows from the store into memory, replacing current snapshots
func (g *Guard) Load(ctx context.Context) error {
	states, err := g.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load quotas: %w", err)
	}
	disabled := 0
	for _, st := range states {
		g.pointer(st.Config.FeedID).Store(st)
		if !st.Config.IsActive {
			disabled++
		}
	}
	g.metrics.DisabledFeeds.Set(float64(disabled))
	lgr.Printf("[INFO] loaded %d quota configs, %d feeds disabled", len(states), disabled)
	return nil
}

// Evaluate runs the admission checks against the current snapshot without any side effects.
// Feeds without quota config are unlimited.
func (g *Guard) Evaluate(feedID int64, itemCount int) domain.AdmissionResult {
	st := g.snapshot(feedID)
	if st == nil {
		return domain.Allow()
	}
	return decide(st, g.clock.Now(), itemCount).result
}

// CheckAdmission runs the admission checks and records a violation for every denial except an
// open circuit. A cost denial with auto-disable opens the circuit in the same write.
// Denials are results, never errors; a failed violation write is only logged.
func (g *Guard) CheckAdmission(ctx context.Context, feedID int64, itemCount int) domain.AdmissionResult {
	st := g.snapshot(feedID)
	if st == nil {
		return domain.Allow()
	}
	d := decide(st, g.clock.Now(), itemCount)
	if d.violation == nil {
		return d.result
	}

	// recompute on the state the write is based on, it may differ from the snapshot above
	result := d.result
	_, err := g.mutate(ctx, feedID, func(next *domain.QuotaState, now time.Time) ([]domain.ViolationRecord, bool) {
		d := decide(next, now, itemCount)
		result = d.result
		if d.violation == nil {
			return nil, false
		}
		if d.disable {
			next.Config.IsActive = false
		}
		return []domain.ViolationRecord{*d.violation}, true
	})
	if err != nil {
		lgr.Printf("[WARN] failed to record %s violation for feed %d: %v", result.Reason, feedID, err)
	}
	return result
}

// ReserveAdmission runs the admission checks on the state being written and, when allowed, counts
// the admission in the same versioned write. Concurrent reservations for a feed can't both pass a
// limit. Denials record violations the same way CheckAdmission does.
func (g *Guard) ReserveAdmission(ctx context.Context, feedID int64, itemCount int) (domain.Reservation, error) {
	res := domain.Reservation{FeedID: feedID}
	_, err := g.mutate(ctx, feedID, func(next *domain.QuotaState, now time.Time) ([]domain.ViolationRecord, bool) {
		res = domain.Reservation{FeedID: feedID}
		d := decide(next, now, itemCount)
		res.AdmissionResult = d.result
		if !d.result.Allowed {
			if d.violation == nil {
				return nil, false
			}
			if d.disable {
				next.Config.IsActive = false
			}
			return []domain.ViolationRecord{*d.violation}, true
		}
		if prev := next.Usage.LastAdmittedAt; prev != nil {
			p := *prev
			res.PrevAdmittedAt = &p
		}
		res.At = now
		next.Usage.HourCount++
		next.Usage.DayCount++
		next.Usage.LastAdmittedAt = &now
		return nil, true
	})
	if err != nil {
		return domain.Reservation{FeedID: feedID}, fmt.Errorf("reserve admission of feed %d: %w", feedID, err)
	}
	return res, nil
}

// ReleaseAdmission gives back an allowed reservation whose job was never enqueued. Counters of
// buckets that rolled over since are left alone, the last admission time is restored only if no
// later admission replaced it.
func (g *Guard) ReleaseAdmission(ctx context.Context, r domain.Reservation) error {
	if !r.Allowed {
		return nil
	}
	_, err := g.mutate(ctx, r.FeedID, func(next *domain.QuotaState, _ time.Time) ([]domain.ViolationRecord, bool) {
		usage, changed := &next.Usage, false
		if usage.HourStart.Equal(domain.HourBucket(r.At)) && usage.HourCount > 0 {
			usage.HourCount--
			changed = true
		}
		if usage.DayStart.Equal(domain.DayBucket(r.At)) && usage.DayCount > 0 {
			usage.DayCount--
			changed = true
		}
		if usage.LastAdmittedAt != nil && usage.LastAdmittedAt.Equal(r.At) {
			usage.LastAdmittedAt = nil
			if r.PrevAdmittedAt != nil {
				p := *r.PrevAdmittedAt
				usage.LastAdmittedAt = &p
			}
			changed = true
		}
		return nil, changed
	})
	if err != nil {
		return fmt.Errorf("release admission of feed %d: %w", r.FeedID, err)
	}
	return nil
}

// RecordCost adds the cost of a completed job to the day and month totals. Crossing the alert
// threshold of the daily limit alerts once per day; reaching a cost limit with auto-disable
// opens the circuit.
func (g *Guard) RecordCost(ctx context.Context, feedID int64, cost float64) error {
	if cost < 0 {
		return fmt.Errorf("cost %f: %w", cost, domain.ErrInvalidArgument)
	}

	var alerts []string
	_, err := g.mutate(ctx, feedID, func(next *domain.QuotaState, now time.Time) ([]domain.ViolationRecord, bool) {
		alerts = alerts[:0]
		cfg, usage := &next.Config, &next.Usage
		usage.DayCost += cost
		usage.MonthCost += cost

		var recs []domain.ViolationRecord
		if cfg.DailyCostLimit > 0 && cfg.CostAlertThresholdPct > 0 && !usage.LastAlertDay.Equal(usage.DayStart) {
			threshold := cfg.DailyCostLimit * cfg.CostAlertThresholdPct / 100
			if usage.DayCost >= threshold {
				msg := fmt.Sprintf("feed %d daily cost $%.4f crossed %.0f%% of the $%.4f limit",
					feedID, usage.DayCost, cfg.CostAlertThresholdPct, cfg.DailyCostLimit)
				v := violation(feedID, now, domain.ViolationCostLimit, cfg.DailyCostLimit, usage.DayCost,
					domain.ActionAlertSent, msg)
				v.ThresholdPct = cfg.CostAlertThresholdPct
				recs = append(recs, v)
				usage.LastAlertDay = usage.DayStart
				alerts = append(alerts, msg)
			}
		}

		if cfg.AutoDisableOnCostBreach && cfg.IsActive {
			switch {
			case cfg.DailyCostLimit > 0 && usage.DayCost >= cfg.DailyCostLimit:
				msg := fmt.Sprintf("daily cost $%.4f reached the limit of $%.4f, feed disabled", usage.DayCost, cfg.DailyCostLimit)
				recs = append(recs, violation(feedID, now, domain.ViolationCostLimit, cfg.DailyCostLimit, usage.DayCost,
					domain.ActionDisabled, msg))
				cfg.IsActive = false
			case cfg.MonthlyCostLimit > 0 && usage.MonthCost >= cfg.MonthlyCostLimit:
				msg := fmt.Sprintf("monthly cost $%.4f reached the limit of $%.4f, feed disabled", usage.MonthCost, cfg.MonthlyCostLimit)
				recs = append(recs, violation(feedID, now, domain.ViolationCostLimit, cfg.MonthlyCostLimit, usage.MonthCost,
					domain.ActionDisabled, msg))
				cfg.IsActive = false
			}
		}
		return recs, true
	})
	if err != nil {
		return fmt.Errorf("record cost of feed %d: %w", feedID, err)
	}
	g.metrics.CostUSD.Add(cost)

	for _, msg := range alerts {
		g.alert(ctx, feedID, msg)
	}
	return nil
}

// RecordErrorRateBreach opens the circuit when observedRate is above the feed's auto-disable threshold.
// Feeds without a threshold or already disabled are left unchanged.
func (g *Guard) RecordErrorRateBreach(ctx context.Context, feedID int64, observedRate float64) error {
	if observedRate < 0 || observedRate > 1 {
		return fmt.Errorf("error rate %f: %w", observedRate, domain.ErrInvalidArgument)
	}
	_, err := g.mutate(ctx, feedID, func(next *domain.QuotaState, now time.Time) ([]domain.ViolationRecord, bool) {
		threshold := next.Config.AutoDisableOnErrorRate
		if threshold == nil || !next.Config.IsActive || observedRate <= *threshold {
			return nil, false
		}
		next.Config.IsActive = false
		msg := fmt.Sprintf("error rate %.2f above %.2f, feed disabled", observedRate, *threshold)
		return []domain.ViolationRecord{violation(feedID, now, domain.ViolationErrorRate, *threshold, observedRate,
			domain.ActionDisabled, msg)}, true
	})
	if err != nil {
		return fmt.Errorf("record error rate of feed %d: %w", feedID, err)
	}
	return nil
}

// RecordOutcome adds a job outcome to the feed's rolling window and checks the failure rate
// once the window has enough samples
func (g *Guard) RecordOutcome(ctx context.Context, feedID int64, success bool) error {
	g.outcomesMu.Lock()
	window := append(g.outcomes[feedID], success)
	if len(window) > g.outcomeWindow {
		window = window[len(window)-g.outcomeWindow:]
	}
	g.outcomes[feedID] = window
	samples := len(window)
	failures := 0
	for _, ok := range window {
		if !ok {
			failures++
		}
	}
	g.outcomesMu.Unlock()

	if samples < g.minOutcomeSamples || failures == 0 {
		return nil
	}
	return g.RecordErrorRateBreach(ctx, feedID, float64(failures)/float64(samples))
}

// Reenable closes the circuit of a feed: active again and emergency stop cleared.
// Counters and violation history are kept, the outcome window starts over.
func (g *Guard) Reenable(ctx context.Context, feedID int64) error {
	if g.snapshot(feedID) == nil {
		return fmt.Errorf("reenable feed %d: %w", feedID, domain.ErrNotFound)
	}
	_, err := g.mutate(ctx, feedID, func(next *domain.QuotaState, _ time.Time) ([]domain.ViolationRecord, bool) {
		next.Config.IsActive = true
		next.Config.EmergencyStopEnabled = false
		return nil, true
	})
	if err != nil {
		return fmt.Errorf("reenable feed %d: %w", feedID, err)
	}

	g.outcomesMu.Lock()
	delete(g.outcomes, feedID)
	g.outcomesMu.Unlock()
	lgr.Printf("[INFO] feed %d re-enabled", feedID)
	return nil
}

// EmergencyStop opens the circuit of a feed manually and records it in the violation log
func (g *Guard) EmergencyStop(ctx context.Context, feedID int64) error {
	_, err := g.mutate(ctx, feedID, func(next *domain.QuotaState, now time.Time) ([]domain.ViolationRecord, bool) {
		next.Config.EmergencyStopEnabled = true
		next.Config.IsActive = false
		return []domain.ViolationRecord{violation(feedID, now, domain.ViolationCostLimit, next.Config.DailyCostLimit,
			next.Usage.DayCost, domain.ActionEmergencyStop, "emergency stop requested")}, true
	})
	if err != nil {
		return fmt.Errorf("emergency stop of feed %d: %w", feedID, err)
	}
	lgr.Printf("[WARN] emergency stop for feed %d", feedID)
	return nil
}

// SetLimits replaces the limits of a feed. Usage counters, circuit state and violation
// counters are kept; a feed without quota row gets one, active.
func (g *Guard) SetLimits(ctx context.Context, feedID int64, limits domain.QuotaConfig) error {
	if err := validateLimits(limits); err != nil {
		return err
	}
	_, err := g.mutate(ctx, feedID, func(next *domain.QuotaState, _ time.Time) ([]domain.ViolationRecord, bool) {
		cfg := &next.Config
		cfg.MaxPerDay = limits.MaxPerDay
		cfg.MaxPerHour = limits.MaxPerHour
		cfg.MinIntervalMinutes = limits.MinIntervalMinutes
		cfg.DailyCostLimit = limits.DailyCostLimit
		cfg.MonthlyCostLimit = limits.MonthlyCostLimit
		cfg.CostAlertThresholdPct = limits.CostAlertThresholdPct
		cfg.MaxItemsPerJob = limits.MaxItemsPerJob
		cfg.AutoDisableOnCostBreach = limits.AutoDisableOnCostBreach
		cfg.AutoDisableOnErrorRate = nil
		if limits.AutoDisableOnErrorRate != nil {
			v := *limits.AutoDisableOnErrorRate
			cfg.AutoDisableOnErrorRate = &v
		}
		return nil, true
	})
	if err != nil {
		return fmt.Errorf("set limits of feed %d: %w", feedID, err)
	}
	return nil
}

// Limits returns a copy of the current quota state of a feed
func (g *Guard) Limits(feedID int64) (domain.QuotaState, bool) {
	st := g.snapshot(feedID)
	if st == nil {
		return domain.QuotaState{}, false
	}
	return *st.Clone(), true
}

// Violations returns violation history of a feed since the given time, newest first
func (g *Guard) Violations(ctx context.Context, feedID int64, since time.Time) ([]domain.ViolationRecord, error) {
	recs, err := g.store.Violations(ctx, feedID, since, 0)
	if err != nil {
		return nil, fmt.Errorf("violations of feed %d: %w", feedID, err)
	}
	return recs, nil
}

// ViolationsSummary counts violations per feed and type since the given time
func (g *Guard) ViolationsSummary(ctx context.Context, since time.Time) ([]domain.ViolationSummary, error) {
	res, err := g.store.ViolationsSummary(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("violations summary: %w", err)
	}
	return res, nil
}

// mutateFn changes next in place and returns violations to append; changed=false skips the write
type mutateFn func(next *domain.QuotaState, now time.Time) (violations []domain.ViolationRecord, changed bool)

// mutate applies fn to a copy of the feed's state and writes it with an optimistic version check.
// On conflict the row is reloaded and fn runs again on the fresh state.
func (g *Guard) mutate(ctx context.Context, feedID int64, fn mutateFn) (*domain.QuotaState, error) {
	for attempt := 1; attempt <= g.maxWriteAttempts; attempt++ {
		cur := g.snapshot(feedID)
		if cur == nil {
			cur = defaultState(feedID)
		}
		now := g.clock.Now()
		next := cur.Clone()
		next.Usage.Roll(now)

		recs, changed := fn(next, now)
		if !changed {
			return cur, nil
		}
		if len(recs) > 0 {
			next.Config.ViolationsCount += len(recs)
			last := now
			next.Config.LastViolationAt = &last
		}
		next.Version = cur.Version + 1

		err := g.store.Save(ctx, next, recs)
		if err == nil {
			g.install(next)
			for _, v := range recs {
				g.metrics.Violations.WithLabelValues(string(v.ViolationType), string(v.ActionTaken)).Inc()
				lgr.Printf("[INFO] feed %d violation %s, action %s: %s", feedID, v.ViolationType, v.ActionTaken, v.Message)
			}
			return next, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, err
		}

		g.metrics.QuotaConflicts.Inc()
		lgr.Printf("[DEBUG] quota of feed %d changed concurrently, attempt %d", feedID, attempt)
		fresh, err := g.store.Get(ctx, feedID)
		if err != nil {
			return nil, fmt.Errorf("reload quota: %w", err)
		}
		g.install(fresh)
	}
	return nil, fmt.Errorf("quota of feed %d after %d attempts: %w", feedID, g.maxWriteAttempts, domain.ErrVersionConflict)
}

// install replaces the feed's snapshot unless a newer version is already installed
func (g *Guard) install(st *domain.QuotaState) {
	p := g.pointer(st.Config.FeedID)
	for {
		cur := p.Load()
		if cur != nil && cur.Version >= st.Version {
			return
		}
		if !p.CompareAndSwap(cur, st) {
			continue
		}
		wasActive := cur == nil || cur.Config.IsActive
		switch {
		case wasActive && !st.Config.IsActive:
			g.metrics.DisabledFeeds.Inc()
		case !wasActive && st.Config.IsActive:
			g.metrics.DisabledFeeds.Dec()
		}
		return
	}
}

func (g *Guard) snapshot(feedID int64) *domain.QuotaState {
	v, ok := g.states.Load(feedID)
	if !ok {
		return nil
	}
	return v.(*atomic.Pointer[domain.QuotaState]).Load()
}

func (g *Guard) pointer(feedID int64) *atomic.Pointer[domain.QuotaState] {
	if v, ok := g.states.Load(feedID); ok {
		return v.(*atomic.Pointer[domain.QuotaState])
	}
	v, _ := g.states.LoadOrStore(feedID, &atomic.Pointer[domain.QuotaState]{})
	return v.(*atomic.Pointer[domain.QuotaState])
}

func (g *Guard) alert(ctx context.Context, feedID int64, msg string) {
	if g.notifier == nil {
		lgr.Printf("[WARN] cost alert: %s", msg)
		return
	}
	if err := g.notifier.Alert(ctx, feedID, msg); err != nil {
		lgr.Printf("[WARN] failed to send cost alert for feed %d: %v", feedID, err)
	}
}

// defaultState is the state of a feed without quota row: no limits, circuit closed
func defaultState(feedID int64) *domain.QuotaState {
	return &domain.QuotaState{Config: domain.QuotaConfig{FeedID: feedID, IsActive: true, CostAlertThresholdPct: 80}}
}

func validateLimits(c domain.QuotaConfig) error {
	switch {
	case c.MaxPerDay < 0, c.MaxPerHour < 0, c.MinIntervalMinutes < 0, c.MaxItemsPerJob < 0:
		return fmt.Errorf("negative count limit: %w", domain.ErrInvalidArgument)
	case c.DailyCostLimit < 0, c.MonthlyCostLimit < 0:
		return fmt.Errorf("negative cost limit: %w", domain.ErrInvalidArgument)
	case c.CostAlertThresholdPct < 0 || c.CostAlertThresholdPct > 100:
		return fmt.Errorf("cost alert threshold %.2f outside 0..100: %w", c.CostAlertThresholdPct, domain.ErrInvalidArgument)
	case c.AutoDisableOnErrorRate != nil && (*c.AutoDisableOnErrorRate < 0 || *c.AutoDisableOnErrorRate > 1):
		return fmt.Errorf("error rate threshold %.2f outside 0..1: %w", *c.AutoDisableOnErrorRate, domain.ErrInvalidArgument)
	}
	return nil
}
