package quota

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedgate/pkg/clock"
	"github.com/umputun/feedgate/pkg/domain"
	"github.com/umputun/feedgate/pkg/metrics"
	"github.com/umputun/feedgate/pkg/quota/mocks"
)

var testNow = time.Date(2025, 5, 14, 10, 30, 0, 0, time.UTC)

// memStore is an in-memory quota store with the same version semantics as the sql one
type memStore struct {
	mu         sync.Mutex
	rows       map[int64]*domain.QuotaState
	violations []domain.ViolationRecord
}

func newMemStore(states ...*domain.QuotaState) (*memStore, *mocks.StoreMock) {
	ms := &memStore{rows: make(map[int64]*domain.QuotaState)}
	for _, st := range states {
		ms.rows[st.Config.FeedID] = st.Clone()
	}
	mock := &mocks.StoreMock{
		LoadAllFunc: func(ctx context.Context) ([]*domain.QuotaState, error) {
			ms.mu.Lock()
			defer ms.mu.Unlock()
			res := make([]*domain.QuotaState, 0, len(ms.rows))
			for _, st := range ms.rows {
				res = append(res, st.Clone())
			}
			return res, nil
		},
		GetFunc: func(ctx context.Context, feedID int64) (*domain.QuotaState, error) {
			ms.mu.Lock()
			defer ms.mu.Unlock()
			st, ok := ms.rows[feedID]
			if !ok {
				return nil, domain.ErrNotFound
			}
			return st.Clone(), nil
		},
		SaveFunc: func(ctx context.Context, next *domain.QuotaState, violations []domain.ViolationRecord) error {
			ms.mu.Lock()
			defer ms.mu.Unlock()
			cur, ok := ms.rows[next.Config.FeedID]
			if (!ok && next.Version != 1) || (ok && cur.Version != next.Version-1) {
				return domain.ErrVersionConflict
			}
			ms.rows[next.Config.FeedID] = next.Clone()
			for _, v := range violations {
				v.ID = int64(len(ms.violations) + 1)
				ms.violations = append(ms.violations, v)
			}
			return nil
		},
		ViolationsFunc: func(ctx context.Context, feedID int64, since time.Time, limit int) ([]domain.ViolationRecord, error) {
			ms.mu.Lock()
			defer ms.mu.Unlock()
			var res []domain.ViolationRecord
			for _, v := range ms.violations {
				if v.FeedID == feedID && !v.OccurredAt.Before(since) {
					res = append(res, v)
				}
			}
			return res, nil
		},
		ViolationsSummaryFunc: func(ctx context.Context, since time.Time) ([]domain.ViolationSummary, error) {
			return nil, nil
		},
	}
	return ms, mock
}

func (ms *memStore) violationCount(feedID int64) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	n := 0
	for _, v := range ms.violations {
		if v.FeedID == feedID {
			n++
		}
	}
	return n
}

func (ms *memStore) lastViolation() domain.ViolationRecord {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.violations[len(ms.violations)-1]
}

func quotaState(cfg domain.QuotaConfig) *domain.QuotaState {
	cfg.IsActive = true
	st := &domain.QuotaState{Config: cfg, Version: 1}
	st.Usage.Roll(testNow)
	return st
}

func newTestGuard(t *testing.T, states ...*domain.QuotaState) (*Guard, *memStore, *mocks.StoreMock, *clock.Mock) {
	t.Helper()
	ms, store := newMemStore(states...)
	clk := clock.NewMock(testNow)
	g := New(Params{Store: store, Clock: clk, Metrics: metrics.New()})
	require.NoError(t, g.Load(context.Background()))
	return g, ms, store, clk
}

func TestGuard_CheckAdmission_Pipeline(t *testing.T) {
	lastAdmitted := testNow.Add(-5 * time.Minute)
	rate := 0.5

	tests := []struct {
		name      string
		setup     func(st *domain.QuotaState)
		items     int
		reason    domain.DenyReason
		violation domain.ViolationType
		action    domain.ActionTaken
	}{
		{name: "no limits", setup: func(st *domain.QuotaState) {}, items: 1000},
		{name: "inactive", setup: func(st *domain.QuotaState) { st.Config.IsActive = false }, items: 1,
			reason: domain.ReasonCircuitOpen},
		{name: "emergency stop", setup: func(st *domain.QuotaState) { st.Config.EmergencyStopEnabled = true }, items: 1,
			reason: domain.ReasonCircuitOpen},
		{name: "circuit open wins over daily limit", setup: func(st *domain.QuotaState) {
			st.Config.IsActive, st.Config.MaxPerDay, st.Usage.DayCount = false, 1, 1
		}, items: 1, reason: domain.ReasonCircuitOpen},
		{name: "daily limit", setup: func(st *domain.QuotaState) {
			st.Config.MaxPerDay, st.Usage.DayCount = 3, 3
		}, items: 1, reason: domain.ReasonFrequencyLimit, violation: domain.ViolationFrequencyLimit,
			action: domain.ActionQueueBlocked},
		{name: "daily limit wins over hourly", setup: func(st *domain.QuotaState) {
			st.Config.MaxPerDay, st.Usage.DayCount = 3, 3
			st.Config.MaxPerHour, st.Usage.HourCount = 1, 3
		}, items: 1, reason: domain.ReasonFrequencyLimit, violation: domain.ViolationFrequencyLimit,
			action: domain.ActionQueueBlocked},
		{name: "hourly limit", setup: func(st *domain.QuotaState) {
			st.Config.MaxPerHour, st.Usage.HourCount = 2, 2
		}, items: 1, reason: domain.ReasonFrequencyLimit, violation: domain.ViolationFrequencyLimit,
			action: domain.ActionLogged},
		{name: "stale hour bucket reads zero", setup: func(st *domain.QuotaState) {
			st.Config.MaxPerHour, st.Usage.HourCount = 2, 2
			st.Usage.HourStart = st.Usage.HourStart.Add(-time.Hour)
		}, items: 1},
		{name: "min interval", setup: func(st *domain.QuotaState) {
			st.Config.MinIntervalMinutes = 10
			st.Usage.LastAdmittedAt = &lastAdmitted
		}, items: 1, reason: domain.ReasonIntervalLimit, violation: domain.ViolationIntervalLimit,
			action: domain.ActionLogged},
		{name: "min interval passed", setup: func(st *domain.QuotaState) {
			st.Config.MinIntervalMinutes = 5
			st.Usage.LastAdmittedAt = &lastAdmitted
		}, items: 1},
		{name: "item limit", setup: func(st *domain.QuotaState) { st.Config.MaxItemsPerJob = 10 }, items: 11,
			reason: domain.ReasonItemLimit, violation: domain.ViolationItemLimit, action: domain.ActionLogged},
		{name: "item limit exact", setup: func(st *domain.QuotaState) { st.Config.MaxItemsPerJob = 10 }, items: 10},
		{name: "daily cost", setup: func(st *domain.QuotaState) {
			st.Config.DailyCostLimit, st.Usage.DayCost = 2, 2
			st.Config.AutoDisableOnErrorRate = &rate
		}, items: 1, reason: domain.ReasonCostLimit, violation: domain.ViolationCostLimit, action: domain.ActionLogged},
		{name: "daily cost with auto disable", setup: func(st *domain.QuotaState) {
			st.Config.DailyCostLimit, st.Usage.DayCost = 2, 2.5
			st.Config.AutoDisableOnCostBreach = true
		}, items: 1, reason: domain.ReasonCostLimit, violation: domain.ViolationCostLimit, action: domain.ActionDisabled},
		{name: "monthly cost", setup: func(st *domain.QuotaState) {
			st.Config.MonthlyCostLimit, st.Usage.MonthCost = 20, 21
		}, items: 1, reason: domain.ReasonCostLimit, violation: domain.ViolationCostLimit, action: domain.ActionLogged},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := quotaState(domain.QuotaConfig{FeedID: 1})
			tc.setup(st)
			g, ms, _, _ := newTestGuard(t, st)

			res := g.CheckAdmission(context.Background(), 1, tc.items)
			if tc.reason == domain.ReasonNone {
				assert.True(t, res.Allowed)
				assert.Equal(t, 0, ms.violationCount(1))
				return
			}
			assert.False(t, res.Allowed)
			assert.Equal(t, tc.reason, res.Reason)
			assert.NotEmpty(t, res.Message)

			if tc.violation == "" {
				assert.Equal(t, 0, ms.violationCount(1), "open circuit is not a new violation")
				return
			}
			require.Equal(t, 1, ms.violationCount(1))
			v := ms.lastViolation()
			assert.Equal(t, tc.violation, v.ViolationType)
			assert.Equal(t, tc.action, v.ActionTaken)
			assert.Equal(t, testNow, v.OccurredAt)

			limits, ok := g.Limits(1)
			require.True(t, ok)
			assert.Equal(t, 1, limits.Config.ViolationsCount)
			assert.Equal(t, tc.action != domain.ActionDisabled, limits.Config.IsActive)
		})
	}
}

func TestGuard_UnknownFeedIsUnlimited(t *testing.T) {
	g, _, store, _ := newTestGuard(t)
	res := g.CheckAdmission(context.Background(), 99, 500)
	assert.True(t, res.Allowed)
	assert.Empty(t, store.SaveCalls())
	_, ok := g.Limits(99)
	assert.False(t, ok)
}

func TestGuard_MaxPerDay(t *testing.T) {
	g, ms, _, clk := newTestGuard(t, quotaState(domain.QuotaConfig{FeedID: 3, MaxPerDay: 5}))
	ctx := context.Background()

	for i := range 5 {
		res, err := g.ReserveAdmission(ctx, 3, 1)
		require.NoError(t, err)
		require.True(t, res.Allowed, "admission %d", i+1)
		clk.Add(time.Minute)
	}

	res := g.CheckAdmission(ctx, 3, 1)
	assert.False(t, res.Allowed)
	assert.Equal(t, domain.ReasonFrequencyLimit, res.Reason)
	assert.Equal(t, 1, ms.violationCount(3), "exactly one violation appended")

	// next day the bucket starts over
	clk.Add(24 * time.Hour)
	assert.True(t, g.CheckAdmission(ctx, 3, 1).Allowed)
}

func TestGuard_EvaluateHasNoSideEffects(t *testing.T) {
	st := quotaState(domain.QuotaConfig{FeedID: 4, MaxPerHour: 1})
	st.Usage.HourCount = 1
	g, ms, store, _ := newTestGuard(t, st)

	first := g.Evaluate(4, 1)
	second := g.Evaluate(4, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, domain.ReasonFrequencyLimit, first.Reason)
	assert.Empty(t, store.SaveCalls())
	assert.Equal(t, 0, ms.violationCount(4))

	// check records a violation but returns the same answer every time
	ctx := context.Background()
	assert.Equal(t, first, g.CheckAdmission(ctx, 4, 1))
	assert.Equal(t, first, g.CheckAdmission(ctx, 4, 1))
	assert.Equal(t, 2, ms.violationCount(4))
}

func TestGuard_CostBreachDisablesFeed(t *testing.T) {
	ms, store := newMemStore(quotaState(domain.QuotaConfig{FeedID: 42, DailyCostLimit: 1.00,
		AutoDisableOnCostBreach: true, CostAlertThresholdPct: 80}))
	notifier := &mocks.NotifierMock{AlertFunc: func(ctx context.Context, feedID int64, message string) error { return nil }}
	m := metrics.New()
	g := New(Params{Store: store, Notifier: notifier, Clock: clock.NewMock(testNow), Metrics: m})
	ctx := context.Background()
	require.NoError(t, g.Load(ctx))

	r, err := g.ReserveAdmission(ctx, 42, 1)
	require.NoError(t, err)
	require.True(t, r.Allowed)
	require.NoError(t, g.RecordCost(ctx, 42, 1.00))

	res := g.CheckAdmission(ctx, 42, 1)
	assert.False(t, res.Allowed)
	assert.Equal(t, domain.ReasonCircuitOpen, res.Reason)

	limits, ok := g.Limits(42)
	require.True(t, ok)
	assert.False(t, limits.Config.IsActive)
	assert.InDelta(t, 1.0, limits.Usage.DayCost, 0.0001)

	// alert and disable are recorded independently
	require.Len(t, notifier.AlertCalls(), 1)
	assert.Equal(t, int64(42), notifier.AlertCalls()[0].FeedID)
	assert.Equal(t, 2, ms.violationCount(42))
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.DisabledFeeds), 0.001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.CostUSD), 0.001)

	// the stored row agrees with memory
	stored, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, stored.Config.IsActive)
	assert.Equal(t, limits.Version, stored.Version)
}

func TestGuard_RecordCost_AlertOncePerDay(t *testing.T) {
	ms, store := newMemStore(quotaState(domain.QuotaConfig{FeedID: 5, DailyCostLimit: 10, CostAlertThresholdPct: 50}))
	notifier := &mocks.NotifierMock{AlertFunc: func(ctx context.Context, feedID int64, message string) error {
		return errors.New("smtp down")
	}}
	clk := clock.NewMock(testNow)
	g := New(Params{Store: store, Notifier: notifier, Clock: clk})
	ctx := context.Background()
	require.NoError(t, g.Load(ctx))

	require.NoError(t, g.RecordCost(ctx, 5, 4))
	assert.Empty(t, notifier.AlertCalls())

	require.NoError(t, g.RecordCost(ctx, 5, 2), "notifier failure does not fail the call")
	require.NoError(t, g.RecordCost(ctx, 5, 1))
	assert.Len(t, notifier.AlertCalls(), 1)
	assert.Equal(t, 1, ms.violationCount(5))
	v := ms.lastViolation()
	assert.Equal(t, domain.ActionAlertSent, v.ActionTaken)
	assert.InDelta(t, 50.0, v.ThresholdPct, 0.001)

	// over the limit without auto-disable: denied by the cost check, circuit stays closed
	require.NoError(t, g.RecordCost(ctx, 5, 5))
	limits, _ := g.Limits(5)
	assert.True(t, limits.Config.IsActive)
	assert.Equal(t, domain.ReasonCostLimit, g.Evaluate(5, 1).Reason)

	clk.Add(24 * time.Hour)
	assert.True(t, g.Evaluate(5, 1).Allowed, "new day, new budget")
	require.NoError(t, g.RecordCost(ctx, 5, 6))
	assert.Len(t, notifier.AlertCalls(), 2, "alert again on the next day")

	limits, _ = g.Limits(5)
	assert.InDelta(t, 6.0, limits.Usage.DayCost, 0.0001)
	assert.InDelta(t, 18.0, limits.Usage.MonthCost, 0.0001)

	err := g.RecordCost(ctx, 5, -1)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestGuard_MonthlyCostBreach(t *testing.T) {
	st := quotaState(domain.QuotaConfig{FeedID: 6, MonthlyCostLimit: 3, AutoDisableOnCostBreach: true})
	g, ms, _, _ := newTestGuard(t, st)
	ctx := context.Background()

	require.NoError(t, g.RecordCost(ctx, 6, 2))
	assert.True(t, g.Evaluate(6, 1).Allowed)
	require.NoError(t, g.RecordCost(ctx, 6, 1))
	assert.Equal(t, domain.ReasonCircuitOpen, g.Evaluate(6, 1).Reason)
	assert.Equal(t, domain.ActionDisabled, ms.lastViolation().ActionTaken)
}

func TestGuard_ErrorRate(t *testing.T) {
	threshold := 0.5
	g, ms, _, _ := newTestGuard(t, quotaState(domain.QuotaConfig{FeedID: 7, AutoDisableOnErrorRate: &threshold}))
	ctx := context.Background()

	require.NoError(t, g.RecordErrorRateBreach(ctx, 7, 0.5), "equal to threshold is not a breach")
	assert.True(t, g.Evaluate(7, 1).Allowed)

	require.NoError(t, g.RecordErrorRateBreach(ctx, 7, 0.75))
	assert.Equal(t, domain.ReasonCircuitOpen, g.Evaluate(7, 1).Reason)
	require.Equal(t, 1, ms.violationCount(7))
	v := ms.lastViolation()
	assert.Equal(t, domain.ViolationErrorRate, v.ViolationType)
	assert.Equal(t, domain.ActionDisabled, v.ActionTaken)
	assert.InDelta(t, 0.75, v.ActualValue, 0.0001)

	require.NoError(t, g.RecordErrorRateBreach(ctx, 7, 0.9))
	assert.Equal(t, 1, ms.violationCount(7), "already disabled feed is not disabled twice")

	require.ErrorIs(t, g.RecordErrorRateBreach(ctx, 7, 1.5), domain.ErrInvalidArgument)

	// feeds without threshold are never tripped and never written
	require.NoError(t, g.RecordErrorRateBreach(ctx, 100, 1))
	_, ok := g.Limits(100)
	assert.False(t, ok)
}

func TestGuard_RecordOutcome(t *testing.T) {
	threshold := 0.5
	ms, store := newMemStore(quotaState(domain.QuotaConfig{FeedID: 8, AutoDisableOnErrorRate: &threshold}))
	g := New(Params{Store: store, Clock: clock.NewMock(testNow), OutcomeWindow: 6, MinOutcomeSamples: 4})
	ctx := context.Background()
	require.NoError(t, g.Load(ctx))

	// three failures, below min samples
	for range 3 {
		require.NoError(t, g.RecordOutcome(ctx, 8, false))
	}
	assert.True(t, g.Evaluate(8, 1).Allowed)

	// 3 of 4 failed
	require.NoError(t, g.RecordOutcome(ctx, 8, true))
	assert.Equal(t, domain.ReasonCircuitOpen, g.Evaluate(8, 1).Reason)
	assert.Equal(t, 1, ms.violationCount(8))

	// re-enable starts a new window
	require.NoError(t, g.Reenable(ctx, 8))
	for range 3 {
		require.NoError(t, g.RecordOutcome(ctx, 8, true))
	}
	require.NoError(t, g.RecordOutcome(ctx, 8, false))
	assert.True(t, g.Evaluate(8, 1).Allowed, "1 of 4 failed")

	// window keeps the last 6 outcomes only: 3 ok + 3 failed = 0.5, not above threshold
	for range 2 {
		require.NoError(t, g.RecordOutcome(ctx, 8, false))
	}
	assert.True(t, g.Evaluate(8, 1).Allowed)
	require.NoError(t, g.RecordOutcome(ctx, 8, false)) // ok,ok,fail,fail,fail,fail
	assert.Equal(t, domain.ReasonCircuitOpen, g.Evaluate(8, 1).Reason)
}

func TestGuard_ReenableAndEmergencyStop(t *testing.T) {
	st := quotaState(domain.QuotaConfig{FeedID: 9, MaxPerDay: 10})
	st.Usage.DayCount = 4
	g, ms, _, _ := newTestGuard(t, st)
	ctx := context.Background()

	require.NoError(t, g.EmergencyStop(ctx, 9))
	res := g.CheckAdmission(ctx, 9, 1)
	assert.Equal(t, domain.ReasonCircuitOpen, res.Reason)
	require.Equal(t, 1, ms.violationCount(9))
	assert.Equal(t, domain.ActionEmergencyStop, ms.lastViolation().ActionTaken)

	require.NoError(t, g.Reenable(ctx, 9))
	assert.True(t, g.CheckAdmission(ctx, 9, 1).Allowed)

	limits, ok := g.Limits(9)
	require.True(t, ok)
	assert.True(t, limits.Config.IsActive)
	assert.False(t, limits.Config.EmergencyStopEnabled)
	assert.Equal(t, 4, limits.Usage.DayCount, "counters kept")
	assert.Equal(t, 1, limits.Config.ViolationsCount, "history kept")
	assert.Equal(t, 1, ms.violationCount(9))

	err := g.Reenable(ctx, 12345)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGuard_SetLimits(t *testing.T) {
	st := quotaState(domain.QuotaConfig{FeedID: 10, MaxPerDay: 2})
	st.Usage.DayCount = 2
	st.Config.IsActive = false
	g, _, _, _ := newTestGuard(t, st)
	ctx := context.Background()

	neg, over, rate := -1.0, 1.5, 0.3
	invalid := []domain.QuotaConfig{
		{MaxPerDay: -1},
		{MaxPerHour: -1},
		{MinIntervalMinutes: -5},
		{MaxItemsPerJob: -1},
		{DailyCostLimit: -0.5},
		{MonthlyCostLimit: -1},
		{CostAlertThresholdPct: 101},
		{CostAlertThresholdPct: -1},
		{AutoDisableOnErrorRate: &neg},
		{AutoDisableOnErrorRate: &over},
	}
	for i, cfg := range invalid {
		err := g.SetLimits(ctx, 10, cfg)
		require.ErrorIs(t, err, domain.ErrInvalidArgument, "case %d", i)
	}

	require.NoError(t, g.SetLimits(ctx, 10, domain.QuotaConfig{MaxPerDay: 5, AutoDisableOnErrorRate: &rate, IsActive: true}))
	limits, ok := g.Limits(10)
	require.True(t, ok)
	assert.Equal(t, 5, limits.Config.MaxPerDay)
	assert.Equal(t, 2, limits.Usage.DayCount)
	assert.False(t, limits.Config.IsActive, "limits do not close the circuit")
	require.NotNil(t, limits.Config.AutoDisableOnErrorRate)
	rate = 0.9
	assert.InDelta(t, 0.3, *limits.Config.AutoDisableOnErrorRate, 0.0001, "input not aliased")

	// a feed without quota row gets an active one
	require.NoError(t, g.SetLimits(ctx, 11, domain.QuotaConfig{MaxPerHour: 1}))
	limits, ok = g.Limits(11)
	require.True(t, ok)
	assert.True(t, limits.Config.IsActive)
	assert.Equal(t, int64(1), limits.Version)
}

func TestGuard_VersionConflictRecomputes(t *testing.T) {
	st := quotaState(domain.QuotaConfig{FeedID: 12, MaxPerDay: 3})
	ms, store := newMemStore(st)
	g := New(Params{Store: store, Clock: clock.NewMock(testNow)})
	ctx := context.Background()
	require.NoError(t, g.Load(ctx))

	// another instance admitted two jobs behind our back
	ms.mu.Lock()
	other := ms.rows[12].Clone()
	other.Usage.DayCount = 2
	other.Version = 2
	ms.rows[12] = other
	ms.mu.Unlock()

	r, err := g.ReserveAdmission(ctx, 12, 1)
	require.NoError(t, err)
	assert.True(t, r.Allowed, "decided on the reloaded row")
	limits, _ := g.Limits(12)
	assert.Equal(t, 3, limits.Usage.DayCount, "increment applied on the reloaded row")
	assert.Equal(t, int64(3), limits.Version)
	assert.Len(t, store.GetCalls(), 1)
	assert.Len(t, store.SaveCalls(), 2)
	assert.Equal(t, domain.ReasonFrequencyLimit, g.Evaluate(12, 1).Reason)
}

func TestGuard_StoreErrors(t *testing.T) {
	_, store := newMemStore(quotaState(domain.QuotaConfig{FeedID: 13, MaxPerDay: 1}))
	g := New(Params{Store: store, Clock: clock.NewMock(testNow)})
	ctx := context.Background()
	require.NoError(t, g.Load(ctx))
	r, err := g.ReserveAdmission(ctx, 13, 1)
	require.NoError(t, err)
	require.True(t, r.Allowed)

	store.SaveFunc = func(ctx context.Context, next *domain.QuotaState, violations []domain.ViolationRecord) error {
		return errors.New("disk full")
	}
	res := g.CheckAdmission(ctx, 13, 1)
	assert.Equal(t, domain.ReasonFrequencyLimit, res.Reason, "denial returned even if the violation write failed")

	_, err = g.ReserveAdmission(ctx, 13, 1)
	require.Error(t, err)
	limits, _ := g.Limits(13)
	assert.Equal(t, 1, limits.Usage.DayCount, "failed write not installed")

	store.LoadAllFunc = func(ctx context.Context) ([]*domain.QuotaState, error) { return nil, errors.New("no db") }
	require.Error(t, g.Load(ctx))
}

func TestGuard_ConcurrentAdmissions(t *testing.T) {
	ms, store := newMemStore(quotaState(domain.QuotaConfig{FeedID: 14}))
	g := New(Params{Store: store, Clock: clock.NewMock(testNow), MaxWriteAttempts: 1000})
	ctx := context.Background()
	require.NoError(t, g.Load(ctx))

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := g.ReserveAdmission(ctx, 14, 1)
			if err != nil {
				errs <- fmt.Errorf("admission %d: %w", i, err)
				return
			}
			if !r.Allowed {
				errs <- fmt.Errorf("admission %d denied: %s", i, r.Message)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	limits, _ := g.Limits(14)
	assert.Equal(t, n, limits.Usage.DayCount, "no lost updates")
	ms.mu.Lock()
	defer ms.mu.Unlock()
	assert.Equal(t, n, ms.rows[14].Usage.DayCount)
	assert.Equal(t, int64(n+1), ms.rows[14].Version)
}

func TestGuard_ViolationsPassThrough(t *testing.T) {
	st := quotaState(domain.QuotaConfig{FeedID: 15, MaxItemsPerJob: 1})
	g, _, store, _ := newTestGuard(t, st)
	ctx := context.Background()

	g.CheckAdmission(ctx, 15, 2)
	recs, err := g.Violations(ctx, 15, testNow.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, domain.ViolationItemLimit, recs[0].ViolationType)

	_, err = g.ViolationsSummary(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, store.ViolationsSummaryCalls(), 1)

	store.ViolationsFunc = func(ctx context.Context, feedID int64, since time.Time, limit int) ([]domain.ViolationRecord, error) {
		return nil, errors.New("boom")
	}
	_, err = g.Violations(ctx, 15, time.Time{})
	require.Error(t, err)
}

func TestGuard_ConcurrentReservationsRespectLimits(t *testing.T) {
	tests := []struct {
		name    string
		cfg     domain.QuotaConfig
		allowed int
		reason  domain.DenyReason
	}{
		{name: "daily", cfg: domain.QuotaConfig{FeedID: 16, MaxPerDay: 3}, allowed: 3, reason: domain.ReasonFrequencyLimit},
		{name: "hourly", cfg: domain.QuotaConfig{FeedID: 16, MaxPerHour: 2}, allowed: 2, reason: domain.ReasonFrequencyLimit},
		{name: "min interval", cfg: domain.QuotaConfig{FeedID: 16, MinIntervalMinutes: 10}, allowed: 1,
			reason: domain.ReasonIntervalLimit},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ms, store := newMemStore(quotaState(tc.cfg))
			g := New(Params{Store: store, Clock: clock.NewMock(testNow), MaxWriteAttempts: 1000})
			ctx := context.Background()
			require.NoError(t, g.Load(ctx))

			const n = 20
			results := make([]domain.Reservation, n)
			var wg sync.WaitGroup
			for i := range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					r, err := g.ReserveAdmission(ctx, 16, 1)
					assert.NoError(t, err)
					results[i] = r
				}()
			}
			wg.Wait()

			allowed := 0
			for _, r := range results {
				if r.Allowed {
					allowed++
					continue
				}
				assert.Equal(t, tc.reason, r.Reason)
			}
			assert.Equal(t, tc.allowed, allowed)
			assert.Equal(t, n-tc.allowed, ms.violationCount(16), "one violation per denied reservation")

			ms.mu.Lock()
			defer ms.mu.Unlock()
			assert.Equal(t, tc.allowed, ms.rows[16].Usage.DayCount)
		})
	}
}

func TestGuard_ReserveAdmission_CircuitOpenWritesNothing(t *testing.T) {
	st := quotaState(domain.QuotaConfig{FeedID: 17})
	st.Config.EmergencyStopEnabled = true
	g, ms, store, _ := newTestGuard(t, st)

	r, err := g.ReserveAdmission(context.Background(), 17, 1)
	require.NoError(t, err)
	assert.False(t, r.Allowed)
	assert.Equal(t, domain.ReasonCircuitOpen, r.Reason)
	assert.True(t, r.At.IsZero())
	assert.Empty(t, store.SaveCalls())
	assert.Equal(t, 0, ms.violationCount(17))
}

func TestGuard_ReleaseAdmission(t *testing.T) {
	earlier := testNow.Add(-time.Hour)
	st := quotaState(domain.QuotaConfig{FeedID: 18, MaxPerDay: 2, MinIntervalMinutes: 5})
	st.Usage.DayCount = 1
	st.Usage.LastAdmittedAt = &earlier
	g, _, _, clk := newTestGuard(t, st)
	ctx := context.Background()

	r, err := g.ReserveAdmission(ctx, 18, 1)
	require.NoError(t, err)
	require.True(t, r.Allowed)
	require.NotNil(t, r.PrevAdmittedAt)
	assert.Equal(t, earlier, *r.PrevAdmittedAt)
	assert.Equal(t, testNow, r.At)
	assert.Equal(t, domain.ReasonFrequencyLimit, g.Evaluate(18, 1).Reason)

	require.NoError(t, g.ReleaseAdmission(ctx, r))
	limits, _ := g.Limits(18)
	assert.Equal(t, 1, limits.Usage.DayCount)
	assert.Equal(t, 0, limits.Usage.HourCount)
	require.NotNil(t, limits.Usage.LastAdmittedAt)
	assert.Equal(t, earlier, *limits.Usage.LastAdmittedAt)
	assert.True(t, g.Evaluate(18, 1).Allowed, "released slot can be used again")

	// a later admission keeps its own timestamp when an older reservation is released
	r1, err := g.ReserveAdmission(ctx, 18, 1)
	require.NoError(t, err)
	require.True(t, r1.Allowed)
	clk.Add(10 * time.Minute)
	require.NoError(t, g.SetLimits(ctx, 18, domain.QuotaConfig{MaxPerDay: 5}))
	r2, err := g.ReserveAdmission(ctx, 18, 1)
	require.NoError(t, err)
	require.True(t, r2.Allowed)
	require.NoError(t, g.ReleaseAdmission(ctx, r1))
	limits, _ = g.Limits(18)
	assert.Equal(t, 2, limits.Usage.DayCount)
	assert.Equal(t, r2.At, *limits.Usage.LastAdmittedAt)

	// denied reservations have nothing to release
	require.NoError(t, g.ReleaseAdmission(ctx, domain.Reservation{FeedID: 18}))
	after, _ := g.Limits(18)
	assert.Equal(t, limits.Version, after.Version)
}
