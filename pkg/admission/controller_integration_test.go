package admission

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedgate/pkg/admission/mocks"
	"github.com/umputun/feedgate/pkg/clock"
	"github.com/umputun/feedgate/pkg/domain"
	"github.com/umputun/feedgate/pkg/metrics"
	"github.com/umputun/feedgate/pkg/quota"
	"github.com/umputun/feedgate/pkg/repository"
)

func newIntegrationController(t *testing.T, enqueueDelay time.Duration) (*Controller, *quota.Guard, *repository.Repositories,
	*mocks.JobQueueMock) {
	t.Helper()
	ctx := context.Background()
	clk := clock.NewMock(time.Date(2025, 5, 14, 10, 30, 0, 0, time.UTC))
	dsn := "file:" + filepath.Join(t.TempDir(), "admission.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	repos, err := repository.NewRepositories(ctx, repository.Config{DSN: dsn, Clock: clk})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	guard := quota.New(quota.Params{Store: repos.Quota, Clock: clk, MaxWriteAttempts: 50})
	require.NoError(t, guard.Load(ctx))

	queue := &mocks.JobQueueMock{EnqueueFunc: func(ctx context.Context, feedID int64, payload []byte) (int64, error) {
		time.Sleep(enqueueDelay) // widens the window between reservation and enqueue
		return repos.Job.Enqueue(ctx, feedID, payload)
	}}
	c, err := New(Params{Guard: guard, Queue: queue, Settings: repos.Setting, Metrics: metrics.New(),
		DefaultPolicy: domain.RolloutPolicy{Mode: domain.RolloutOn}})
	require.NoError(t, err)
	return c, guard, repos, queue
}

func TestController_ConcurrentAdmitsRespectDailyLimit(t *testing.T) {
	c, guard, repos, _ := newIntegrationController(t, 50*time.Millisecond)
	ctx := context.Background()
	require.NoError(t, guard.SetLimits(ctx, 7, domain.QuotaConfig{MaxPerDay: 1}))

	const callers = 4
	decisions := make([]domain.AdmissionDecision, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decisions[i], errs[i] = c.Admit(ctx, 7, []int64{1})
		}()
	}
	wg.Wait()

	admitted := 0
	for i, d := range decisions {
		require.NoError(t, errs[i])
		if d.Admitted {
			admitted++
			continue
		}
		assert.Equal(t, domain.ReasonFrequencyLimit, d.Reason)
	}
	assert.Equal(t, 1, admitted, "daily limit of one job holds under concurrent admits")

	stats, err := repos.Job.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats[domain.JobPending])

	limits, ok := guard.Limits(7)
	require.True(t, ok)
	assert.Equal(t, 1, limits.Usage.DayCount)
}

func TestController_EnqueueFailureReleasesQuota(t *testing.T) {
	c, guard, repos, queue := newIntegrationController(t, 0)
	ctx := context.Background()
	require.NoError(t, guard.SetLimits(ctx, 8, domain.QuotaConfig{MaxPerDay: 1, MinIntervalMinutes: 30}))

	queue.EnqueueFunc = func(ctx context.Context, feedID int64, payload []byte) (int64, error) {
		return 0, errors.New("disk full")
	}
	_, err := c.Admit(ctx, 8, []int64{1})
	require.Error(t, err)

	limits, ok := guard.Limits(8)
	require.True(t, ok)
	assert.Zero(t, limits.Usage.DayCount)
	assert.Zero(t, limits.Usage.HourCount)
	assert.Nil(t, limits.Usage.LastAdmittedAt, "interval limit does not see the failed admission")

	queue.EnqueueFunc = func(ctx context.Context, feedID int64, payload []byte) (int64, error) {
		return repos.Job.Enqueue(ctx, feedID, payload)
	}
	d, err := c.Admit(ctx, 8, []int64{1})
	require.NoError(t, err)
	assert.True(t, d.Admitted)
}
