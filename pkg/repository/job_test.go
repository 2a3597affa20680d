package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedgate/pkg/domain"
)

func TestJobRepository_EnqueueAndClaim(t *testing.T) {
	repos, clk := setupTestDB(t)
	ctx := context.Background()

	var ids []int64
	for i := range 3 {
		id, err := repos.Job.Enqueue(ctx, 10, []byte(fmt.Sprintf(`{"item_ids":[%d]}`, i)))
		require.NoError(t, err)
		ids = append(ids, id)
		clk.Add(time.Second)
	}

	job, err := repos.Job.GetJob(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, domain.JobPending, job.Status)
	assert.Empty(t, job.WorkerID)
	assert.Nil(t, job.StartedAt)
	assert.Equal(t, `{"item_ids":[0]}`, string(job.Payload))

	claimed, err := repos.Job.ClaimBatch(ctx, "w1", 2)
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	assert.Equal(t, ids[0], claimed[0].ID, "oldest first")
	assert.Equal(t, ids[1], claimed[1].ID)
	for _, j := range claimed {
		assert.Equal(t, domain.JobProcessing, j.Status)
		assert.Equal(t, "w1", j.WorkerID)
		require.NotNil(t, j.StartedAt)
		assert.True(t, clk.Now().Equal(*j.StartedAt))
	}

	claimed, err = repos.Job.ClaimBatch(ctx, "w2", 5)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, ids[2], claimed[0].ID)

	claimed, err = repos.Job.ClaimBatch(ctx, "w2", 5)
	require.NoError(t, err)
	assert.Empty(t, claimed)

	_, err = repos.Job.ClaimBatch(ctx, "w2", 0)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = repos.Job.GetJob(ctx, 555)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobRepository_Complete(t *testing.T) {
	repos, clk := setupTestDB(t)
	ctx := context.Background()

	id, err := repos.Job.Enqueue(ctx, 10, []byte("{}"))
	require.NoError(t, err)
	_, err = repos.Job.ClaimBatch(ctx, "w1", 1)
	require.NoError(t, err)

	res := domain.JobResult{JobID: id, FeedID: 10, WordCount: 120, CostUSD: 0.02, ArtifactRef: "summary:1", Content: "text"}

	err = repos.Job.Complete(ctx, id, "other-worker", res)
	require.ErrorIs(t, err, domain.ErrJobNotClaimed)
	_, err = repos.Job.GetResult(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound, "no result for a rejected completion")

	clk.Add(time.Minute)
	require.NoError(t, repos.Job.Complete(ctx, id, "w1", res))

	job, err := repos.Job.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)
	require.NotNil(t, job.StartedAt)
	assert.False(t, job.CompletedAt.Before(*job.StartedAt))
	assert.False(t, job.StartedAt.Before(job.CreatedAt))

	stored, err := repos.Job.GetResult(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 120, stored.WordCount)
	assert.InDelta(t, 0.02, stored.CostUSD, 0.0001)
	assert.Equal(t, "summary:1", stored.ArtifactRef)

	// completed is terminal
	err = repos.Job.Complete(ctx, id, "w1", res)
	require.ErrorIs(t, err, domain.ErrJobNotClaimed)
	_, err = repos.Job.Fail(ctx, id, "w1", "boom", 3)
	require.ErrorIs(t, err, domain.ErrJobNotClaimed)
}

func TestJobRepository_FailUntilDeadLettered(t *testing.T) {
	repos, _ := setupTestDB(t)
	ctx := context.Background()

	id, err := repos.Job.Enqueue(ctx, 10, []byte("{}"))
	require.NoError(t, err)

	for attempt := 1; attempt <= 3; attempt++ {
		claimed, err := repos.Job.ClaimBatch(ctx, "w1", 1)
		require.NoError(t, err)
		require.Len(t, claimed, 1, "attempt %d", attempt)

		status, err := repos.Job.Fail(ctx, id, "w1", fmt.Sprintf("error %d", attempt), 3)
		require.NoError(t, err)

		job, err := repos.Job.GetJob(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, attempt, job.RetryCount)
		assert.Equal(t, fmt.Sprintf("error %d", attempt), job.ErrorMessage)

		if attempt < 3 {
			assert.Equal(t, domain.JobPending, status)
			assert.Empty(t, job.WorkerID)
			assert.Nil(t, job.StartedAt)
			continue
		}
		assert.Equal(t, domain.JobDeadLettered, status)
		assert.Equal(t, domain.JobDeadLettered, job.Status)
		assert.NotNil(t, job.CompletedAt)
	}

	claimed, err := repos.Job.ClaimBatch(ctx, "w1", 1)
	require.NoError(t, err)
	assert.Empty(t, claimed, "dead-lettered job never returns to pending")

	_, err = repos.Job.Fail(ctx, id, "w1", "x", 0)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestJobRepository_Reject(t *testing.T) {
	repos, _ := setupTestDB(t)
	ctx := context.Background()

	id, err := repos.Job.Enqueue(ctx, 10, []byte("{}"))
	require.NoError(t, err)
	_, err = repos.Job.ClaimBatch(ctx, "w1", 1)
	require.NoError(t, err)

	require.NoError(t, repos.Job.Reject(ctx, id, "w1", "cost ceiling exceeded"))
	job, err := repos.Job.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobFailed, job.Status)
	assert.Equal(t, 0, job.RetryCount)
	assert.Equal(t, "cost ceiling exceeded", job.ErrorMessage)

	claimed, err := repos.Job.ClaimBatch(ctx, "w1", 1)
	require.NoError(t, err)
	assert.Empty(t, claimed)

	err = repos.Job.Reject(ctx, id, "w1", "again")
	require.ErrorIs(t, err, domain.ErrJobNotClaimed)
}

func TestJobRepository_ReapStale(t *testing.T) {
	repos, clk := setupTestDB(t)
	ctx := context.Background()

	oldID, err := repos.Job.Enqueue(ctx, 1, []byte("{}"))
	require.NoError(t, err)
	_, err = repos.Job.ClaimBatch(ctx, "crashed", 1)
	require.NoError(t, err)

	clk.Add(10 * time.Minute)
	freshID, err := repos.Job.Enqueue(ctx, 1, []byte("{}"))
	require.NoError(t, err)
	_, err = repos.Job.ClaimBatch(ctx, "alive", 1)
	require.NoError(t, err)

	clk.Add(6 * time.Minute)
	n, err := repos.Job.ReapStale(ctx, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	old, err := repos.Job.GetJob(ctx, oldID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobPending, old.Status)
	assert.Empty(t, old.WorkerID)
	assert.Equal(t, 0, old.RetryCount)

	fresh, err := repos.Job.GetJob(ctx, freshID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobProcessing, fresh.Status)

	// the crashed worker can't finish a job taken away from it
	err = repos.Job.Complete(ctx, oldID, "crashed", domain.JobResult{FeedID: 1})
	require.ErrorIs(t, err, domain.ErrJobNotClaimed)
}

func TestJobRepository_ListAndStats(t *testing.T) {
	repos, clk := setupTestDB(t)
	ctx := context.Background()

	for feedID := int64(1); feedID <= 3; feedID++ {
		_, err := repos.Job.Enqueue(ctx, feedID, []byte("{}"))
		require.NoError(t, err)
		clk.Add(time.Second)
	}
	claimed, err := repos.Job.ClaimBatch(ctx, "w1", 1)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	require.NoError(t, repos.Job.Complete(ctx, claimed[0].ID, "w1", domain.JobResult{FeedID: claimed[0].FeedID}))

	all, err := repos.Job.ListJobs(ctx, domain.JobFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].FeedID, "newest first")

	pending, err := repos.Job.ListJobs(ctx, domain.JobFilter{Status: domain.JobPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	byFeed, err := repos.Job.ListJobs(ctx, domain.JobFilter{FeedID: 1})
	require.NoError(t, err)
	require.Len(t, byFeed, 1)
	assert.Equal(t, domain.JobCompleted, byFeed[0].Status)

	paged, err := repos.Job.ListJobs(ctx, domain.JobFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, int64(2), paged[0].FeedID)

	stats, err := repos.Job.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats[domain.JobPending])
	assert.Equal(t, 1, stats[domain.JobCompleted])
	assert.Equal(t, 0, stats[domain.JobDeadLettered])
	assert.Len(t, stats, 5)
}

func TestJobRepository_ConcurrentClaim(t *testing.T) {
	repos, _ := setupFileDB(t)
	ctx := context.Background()

	const jobs, workers = 60, 6
	for range jobs {
		_, err := repos.Job.Enqueue(ctx, 1, []byte("{}"))
		require.NoError(t, err)
	}

	var mu sync.Mutex
	seen := make(map[int64]string)
	var wg sync.WaitGroup
	errs := make(chan error, jobs+workers)
	for w := range workers {
		wg.Add(1)
		go func(workerID string) {
			defer wg.Done()
			for {
				batch, err := repos.Job.ClaimBatch(ctx, workerID, 4)
				if err != nil {
					errs <- err
					return
				}
				if len(batch) == 0 {
					stats, err := repos.Job.Stats(ctx)
					if err != nil {
						errs <- err
						return
					}
					if stats[domain.JobPending] == 0 {
						return
					}
					continue
				}
				mu.Lock()
				for _, j := range batch {
					if prev, ok := seen[j.ID]; ok {
						errs <- fmt.Errorf("job %d claimed by %s and %s", j.ID, prev, workerID)
					}
					seen[j.ID] = workerID
				}
				mu.Unlock()
			}
		}(fmt.Sprintf("worker-%d", w))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, seen, jobs)

	stats, err := repos.Job.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, jobs, stats[domain.JobProcessing])
}

func TestJobRepository_ListResults(t *testing.T) {
	repos, clk := setupTestDB(t)
	ctx := context.Background()

	for i, feedID := range []int64{1, 2, 1} {
		id, err := repos.Job.Enqueue(ctx, feedID, []byte("{}"))
		require.NoError(t, err)
		_, err = repos.Job.ClaimBatch(ctx, "w1", 1)
		require.NoError(t, err)
		clk.Add(time.Minute)
		res := domain.JobResult{FeedID: feedID, WordCount: 10 * (i + 1), ArtifactRef: fmt.Sprintf("r%d", i)}
		require.NoError(t, repos.Job.Complete(ctx, id, "w1", res))
	}

	results, err := repos.Job.ListResults(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "r2", results[0].ArtifactRef, "newest first")
	assert.Equal(t, "r0", results[1].ArtifactRef)
	assert.Equal(t, time.UTC, results[0].CreatedAt.Location())

	all, err := repos.Job.ListResults(ctx, 0, 2)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
