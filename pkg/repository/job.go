package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/umputun/feedgate/pkg/clock"
	"github.com/umputun/feedgate/pkg/domain"
)

// JobRepository is the durable job queue. Workers coordinate only through ClaimBatch,
// every state transition is a conditional update on the current status.
type JobRepository struct {
	db    *sqlx.DB
	clock clock.Clock
}

// jobSQL represents a queue row for SQL operations
type jobSQL struct {
	ID           int64          `db:"id"`
	FeedID       int64          `db:"feed_id"`
	Payload      []byte         `db:"payload"`
	Status       string         `db:"status"`
	WorkerID     sql.NullString `db:"worker_id"`
	CreatedAt    time.Time      `db:"created_at"`
	StartedAt    *time.Time     `db:"started_at"`
	CompletedAt  *time.Time     `db:"completed_at"`
	RetryCount   int            `db:"retry_count"`
	ErrorMessage string         `db:"error_message"`
}

// jobResultSQL represents a job result row
type jobResultSQL struct {
	ID          int64     `db:"id"`
	JobID       int64     `db:"job_id"`
	FeedID      int64     `db:"feed_id"`
	WordCount   int       `db:"word_count"`
	CostUSD     float64   `db:"cost_usd"`
	ArtifactRef string    `db:"artifact_ref"`
	Content     string    `db:"content"`
	CreatedAt   time.Time `db:"created_at"`
}

// NewJobRepository creates a new job repository
func NewJobRepository(database *sqlx.DB, clk clock.Clock) *JobRepository {
	return &JobRepository{db: database, clock: clk}
}

// Enqueue adds a pending job and returns its id
func (r *JobRepository) Enqueue(ctx context.Context, feedID int64, payload []byte) (int64, error) {
	if payload == nil {
		payload = []byte{}
	}
	var id int64
	err := withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, "INSERT INTO jobs (feed_id, payload, status, created_at) VALUES (?, ?, ?, ?)",
			feedID, payload, string(domain.JobPending), r.clock.Now().UTC())
		if err != nil {
			return fmt.Errorf("enqueue job: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ClaimBatch claims up to n oldest pending jobs for the worker. Each row is claimed by its own
// conditional update, rows taken by a concurrent worker in between are skipped.
func (r *JobRepository) ClaimBatch(ctx context.Context, workerID string, n int) ([]domain.PendingJob, error) {
	if n <= 0 {
		return nil, fmt.Errorf("claim batch size %d: %w", n, domain.ErrInvalidArgument)
	}

	var candidates []int64
	err := withLockRetry(ctx, func() error {
		query := "SELECT id FROM jobs WHERE status = 'pending' ORDER BY created_at, id LIMIT ?"
		return r.db.SelectContext(ctx, &candidates, query, n)
	})
	if err != nil {
		return nil, fmt.Errorf("select pending jobs: %w", err)
	}

	claimed := make([]int64, 0, len(candidates))
	for _, id := range candidates {
		var affected int64
		err := withLockRetry(ctx, func() error {
			res, err := r.db.ExecContext(ctx,
				"UPDATE jobs SET status = 'processing', worker_id = ?, started_at = ? WHERE id = ? AND status = 'pending'",
				workerID, r.clock.Now().UTC(), id)
			if err != nil {
				return err
			}
			affected, err = res.RowsAffected()
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("claim job %d: %w", id, err)
		}
		if affected == 1 {
			claimed = append(claimed, id)
		}
	}
	if len(claimed) == 0 {
		return []domain.PendingJob{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM jobs WHERE id IN (?) AND worker_id = ? ORDER BY created_at, id",
		claimed, workerID)
	if err != nil {
		return nil, fmt.Errorf("build claimed jobs query: %w", err)
	}
	var rows []jobSQL
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("get claimed jobs: %w", err)
	}
	return lo.Map(rows, func(row jobSQL, _ int) domain.PendingJob { return toDomainJob(&row) }), nil
}

// Complete stores the job result and marks the job completed in one transaction.
// Returns ErrJobNotClaimed if the job is not processing under this worker.
func (r *JobRepository) Complete(ctx context.Context, jobID int64, workerID string, result domain.JobResult) error {
	return withLockRetry(ctx, func() error {
		now := r.clock.Now().UTC()
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		res, err := tx.ExecContext(ctx, `
			UPDATE jobs SET status = 'completed', completed_at = ?, error_message = ''
			WHERE id = ? AND status = 'processing' AND worker_id = ?`, now, jobID, workerID)
		if err != nil {
			return fmt.Errorf("complete job %d: %w", jobID, err)
		}
		if err := expectClaimed(res, jobID, workerID); err != nil {
			return err
		}

		row := jobResultSQL{
			JobID:       jobID,
			FeedID:      result.FeedID,
			WordCount:   result.WordCount,
			CostUSD:     result.CostUSD,
			ArtifactRef: result.ArtifactRef,
			Content:     result.Content,
			CreatedAt:   now,
		}
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO job_results (job_id, feed_id, word_count, cost_usd, artifact_ref, content, created_at)
			VALUES (:job_id, :feed_id, :word_count, :cost_usd, :artifact_ref, :content, :created_at)`, row)
		if err != nil {
			return fmt.Errorf("insert job %d result: %w", jobID, err)
		}
		return tx.Commit()
	})
}

// Fail records a failed attempt: retry_count is incremented and the job goes back to pending,
// or to dead_lettered once the count reaches ceiling. Returns the resulting status.
func (r *JobRepository) Fail(ctx context.Context, jobID int64, workerID, errMsg string, ceiling int) (domain.JobStatus, error) {
	if ceiling < 1 {
		return "", fmt.Errorf("retry ceiling %d: %w", ceiling, domain.ErrInvalidArgument)
	}

	var status string
	err := withLockRetry(ctx, func() error {
		now := r.clock.Now().UTC()
		err := r.db.GetContext(ctx, &status, `
			UPDATE jobs SET
				retry_count = retry_count + 1,
				error_message = ?,
				status = CASE WHEN retry_count + 1 >= ? THEN 'dead_lettered' ELSE 'pending' END,
				completed_at = CASE WHEN retry_count + 1 >= ? THEN ? ELSE NULL END,
				worker_id = CASE WHEN retry_count + 1 >= ? THEN worker_id ELSE NULL END,
				started_at = CASE WHEN retry_count + 1 >= ? THEN started_at ELSE NULL END
			WHERE id = ? AND status = 'processing' AND worker_id = ?
			RETURNING status`,
			errMsg, ceiling, ceiling, now, ceiling, ceiling, jobID, workerID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("fail job %d by %s: %w", jobID, workerID, domain.ErrJobNotClaimed)
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("fail job: %w", err)
	}
	return domain.JobStatus(status), nil
}

// Reject marks a processing job failed without retry, used for jobs over the cost ceiling
func (r *JobRepository) Reject(ctx context.Context, jobID int64, workerID, reason string) error {
	return withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, `
			UPDATE jobs SET status = 'failed', completed_at = ?, error_message = ?
			WHERE id = ? AND status = 'processing' AND worker_id = ?`,
			r.clock.Now().UTC(), reason, jobID, workerID)
		if err != nil {
			return fmt.Errorf("reject job %d: %w", jobID, err)
		}
		return expectClaimed(res, jobID, workerID)
	})
}

// ReapStale returns processing jobs claimed longer than olderThan ago back to pending.
// Their retry_count is kept, the abandoned attempt is not counted as a failure.
func (r *JobRepository) ReapStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := r.clock.Now().UTC().Add(-olderThan)
	var reaped int64
	err := withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, `
			UPDATE jobs SET status = 'pending', worker_id = NULL, started_at = NULL
			WHERE status = 'processing' AND started_at < ?`, cutoff)
		if err != nil {
			return fmt.Errorf("reap stale jobs: %w", err)
		}
		reaped, err = res.RowsAffected()
		return err
	})
	return reaped, err
}

// GetJob returns a job by id
func (r *JobRepository) GetJob(ctx context.Context, jobID int64) (*domain.PendingJob, error) {
	var row jobSQL
	err := r.db.GetContext(ctx, &row, "SELECT * FROM jobs WHERE id = ?", jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %d: %w", jobID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	job := toDomainJob(&row)
	return &job, nil
}

// GetResult returns the result of a completed job
func (r *JobRepository) GetResult(ctx context.Context, jobID int64) (*domain.JobResult, error) {
	var row jobResultSQL
	err := r.db.GetContext(ctx, &row, "SELECT * FROM job_results WHERE job_id = ?", jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result of job %d: %w", jobID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get job result: %w", err)
	}
	res := toDomainResult(&row)
	return &res, nil
}

// ListResults returns results of completed jobs of a feed, newest first. feedID 0 lists all feeds.
func (r *JobRepository) ListResults(ctx context.Context, feedID int64, limit int) ([]domain.JobResult, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("*").From("job_results")
	if feedID != 0 {
		sb.Where(sb.Equal("feed_id", feedID))
	}
	sb.OrderBy("created_at DESC", "id DESC")
	if limit <= 0 {
		limit = 100
	}
	sb.Limit(limit)
	query, args := sb.Build()

	var rows []jobResultSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list job results: %w", err)
	}
	return lo.Map(rows, func(row jobResultSQL, _ int) domain.JobResult { return toDomainResult(&row) }), nil
}

// ListJobs returns jobs matching the filter, newest first
func (r *JobRepository) ListJobs(ctx context.Context, filter domain.JobFilter) ([]domain.PendingJob, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("*").From("jobs")
	if filter.Status != "" {
		sb.Where(sb.Equal("status", string(filter.Status)))
	}
	if filter.FeedID != 0 {
		sb.Where(sb.Equal("feed_id", filter.FeedID))
	}
	sb.OrderBy("created_at DESC", "id DESC")
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	sb.Limit(limit)
	if filter.Offset > 0 {
		sb.Offset(filter.Offset)
	}
	query, args := sb.Build()

	var rows []jobSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return lo.Map(rows, func(row jobSQL, _ int) domain.PendingJob { return toDomainJob(&row) }), nil
}

// Stats counts jobs per status, every status is present in the result
func (r *JobRepository) Stats(ctx context.Context) (domain.QueueStats, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"cnt"`
	}
	if err := r.db.SelectContext(ctx, &rows, "SELECT status, COUNT(*) AS cnt FROM jobs GROUP BY status"); err != nil {
		return nil, fmt.Errorf("get queue stats: %w", err)
	}

	stats := domain.QueueStats{
		domain.JobPending:      0,
		domain.JobProcessing:   0,
		domain.JobCompleted:    0,
		domain.JobFailed:       0,
		domain.JobDeadLettered: 0,
	}
	for _, row := range rows {
		stats[domain.JobStatus(row.Status)] = row.Count
	}
	return stats, nil
}

func expectClaimed(res sql.Result, jobID int64, workerID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("job %d by %s: %w", jobID, workerID, domain.ErrJobNotClaimed)
	}
	return nil
}

func toDomainJob(row *jobSQL) domain.PendingJob {
	return domain.PendingJob{
		ID:           row.ID,
		FeedID:       row.FeedID,
		Payload:      row.Payload,
		Status:       domain.JobStatus(row.Status),
		WorkerID:     row.WorkerID.String,
		CreatedAt:    row.CreatedAt.UTC(),
		StartedAt:    utcPtr(row.StartedAt),
		CompletedAt:  utcPtr(row.CompletedAt),
		RetryCount:   row.RetryCount,
		ErrorMessage: row.ErrorMessage,
	}
}

func toDomainResult(row *jobResultSQL) domain.JobResult {
	return domain.JobResult{
		JobID:       row.JobID,
		FeedID:      row.FeedID,
		WordCount:   row.WordCount,
		CostUSD:     row.CostUSD,
		ArtifactRef: row.ArtifactRef,
		Content:     row.Content,
		CreatedAt:   row.CreatedAt.UTC(),
	}
}
