// Package worker processes analysis jobs from the durable queue. Workers coordinate only through
// the atomic claim of the queue store, so any number of them may run in one or many processes.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedgate/pkg/clock"
	"github.com/umputun/feedgate/pkg/domain"
	"github.com/umputun/feedgate/pkg/metrics"
)

//go:generate moq -out mocks/job_store.go -pkg mocks -skip-ensure -fmt goimports . JobStore
//go:generate moq -out mocks/resource_loader.go -pkg mocks -skip-ensure -fmt goimports . ResourceLoader
//go:generate moq -out mocks/job_executor.go -pkg mocks -skip-ensure -fmt goimports . JobExecutor
//go:generate moq -out mocks/cost_estimator.go -pkg mocks -skip-ensure -fmt goimports . CostEstimator
//go:generate moq -out mocks/quota_recorder.go -pkg mocks -skip-ensure -fmt goimports . QuotaRecorder
//go:generate moq -out mocks/stale_job_store.go -pkg mocks -skip-ensure -fmt goimports . StaleJobStore

// JobStore is the worker side of the job queue
type JobStore interface {
	ClaimBatch(ctx context.Context, workerID string, n int) ([]domain.PendingJob, error)
	Complete(ctx context.Context, jobID int64, workerID string, result domain.JobResult) error
	Fail(ctx context.Context, jobID int64, workerID, errMsg string, ceiling int) (domain.JobStatus, error)
	Reject(ctx context.Context, jobID int64, workerID, reason string) error
}

// ResourceLoader loads what a job refers to
type ResourceLoader interface {
	Load(ctx context.Context, job domain.PendingJob) (domain.AnalysisInput, error)
}

// JobExecutor runs the analysis of a loaded job
type JobExecutor interface {
	Execute(ctx context.Context, input domain.AnalysisInput) (domain.JobResult, error)
}

// CostEstimator predicts the cost of a job before it runs, without any I/O
type CostEstimator interface {
	Estimate(input domain.AnalysisInput) float64
}

// QuotaRecorder receives cost and outcome of finished jobs
type QuotaRecorder interface {
	RecordCost(ctx context.Context, feedID int64, cost float64) error
	RecordOutcome(ctx context.Context, feedID int64, success bool) error
}

// Params for creating workers
type Params struct {
	Store     JobStore
	Loader    ResourceLoader
	Executor  JobExecutor
	Estimator CostEstimator
	Quota     QuotaRecorder
	Clock     clock.Clock
	Metrics   *metrics.Metrics

	BatchSize    int           // jobs claimed at once, default 5
	IdleInterval time.Duration // sleep when nothing is pending, default 5s
	CostCeiling  float64       // jobs estimated above are rejected, default $0.50
	RetryCeiling int           // failures before a job is dead-lettered, default 3
	DrainTimeout time.Duration // time in-flight jobs get after stop, default 30s
	MaxBackoff   time.Duration // upper bound of claim error backoff, default 1m
}

func (p *Params) setDefaults() {
	if p.BatchSize <= 0 {
		p.BatchSize = 5
	}
	if p.IdleInterval <= 0 {
		p.IdleInterval = 5 * time.Second
	}
	if p.CostCeiling <= 0 {
		p.CostCeiling = 0.50
	}
	if p.RetryCeiling <= 0 {
		p.RetryCeiling = 3
	}
	if p.DrainTimeout <= 0 {
		p.DrainTimeout = 30 * time.Second
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = time.Minute
	}
	if p.Clock == nil {
		p.Clock = clock.Real{}
	}
	if p.Metrics == nil {
		p.Metrics = metrics.New()
	}
}

// Worker claims and processes jobs one at a time
type Worker struct {
	Params
	id string

	stopCh chan struct{}
	once   sync.Once
	mu     sync.Mutex
	done   chan struct{}
}

// New makes a worker with the given id
func New(id string, params Params) *Worker {
	params.setDefaults()
	return &Worker{Params: params, id: id, stopCh: make(chan struct{})}
}

// ID returns the worker id used to claim jobs
func (w *Worker) ID() string { return w.id }

// Run claims and processes jobs until ctx is canceled or Stop is called. Either one stops claiming,
// in-flight jobs get the drain timeout to finish and are canceled after it.
func (w *Worker) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.done != nil {
		w.mu.Unlock()
		return fmt.Errorf("worker %s already started", w.id)
	}
	done := make(chan struct{})
	w.done = done
	w.mu.Unlock()
	defer close(done)

	jobCtx, cancelJobs := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelJobs()
	go w.drainGuard(ctx, done, cancelJobs)

	lgr.Printf("[INFO] worker %s started, batch %d, idle %v", w.id, w.BatchSize, w.IdleInterval)
	defer lgr.Printf("[INFO] worker %s stopped", w.id)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = min(200*time.Millisecond, w.MaxBackoff)
	bo.MaxInterval = w.MaxBackoff
	bo.MaxElapsedTime = 0 // retry until the store answers again

	for {
		if w.stopping(ctx) {
			return nil
		}

		jobs, err := w.Store.ClaimBatch(jobCtx, w.id, w.BatchSize)
		if err != nil {
			w.Metrics.ClaimErrors.Inc()
			wait := bo.NextBackOff()
			lgr.Printf("[WARN] worker %s failed to claim jobs, retry in %v: %v", w.id, wait, err)
			if !w.sleep(ctx, wait) {
				return nil
			}
			continue
		}
		bo.Reset()

		if len(jobs) == 0 {
			if !w.sleep(ctx, w.IdleInterval) {
				return nil
			}
			continue
		}

		lgr.Printf("[DEBUG] worker %s claimed %d jobs", w.id, len(jobs))
		for i, job := range jobs {
			if jobCtx.Err() != nil {
				lgr.Printf("[WARN] worker %s drain timeout, %d claimed jobs left for the reaper", w.id, len(jobs)-i)
				break
			}
			w.process(jobCtx, job)
		}
	}
}

// Stop stops claiming and waits for Run to return, at most the drain timeout plus the time
// canceled jobs need to give up
func (w *Worker) Stop() {
	w.once.Do(func() { close(w.stopCh) })
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()
	if done != nil {
		<-done
	}
}

// drainGuard cancels in-flight jobs when the drain timeout passes after a stop request
func (w *Worker) drainGuard(ctx context.Context, done <-chan struct{}, cancelJobs context.CancelFunc) {
	select {
	case <-done:
		return
	case <-ctx.Done():
	case <-w.stopCh:
	}
	timer := time.NewTimer(w.DrainTimeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		lgr.Printf("[WARN] worker %s drain timeout %v passed, canceling in-flight jobs", w.id, w.DrainTimeout)
		cancelJobs()
	}
}

func (w *Worker) stopping(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-w.stopCh:
		return true
	default:
		return false
	}
}

// sleep waits for d, returns false if the worker was stopped meanwhile
func (w *Worker) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-w.stopCh:
		return false
	case <-timer.C:
		return true
	}
}

// process runs one claimed job through load, estimate and execute, and records the outcome
func (w *Worker) process(ctx context.Context, job domain.PendingJob) {
	w.Metrics.JobsInFlight.Inc()
	defer w.Metrics.JobsInFlight.Dec()

	input, err := w.Loader.Load(ctx, job)
	if err != nil {
		w.fail(ctx, job, fmt.Errorf("load resource: %w", err))
		return
	}
	input.JobID, input.FeedID = job.ID, job.FeedID

	if est := w.Estimator.Estimate(input); est > w.CostCeiling {
		w.reject(ctx, job, est)
		return
	}

	start := w.Clock.Now()
	res, err := w.execute(ctx, input)
	w.Metrics.JobDuration.Observe(w.Clock.Now().Sub(start).Seconds())
	if err != nil {
		w.fail(ctx, job, err)
		return
	}

	res.JobID, res.FeedID = job.ID, job.FeedID
	if res.CreatedAt.IsZero() {
		res.CreatedAt = w.Clock.Now()
	}
	if err := w.Store.Complete(ctx, job.ID, w.id, res); err != nil {
		if errors.Is(err, domain.ErrJobNotClaimed) {
			w.Metrics.JobOutcomes.WithLabelValues("lost").Inc()
			lgr.Printf("[WARN] job %d finished by worker %s but claimed by another worker meanwhile", job.ID, w.id)
			return
		}
		// the job stays processing and is picked up again after the reaper releases it
		lgr.Printf("[ERROR] worker %s failed to complete job %d: %v", w.id, job.ID, err)
		return
	}
	w.Metrics.JobOutcomes.WithLabelValues("completed").Inc()
	lgr.Printf("[INFO] job %d of feed %d completed, %d words, $%.4f", job.ID, job.FeedID, res.WordCount, res.CostUSD)

	if err := w.Quota.RecordCost(ctx, job.FeedID, res.CostUSD); err != nil {
		lgr.Printf("[WARN] failed to record cost of job %d: %v", job.ID, err)
	}
	if err := w.Quota.RecordOutcome(ctx, job.FeedID, true); err != nil {
		lgr.Printf("[WARN] failed to record outcome of job %d: %v", job.ID, err)
	}
}

// execute calls the executor, turning a panic into an error
func (w *Worker) execute(ctx context.Context, input domain.AnalysisInput) (res domain.JobResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panic: %v", r)
		}
	}()
	return w.Executor.Execute(ctx, input)
}

// fail returns the job to pending or dead-letters it once the retry ceiling is reached.
// A job interrupted by the drain timeout is left processing for the reaper.
func (w *Worker) fail(ctx context.Context, job domain.PendingJob, jobErr error) {
	if ctx.Err() != nil {
		w.Metrics.JobOutcomes.WithLabelValues("lost").Inc()
		lgr.Printf("[WARN] job %d interrupted, left for the reaper: %v", job.ID, jobErr)
		return
	}

	status, err := w.Store.Fail(ctx, job.ID, w.id, jobErr.Error(), w.RetryCeiling)
	if err != nil {
		lgr.Printf("[ERROR] worker %s failed to record failure of job %d: %v", w.id, job.ID, err)
		return
	}

	if status != domain.JobDeadLettered {
		w.Metrics.JobOutcomes.WithLabelValues("retried").Inc()
		lgr.Printf("[WARN] job %d failed, attempt %d of %d: %v", job.ID, job.RetryCount+1, w.RetryCeiling, jobErr)
		return
	}
	w.Metrics.JobOutcomes.WithLabelValues("dead_lettered").Inc()
	lgr.Printf("[ERROR] job %d of feed %d dead-lettered: %v", job.ID, job.FeedID, jobErr)
	if err := w.Quota.RecordOutcome(ctx, job.FeedID, false); err != nil {
		lgr.Printf("[WARN] failed to record outcome of job %d: %v", job.ID, err)
	}
}

func (w *Worker) reject(ctx context.Context, job domain.PendingJob, estimate float64) {
	reason := fmt.Sprintf("%v: estimated $%.4f, ceiling $%.2f", domain.ErrCostCeilingExceeded, estimate, w.CostCeiling)
	if err := w.Store.Reject(ctx, job.ID, w.id, reason); err != nil {
		lgr.Printf("[ERROR] worker %s failed to reject job %d: %v", w.id, job.ID, err)
		return
	}
	w.Metrics.JobOutcomes.WithLabelValues("rejected").Inc()
	lgr.Printf("[WARN] job %d of feed %d rejected, %s", job.ID, job.FeedID, reason)
}
