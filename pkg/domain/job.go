package domain

import "time"

// JobStatus is the queue state of a pending job
type JobStatus string

// job statuses. Completed, DeadLettered and Failed (cost rejection) are terminal.
const (
	JobPending      JobStatus = "pending"
	JobProcessing   JobStatus = "processing"
	JobCompleted    JobStatus = "completed"
	JobFailed       JobStatus = "failed"
	JobDeadLettered JobStatus = "dead_lettered"
)

// PendingJob is a durable queue entry. WorkerID and StartedAt express a transient claim.
type PendingJob struct {
	ID           int64      `json:"id"`
	FeedID       int64      `json:"feed_id"`
	Payload      []byte     `json:"payload"`
	Status       JobStatus  `json:"status"`
	WorkerID     string     `json:"worker_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	RetryCount   int        `json:"retry_count"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// JobPayload is what the admission controller enqueues for an analysis job
type JobPayload struct {
	ItemIDs       []int64 `json:"item_ids"`
	TruncatedFrom int     `json:"truncated_from,omitempty"`
}

// JobResult is the outcome of a successful job execution
type JobResult struct {
	JobID       int64     `json:"job_id"`
	FeedID      int64     `json:"feed_id"`
	WordCount   int       `json:"word_count"`
	CostUSD     float64   `json:"cost_usd"`
	ArtifactRef string    `json:"artifact_ref"`
	Content     string    `json:"content,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobFilter narrows job listings, zero fields are ignored
type JobFilter struct {
	Status JobStatus
	FeedID int64
	Limit  int
	Offset int
}

// QueueStats counts jobs per status
type QueueStats map[JobStatus]int
