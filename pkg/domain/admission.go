package domain

// AdmissionDecision is what the admission controller did with a batch of new items
type AdmissionDecision struct {
	Admitted      bool       `json:"admitted"`
	JobID         int64      `json:"job_id,omitempty"`
	Reason        DenyReason `json:"reason,omitempty"`
	Message       string     `json:"message,omitempty"`
	Shadow        bool       `json:"shadow,omitempty"`         // evaluated only, nothing enqueued
	TruncatedFrom int        `json:"truncated_from,omitempty"` // original item count when capped
}
