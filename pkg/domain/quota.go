package domain

import "time"

// ViolationType classifies a quota violation
type ViolationType string

// violation types
const (
	ViolationCostLimit      ViolationType = "cost_limit"
	ViolationFrequencyLimit ViolationType = "frequency_limit"
	ViolationErrorRate      ViolationType = "error_rate"
	ViolationItemLimit      ViolationType = "item_limit"
	ViolationIntervalLimit  ViolationType = "interval_limit"
)

// ActionTaken is what the quota guard did in response to a violation
type ActionTaken string

// actions
const (
	ActionLogged        ActionTaken = "logged"
	ActionDisabled      ActionTaken = "disabled"
	ActionAlertSent     ActionTaken = "alert_sent"
	ActionEmergencyStop ActionTaken = "emergency_stop"
	ActionQueueBlocked  ActionTaken = "queue_blocked"
)

// QuotaConfig holds per-feed limits. Zero numeric limits mean "no limit".
// IsActive=false is an open circuit, restored only by an explicit re-enable.
type QuotaConfig struct {
	FeedID                  int64      `json:"feed_id"`
	MaxPerDay               int        `json:"max_per_day"`
	MaxPerHour              int        `json:"max_per_hour"`
	MinIntervalMinutes      int        `json:"min_interval_minutes"`
	DailyCostLimit          float64    `json:"daily_cost_limit"`
	MonthlyCostLimit        float64    `json:"monthly_cost_limit"`
	CostAlertThresholdPct   float64    `json:"cost_alert_threshold_pct"`
	MaxItemsPerJob          int        `json:"max_items_per_job"`
	EmergencyStopEnabled    bool       `json:"emergency_stop_enabled"`
	AutoDisableOnErrorRate  *float64   `json:"auto_disable_on_error_rate,omitempty"`
	AutoDisableOnCostBreach bool       `json:"auto_disable_on_cost_breach"`
	IsActive                bool       `json:"is_active"`
	ViolationsCount         int        `json:"violations_count"`
	LastViolationAt         *time.Time `json:"last_violation_at,omitempty"`
}

// QuotaUsage holds bucketed admission and cost counters of a feed.
// Buckets are UTC calendar hour, day and month; a bucket older than the current one reads as zero.
type QuotaUsage struct {
	HourStart      time.Time  `json:"hour_start"`
	HourCount      int        `json:"hour_count"`
	DayStart       time.Time  `json:"day_start"`
	DayCount       int        `json:"day_count"`
	DayCost        float64    `json:"day_cost"`
	MonthStart     time.Time  `json:"month_start"`
	MonthCost      float64    `json:"month_cost"`
	LastAdmittedAt *time.Time `json:"last_admitted_at,omitempty"`
	LastAlertDay   time.Time  `json:"last_alert_day"`
}

// HourCountAt returns admissions in the hour bucket containing now
func (u QuotaUsage) HourCountAt(now time.Time) int {
	if !u.HourStart.Equal(HourBucket(now)) {
		return 0
	}
	return u.HourCount
}

// DayCountAt returns admissions in the day bucket containing now
func (u QuotaUsage) DayCountAt(now time.Time) int {
	if !u.DayStart.Equal(DayBucket(now)) {
		return 0
	}
	return u.DayCount
}

// DayCostAt returns accumulated cost in the day bucket containing now
func (u QuotaUsage) DayCostAt(now time.Time) float64 {
	if !u.DayStart.Equal(DayBucket(now)) {
		return 0
	}
	return u.DayCost
}

// MonthCostAt returns accumulated cost in the month bucket containing now
func (u QuotaUsage) MonthCostAt(now time.Time) float64 {
	if !u.MonthStart.Equal(MonthBucket(now)) {
		return 0
	}
	return u.MonthCost
}

// Roll moves stale buckets to the ones containing now, zeroing their counters
func (u *QuotaUsage) Roll(now time.Time) {
	if h := HourBucket(now); !u.HourStart.Equal(h) {
		u.HourStart, u.HourCount = h, 0
	}
	if d := DayBucket(now); !u.DayStart.Equal(d) {
		u.DayStart, u.DayCount, u.DayCost = d, 0, 0
	}
	if m := MonthBucket(now); !u.MonthStart.Equal(m) {
		u.MonthStart, u.MonthCost = m, 0
	}
}

// HourBucket truncates t to its UTC hour
func HourBucket(t time.Time) time.Time { return t.UTC().Truncate(time.Hour) }

// DayBucket truncates t to its UTC day
func DayBucket(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthBucket truncates t to its UTC month
func MonthBucket(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// QuotaState is the versioned quota row of a feed: limits plus usage.
// Version increments on every persisted change and drives optimistic updates.
type QuotaState struct {
	Config  QuotaConfig `json:"config"`
	Usage   QuotaUsage  `json:"usage"`
	Version int64       `json:"version"`
}

// Clone returns a deep copy safe to mutate
func (s *QuotaState) Clone() *QuotaState {
	c := *s
	if s.Config.AutoDisableOnErrorRate != nil {
		v := *s.Config.AutoDisableOnErrorRate
		c.Config.AutoDisableOnErrorRate = &v
	}
	if s.Config.LastViolationAt != nil {
		v := *s.Config.LastViolationAt
		c.Config.LastViolationAt = &v
	}
	if s.Usage.LastAdmittedAt != nil {
		v := *s.Usage.LastAdmittedAt
		c.Usage.LastAdmittedAt = &v
	}
	return &c
}

// ViolationRecord is an immutable audit row written for every denied or flagged operation
type ViolationRecord struct {
	ID            int64         `json:"id"`
	FeedID        int64         `json:"feed_id"`
	ViolationType ViolationType `json:"violation_type"`
	OccurredAt    time.Time     `json:"occurred_at"`
	LimitValue    float64       `json:"limit_value"`
	ActualValue   float64       `json:"actual_value"`
	ThresholdPct  float64       `json:"threshold_pct"`
	ActionTaken   ActionTaken   `json:"action_taken"`
	Message       string        `json:"message"`
}

// ViolationSummary aggregates violations of one feed and type
type ViolationSummary struct {
	FeedID        int64         `json:"feed_id" db:"feed_id"`
	ViolationType ViolationType `json:"violation_type" db:"violation_type"`
	Count         int           `json:"count" db:"cnt"`
}

// DenyReason is the typed reason of a denied admission
type DenyReason string

// deny reasons
const (
	ReasonNone           DenyReason = ""
	ReasonCircuitOpen    DenyReason = "circuit_open"
	ReasonFrequencyLimit DenyReason = "frequency_limit"
	ReasonIntervalLimit  DenyReason = "interval_limit"
	ReasonItemLimit      DenyReason = "item_limit"
	ReasonCostLimit      DenyReason = "cost_limit"
	ReasonPolicyOff      DenyReason = "policy_off"
	ReasonNotInRollout   DenyReason = "not_in_rollout"
	ReasonNoItems        DenyReason = "no_items"
)

// AdmissionResult is the outcome of an admission check, never an error
type AdmissionResult struct {
	Allowed bool       `json:"allowed"`
	Reason  DenyReason `json:"reason,omitempty"`
	Message string     `json:"message,omitempty"`
}

// Reservation is an admission counted by the quota guard before its job is enqueued.
// A denied reservation counts nothing.
type Reservation struct {
	AdmissionResult
	FeedID         int64
	At             time.Time  // time the admission was counted
	PrevAdmittedAt *time.Time // last admission before this one, restored on release
}

// Allow returns an allowed result
func Allow() AdmissionResult { return AdmissionResult{Allowed: true} }

// Deny returns a denied result with reason and message
func Deny(reason DenyReason, msg string) AdmissionResult {
	return AdmissionResult{Reason: reason, Message: msg}
}
