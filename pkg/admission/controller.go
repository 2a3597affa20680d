// Package admission turns new items of a feed into at most one analysis job. A global rollout
// policy gates feeds before the quota guard is consulted; shadow mode observes decisions
// without enqueuing anything.
package admission

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedgate/pkg/domain"
	"github.com/umputun/feedgate/pkg/metrics"
)

//go:generate moq -out mocks/quota_guard.go -pkg mocks -skip-ensure -fmt goimports . QuotaGuard
//go:generate moq -out mocks/job_queue.go -pkg mocks -skip-ensure -fmt goimports . JobQueue
//go:generate moq -out mocks/setting_store.go -pkg mocks -skip-ensure -fmt goimports . SettingStore

// DefaultMaxItemsPerJob caps the number of items in one job
const DefaultMaxItemsPerJob = 50

// QuotaGuard decides whether a feed may enqueue a job
type QuotaGuard interface {
	Evaluate(feedID int64, itemCount int) domain.AdmissionResult
	ReserveAdmission(ctx context.Context, feedID int64, itemCount int) (domain.Reservation, error)
	ReleaseAdmission(ctx context.Context, r domain.Reservation) error
}

// JobQueue accepts analysis jobs
type JobQueue interface {
	Enqueue(ctx context.Context, feedID int64, payload []byte) (int64, error)
}

// SettingStore persists the rollout policy
type SettingStore interface {
	GetSettings(ctx context.Context, keys ...string) (map[string]string, error)
	SetSettings(ctx context.Context, values map[string]string) error
}

// Params for creating a Controller
type Params struct {
	Guard          QuotaGuard
	Queue          JobQueue
	Settings       SettingStore
	Metrics        *metrics.Metrics
	DefaultPolicy  domain.RolloutPolicy // used until a persisted policy is loaded, mode Off if empty
	MaxItemsPerJob int                  // default 50
}

// Controller applies the rollout policy and the quota guard to new items
type Controller struct {
	guard    QuotaGuard
	queue    JobQueue
	settings SettingStore
	metrics  *metrics.Metrics
	maxItems int

	defaultPolicy domain.RolloutPolicy
	policy        atomic.Pointer[domain.RolloutPolicy]
}

// New makes a controller with the default policy active
func New(params Params) (*Controller, error) {
	if params.DefaultPolicy.Mode == "" {
		params.DefaultPolicy.Mode = domain.RolloutOff
	}
	if err := params.DefaultPolicy.Validate(); err != nil {
		return nil, fmt.Errorf("default policy: %w", err)
	}
	if params.MaxItemsPerJob <= 0 {
		params.MaxItemsPerJob = DefaultMaxItemsPerJob
	}
	if params.Metrics == nil {
		params.Metrics = metrics.New()
	}

	c := &Controller{
		guard:         params.Guard,
		queue:         params.Queue,
		settings:      params.Settings,
		metrics:       params.Metrics,
		maxItems:      params.MaxItemsPerJob,
		defaultPolicy: params.DefaultPolicy,
	}
	p := params.DefaultPolicy
	c.policy.Store(&p)
	return c, nil
}

// Admit applies policy and quota to the new items of a feed and enqueues a job if allowed.
// The quota is reserved before the job is enqueued and released if the enqueue fails.
// Denials are decisions, the error is returned only if the quota or the queue failed.
func (c *Controller) Admit(ctx context.Context, feedID int64, itemIDs []int64) (domain.AdmissionDecision, error) {
	if len(itemIDs) == 0 {
		return c.denied(domain.ReasonNoItems, "no items to analyse"), nil
	}

	policy := c.Policy()
	if !policy.Eligible(feedID) {
		if policy.Mode == domain.RolloutCanary {
			return c.denied(domain.ReasonNotInRollout, fmt.Sprintf("feed outside %d%% canary", policy.Percentage)), nil
		}
		return c.denied(domain.ReasonPolicyOff, fmt.Sprintf("admission policy %s", policy.Mode)), nil
	}

	ids, truncatedFrom := itemIDs, 0
	if len(ids) > c.maxItems {
		ids, truncatedFrom = ids[:c.maxItems], len(itemIDs)
		lgr.Printf("[DEBUG] feed %d, %d items truncated to %d", feedID, truncatedFrom, c.maxItems)
	}

	if policy.Shadow {
		return c.shadow(feedID, ids, truncatedFrom), nil
	}

	payload, err := json.Marshal(domain.JobPayload{ItemIDs: ids, TruncatedFrom: truncatedFrom})
	if err != nil {
		return domain.AdmissionDecision{}, fmt.Errorf("marshal job payload: %w", err)
	}

	res, err := c.guard.ReserveAdmission(ctx, feedID, len(ids))
	if err != nil {
		c.metrics.Admissions.WithLabelValues("error", "quota").Inc()
		return domain.AdmissionDecision{}, fmt.Errorf("reserve quota for feed %d: %w", feedID, err)
	}
	if !res.Allowed {
		d := c.denied(res.Reason, res.Message)
		d.TruncatedFrom = truncatedFrom
		return d, nil
	}

	jobID, err := c.queue.Enqueue(ctx, feedID, payload)
	if err != nil {
		c.metrics.Admissions.WithLabelValues("error", "enqueue").Inc()
		if rerr := c.guard.ReleaseAdmission(context.WithoutCancel(ctx), res); rerr != nil {
			lgr.Printf("[WARN] failed to release quota of feed %d: %v", feedID, rerr)
		}
		return domain.AdmissionDecision{}, fmt.Errorf("enqueue job for feed %d: %w", feedID, err)
	}
	c.metrics.JobsEnqueued.Inc()
	c.metrics.Admissions.WithLabelValues("admitted", "none").Inc()
	lgr.Printf("[DEBUG] feed %d admitted, job %d with %d items", feedID, jobID, len(ids))
	return domain.AdmissionDecision{Admitted: true, JobID: jobID, TruncatedFrom: truncatedFrom}, nil
}

// shadow evaluates the quota without side effects and only records what would have happened
func (c *Controller) shadow(feedID int64, ids []int64, truncatedFrom int) domain.AdmissionDecision {
	res := c.guard.Evaluate(feedID, len(ids))
	decision := "admitted"
	if !res.Allowed {
		decision = "denied"
	}
	c.metrics.ShadowAdmissions.WithLabelValues(decision, reasonLabel(res.Reason)).Inc()
	lgr.Printf("[INFO] shadow admission for feed %d, %d items: would be %s %s", feedID, len(ids), decision, res.Message)
	return domain.AdmissionDecision{Shadow: true, Reason: res.Reason, Message: res.Message, TruncatedFrom: truncatedFrom}
}

func (c *Controller) denied(reason domain.DenyReason, msg string) domain.AdmissionDecision {
	c.metrics.Admissions.WithLabelValues("denied", reasonLabel(reason)).Inc()
	return domain.AdmissionDecision{Reason: reason, Message: msg}
}

func reasonLabel(r domain.DenyReason) string {
	if r == domain.ReasonNone {
		return "none"
	}
	return string(r)
}

// Policy returns the active rollout policy
func (c *Controller) Policy() domain.RolloutPolicy {
	return *c.policy.Load()
}

// SetPolicy validates and persists the rollout policy, then activates it
func (c *Controller) SetPolicy(ctx context.Context, policy domain.RolloutPolicy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	if policy.Mode != domain.RolloutCanary {
		policy.Percentage = 0
	}
	err := c.settings.SetSettings(ctx, map[string]string{
		domain.SettingRolloutMode:       string(policy.Mode),
		domain.SettingRolloutPercentage: strconv.Itoa(policy.Percentage),
		domain.SettingRolloutShadow:     strconv.FormatBool(policy.Shadow),
	})
	if err != nil {
		return fmt.Errorf("save rollout policy: %w", err)
	}
	c.policy.Store(&policy)
	lgr.Printf("[INFO] admission policy set to %s", describe(policy))
	return nil
}

// Load restores the persisted policy. Without a persisted mode the default policy stays active,
// an unreadable persisted policy is reported and the default used instead.
func (c *Controller) Load(ctx context.Context) error {
	values, err := c.settings.GetSettings(ctx, domain.SettingRolloutMode, domain.SettingRolloutPercentage,
		domain.SettingRolloutShadow)
	if err != nil {
		return fmt.Errorf("load rollout policy: %w", err)
	}

	mode, ok := values[domain.SettingRolloutMode]
	if !ok {
		lgr.Printf("[INFO] no persisted admission policy, using %s", describe(c.defaultPolicy))
		p := c.defaultPolicy
		c.policy.Store(&p)
		return nil
	}

	policy, err := parsePolicy(mode, values[domain.SettingRolloutPercentage], values[domain.SettingRolloutShadow])
	if err != nil {
		lgr.Printf("[WARN] persisted admission policy is invalid, using %s: %v", describe(c.defaultPolicy), err)
		p := c.defaultPolicy
		c.policy.Store(&p)
		return nil
	}
	c.policy.Store(&policy)
	lgr.Printf("[INFO] admission policy loaded, %s", describe(policy))
	return nil
}

func parsePolicy(mode, pct, shadow string) (domain.RolloutPolicy, error) {
	p := domain.RolloutPolicy{Mode: domain.RolloutMode(mode)}
	if pct != "" {
		v, err := strconv.Atoi(pct)
		if err != nil {
			return p, fmt.Errorf("percentage %q: %w", pct, domain.ErrInvalidArgument)
		}
		p.Percentage = v
	}
	if shadow != "" {
		v, err := strconv.ParseBool(shadow)
		if err != nil {
			return p, fmt.Errorf("shadow flag %q: %w", shadow, domain.ErrInvalidArgument)
		}
		p.Shadow = v
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func describe(p domain.RolloutPolicy) string {
	s := string(p.Mode)
	if p.Mode == domain.RolloutCanary {
		s += fmt.Sprintf(" %d%%", p.Percentage)
	}
	if p.Shadow {
		s += " (shadow)"
	}
	return s
}
