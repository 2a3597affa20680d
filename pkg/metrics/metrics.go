// Package metrics holds prometheus collectors of the scheduler, quota guard, admission controller
// and job workers. Each Metrics owns its registry, so tests can create as many as they need.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "feedgate"

// Metrics is the set of collectors shared by core components
type Metrics struct {
	registry *prometheus.Registry

	SchedulerTicks prometheus.Counter
	FeedFetches    *prometheus.CounterVec // result: success, failure, panic
	FetchDuration  prometheus.Histogram

	Admissions       *prometheus.CounterVec // decision, reason
	ShadowAdmissions *prometheus.CounterVec // would-be decision, reason
	Violations       *prometheus.CounterVec // type, action
	QuotaConflicts   prometheus.Counter
	CostUSD          prometheus.Counter
	DisabledFeeds    prometheus.Gauge

	JobsEnqueued prometheus.Counter
	JobOutcomes  *prometheus.CounterVec // outcome: completed, retried, dead_lettered, rejected, lost
	JobDuration  prometheus.Histogram
	JobsReaped   prometheus.Counter
	ClaimErrors  prometheus.Counter
	JobsInFlight prometheus.Gauge
}

// New creates collectors registered in a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		SchedulerTicks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "scheduler", Name: "ticks_total",
			Help: "Number of scheduler ticks",
		}),
		FeedFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "scheduler", Name: "fetches_total",
			Help: "Feed fetch attempts by result",
		}, []string{"result"}),
		FetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "scheduler", Name: "fetch_duration_seconds",
			Help:    "Duration of a single feed fetch",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms .. ~25s
		}),

		Admissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "admission", Name: "decisions_total",
			Help: "Admission decisions by outcome and deny reason",
		}, []string{"decision", "reason"}),
		ShadowAdmissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "admission", Name: "shadow_decisions_total",
			Help: "Decisions evaluated in shadow mode, nothing enqueued",
		}, []string{"decision", "reason"}),
		Violations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "quota", Name: "violations_total",
			Help: "Recorded quota violations by type and action",
		}, []string{"type", "action"}),
		QuotaConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "quota", Name: "version_conflicts_total",
			Help: "Optimistic update conflicts retried by the quota guard",
		}),
		CostUSD: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "quota", Name: "cost_usd_total",
			Help: "Accumulated analysis cost in USD",
		}),
		DisabledFeeds: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "quota", Name: "disabled_feeds",
			Help: "Feeds with an open circuit",
		}),

		JobsEnqueued: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "queue", Name: "enqueued_total",
			Help: "Jobs enqueued by the admission controller",
		}),
		JobOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "worker", Name: "jobs_total",
			Help: "Processed jobs by outcome",
		}, []string{"outcome"}),
		JobDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "worker", Name: "job_duration_seconds",
			Help:    "Duration of job execution",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms .. ~51s
		}),
		JobsReaped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "queue", Name: "reaped_total",
			Help: "Stale processing jobs returned to pending",
		}),
		ClaimErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "worker", Name: "claim_errors_total",
			Help: "Failed claim attempts, the queue store was unreachable",
		}),
		JobsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "worker", Name: "jobs_in_flight",
			Help: "Jobs currently executing",
		}),
	}
}

// WithRuntime adds go runtime and process collectors, used by the binary
func (m *Metrics) WithRuntime() *Metrics {
	m.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
