// Package server exposes the admin JSON API of feedgate: feed scheduling, quotas, the job queue
// and the admission policy, plus RSS/OPML exports and prometheus metrics.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/feedgate/pkg/clock"
	"github.com/umputun/feedgate/pkg/domain"
	"github.com/umputun/feedgate/pkg/feed"
	"github.com/umputun/feedgate/pkg/metrics"
)

//go:generate moq -out mocks/feed_store.go -pkg mocks -skip-ensure -fmt goimports . FeedStore
//go:generate moq -out mocks/scheduler.go -pkg mocks -skip-ensure -fmt goimports . Scheduler
//go:generate moq -out mocks/quota_admin.go -pkg mocks -skip-ensure -fmt goimports . QuotaAdmin
//go:generate moq -out mocks/job_reader.go -pkg mocks -skip-ensure -fmt goimports . JobReader
//go:generate moq -out mocks/policy_admin.go -pkg mocks -skip-ensure -fmt goimports . PolicyAdmin

// FeedStore manages registered feeds
type FeedStore interface {
	GetFeeds(ctx context.Context, activeOnly bool) ([]*domain.Feed, error)
	GetFeed(ctx context.Context, id int64) (*domain.Feed, error)
	CreateFeed(ctx context.Context, feed *domain.Feed) error
	SetStatus(ctx context.Context, feedID int64, status domain.FeedStatus) error
	DeleteFeed(ctx context.Context, id int64) error
}

// Scheduler exposes fetch scheduling operations
type Scheduler interface {
	DueFeeds(ctx context.Context, now time.Time) ([]int64, error)
	FetchNow(ctx context.Context, feedID int64) error
	SetInterval(ctx context.Context, feedID int64, minutes int) error
	SetGlobalInterval(ctx context.Context, minutes int) error
}

// QuotaAdmin exposes quota guard administration
type QuotaAdmin interface {
	Limits(feedID int64) (domain.QuotaState, bool)
	SetLimits(ctx context.Context, feedID int64, limits domain.QuotaConfig) error
	Reenable(ctx context.Context, feedID int64) error
	EmergencyStop(ctx context.Context, feedID int64) error
	Violations(ctx context.Context, feedID int64, since time.Time) ([]domain.ViolationRecord, error)
	ViolationsSummary(ctx context.Context, since time.Time) ([]domain.ViolationSummary, error)
}

// JobReader is the read side of the job queue
type JobReader interface {
	GetJob(ctx context.Context, jobID int64) (*domain.PendingJob, error)
	GetResult(ctx context.Context, jobID int64) (*domain.JobResult, error)
	ListJobs(ctx context.Context, filter domain.JobFilter) ([]domain.PendingJob, error)
	ListResults(ctx context.Context, feedID int64, limit int) ([]domain.JobResult, error)
	Stats(ctx context.Context) (domain.QueueStats, error)
}

// PolicyAdmin reads and changes the admission rollout policy
type PolicyAdmin interface {
	Policy() domain.RolloutPolicy
	SetPolicy(ctx context.Context, policy domain.RolloutPolicy) error
}

// Params for creating a Server
type Params struct {
	Listen          string
	Timeout         time.Duration
	Token           string // bearer token required by mutating routes, open if empty
	BaseURL         string // used in RSS and OPML links
	DefaultInterval int    // fetch interval in minutes for feeds registered without one
	Version         string
	Debug           bool

	Feeds     FeedStore
	Scheduler Scheduler
	Quota     QuotaAdmin
	Jobs      JobReader
	Admission PolicyAdmin
	Metrics   *metrics.Metrics
	Clock     clock.Clock
}

// Server represents HTTP server instance
type Server struct {
	Params
	generator *feed.Generator

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

const (
	defaultListLimit = 100
	maxListLimit     = 1000
	defaultSince     = 24 * time.Hour
)

// New initializes a new server instance
func New(params Params) *Server {
	if params.Clock == nil {
		params.Clock = clock.Real{}
	}
	if params.Metrics == nil {
		params.Metrics = metrics.New()
	}
	if params.DefaultInterval == 0 {
		params.DefaultInterval = 30
	}
	s := &Server{
		Params:    params,
		generator: feed.NewGenerator(params.BaseURL),
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	lgr.Printf("[INFO] starting server on %s", s.Listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              s.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: s.Timeout,
		ReadTimeout:       s.Timeout,
		WriteTimeout:      s.Timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// Handler returns the root handler, used by tests and embedding
func (s *Server) Handler() http.Handler { return s.router }

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("feedgate", "umputun", s.Version))
	s.router.Use(rest.Ping)

	if s.Debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Handle("GET /metrics", s.Metrics.Handler())

	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)

		r.HandleFunc("GET /feeds", s.listFeedsHandler)
		r.HandleFunc("GET /feeds/due", s.dueFeedsHandler)
		r.HandleFunc("GET /feeds/{id}", s.getFeedHandler)
		r.HandleFunc("GET /feeds.opml", s.opmlHandler)
		r.HandleFunc("GET /feeds/{id}/results.rss", s.feedResultsRSSHandler)
		r.HandleFunc("GET /results.rss", s.resultsRSSHandler)

		r.HandleFunc("GET /quotas/{id}", s.getQuotaHandler)
		r.HandleFunc("GET /quotas/{id}/violations", s.violationsHandler)
		r.HandleFunc("GET /violations/summary", s.violationsSummaryHandler)

		r.HandleFunc("GET /jobs", s.listJobsHandler)
		r.HandleFunc("GET /jobs/{id}", s.getJobHandler)
		r.HandleFunc("GET /queue/stats", s.queueStatsHandler)

		r.HandleFunc("GET /admission/policy", s.getPolicyHandler)

		// mutating routes
		r.Group().Route(func(w *routegroup.Bundle) {
			w.Use(s.authMiddleware)

			w.HandleFunc("POST /feeds", s.createFeedHandler)
			w.HandleFunc("DELETE /feeds/{id}", s.deleteFeedHandler)
			w.HandleFunc("PUT /feeds/{id}/status", s.feedStatusHandler)
			w.HandleFunc("POST /feeds/{id}/fetch", s.fetchNowHandler)
			w.HandleFunc("PUT /feeds/{id}/interval", s.setIntervalHandler)
			w.HandleFunc("PUT /feeds/interval", s.setGlobalIntervalHandler)

			w.HandleFunc("PUT /quotas/{id}", s.setQuotaHandler)
			w.HandleFunc("POST /quotas/{id}/reenable", s.reenableHandler)
			w.HandleFunc("POST /quotas/{id}/emergency-stop", s.emergencyStopHandler)

			w.HandleFunc("PUT /admission/policy", s.setPolicyHandler)
		})
	})
}

// authMiddleware checks the bearer token when one is configured
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
			renderError(w, r, errors.New("unauthorized"), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.Version,
		"time":    s.Clock.Now().UTC(),
		"policy":  s.Admission.Policy(),
	}
	if stats, err := s.Jobs.Stats(r.Context()); err == nil {
		status["queue"] = stats
	} else {
		lgr.Printf("[WARN] failed to get queue stats for status: %v", err)
	}
	renderJSON(w, r, http.StatusOK, status)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}

// renderDomainError maps domain errors to HTTP status codes
func renderDomainError(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		renderError(w, r, err, http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		renderError(w, r, err, http.StatusNotFound)
	case errors.Is(err, domain.ErrVersionConflict):
		renderError(w, r, err, http.StatusConflict)
	default:
		lgr.Printf("[ERROR] failed to %s: %v", what, err)
		renderError(w, r, fmt.Errorf("failed to %s", what), http.StatusInternalServerError)
	}
}

// pathID parses the {id} path value
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// decodeBody decodes a JSON request body, rejecting unknown fields
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// queryLimit parses the limit query parameter
func queryLimit(r *http.Request) (int, error) {
	str := r.URL.Query().Get("limit")
	if str == "" {
		return defaultListLimit, nil
	}
	limit, err := strconv.Atoi(str)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit %q", str)
	}
	return min(limit, maxListLimit), nil
}

// querySince parses the since query parameter, RFC3339 timestamp or a duration back from now
func (s *Server) querySince(r *http.Request) (time.Time, error) {
	now := s.Clock.Now().UTC()
	str := r.URL.Query().Get("since")
	if str == "" {
		return now.Add(-defaultSince), nil
	}
	if t, err := time.Parse(time.RFC3339, str); err == nil {
		return t.UTC(), nil
	}
	if d, err := time.ParseDuration(str); err == nil && d > 0 {
		return now.Add(-d), nil
	}
	return time.Time{}, fmt.Errorf("invalid since %q, want RFC3339 time or duration", str)
}
