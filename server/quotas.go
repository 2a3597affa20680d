package server

import (
	"net/http"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedgate/pkg/domain"
)

// limitsRequest carries the settable part of a quota config
type limitsRequest struct {
	MaxPerDay               int      `json:"max_per_day"`
	MaxPerHour              int      `json:"max_per_hour"`
	MinIntervalMinutes      int      `json:"min_interval_minutes"`
	DailyCostLimit          float64  `json:"daily_cost_limit"`
	MonthlyCostLimit        float64  `json:"monthly_cost_limit"`
	CostAlertThresholdPct   float64  `json:"cost_alert_threshold_pct"`
	MaxItemsPerJob          int      `json:"max_items_per_job"`
	AutoDisableOnErrorRate  *float64 `json:"auto_disable_on_error_rate"`
	AutoDisableOnCostBreach bool     `json:"auto_disable_on_cost_breach"`
}

func (l limitsRequest) config(feedID int64) domain.QuotaConfig {
	return domain.QuotaConfig{
		FeedID:                  feedID,
		MaxPerDay:               l.MaxPerDay,
		MaxPerHour:              l.MaxPerHour,
		MinIntervalMinutes:      l.MinIntervalMinutes,
		DailyCostLimit:          l.DailyCostLimit,
		MonthlyCostLimit:        l.MonthlyCostLimit,
		CostAlertThresholdPct:   l.CostAlertThresholdPct,
		MaxItemsPerJob:          l.MaxItemsPerJob,
		AutoDisableOnErrorRate:  l.AutoDisableOnErrorRate,
		AutoDisableOnCostBreach: l.AutoDisableOnCostBreach,
	}
}

// getQuotaHandler returns limits and usage of a feed. A feed without quota is unlimited.
func (s *Server) getQuotaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	state, ok := s.Quota.Limits(id)
	if !ok {
		renderJSON(w, r, http.StatusOK, map[string]any{"feed_id": id, "unlimited": true})
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"feed_id": id, "unlimited": false, "quota": state})
}

func (s *Server) setQuotaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	var req limitsRequest
	if err := decodeBody(r, &req); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.Quota.SetLimits(r.Context(), id, req.config(id)); err != nil {
		renderDomainError(w, r, err, "set quota")
		return
	}
	state, _ := s.Quota.Limits(id)
	renderJSON(w, r, http.StatusOK, map[string]any{"feed_id": id, "unlimited": false, "quota": state})
}

// reenableHandler closes an open circuit
func (s *Server) reenableHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.Quota.Reenable(r.Context(), id); err != nil {
		renderDomainError(w, r, err, "re-enable feed")
		return
	}
	lgr.Printf("[INFO] feed %d re-enabled by admin", id)
	renderJSON(w, r, http.StatusOK, map[string]any{"feed_id": id, "active": true})
}

func (s *Server) emergencyStopHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.Quota.EmergencyStop(r.Context(), id); err != nil {
		renderDomainError(w, r, err, "stop feed")
		return
	}
	lgr.Printf("[WARN] emergency stop of feed %d by admin", id)
	renderJSON(w, r, http.StatusOK, map[string]any{"feed_id": id, "active": false})
}

// violationsHandler lists violations of a feed, ?since= defaults to the last 24h
func (s *Server) violationsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	since, err := s.querySince(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	recs, err := s.Quota.Violations(r.Context(), id, since)
	if err != nil {
		renderDomainError(w, r, err, "list violations")
		return
	}
	if recs == nil {
		recs = []domain.ViolationRecord{}
	}
	renderJSON(w, r, http.StatusOK, recs)
}

func (s *Server) violationsSummaryHandler(w http.ResponseWriter, r *http.Request) {
	since, err := s.querySince(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	res, err := s.Quota.ViolationsSummary(r.Context(), since)
	if err != nil {
		renderDomainError(w, r, err, "summarize violations")
		return
	}
	if res == nil {
		res = []domain.ViolationSummary{}
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"since": since, "summary": res})
}
