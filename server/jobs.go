package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedgate/pkg/domain"
)

// listJobsHandler lists jobs filtered by ?status=&feed=&limit=&offset=
func (s *Server) listJobsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.JobFilter{Status: domain.JobStatus(q.Get("status"))}
	switch filter.Status {
	case "", domain.JobPending, domain.JobProcessing, domain.JobCompleted, domain.JobFailed, domain.JobDeadLettered:
	default:
		renderError(w, r, fmt.Errorf("unknown job status %q", filter.Status), http.StatusBadRequest)
		return
	}
	if str := q.Get("feed"); str != "" {
		feedID, err := strconv.ParseInt(str, 10, 64)
		if err != nil || feedID <= 0 {
			renderError(w, r, fmt.Errorf("invalid feed %q", str), http.StatusBadRequest)
			return
		}
		filter.FeedID = feedID
	}
	limit, err := queryLimit(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	filter.Limit = limit
	if str := q.Get("offset"); str != "" {
		offset, err := strconv.Atoi(str)
		if err != nil || offset < 0 {
			renderError(w, r, fmt.Errorf("invalid offset %q", str), http.StatusBadRequest)
			return
		}
		filter.Offset = offset
	}

	jobs, err := s.Jobs.ListJobs(r.Context(), filter)
	if err != nil {
		renderDomainError(w, r, err, "list jobs")
		return
	}
	if jobs == nil {
		jobs = []domain.PendingJob{}
	}
	renderJSON(w, r, http.StatusOK, jobs)
}

// getJobHandler returns a job, with its result once completed
func (s *Server) getJobHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	job, err := s.Jobs.GetJob(r.Context(), id)
	if err != nil {
		renderDomainError(w, r, err, "get job")
		return
	}
	res := map[string]any{"job": job}
	if job.Status == domain.JobCompleted {
		result, err := s.Jobs.GetResult(r.Context(), id)
		switch {
		case err == nil:
			res["result"] = result
		case errors.Is(err, domain.ErrNotFound):
		default:
			lgr.Printf("[WARN] failed to get result of job %d: %v", id, err)
		}
	}
	renderJSON(w, r, http.StatusOK, res)
}

func (s *Server) queueStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Jobs.Stats(r.Context())
	if err != nil {
		renderDomainError(w, r, err, "get queue stats")
		return
	}
	renderJSON(w, r, http.StatusOK, stats)
}

// resultsRSSHandler serves results of all feeds as RSS
func (s *Server) resultsRSSHandler(w http.ResponseWriter, r *http.Request) {
	s.renderResultsRSS(w, r, nil)
}

// feedResultsRSSHandler serves results of one feed as RSS
func (s *Server) feedResultsRSSHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f, err := s.Feeds.GetFeed(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "Feed not found", http.StatusNotFound)
		return
	}
	if err != nil {
		lgr.Printf("[ERROR] failed to get feed %d for RSS: %v", id, err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}
	s.renderResultsRSS(w, r, f)
}

func (s *Server) renderResultsRSS(w http.ResponseWriter, r *http.Request, f *domain.Feed) {
	limit, err := queryLimit(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var feedID int64
	if f != nil {
		feedID = f.ID
	}
	results, err := s.Jobs.ListResults(r.Context(), feedID, limit)
	if err != nil {
		lgr.Printf("[ERROR] failed to get results for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	rss, err := s.generator.GenerateRSS(f, results, s.Clock.Now().UTC())
	if err != nil {
		lgr.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		lgr.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}
