package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedgate/pkg/domain"
)

// feedResponse is the JSON view of a feed
type feedResponse struct {
	ID              int64             `json:"id"`
	URL             string            `json:"url"`
	Title           string            `json:"title"`
	IntervalMinutes int               `json:"interval_minutes"`
	LastFetchedAt   *time.Time        `json:"last_fetched_at,omitempty"`
	Status          domain.FeedStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

func toFeedResponse(f *domain.Feed) feedResponse {
	return feedResponse{ID: f.ID, URL: f.URL, Title: f.Title, IntervalMinutes: f.IntervalMinutes,
		LastFetchedAt: f.LastFetchedAt, Status: f.Status, CreatedAt: f.CreatedAt}
}

type createFeedRequest struct {
	URL             string `json:"url"`
	Title           string `json:"title"`
	IntervalMinutes int    `json:"interval_minutes"`
}

type intervalRequest struct {
	Minutes int `json:"minutes"`
}

type statusRequest struct {
	Status domain.FeedStatus `json:"status"`
}

// listFeedsHandler returns all feeds, ?active=true limits to active ones
func (s *Server) listFeedsHandler(w http.ResponseWriter, r *http.Request) {
	feeds, err := s.Feeds.GetFeeds(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		renderDomainError(w, r, err, "list feeds")
		return
	}
	res := make([]feedResponse, 0, len(feeds))
	for _, f := range feeds {
		res = append(res, toFeedResponse(f))
	}
	renderJSON(w, r, http.StatusOK, res)
}

func (s *Server) getFeedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	f, err := s.Feeds.GetFeed(r.Context(), id)
	if err != nil {
		renderDomainError(w, r, err, "get feed")
		return
	}
	renderJSON(w, r, http.StatusOK, toFeedResponse(f))
}

// createFeedHandler registers a feed, its schedule starts as never fetched
func (s *Server) createFeedHandler(w http.ResponseWriter, r *http.Request) {
	var req createFeedRequest
	if err := decodeBody(r, &req); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		renderError(w, r, errors.New("feed url must be an absolute http(s) URL"), http.StatusBadRequest)
		return
	}
	if req.IntervalMinutes == 0 {
		req.IntervalMinutes = s.DefaultInterval
	}
	if req.IntervalMinutes < domain.MinIntervalMinutes || req.IntervalMinutes > domain.MaxIntervalMinutes {
		renderError(w, r, fmt.Errorf("interval must be between %d and %d minutes",
			domain.MinIntervalMinutes, domain.MaxIntervalMinutes), http.StatusBadRequest)
		return
	}

	f := &domain.Feed{URL: req.URL, Title: req.Title, IntervalMinutes: req.IntervalMinutes, Status: domain.FeedActive}
	if err := s.Feeds.CreateFeed(r.Context(), f); err != nil {
		renderDomainError(w, r, err, "create feed")
		return
	}
	lgr.Printf("[INFO] feed %d registered: %s, every %d min", f.ID, f.URL, f.IntervalMinutes)
	renderJSON(w, r, http.StatusCreated, toFeedResponse(f))
}

func (s *Server) deleteFeedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.Feeds.DeleteFeed(r.Context(), id); err != nil {
		renderDomainError(w, r, err, "delete feed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// feedStatusHandler pauses or resumes a feed
func (s *Server) feedStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	switch req.Status {
	case domain.FeedActive, domain.FeedPaused, domain.FeedError:
	default:
		renderError(w, r, fmt.Errorf("unknown feed status %q", req.Status), http.StatusBadRequest)
		return
	}
	if err := s.Feeds.SetStatus(r.Context(), id, req.Status); err != nil {
		renderDomainError(w, r, err, "set feed status")
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"id": id, "status": req.Status})
}

// dueFeedsHandler returns the ids the scheduler would fetch now, in fetch order
func (s *Server) dueFeedsHandler(w http.ResponseWriter, r *http.Request) {
	now := s.Clock.Now().UTC()
	ids, err := s.Scheduler.DueFeeds(r.Context(), now)
	if err != nil {
		renderDomainError(w, r, err, "list due feeds")
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"time": now, "feed_ids": ids})
}

// fetchNowHandler fetches a single feed out of schedule
func (s *Server) fetchNowHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.Scheduler.FetchNow(r.Context(), id); err != nil {
		renderDomainError(w, r, err, "fetch feed")
		return
	}
	renderJSON(w, r, http.StatusAccepted, map[string]any{"id": id, "fetched": true})
}

func (s *Server) setIntervalHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	var req intervalRequest
	if err := decodeBody(r, &req); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.Scheduler.SetInterval(r.Context(), id, req.Minutes); err != nil {
		renderDomainError(w, r, err, "set interval")
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"id": id, "interval_minutes": req.Minutes})
}

func (s *Server) setGlobalIntervalHandler(w http.ResponseWriter, r *http.Request) {
	var req intervalRequest
	if err := decodeBody(r, &req); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.Scheduler.SetGlobalInterval(r.Context(), req.Minutes); err != nil {
		renderDomainError(w, r, err, "set global interval")
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"interval_minutes": req.Minutes})
}

// opmlHandler exports active feeds as OPML
func (s *Server) opmlHandler(w http.ResponseWriter, r *http.Request) {
	feeds, err := s.Feeds.GetFeeds(r.Context(), true)
	if err != nil {
		renderDomainError(w, r, err, "list feeds")
		return
	}
	list := make([]domain.Feed, 0, len(feeds))
	for _, f := range feeds {
		list = append(list, *f)
	}
	opml, err := s.generator.GenerateOPML(list, s.Clock.Now().UTC())
	if err != nil {
		lgr.Printf("[ERROR] failed to generate OPML: %v", err)
		http.Error(w, "Failed to generate OPML", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/x-opml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="feedgate.opml"`)
	if _, err := w.Write([]byte(opml)); err != nil {
		lgr.Printf("[ERROR] failed to write OPML response: %v", err)
	}
}
