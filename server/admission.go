package server

import (
	"net/http"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedgate/pkg/domain"
)

func (s *Server) getPolicyHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, s.Admission.Policy())
}

// setPolicyHandler replaces the rollout policy, it takes effect for the next admission
func (s *Server) setPolicyHandler(w http.ResponseWriter, r *http.Request) {
	var policy domain.RolloutPolicy
	if err := decodeBody(r, &policy); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.Admission.SetPolicy(r.Context(), policy); err != nil {
		renderDomainError(w, r, err, "set admission policy")
		return
	}
	current := s.Admission.Policy()
	lgr.Printf("[INFO] admission policy changed to %s %d%% shadow=%v", current.Mode, current.Percentage, current.Shadow)
	renderJSON(w, r, http.StatusOK, current)
}
