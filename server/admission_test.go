package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedgate/pkg/domain"
)

func TestServer_Policy(t *testing.T) {
	srv, deps := newTestServer(t, "")
	current := domain.RolloutPolicy{Mode: domain.RolloutOff}
	deps.admission.PolicyFunc = func() domain.RolloutPolicy { return current }
	deps.admission.SetPolicyFunc = func(ctx context.Context, policy domain.RolloutPolicy) error {
		if err := policy.Validate(); err != nil {
			return err
		}
		current = policy
		return nil
	}

	w := do(t, srv, "GET", "/api/v1/admission/policy", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"mode":"off","percentage":0,"shadow":false}`, w.Body.String())

	w = do(t, srv, "PUT", "/api/v1/admission/policy", `{"mode":"canary","percentage":25,"shadow":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"mode":"canary","percentage":25,"shadow":true}`, w.Body.String())
	require.Len(t, deps.admission.SetPolicyCalls(), 1)
	assert.Equal(t, 25, deps.admission.SetPolicyCalls()[0].Policy.Percentage)

	for _, body := range []string{`{"mode":"canary","percentage":101}`, `{"mode":"sometimes"}`, `{"mode":"on","extra":1}`} {
		t.Run(fmt.Sprintf("reject %s", body), func(t *testing.T) {
			w := do(t, srv, "PUT", "/api/v1/admission/policy", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Equal(t, domain.RolloutCanary, current.Mode)
}
