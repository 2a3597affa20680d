package main

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedgate/pkg/config"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "broken yaml", content: "invalid: yaml: content: ["},
		{name: "missing llm model", content: "llm:\n  endpoint: http://localhost:1/v1\n"},
		{name: "bad admission mode", content: "llm:\n  endpoint: http://localhost:1/v1\n  model: m\nadmission:\n  mode: sometimes\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			err := run(ctx, Opts{Config: path})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to load config")
		})
	}
}

func TestRun_ServerStartStop(t *testing.T) {
	port := freePort(t)
	t.Setenv("FEEDGATE_TEST_PORT", strconv.Itoa(port))
	t.Setenv("FEEDGATE_TEST_DB", "file:"+filepath.Join(t.TempDir(), "feedgate.db")+"?mode=rwc&_txlock=immediate")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, Opts{Config: "testdata/config.yml"}) }()

	baseURL := "http://127.0.0.1:" + strconv.Itoa(port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond, "server did not start")

	t.Run("status", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/api/v1/status")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var status map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
		assert.Equal(t, "ok", status["status"])
	})

	t.Run("mutation requires token", func(t *testing.T) {
		body := strings.NewReader(`{"url":"http://example.com/rss","title":"example"}`)
		resp, err := http.Post(baseURL+"/api/v1/feeds", "application/json", body)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("register feed", func(t *testing.T) {
		body := strings.NewReader(`{"url":"http://example.com/rss","title":"example","interval_minutes":15}`)
		req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/feeds", body)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer test-token")
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(data), "feedgate_")
	})

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Listen = ":8080"
	cfg.Worker.Count = 2
	cfg.Database.DSN = "file:a.db"

	applyOverrides(cfg, Opts{})
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 2, cfg.Worker.Count)
	assert.Equal(t, "file:a.db", cfg.Database.DSN)

	applyOverrides(cfg, Opts{Listen: ":9090", Workers: 4, DBPath: "file:b.db"})
	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, 4, cfg.Worker.Count)
	assert.Equal(t, "file:b.db", cfg.Database.DSN)
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, logNotifier{}.Alert(context.Background(), 42, "daily cost limit reached"))
}

func TestSetupLog(t *testing.T) {
	// neither call may panic, secrets with empty values are skipped
	setupLog(false)
	setupLog(true, "secret", "")
	setupLog(false, "", "")
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
