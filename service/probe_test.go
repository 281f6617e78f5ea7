package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthHandler(status string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != healthPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "` + status + `", "version": "0.1.0"}`))
	})
}

func TestWaitUntilReadyReturnsQuicklyWhenServiceIsUp(t *testing.T) {
	server := httptest.NewServer(healthHandler("running"))
	defer server.Close()

	start := time.Now()
	assert.True(t, WaitUntilReady(server.URL, 2*time.Second))
	assert.Less(t, time.Since(start), 500*time.Millisecond,
		"an already-ready service should be detected within one polling interval")
}

func TestWaitUntilReadySpendsItsFullBudgetThenGivesUp(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(http.StatusServiceUnavailable))
	server := httptest.NewServer(handler)
	defer server.Close()

	timeout := 300 * time.Millisecond
	start := time.Now()
	ready := WaitUntilReady(server.URL, timeout)
	elapsed := time.Since(start)

	assert.False(t, ready)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, timeout+time.Second)
	require.GreaterOrEqual(t, len(requests), 2, "the prober should have retried")
}

func TestWaitUntilReadyRejectsNonReadyStatusBody(t *testing.T) {
	server := httptest.NewServer(healthHandler("starting"))
	defer server.Close()

	assert.False(t, WaitUntilReady(server.URL, 300*time.Millisecond))
}

func TestWaitUntilReadyRejectsNonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}))
	defer server.Close()

	assert.False(t, WaitUntilReady(server.URL, 300*time.Millisecond))
}

func TestWaitUntilReadyToleratesConnectionRefused(t *testing.T) {
	server := httptest.NewServer(healthHandler("running"))
	url := server.URL
	server.Close()

	assert.False(t, WaitUntilReady(url, 300*time.Millisecond))
}
