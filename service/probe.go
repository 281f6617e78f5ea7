package service

import (
	"encoding/json"
	"net/http"
	"time"
)

const (
	healthPath     = "/health"
	pollInterval   = 100 * time.Millisecond
	attemptTimeout = time.Second

	// The value the health endpoint reports once the service is operational.
	readyStatus = "running"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// WaitUntilReady polls the service's health endpoint until it reports ready or
// the timeout budget elapses. Connection refusals, resets, timeouts, and
// unexpected responses on individual attempts are all treated as "not yet
// ready"; this function never returns an error, only false once the budget is
// spent.
func WaitUntilReady(baseURL string, timeout time.Duration) bool {
	client := &http.Client{Timeout: attemptTimeout}
	deadline := time.Now().Add(timeout)
	for {
		if checkHealth(client, baseURL) {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		time.Sleep(pollInterval)
	}
}

func checkHealth(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + healthPath)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return false
	}
	return health.Status == readyStatus
}
