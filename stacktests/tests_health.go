package stacktests

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoHealthTests(t *T) {
	t.Run("reports running status", func(t *T) {
		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Get(t.env.api.Settings().BaseURL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var health struct {
			Status  string `json:"status"`
			Version string `json:"version"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		assert.Equal(t, "running", health.Status)
		t.Debug("service version: %q", health.Version)
	})
}
