// Package awsapi builds the AWS SDK clients that the checks use to talk to
// the service under test. One client per domain is constructed for the whole
// run; construction never touches the network.
package awsapi

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// RetryPolicy enumerates the only retry/timeout options the harness
// recognizes. Individual domain calls are retried by the SDK up to
// MaxAttempts; the harness itself never retries.
type RetryPolicy struct {
	MaxAttempts    int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// Settings describes one endpoint of the service under test. The credentials
// are static and never validated by the service; they exist because the SDK
// requires a signing identity.
type Settings struct {
	BaseURL         string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Retry           RetryPolicy
}

// DefaultSettings returns the standard configuration for a run against the
// given base URL.
func DefaultSettings(baseURL string) Settings {
	return Settings{
		BaseURL:         baseURL,
		Region:          "us-east-1",
		AccessKeyID:     "testing",
		SecretAccessKey: "testing",
		Retry: RetryPolicy{
			MaxAttempts:    3,
			ConnectTimeout: 5 * time.Second,
			ReadTimeout:    30 * time.Second,
		},
	}
}

// Validate reports a configuration failure for structurally invalid settings.
func (s Settings) Validate() error {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return fmt.Errorf("malformed endpoint URL %q: %w", s.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint URL %q must use http or https", s.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint URL %q has no host", s.BaseURL)
	}
	if s.Region == "" {
		return errors.New("region must not be empty")
	}
	if s.AccessKeyID == "" || s.SecretAccessKey == "" {
		return errors.New("credentials must not be empty")
	}
	if s.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1, got %d", s.Retry.MaxAttempts)
	}
	return nil
}
