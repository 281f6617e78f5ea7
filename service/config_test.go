package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	t.Setenv(envHost, "")
	t.Setenv(envPort, "")
	t.Setenv(envBinary, "")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 4566, cfg.Port)
	assert.Equal(t, "./target/release/ruststack", cfg.BinaryPath)
	assert.Equal(t, "http://localhost:4566", cfg.Endpoint())
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv(envHost, "stack.internal")
	t.Setenv(envPort, "14566")
	t.Setenv(envBinary, "/opt/ruststack/bin/ruststack")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "stack.internal", cfg.Host)
	assert.Equal(t, 14566, cfg.Port)
	assert.Equal(t, "/opt/ruststack/bin/ruststack", cfg.BinaryPath)
	assert.Equal(t, "http://stack.internal:14566", cfg.Endpoint())
}

func TestConfigRejectsMalformedPort(t *testing.T) {
	for _, bad := range []string{"not-a-port", "-1", "0", "70000"} {
		t.Setenv(envPort, bad)
		_, err := ConfigFromEnv()
		assert.Error(t, err, "port %q should be rejected", bad)
	}
}
