package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeServiceBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-service")
	script := "#!/bin/sh\necho booting \"$@\"\nsleep 30\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestStartManagedStartsAndStops(t *testing.T) {
	cfg := Config{Host: "localhost", Port: 14599, BinaryPath: fakeServiceBinary(t)}

	p, err := StartManaged(cfg)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		stdout, _ := p.Output()
		return stdout != ""
	}, 2*time.Second, 10*time.Millisecond, "process should have produced startup output")

	assert.NoError(t, p.Stop())
	stdout, _ := p.Output()
	assert.Contains(t, stdout, "--host localhost --port 14599")
}

func TestStopIsIdempotent(t *testing.T) {
	cfg := Config{Host: "localhost", Port: 14599, BinaryPath: fakeServiceBinary(t)}

	p, err := StartManaged(cfg)
	require.NoError(t, err)
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestStartManagedReportsMissingBinary(t *testing.T) {
	cfg := Config{Host: "localhost", Port: 14599, BinaryPath: "/no/such/binary"}

	_, err := StartManaged(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/no/such/binary")
}

func TestCommandLineIsShellQuoted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd name")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nsleep 30\n"), 0o755))

	p, err := StartManaged(Config{Host: "localhost", Port: 14599, BinaryPath: path})
	require.NoError(t, err)
	defer func() { _ = p.Stop() }()

	assert.Contains(t, p.CommandLine(), "'odd name'")
}
