// Package service deals with the ruststack instance under test: locating it
// through environment configuration, waiting for it to become ready, and
// optionally running it as a managed subprocess.
package service

import (
	"fmt"
	"os"
	"strconv"
)

const (
	envHost   = "RUSTSTACK_HOST"
	envPort   = "RUSTSTACK_PORT"
	envBinary = "RUSTSTACK_BINARY"

	defaultHost   = "localhost"
	defaultPort   = 4566
	defaultBinary = "./target/release/ruststack"
)

// Config locates the service under test. BinaryPath is only used in managed
// mode, when the harness starts the service itself.
type Config struct {
	Host       string
	Port       int
	BinaryPath string
}

// ConfigFromEnv reads RUSTSTACK_HOST, RUSTSTACK_PORT, and RUSTSTACK_BINARY,
// applying defaults for any that are unset. A non-numeric port is a fatal
// configuration error.
func ConfigFromEnv() (Config, error) {
	c := Config{
		Host:       defaultHost,
		Port:       defaultPort,
		BinaryPath: defaultBinary,
	}
	if v := os.Getenv(envHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(envPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("%s must be a valid port number, got %q", envPort, v)
		}
		c.Port = port
	}
	if v := os.Getenv(envBinary); v != "" {
		c.BinaryPath = v
	}
	return c, nil
}

// Endpoint returns the base URL of the service under test.
func (c Config) Endpoint() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}
