package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/eddalmond/ruststack-integration-tests/framework"
	"github.com/eddalmond/ruststack-integration-tests/service"
)

const defaultStartupTimeout = 30 * time.Second

type commandParams struct {
	managed        bool
	startupTimeout time.Duration
	filters        framework.RegexFilters
	debug          bool
	debugAll       bool
}

// Read parses the command line. The host/port/binary flags default to the
// environment-derived configuration and override it when given.
func (c *commandParams) Read(args []string, cfg *service.Config) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "host of the service under test")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "port of the service under test")
	fs.StringVar(&cfg.BinaryPath, "binary", cfg.BinaryPath, "path to the service binary (managed mode only)")
	fs.BoolVar(&c.managed, "managed", false, "start the service under test as a subprocess")
	fs.DurationVar(&c.startupTimeout, "startup-timeout", defaultStartupTimeout,
		"how long to wait for the service to become ready")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	return true
}
