package main

import (
	"fmt"
	"os"

	"github.com/eddalmond/ruststack-integration-tests/awsapi"
	"github.com/eddalmond/ruststack-integration-tests/framework"
	"github.com/eddalmond/ruststack-integration-tests/service"
	"github.com/eddalmond/ruststack-integration-tests/stacktests"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	cfg, err := service.ConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		return 1
	}

	var params commandParams
	if !params.Read(args, &cfg) {
		return 1
	}

	var managed *service.ManagedProcess
	if params.managed {
		managed, err = service.StartManaged(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
		defer func() { _ = managed.Stop() }()
		fmt.Printf("Started service under test: %s\n", managed.CommandLine())
	}

	endpoint := cfg.Endpoint()
	fmt.Printf("Waiting up to %s for service at %s\n", params.startupTimeout, endpoint)
	if !service.WaitUntilReady(endpoint, params.startupTimeout) {
		fmt.Fprintf(os.Stderr, "Service never became ready at %s; skipping all tests\n", endpoint)
		if managed != nil {
			stdout, stderr := managed.Output()
			fmt.Fprintf(os.Stderr, "service stdout:\n%s\nservice stderr:\n%s\n", stdout, stderr)
		}
		return 1
	}

	api, err := awsapi.NewFactory(awsapi.DefaultSettings(endpoint))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client configuration error: %s\n", err)
		return 1
	}

	fmt.Println()
	framework.PrintFilterDescription(params.filters)
	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := stacktests.RunTestSuite(api, params.filters.AsFilter, testLogger)

	fmt.Println()
	framework.PrintResults(results)

	if managed != nil {
		if err := managed.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
		}
	}
	if !results.OK() {
		return 1
	}
	return 0
}
