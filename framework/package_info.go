// Package framework contains the generic test-run machinery for the harness:
// a testing.T-like Context that works outside of the Go test runner, result
// aggregation, run/skip filtering, and log capturing.
//
// Anything specific to the service under test (readiness probing, AWS domain
// clients, resource fixtures) lives in the higher-level packages.
package framework
