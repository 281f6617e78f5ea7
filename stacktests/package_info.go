// Package stacktests contains the checks that the harness runs against a
// ruststack instance, one file per service domain, plus the suite wiring.
//
// Infrastructure that is not specific to this service — the out-of-runner
// test context, result aggregation, fixture lifecycle, client construction —
// lives in the framework, fixtures, and awsapi packages.
package stacktests
