package stacktests

import (
	"context"

	"github.com/stretchr/testify/require"

	"github.com/eddalmond/ruststack-integration-tests/awsapi"
	"github.com/eddalmond/ruststack-integration-tests/fixtures"
	"github.com/eddalmond/ruststack-integration-tests/framework"
)

// environment holds the long-lived collaborators shared by every check in a
// run: the per-domain clients and the stack of run-scoped fixtures.
type environment struct {
	api         *awsapi.Factory
	runFixtures *fixtures.Stack

	// destBucket is the run-scoped container that delivery streams target.
	// Created on first use, torn down once after the last test.
	destBucket *fixtures.Fixture
}

// T represents a test or subtest in the suite.
//
// It implements the same basic functionality as Go's testing.T, but outside
// of the Go test runner; assertions from the assert and require packages can
// be passed a *T as if it were a *testing.T. It also hands out fixtures with
// guaranteed teardown: anything acquired through RequireFixture is released
// when the test ends, on every exit path.
type T struct {
	context      *framework.Context
	env          *environment
	testFixtures *fixtures.Stack
}

func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(&T{context: c, env: t.env})
	})
}

func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

func (t *T) FailNow() {
	t.context.FailNow()
}

func (t *T) SkipWithReason(reason string) {
	t.context.SkipWithReason(reason)
}

func (t *T) Debug(message string, args ...interface{}) {
	t.context.Debug(message, args...)
}

func (t *T) DebugLogger() framework.Logger {
	return t.context.DebugLogger()
}

// Defer registers a cleanup that runs when this test ends regardless of its
// outcome. Cleanups never change the test's verdict.
func (t *T) Defer(cleanup func()) {
	t.context.Defer(cleanup)
}

// Context returns the context for client calls made by this test. Per-call
// timeouts come from the client retry policy, so this is not a deadline
// context.
func (t *T) Context() context.Context {
	return context.Background()
}

// RequireFixture acquires a fixture for this test, creating it and any of its
// dependencies as needed, and returns its identifier. The test fails
// immediately if creation fails; nothing is torn down for a fixture that was
// never created. Releases happen automatically when the test ends.
func (t *T) RequireFixture(f *fixtures.Fixture) string {
	if t.testFixtures == nil {
		t.testFixtures = fixtures.NewTestStack(t.env.runFixtures, t.DebugLogger())
		t.Defer(func() {
			t.testFixtures.Release(context.Background())
		})
	}
	id, err := t.testFixtures.Acquire(t.Context(), f)
	require.NoError(t, err)
	return id
}
