package fixtures

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddalmond/ruststack-integration-tests/framework"
)

func fakeFixture(kind string, scope Scope, events *[]string, deps ...*Fixture) *Fixture {
	return &Fixture{
		Kind:      kind,
		Scope:     scope,
		DependsOn: deps,
		CreateFn: func(ctx context.Context, _ map[string]string) (string, error) {
			*events = append(*events, "create "+kind)
			return kind + "-id", nil
		},
		TeardownFn: func(ctx context.Context, id string) []StepResult {
			*events = append(*events, "teardown "+kind)
			return []StepResult{{Name: "delete", Status: StepOK}}
		},
	}
}

func TestAcquireCreatesDependenciesFirst(t *testing.T) {
	var events []string
	bucket := fakeFixture("bucket", TestScope, &events)
	stream := fakeFixture("stream", TestScope, &events, bucket)

	stack := NewTestStack(nil, nil)
	id, err := stack.Acquire(context.Background(), stream)
	require.NoError(t, err)
	assert.Equal(t, "stream-id", id)
	assert.Equal(t, []string{"create bucket", "create stream"}, events)
	assert.Equal(t, InUse, bucket.State())
	assert.Equal(t, InUse, stream.State())
}

func TestReleaseTearsDownInReverseCreationOrder(t *testing.T) {
	var events []string
	bucket := fakeFixture("bucket", TestScope, &events)
	stream := fakeFixture("stream", TestScope, &events, bucket)

	stack := NewTestStack(nil, nil)
	_, err := stack.Acquire(context.Background(), stream)
	require.NoError(t, err)

	events = nil
	stack.Release(context.Background())
	assert.Equal(t, []string{"teardown stream", "teardown bucket"}, events)
	assert.Equal(t, Done, bucket.State())
	assert.Equal(t, Done, stream.State())
}

func TestReleaseIsIdempotent(t *testing.T) {
	var events []string
	f := fakeFixture("bucket", TestScope, &events)

	stack := NewTestStack(nil, nil)
	_, err := stack.Acquire(context.Background(), f)
	require.NoError(t, err)

	stack.Release(context.Background())
	stack.Release(context.Background())

	teardowns := 0
	for _, e := range events {
		if strings.HasPrefix(e, "teardown") {
			teardowns++
		}
	}
	assert.Equal(t, 1, teardowns)
}

func TestCreationFailureLeavesFixturePending(t *testing.T) {
	tornDown := false
	f := &Fixture{
		Kind:  "table",
		Scope: TestScope,
		CreateFn: func(ctx context.Context, _ map[string]string) (string, error) {
			return "", errors.New("remote error: internal failure")
		},
		TeardownFn: func(ctx context.Context, id string) []StepResult {
			tornDown = true
			return nil
		},
	}

	stack := NewTestStack(nil, nil)
	_, err := stack.Acquire(context.Background(), f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote error: internal failure")
	assert.Equal(t, Pending, f.State())

	stack.Release(context.Background())
	assert.False(t, tornDown, "a fixture that was never created owes no teardown")
}

func TestDependencyStillReleasedWhenDependentCreationFails(t *testing.T) {
	var events []string
	bucket := fakeFixture("bucket", TestScope, &events)
	stream := &Fixture{
		Kind:      "stream",
		Scope:     TestScope,
		DependsOn: []*Fixture{bucket},
		CreateFn: func(ctx context.Context, _ map[string]string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}

	stack := NewTestStack(nil, nil)
	_, err := stack.Acquire(context.Background(), stream)
	require.Error(t, err)

	stack.Release(context.Background())
	assert.Contains(t, events, "teardown bucket")
}

func TestTeardownStepFailuresAreLoggedNotPropagated(t *testing.T) {
	var logged framework.CapturingLogger
	f := &Fixture{
		Kind:  "bucket",
		Scope: TestScope,
		CreateFn: func(ctx context.Context, _ map[string]string) (string, error) {
			return "bucket-1", nil
		},
		TeardownFn: func(ctx context.Context, id string) []StepResult {
			return []StepResult{
				{Name: "delete object a", Status: StepFailed, Err: errors.New("access denied")},
				{Name: "delete object b", Status: StepIgnored, Err: errors.New("not found")},
				{Name: "delete bucket", Status: StepOK},
			}
		},
	}

	stack := NewTestStack(nil, &logged)
	_, err := stack.Acquire(context.Background(), f)
	require.NoError(t, err)
	stack.Release(context.Background())

	assert.Equal(t, Done, f.State())
	var messages []string
	for _, m := range logged.Output() {
		messages = append(messages, m.Message)
	}
	joined := strings.Join(messages, "\n")
	assert.Contains(t, joined, "delete object a failed")
	assert.Contains(t, joined, "delete object b skipped")
}

func TestRunScopedFixtureIsSharedAcrossTestStacks(t *testing.T) {
	var events []string
	shared := fakeFixture("bucket", RunScope, &events)

	run := NewRunStack(nil)
	test1 := NewTestStack(run, nil)
	test2 := NewTestStack(run, nil)

	id1, err := test1.Acquire(context.Background(), shared)
	require.NoError(t, err)
	id2, err := test2.Acquire(context.Background(), shared)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	assert.Equal(t, []string{"create bucket"}, events, "run-scoped fixture should be created once")

	test1.Release(context.Background())
	test2.Release(context.Background())
	assert.Equal(t, InUse, shared.State(), "test stacks must not tear down run-scoped fixtures")

	run.Release(context.Background())
	assert.Equal(t, Done, shared.State())
}

func TestAcquireAfterTeardownFails(t *testing.T) {
	var events []string
	f := fakeFixture("bucket", TestScope, &events)

	stack := NewTestStack(nil, nil)
	_, err := stack.Acquire(context.Background(), f)
	require.NoError(t, err)
	stack.Release(context.Background())

	_, err = stack.Acquire(context.Background(), f)
	assert.Error(t, err)
}

func TestStepOutcomeClassification(t *testing.T) {
	notFound := errors.New("no such key")
	isNotFound := func(err error) bool { return err == notFound }

	assert.Equal(t, StepOK, StepOutcome("delete", nil, isNotFound).Status)
	assert.Equal(t, StepIgnored, StepOutcome("delete", notFound, isNotFound).Status)
	assert.Equal(t, StepFailed, StepOutcome("delete", errors.New("timeout"), isNotFound).Status)
}

func TestNewIDFormat(t *testing.T) {
	a := NewID("test-bucket")
	b := NewID("test-bucket")
	assert.Regexp(t, `^test-bucket-[0-9a-f]{8}$`, a)
	assert.NotEqual(t, a, b)
}
