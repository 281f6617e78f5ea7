package framework

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAggregatesVerdicts(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("first", func(c *Context) {})
		c.Run("second", func(c *Context) { c.Errorf("expected 2, got 3") })
		c.Run("third", func(c *Context) {})
		c.Run("fourth", func(c *Context) {})
	})

	passed, failed, skipped := results.Counts()
	assert.Equal(t, 3, passed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 0, skipped)
	assert.False(t, results.OK())

	require.Len(t, results.Failures, 1)
	assert.Equal(t, "second", results.Failures[0].TestID.String())
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "expected 2, got 3")
}

func TestFailNowAbortsBodyButNotRun(t *testing.T) {
	reachedAfterFailNow := false
	ranNextTest := false

	results := Run(nil, nil, func(c *Context) {
		c.Run("aborts", func(c *Context) {
			require.NoError(c, errors.New("remote call failed"))
			reachedAfterFailNow = true
		})
		c.Run("still runs", func(c *Context) { ranNextTest = true })
	})

	assert.False(t, reachedAfterFailNow)
	assert.True(t, ranNextTest)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "aborts", results.Failures[0].TestID.String())
}

func TestDeferRunsOnEveryExitPath(t *testing.T) {
	var order []string

	Run(nil, nil, func(c *Context) {
		c.Run("passing", func(c *Context) {
			c.Defer(func() { order = append(order, "pass-1") })
			c.Defer(func() { order = append(order, "pass-2") })
		})
		c.Run("failing", func(c *Context) {
			c.Defer(func() { order = append(order, "fail-1") })
			c.FailNow()
		})
		c.Run("panicking", func(c *Context) {
			c.Defer(func() { order = append(order, "panic-1") })
			panic("boom")
		})
	})

	// Reverse registration order within a test, and always run.
	assert.Equal(t, []string{"pass-2", "pass-1", "fail-1", "panic-1"}, order)
}

func TestDeferFailureDoesNotChangeVerdict(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("passes despite cleanup failure", func(c *Context) {
			c.Defer(func() { panic("cleanup exploded") })
		})
	})

	passed, failed, _ := results.Counts()
	assert.Equal(t, 1, passed)
	assert.Equal(t, 0, failed)
	assert.True(t, results.OK())
}

func TestSkipIsRecordedAsSkip(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("skipped", func(c *Context) { c.SkipWithReason("not supported") })
		c.Run("runs", func(c *Context) {})
	})

	passed, failed, skipped := results.Counts()
	assert.Equal(t, 1, passed)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 1, skipped)
	assert.True(t, results.OK())
}

func TestGroupsContributeNothingWhenChildrenRan(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Run("leaf one", func(c *Context) {})
			c.Run("leaf two", func(c *Context) {})
		})
	})

	passed, failed, skipped := results.Counts()
	assert.Equal(t, 2, passed)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 0, skipped)
}

func TestGroupLevelFailureIsRecorded(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Run("leaf", func(c *Context) {})
			c.Errorf("group setup broke")
		})
	})

	require.Len(t, results.Failures, 1)
	assert.Equal(t, "group", results.Failures[0].TestID.String())
}

func TestUnexpectedPanicBecomesFailure(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("panics", func(c *Context) { panic("boom") })
	})

	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "boom")
}

func TestFilterExcludesTests(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("second"))

	ran := map[string]bool{}
	results := Run(filters.AsFilter, nil, func(c *Context) {
		c.Run("first", func(c *Context) { ran["first"] = true })
		c.Run("second", func(c *Context) { ran["second"] = true })
	})

	assert.True(t, ran["first"])
	assert.False(t, ran["second"])
	_, _, skipped := results.Counts()
	assert.Equal(t, 1, skipped)
}
