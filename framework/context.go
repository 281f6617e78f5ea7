package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context represents a test or group of tests in progress. It implements the
// same basic functionality as Go's testing.T, but outside of the Go test
// runner; assertions from the assert and require packages can be used against
// it. A test body that calls FailNow (directly or via require) stops there,
// but deferred cleanups still run and the rest of the suite continues.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
	ranChildren bool
}

// Run executes a top-level action, normally one that runs many subtests via
// Context.Run, and returns the accumulated results.
func Run(
	filter func(TestID) bool,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if !c.skipped {
				c.failed = true
				var addError error
				if _, ok := r.(*Context); ok {
					if len(c.errors) == 0 {
						addError = errors.New("test failed with no failure message")
					}
				} else {
					addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
				}
				if addError != nil {
					c.errors = append(c.errors, addError)
					c.env.testLogger.TestError(c.id, addError)
				}
			}
		}

		// Cleanups run on every exit path, in reverse registration order, and
		// can never change the verdict that the body already produced.
		for i := len(c.cleanups) - 1; i >= 0; i-- {
			c.runCleanup(c.cleanups[i])
		}

		if c.shouldRecord() {
			result := TestResult{TestID: c.id, Errors: c.errors, Skipped: c.skipped}
			c.env.results.Tests = append(c.env.results.Tests, result)
			if c.failed {
				c.env.results.Failures = append(c.env.results.Failures, result)
			}
		}
	}()

	action(c)
}

// A group that only ran children contributes nothing of its own to the
// summary; its verdict is the children's. The root context is never recorded.
func (c *Context) shouldRecord() bool {
	if len(c.id.Path) == 0 {
		return false
	}
	return !c.ranChildren || c.failed || c.skipped
}

func (c *Context) runCleanup(cleanup func()) {
	defer func() {
		if r := recover(); r != nil {
			c.debugLogger.Printf("cleanup failed: %+v", r)
		}
	}()
	cleanup()
}

func (c *Context) ID() TestID {
	return c.id
}

func (c *Context) Run(name string, action func(*Context)) {
	c.ranChildren = true
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		c.env.results.Tests = append(c.env.results.Tests, TestResult{TestID: id, Skipped: true})
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Defer registers a cleanup to run when the test ends, whether it passes,
// fails, or panics. Cleanups run in reverse registration order.
func (c *Context) Defer(cleanup func()) {
	c.cleanups = append(c.cleanups, cleanup)
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}
