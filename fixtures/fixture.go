// Package fixtures manages remote resource state for the checks: each Fixture
// is a create/use/teardown unit (a bucket, a table, a secret...), with
// explicit dependency edges so that creation and teardown order is computed
// rather than incidental. Teardown is best-effort: every step is attempted,
// outcomes are logged, and nothing ever propagates back into a test verdict.
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/eddalmond/ruststack-integration-tests/framework"
)

// Scope determines a fixture's lifetime: the whole run, or a single test.
type Scope int

const (
	RunScope Scope = iota
	TestScope
)

// State is a fixture's position in its lifecycle. A fixture whose creation
// failed stays Pending and is never torn down; Done is terminal.
type State int

const (
	Pending State = iota
	Created
	InUse
	TearingDown
	Done
)

// StepStatus classifies the outcome of one teardown sub-step.
type StepStatus int

const (
	StepOK StepStatus = iota
	StepIgnored
	StepFailed
)

// StepResult records the outcome of one teardown sub-step. Ignored means the
// step failed for a reason teardown tolerates, such as the resource having
// already been deleted by the test body.
type StepResult struct {
	Name   string
	Status StepStatus
	Err    error
}

func StepOutcome(name string, err error, ignorable func(error) bool) StepResult {
	switch {
	case err == nil:
		return StepResult{Name: name, Status: StepOK}
	case ignorable != nil && ignorable(err):
		return StepResult{Name: name, Status: StepIgnored, Err: err}
	default:
		return StepResult{Name: name, Status: StepFailed, Err: err}
	}
}

// Fixture declares one piece of remote state. CreateFn receives the
// identifiers of the fixtures named in DependsOn, keyed by their Kind, and
// returns the new resource's identifier. TeardownFn must attempt all of its
// sub-steps even if an early one fails, reporting each outcome.
type Fixture struct {
	Kind       string
	Scope      Scope
	DependsOn  []*Fixture
	CreateFn   func(ctx context.Context, deps map[string]string) (string, error)
	TeardownFn func(ctx context.Context, id string) []StepResult

	state State
	id    string
}

// ID returns the identifier assigned at creation, or "" while Pending.
func (f *Fixture) ID() string { return f.id }

func (f *Fixture) State() State { return f.state }

// NewID generates a collision-resistant resource name of the form
// "<kind>-<random suffix>".
func NewID(kind string) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("%s-%s", kind, hex.EncodeToString(suffix))
}

// Stack owns the fixtures created within one scope and tears them down in
// reverse creation order. A test-scoped stack delegates run-scoped fixtures
// to its parent, so a per-test fixture may depend on a run-long one.
type Stack struct {
	scope   Scope
	parent  *Stack
	logger  framework.Logger
	created []*Fixture
}

// NewRunStack creates the stack that owns run-scoped fixtures.
func NewRunStack(logger framework.Logger) *Stack {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Stack{scope: RunScope, logger: logger}
}

// NewTestStack creates a per-test stack whose run-scoped acquisitions are
// routed to parent.
func NewTestStack(parent *Stack, logger framework.Logger) *Stack {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Stack{scope: TestScope, parent: parent, logger: logger}
}

// Acquire creates the fixture if necessary, creating its dependencies first,
// and returns its identifier. A fixture that is already alive is handed out
// again by identifier; a creation failure leaves the fixture Pending, with no
// teardown owed, though dependencies that were created remain owned by their
// stacks and will be torn down normally.
func (s *Stack) Acquire(ctx context.Context, f *Fixture) (string, error) {
	if f.Scope == RunScope && s.scope == TestScope {
		if s.parent == nil {
			return "", fmt.Errorf("fixture %s is run-scoped but no run stack exists", f.Kind)
		}
		return s.parent.Acquire(ctx, f)
	}

	switch f.state {
	case Created, InUse:
		f.state = InUse
		return f.id, nil
	case TearingDown, Done:
		return "", fmt.Errorf("fixture %s has already been torn down", f.Kind)
	}

	deps := make(map[string]string, len(f.DependsOn))
	for _, dep := range f.DependsOn {
		id, err := s.Acquire(ctx, dep)
		if err != nil {
			return "", fmt.Errorf("dependency of %s: %w", f.Kind, err)
		}
		deps[dep.Kind] = id
	}

	id, err := f.CreateFn(ctx, deps)
	if err != nil {
		return "", fmt.Errorf("creating %s fixture: %w", f.Kind, err)
	}
	f.id = id
	f.state = Created
	s.created = append(s.created, f)
	s.logger.Printf("created %s fixture %s", f.Kind, id)

	f.state = InUse
	return id, nil
}

// Release tears down every fixture this stack created, most recent first, so
// dependents go before their dependencies. Step failures are logged and
// swallowed. Releasing an already-released stack is a no-op.
func (s *Stack) Release(ctx context.Context) {
	for i := len(s.created) - 1; i >= 0; i-- {
		s.teardown(ctx, s.created[i])
	}
	s.created = nil
}

func (s *Stack) teardown(ctx context.Context, f *Fixture) {
	if f.state != Created && f.state != InUse {
		return
	}
	f.state = TearingDown
	if f.TeardownFn != nil {
		for _, step := range f.TeardownFn(ctx, f.id) {
			switch step.Status {
			case StepIgnored:
				s.logger.Printf("teardown %s %s: %s skipped (%v)", f.Kind, f.id, step.Name, step.Err)
			case StepFailed:
				s.logger.Printf("teardown %s %s: %s failed (%v)", f.Kind, f.id, step.Name, step.Err)
			}
		}
	}
	f.state = Done
	s.logger.Printf("tore down %s fixture %s", f.Kind, f.id)
}
