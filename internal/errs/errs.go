// Package errs defines the scheduler's error kinds (spec.md §7). They live
// in their own internal package, rather than the public lockstep package,
// purely to break an import cycle: the controller constructs them and the
// controller cannot import the package that would otherwise own them.
// The public package re-exports each type by alias, so callers never see
// this package name.
package errs

import (
	"fmt"
	"time"

	"github.com/joeycumines/lockstep/internal/registry"
	"github.com/joeycumines/lockstep/internal/trace"
)

// UnexpectedTaskError reports that a task entered whose name is not in the
// scenario's expected multiset, or entered one time too many.
type UnexpectedTaskError struct {
	Name string
}

func (e *UnexpectedTaskError) Error() string {
	return fmt.Sprintf("lockstep: unexpected task %q: not in (or exceeds) the expected task multiset", e.Name)
}

// ProtocolViolationError reports that an instrumentation event arrived in a
// state spec.md §4.2 forbids, e.g. a nested OperationBegin.
type ProtocolViolationError struct {
	TaskID    int
	TaskName  string
	Operation string
	From      registry.TaskState
	Attempted registry.TaskState
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf(
		"lockstep: protocol violation: task %d (%s): cannot transition %s -> %s at operation %q",
		e.TaskID, e.TaskName, e.From, e.Attempted, e.Operation,
	)
}

// ReplayDivergenceError reports that a recorded trace no longer matches
// observed operations when driving a Replay strategy.
type ReplayDivergenceError struct {
	Step     int
	Expected trace.Entry
	Actual   trace.Entry
}

func (e *ReplayDivergenceError) Error() string {
	return fmt.Sprintf(
		"lockstep: replay divergence at step %d: expected task %d %q/%q, observed task %d %q/%q",
		e.Step,
		e.Expected.TaskID, e.Expected.TaskName, e.Expected.Operation,
		e.Actual.TaskID, e.Actual.TaskName, e.Actual.Operation,
	)
}

// TimeoutError reports that a scenario exceeded its configured wall-clock
// budget. Partial is always populated (spec.md §7: "the trace is always
// available on error").
type TimeoutError struct {
	Elapsed time.Duration
	Partial trace.Trace
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("lockstep: scenario timed out after %s (%d operations released)", e.Elapsed, len(e.Partial))
}

// UserPanicError reports that the scenario body (or an operation body)
// panicked. Unwrap exposes the recovered value when it is itself an error,
// so callers can errors.Is/errors.As through to the original cause.
type UserPanicError struct {
	Recovered any
	Partial   trace.Trace
}

func (e *UserPanicError) Error() string {
	return fmt.Sprintf("lockstep: scenario panicked: %v (%d operations released before the panic)", e.Recovered, len(e.Partial))
}

func (e *UserPanicError) Unwrap() error {
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}
