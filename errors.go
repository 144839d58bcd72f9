package lockstep

import "github.com/joeycumines/lockstep/internal/errs"

// Error kinds surfaced from Runner.Run, spec.md §7. Each is a type alias
// for the internal type the controller actually constructs (see
// internal/errs for why they live there); the alias keeps the error types
// part of this package's API from a caller's point of view, while letting
// internal packages construct them without importing this package.
type (
	// UnexpectedTaskError reports a task entering under a name (or one
	// time too many) not present in the scenario's expected multiset.
	UnexpectedTaskError = errs.UnexpectedTaskError

	// ProtocolViolationError reports an instrumentation event arriving in
	// a state spec.md §4.2 forbids — most commonly a nested Operation
	// call, which this module rejects by default (spec.md §9).
	ProtocolViolationError = errs.ProtocolViolationError

	// ReplayDivergenceError reports that a recorded Trace no longer
	// matches observed operations when driving a Replay Strategy.
	ReplayDivergenceError = errs.ReplayDivergenceError

	// TimeoutError reports that a scenario exceeded its configured
	// wall-clock budget. Partial is always populated.
	TimeoutError = errs.TimeoutError

	// UserPanicError reports that the scenario body, or an operation
	// body, panicked. Partial is always populated; Unwrap exposes the
	// recovered value when it is itself an error.
	UserPanicError = errs.UserPanicError
)
