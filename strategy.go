package lockstep

import "github.com/joeycumines/lockstep/internal/strategy"

// Candidate is one task parked at an operation, eligible for release at a
// given decision step. Candidates are always presented to Strategy.Choose
// in ascending TaskID order, spec.md §4.4's determinism requirement.
type Candidate = strategy.Candidate

// Strategy chooses which of candidates the controller releases next,
// spec.md §4.4. A custom Strategy is responsible for returning a TaskID
// present in candidates; any other value is reported as a
// ProtocolViolationError rather than silently ignored.
type Strategy = strategy.Strategy

// Random returns a Strategy that explores schedules via a seeded,
// deterministic PRNG: the seed together with a deterministic body under
// test fully determines the resulting Trace. WithIterations re-runs a
// Random-strategy scenario with a fresh, derived seed each time.
func Random(seed uint64) Strategy {
	return strategy.Random(seed)
}

// Replay returns a Strategy that deterministically reproduces the
// schedule recorded in trace, failing with ReplayDivergenceError the
// moment the instrumented body's behavior no longer matches what was
// recorded.
func Replay(trace Trace) Strategy {
	return strategy.Replay(trace)
}
