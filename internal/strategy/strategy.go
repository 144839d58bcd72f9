// Package strategy implements the pluggable schedule-selection policy
// spec.md §4.4 describes: given the ordered set of tasks parked at an
// operation, choose which one the controller releases next.
//
// Expressed as a small interface with one method — a tagged variant, per
// spec.md §9's own design note ("implement as a tagged variant rather than
// deep inheritance") — following the teacher's preference for small
// closure-backed interfaces over type hierarchies (eventloop.LoopOption,
// eventloop.FastPathMode).
package strategy

import (
	"math/rand/v2"

	"github.com/joeycumines/lockstep/internal/errs"
	"github.com/joeycumines/lockstep/internal/trace"
)

// Candidate is one task parked at an operation, eligible for release.
type Candidate struct {
	TaskID    int
	TaskName  string
	Operation string
}

// Strategy chooses which of candidates to release at decision step.
// candidates is always passed in ascending TaskID order, spec.md §4.4's
// determinism requirement ("Candidates are passed in ascending TaskID
// order").
type Strategy interface {
	Choose(candidates []Candidate, step int) (taskID int, err error)
}

// Reseedable is implemented by strategies that can be asked for a fresh
// instance under a new seed; the Runner uses it to satisfy spec.md §4.5
// step 5, "If strategy = Random and iterations > 1, re-run with a fresh
// seed" without the Runner needing to know about randomStrategy directly.
type Reseedable interface {
	Strategy
	// Seed returns the seed this instance was constructed with, so the
	// Runner can derive the next iteration's seed deterministically
	// rather than reaching for a nondeterministic source.
	Seed() uint64
	Reseed(seed uint64) Strategy
}

// randomStrategy explores schedules via a seeded, deterministic PRNG: the
// seed plus a deterministic body under test fully determines the
// resulting Trace (spec.md §4.4). math/rand/v2's PCG source is used
// in place of an external PRNG crate — no such dependency appears
// anywhere in the retrieval pack, and a seeded stdlib source is the
// idiomatic choice even in a dependency-rich codebase (see DESIGN.md).
type randomStrategy struct {
	seed uint64
	rng  *rand.Rand
}

// Random returns a Strategy that picks uniformly among candidates at each
// decision step, using a PRNG deterministically seeded from seed.
func Random(seed uint64) Strategy {
	return &randomStrategy{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed)),
	}
}

func (s *randomStrategy) Choose(candidates []Candidate, _ int) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}
	return candidates[s.rng.IntN(len(candidates))].TaskID, nil
}

// Reseed returns a new randomStrategy, discarding this one's generator
// state entirely rather than reusing it, so successive iterations explore
// independent schedules.
func (s *randomStrategy) Reseed(seed uint64) Strategy {
	return Random(seed)
}

// Seed returns the seed this instance was constructed with.
func (s *randomStrategy) Seed() uint64 { return s.seed }

// replayStrategy drives a previously recorded trace.Trace back through the
// controller, to deterministically reproduce the schedule that produced
// it (spec.md §4.4, §8 property 4 "Replay fidelity").
type replayStrategy struct {
	trace trace.Trace
}

// Replay returns a Strategy that, at step i, always selects the TaskID
// recorded at t[i]. It fails with *errs.ReplayDivergenceError if the
// recorded operation name no longer matches the candidate's current
// operation, or if the recorded TaskID is absent from candidates.
func Replay(t trace.Trace) Strategy {
	return &replayStrategy{trace: t}
}

func (s *replayStrategy) Choose(candidates []Candidate, step int) (int, error) {
	if step >= len(s.trace) {
		return 0, &errs.ReplayDivergenceError{
			Step:     step,
			Expected: trace.Entry{},
			Actual:   firstCandidateEntry(candidates),
		}
	}
	want := s.trace[step]

	for _, c := range candidates {
		if c.TaskID == want.TaskID {
			if c.Operation != want.Operation {
				return 0, &errs.ReplayDivergenceError{
					Step:     step,
					Expected: want,
					Actual:   trace.Entry{TaskID: c.TaskID, TaskName: c.TaskName, Operation: c.Operation},
				}
			}
			return c.TaskID, nil
		}
	}

	return 0, &errs.ReplayDivergenceError{
		Step:     step,
		Expected: want,
		Actual:   firstCandidateEntry(candidates),
	}
}

func firstCandidateEntry(candidates []Candidate) trace.Entry {
	if len(candidates) == 0 {
		return trace.Entry{}
	}
	c := candidates[0]
	return trace.Entry{TaskID: c.TaskID, TaskName: c.TaskName, Operation: c.Operation}
}
