package lockstep

import (
	"github.com/joeycumines/lockstep/internal/registry"
	"github.com/joeycumines/lockstep/internal/trace"
)

// TraceEntry is one released operation: the task that ran it, that task's
// declared name, and the operation's name, spec.md §3.
type TraceEntry = trace.Entry

// Trace is the total order of released operations across a whole
// scenario, in release order, spec.md §3/§6. Trace.String and ParseTrace
// implement the stable "<task_id>:<task_name>/<operation_name>"
// newline-delimited wire format spec.md §6 promises as a compatibility
// surface for Replay.
type Trace = trace.Trace

// ParseTrace reverses Trace.String, for loading a recorded trace (e.g.
// copy-pasted from a UserPanicError) into Replay.
func ParseTrace(s string) (Trace, error) {
	return trace.Parse(s)
}

// TaskState is one of the four states spec.md §3 assigns a task across
// its lifetime.
type TaskState = registry.TaskState

const (
	AwaitingStart = registry.AwaitingStart
	Idle          = registry.Idle
	AtOperation   = registry.AtOperation
	Finished      = registry.Finished
)
