//go:build !lockstep_noop

package lockstep

import (
	"context"

	"github.com/joeycumines/lockstep/internal/rendezvous"
)

// Operation wraps one named, schedulable step within an already-entered
// task, spec.md §4.6/§6. It requires ctx to carry a task binding installed
// by an enclosing Task call; calling Operation outside of any Task runs
// body directly, mirroring spec.md §8 property 5's "no ambient
// controller" case, since a caller that never opted into instrumentation
// for this goroutine gets exactly the program it wrote.
//
// Calling Operation again from inside another Operation on the same task
// (nesting) is not handled here at all: the registry rejects the second
// OperationBegin (the task is already AtOperation, not Idle) and the
// controller surfaces it as a ProtocolViolationError from Runner.Run,
// spec.md §4.3's rejection of reentrant scheduling points.
//
// Once a task has been told Cancel (by Task, or by a prior Operation on
// the same task), every later Operation call for that task also skips the
// controller and simply runs body, per spec.md §4.1: the whole remainder
// of a cancelled task's body executes uninstrumented.
func Operation[T any](ctx context.Context, name string, body func(context.Context) (T, error)) (T, error) {
	amb, ambOK := ambientFrom(ctx)
	th, taskOK := taskFrom(ctx)
	if !ambOK || !taskOK || th.cancelled {
		return body(ctx)
	}

	amb.inbox <- rendezvous.Event{Kind: rendezvous.OperationBegin, TaskID: th.id, Operation: name, Down: th.down}
	reply := <-th.down

	if reply.Kind == rendezvous.Cancel {
		th.cancelled = true
		return body(ctx)
	}

	defer func() {
		// th.cancelled may have flipped true during body (a nested
		// Operation call rejected as a protocol violation, or an
		// out-of-band Cancel); either way the controller no longer
		// expects anything further from this task.
		if !th.cancelled {
			amb.inbox <- rendezvous.Event{Kind: rendezvous.OperationEnd, TaskID: th.id}
		}
	}()

	return body(ctx)
}
