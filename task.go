//go:build !lockstep_noop

package lockstep

import (
	"context"

	"github.com/joeycumines/lockstep/internal/rendezvous"
)

// Task wraps one named unit of execution, spec.md §4.6/§6. If ctx carries
// no ambient controller — no Runner is driving a scenario over this
// goroutine tree — body runs directly and unmodified, spec.md §8
// property 5, "Pass-through equivalence". Otherwise Task announces itself
// to the controller, blocks until granted permission to start, and
// guarantees a matching completion event is sent on every exit path
// (including panic) before returning.
//
// Task is generic over body's result so instrumented call sites keep
// their natural return type, rather than every call site boxing through
// an `any`-typed wrapper.
//
// Building with the lockstep_noop tag replaces this with a direct call to
// body (see task_noop.go), for production binaries that want the harness
// compiled out entirely.
func Task[T any](ctx context.Context, name string, body func(context.Context) (T, error)) (T, error) {
	amb, ok := ambientFrom(ctx)
	if !ok {
		return body(ctx)
	}

	down := rendezvous.NewReplyChannel()
	amb.inbox <- rendezvous.Event{Kind: rendezvous.Entered, TaskName: name, Down: down}
	reply := <-down

	if reply.Kind == rendezvous.Cancel {
		return body(ctx)
	}

	th := &taskHandle{id: reply.TaskID, down: down}
	taskCtx := withTask(ctx, th)

	defer func() {
		// Once cancelled, th runs fully uninstrumented (see operation.go);
		// the controller never expects an Exit for a task it has already
		// released from tracking, so sending one would either be a
		// protocol violation or block on a drain loop for nothing.
		if !th.cancelled {
			amb.inbox <- rendezvous.Event{Kind: rendezvous.Exit, TaskID: th.id}
		}
	}()

	return body(taskCtx)
}
