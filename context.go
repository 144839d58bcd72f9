package lockstep

import (
	"context"

	"github.com/joeycumines/lockstep/internal/controller"
	"github.com/joeycumines/lockstep/internal/rendezvous"
)

// ambientKey is the context.Context key under which a Runner installs the
// per-scenario controller handle, spec.md §9's "per-scenario ambient
// slot... scoped to the runner's asynchronous subtree". Using an
// unexported type for the key, rather than a process-wide singleton or a
// package-level variable, is what makes it invisible to concurrent
// scenarios: each Runner.Run call derives its own context carrying its
// own handle, and two scenarios running in the same test binary never
// share one.
type ambientKey struct{}

// ambientHandle is what lives behind ambientKey: the controller's Inbox.
// The identity of an entered task is bound separately, under taskKey, by
// Task for the Operation calls made inside its body.
type ambientHandle struct {
	inbox rendezvous.Inbox
}

// taskKey is the context.Context key binding a task's identity (its
// rendezvous Reply channel and assigned TaskID) once it has entered,
// spec.md §4.6: "bind a task-local marker so that nested enter_operation
// calls know which rendezvous pair to use."
type taskKey struct{}

type taskHandle struct {
	id        int
	down      chan rendezvous.Reply
	cancelled bool // set once any rendezvous reply for this task is Cancel; from then on the task runs fully uninstrumented, per spec.md §4.1
}

func withAmbient(ctx context.Context, ctrl *controller.Controller) context.Context {
	return context.WithValue(ctx, ambientKey{}, &ambientHandle{inbox: ctrl.Inbox()})
}

func ambientFrom(ctx context.Context) (*ambientHandle, bool) {
	h, ok := ctx.Value(ambientKey{}).(*ambientHandle)
	return h, ok
}

func withTask(ctx context.Context, th *taskHandle) context.Context {
	return context.WithValue(ctx, taskKey{}, th)
}

func taskFrom(ctx context.Context) (*taskHandle, bool) {
	th, ok := ctx.Value(taskKey{}).(*taskHandle)
	return th, ok
}
