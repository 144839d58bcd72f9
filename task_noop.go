//go:build lockstep_noop

package lockstep

import "context"

// Task is the lockstep_noop build's replacement for the instrumented
// Task: a direct call to body, with name unused. Production binaries built
// with this tag never reference the controller, registry, or rendezvous
// packages at all, so the harness costs nothing beyond the generic
// function call itself.
func Task[T any](ctx context.Context, name string, body func(context.Context) (T, error)) (T, error) {
	return body(ctx)
}
