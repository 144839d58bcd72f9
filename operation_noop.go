//go:build lockstep_noop

package lockstep

import "context"

// Operation is the lockstep_noop build's replacement for the instrumented
// Operation: a direct call to body, with name unused.
func Operation[T any](ctx context.Context, name string, body func(context.Context) (T, error)) (T, error) {
	return body(ctx)
}
