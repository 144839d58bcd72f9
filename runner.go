package lockstep

import (
	"context"
	"math/rand/v2"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joeycumines/lockstep/internal/controller"
	"github.com/joeycumines/lockstep/internal/errs"
	"github.com/joeycumines/lockstep/internal/rendezvous"
	"github.com/joeycumines/lockstep/internal/strategy"
)

// Runner orchestrates one or more iterations of a scenario, spec.md §4.5:
// for each iteration it builds a fresh controller, installs it in ambient
// context, races the user body against the controller to completion, and
// reports the resulting Trace, or the first error encountered.
//
// A Runner is safe to reuse across multiple calls to Run; nothing about
// one call's state leaks into the next.
type Runner struct {
	expected []string
	cfg      runnerConfig
}

// NewRunner builds a Runner for a scenario expecting exactly the given
// (possibly repeated) task names to enter, in any order, exactly once
// each.
func NewRunner(expected []string, opts ...Option) *Runner {
	return &Runner{
		expected: append([]string(nil), expected...),
		cfg:      resolveRunnerOptions(opts),
	}
}

// Run drives body to completion under a fresh Controller, spec.md §4.5
// steps 1-4. If the configured Strategy is strategy.Reseedable (Random
// is) and WithIterations asked for more than one iteration, Run repeats
// the scenario with a freshly derived seed each time, per step 5 ("If
// strategy = Random and iterations > 1, re-run with a fresh seed"),
// stopping at the first iteration that errors and returning that
// iteration's Trace and error rather than the last.
func (r *Runner) Run(ctx context.Context, body func(context.Context) error) (Trace, error) {
	runID := r.cfg.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	strat := r.cfg.strategy
	var (
		result Trace
		err    error
	)

	for iteration := 0; iteration < r.cfg.iterations; iteration++ {
		result, err = r.runOnce(ctx, strat, runID, iteration, body)
		if err != nil {
			return result, err
		}

		if iteration+1 >= r.cfg.iterations {
			break
		}
		reseed, ok := strat.(strategy.Reseedable)
		if !ok {
			break // not Random-backed; additional iterations are a no-op, spec.md §4.5 step 5
		}
		nextSeed := rand.New(rand.NewPCG(reseed.Seed(), uint64(iteration+1))).Uint64()
		strat = reseed.Reseed(nextSeed)
	}

	return result, nil
}

func (r *Runner) runOnce(parent context.Context, strat Strategy, runID string, iteration int, body func(context.Context) error) (Trace, error) {
	ctx, cancel := r.withIterationDeadline(parent)
	defer cancel()

	ctrl := controller.New(r.expected, strat, r.cfg.logger)
	taskCtx := withAmbient(ctx, ctrl)

	r.cfg.logger.Info("scenario start", "run_id", runID, "iteration", iteration)

	type ctrlResult struct {
		trace Trace
		err   error
	}
	ctrlDone := make(chan ctrlResult, 1)
	bodyDone := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		tr, cerr := ctrl.Run(ctx)
		ctrlDone <- ctrlResult{tr, cerr}
		return nil
	})

	var (
		bodyErr  error
		panicVal any
	)
	g.Go(func() error {
		defer close(bodyDone)
		defer func() {
			if rec := recover(); rec != nil {
				panicVal = rec
			}
		}()
		bodyErr = body(taskCtx)
		return nil
	})

	// Await whichever of {body, controller} completes first (spec.md
	// §4.5 step 4), then cancel so the other unwinds promptly.
	select {
	case <-bodyDone:
	case <-ctrlDone:
	}
	cancel()

	// Once either side has finished, the other may still be mid-unwind
	// (most notably: a panicking operation's deferred OperationEnd/Exit,
	// racing a controller that has already stopped reading its Inbox).
	// Drain any such stragglers so neither goroutine can block forever
	// on a send nobody will receive.
	drainStopped := make(chan struct{})
	go func() {
		defer close(drainStopped)
		for {
			select {
			case ev := <-ctrl.Inbox():
				if ev.Down != nil {
					ev.Down <- rendezvous.Reply{Kind: rendezvous.Cancel}
				}
			case <-bodyDone:
				return
			}
		}
	}()

	<-bodyDone
	res := <-ctrlDone
	<-drainStopped
	_ = g.Wait()

	r.cfg.logger.Info("scenario end", "run_id", runID, "iteration", iteration, "steps", len(res.trace))

	switch {
	case panicVal != nil:
		return res.trace, &errs.UserPanicError{Recovered: panicVal, Partial: res.trace}
	case ctx.Err() == context.DeadlineExceeded:
		return res.trace, &errs.TimeoutError{Elapsed: r.cfg.timeout, Partial: res.trace}
	case res.err != nil && res.err != context.Canceled:
		return res.trace, res.err
	default:
		return res.trace, bodyErr
	}
}

func (r *Runner) withIterationDeadline(parent context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.timeout > 0 {
		return context.WithTimeout(parent, r.cfg.timeout)
	}
	return context.WithCancel(parent)
}
