// Package controller implements the scheduler core, spec.md §4.3: the
// single state machine that drains a scenario's shared rendezvous inbox,
// decides when the live task set is quiescent, consults a Strategy for
// which parked task to release, and accumulates the resulting Trace.
//
// This is "the hard engineering" spec.md §1 calls out (~35% of the core
// by its own estimate); every other package in this module exists to
// feed events into, or drain decisions out of, the single goroutine that
// runs Controller.Run.
package controller

import (
	"context"

	"github.com/joeycumines/lockstep/internal/errs"
	"github.com/joeycumines/lockstep/internal/obslog"
	"github.com/joeycumines/lockstep/internal/registry"
	"github.com/joeycumines/lockstep/internal/rendezvous"
	"github.com/joeycumines/lockstep/internal/strategy"
	"github.com/joeycumines/lockstep/internal/trace"
)

// Controller owns one scenario's Registry and Trace. It must be driven by
// exactly one call to Run; Inbox is safe to send on concurrently from any
// number of instrumented tasks while Run is executing.
type Controller struct {
	inbox rendezvous.Inbox
	reg   *registry.Registry
	strat strategy.Strategy
	log   obslog.Logger

	trace trace.Trace
	step  int
}

// New constructs a Controller for a scenario expecting exactly the given
// (possibly repeated) task names, per the given Strategy. log may be
// obslog.Nop(); New never fails.
func New(expectedNames []string, strat strategy.Strategy, log obslog.Logger) *Controller {
	if log == nil {
		log = obslog.Nop()
	}
	return &Controller{
		inbox: rendezvous.NewInbox(),
		reg:   registry.New(expectedNames),
		strat: strat,
		log:   log,
	}
}

// Inbox returns the channel instrumented tasks send rendezvous.Event
// values on.
func (c *Controller) Inbox() rendezvous.Inbox { return c.inbox }

// Run drives the controller's drain loop until the scenario completes
// (all expected tasks entered and finished), a protocol error is
// detected, or ctx is done. It returns the trace accumulated so far in
// every case — spec.md §7: "the trace is always available on error".
//
// On ctx.Done(), Run sends Cancel to every task currently parked awaiting
// a decision (spec.md §4.1) and returns ctx.Err(); the caller (the
// Runner) is responsible for mapping that into a TimeoutError or treating
// it as ordinary cancellation, since only the Runner knows why ctx was
// canceled.
func (c *Controller) Run(ctx context.Context) (trace.Trace, error) {
	pending := make(map[int]chan rendezvous.Reply)

	for {
		if c.reg.Done() {
			return c.trace, nil
		}

		select {
		case <-ctx.Done():
			c.cancelAll(pending)
			return c.trace, ctx.Err()

		case ev := <-c.inbox:
			if err := c.handle(ev, pending); err != nil {
				c.cancelAll(pending)
				return c.trace, err
			}
		}
	}
}

func (c *Controller) handle(ev rendezvous.Event, pending map[int]chan rendezvous.Reply) error {
	switch ev.Kind {
	case rendezvous.Entered:
		return c.handleEntered(ev)
	case rendezvous.OperationBegin:
		return c.handleOperationBegin(ev, pending)
	case rendezvous.OperationEnd:
		return c.handleOperationEnd(ev)
	case rendezvous.Exit:
		return c.handleExit(ev, pending)
	default:
		return &errs.ProtocolViolationError{TaskID: ev.TaskID, Operation: ev.Operation, From: registry.AwaitingStart, Attempted: registry.AwaitingStart}
	}
}

// handleEntered is not itself a scheduling decision (spec.md §4.3): it
// always replies Proceed immediately, once the name is recognized.
func (c *Controller) handleEntered(ev rendezvous.Event) error {
	id, ok := c.reg.Register(ev.TaskName)
	if !ok {
		c.log.Error("unexpected task", "name", ev.TaskName)
		ev.Down <- rendezvous.Reply{Kind: rendezvous.Cancel}
		return &errs.UnexpectedTaskError{Name: ev.TaskName}
	}
	c.log.Debug("task entered", "task_id", id, "name", ev.TaskName)
	ev.Down <- rendezvous.Reply{Kind: rendezvous.Proceed, TaskID: id}
	return nil
}

func (c *Controller) handleOperationBegin(ev rendezvous.Event, pending map[int]chan rendezvous.Reply) error {
	from, ok := c.reg.BeginOperation(ev.TaskID, ev.Operation)
	if !ok {
		c.log.Error("protocol violation", "task_id", ev.TaskID, "op", ev.Operation, "from", from.String())
		ev.Down <- rendezvous.Reply{Kind: rendezvous.Cancel}
		return &errs.ProtocolViolationError{
			TaskID: ev.TaskID, TaskName: c.nameOf(ev.TaskID), Operation: ev.Operation,
			From: from, Attempted: registry.AtOperation,
		}
	}
	c.log.Debug("operation begin", "task_id", ev.TaskID, "op", ev.Operation)
	pending[ev.TaskID] = ev.Down
	return c.releaseIfQuiescent(pending)
}

func (c *Controller) handleOperationEnd(ev rendezvous.Event) error {
	from, ok := c.reg.EndOperation(ev.TaskID)
	if !ok {
		c.log.Error("protocol violation", "task_id", ev.TaskID, "from", from.String())
		return &errs.ProtocolViolationError{
			TaskID: ev.TaskID, TaskName: c.nameOf(ev.TaskID),
			From: from, Attempted: registry.Idle,
		}
	}
	c.log.Debug("operation end", "task_id", ev.TaskID)
	return nil
}

func (c *Controller) handleExit(ev rendezvous.Event, pending map[int]chan rendezvous.Reply) error {
	from, ok := c.reg.Exit(ev.TaskID)
	if !ok {
		c.log.Error("protocol violation", "task_id", ev.TaskID, "from", from.String())
		return &errs.ProtocolViolationError{
			TaskID: ev.TaskID, TaskName: c.nameOf(ev.TaskID),
			From: from, Attempted: registry.Finished,
		}
	}
	delete(pending, ev.TaskID)
	c.log.Debug("task exit", "task_id", ev.TaskID)
	return c.releaseIfQuiescent(pending)
}

// releaseIfQuiescent implements spec.md §4.3's core rule: only once every
// live task is parked at an operation or finished does the controller
// consult the Strategy and release exactly one of them.
func (c *Controller) releaseIfQuiescent(pending map[int]chan rendezvous.Reply) error {
	if !c.reg.Quiescent() {
		return nil
	}

	ids := c.reg.AtOperationIDs()
	if len(ids) == 0 {
		return nil // every live task already finished; nothing to release
	}

	candidates := make([]strategy.Candidate, len(ids))
	for i, id := range ids {
		rec, _ := c.reg.Get(id)
		candidates[i] = strategy.Candidate{TaskID: id, TaskName: rec.Name, Operation: rec.Operation}
	}

	chosen, err := c.strat.Choose(candidates, c.step)
	if err != nil {
		return err
	}

	down, ok := pending[chosen]
	if !ok {
		// A correctly-implemented Strategy only returns a candidate's
		// TaskID; this would indicate a Strategy bug, not a scenario
		// error, but the scenario cannot proceed regardless.
		return &errs.ProtocolViolationError{TaskID: chosen, From: registry.AtOperation, Attempted: registry.AtOperation}
	}

	rec, _ := c.reg.Get(chosen)
	c.trace = append(c.trace, trace.Entry{TaskID: chosen, TaskName: rec.Name, Operation: rec.Operation})
	c.log.Info("release", "task_id", chosen, "name", rec.Name, "op", rec.Operation, "step", c.step)
	c.step++

	delete(pending, chosen)
	down <- rendezvous.Reply{Kind: rendezvous.Proceed}
	return nil
}

func (c *Controller) cancelAll(pending map[int]chan rendezvous.Reply) {
	for id, down := range pending {
		c.log.Debug("cancel", "task_id", id)
		down <- rendezvous.Reply{Kind: rendezvous.Cancel}
	}
}

func (c *Controller) nameOf(id int) string {
	if rec, ok := c.reg.Get(id); ok {
		return rec.Name
	}
	return ""
}
