// Package registry implements the task handle registry spec.md §4.2
// describes: TaskID allocation, the TaskName -> pending-copy accounting
// that lets a scenario declare the same name more than once, and the
// per-task state transition table. It is owned exclusively by the
// controller's single goroutine, so none of its methods take a lock —
// concurrent access is a caller bug, not something this package guards
// against (mirroring the teacher's "owned by one goroutine, no lock"
// registries, e.g. eventloop/registry.go).
package registry

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// TaskState is one of the four states a TaskRecord moves through,
// spec.md §3.
type TaskState int

const (
	AwaitingStart TaskState = iota
	Idle
	AtOperation
	Finished
)

func (s TaskState) String() string {
	switch s {
	case AwaitingStart:
		return "AwaitingStart"
	case Idle:
		return "Idle"
	case AtOperation:
		return "AtOperation"
	case Finished:
		return "Finished"
	default:
		return fmt.Sprintf("TaskState(%d)", int(s))
	}
}

// Record is one live (or finished) task: its identity, current state, and
// — while AtOperation — the operation name it's parked at.
type Record struct {
	ID        int
	Name      string
	State     TaskState
	Operation string // valid only while State == AtOperation
}

// Registry is the owning store of every Record in one scenario, plus the
// remaining-copies-per-name accounting that realizes spec.md's
// "expected: multiset<TaskName>".
type Registry struct {
	expected map[string]int
	pending  int // sum of expected counts; tracked separately to avoid re-summing the map
	nextID   int
	records  map[int]*Record
}

// New builds a Registry whose expected multiset is exactly the given task
// names (duplicates allowed and meaningful: two "r" entries means two
// anonymous copies of task "r" must enter before the scenario can finish).
func New(expectedNames []string) *Registry {
	r := &Registry{
		expected: make(map[string]int, len(expectedNames)),
		records:  make(map[int]*Record, len(expectedNames)),
	}
	for _, name := range expectedNames {
		r.expected[name]++
		r.pending++
	}
	return r
}

// Pending reports how many declared task copies have not yet entered.
func (r *Registry) Pending() int { return r.pending }

// Live reports how many registered tasks have entered but not yet
// finished (State != Finished).
func (r *Registry) Live() int {
	n := 0
	for _, rec := range r.records {
		if rec.State != Finished {
			n++
		}
	}
	return n
}

// Register consumes one copy of name from the expected multiset and
// creates a new Record for it in the Idle state, spec.md §4.2 step 1-2.
// Returns *errs-grade* information via the ok bool rather than an error
// type (the caller, controller, owns error construction, since the error
// types live in a package that itself depends on registry for TaskState).
func (r *Registry) Register(name string) (id int, ok bool) {
	if r.expected[name] <= 0 {
		return 0, false
	}
	r.expected[name]--
	r.pending--

	r.nextID++
	id = r.nextID
	r.records[id] = &Record{ID: id, Name: name, State: Idle}
	return id, true
}

// Get returns the Record for id, if it exists.
func (r *Registry) Get(id int) (*Record, bool) {
	rec, ok := r.records[id]
	return rec, ok
}

// BeginOperation transitions id from Idle to AtOperation(op). Returns the
// prior state and false if id is unknown or not Idle (a protocol
// violation the caller should report).
func (r *Registry) BeginOperation(id int, op string) (from TaskState, ok bool) {
	rec, exists := r.records[id]
	if !exists {
		return AwaitingStart, false
	}
	from = rec.State
	if from != Idle {
		return from, false
	}
	rec.State = AtOperation
	rec.Operation = op
	return from, true
}

// EndOperation transitions id from AtOperation back to Idle.
func (r *Registry) EndOperation(id int) (from TaskState, ok bool) {
	rec, exists := r.records[id]
	if !exists {
		return AwaitingStart, false
	}
	from = rec.State
	if from != AtOperation {
		return from, false
	}
	rec.State = Idle
	rec.Operation = ""
	return from, true
}

// Exit transitions id from Idle to Finished (terminal).
func (r *Registry) Exit(id int) (from TaskState, ok bool) {
	rec, exists := r.records[id]
	if !exists {
		return AwaitingStart, false
	}
	from = rec.State
	if from != Idle {
		return from, false
	}
	rec.State = Finished
	return from, true
}

// Done reports whether the scenario has reached the terminal condition of
// spec.md §4.3: no more expected copies, and no live (unfinished) tasks.
func (r *Registry) Done() bool {
	return r.pending == 0 && r.Live() == 0
}

// Quiescent reports spec.md §4.3's release precondition: every live
// (started, unfinished) task is either AtOperation or Finished. Tasks
// that have not yet entered (still counted in the expected multiset, with
// no Record at all) are not live and so cannot block quiescence.
func (r *Registry) Quiescent() bool {
	for _, rec := range r.records {
		if rec.State != Finished && rec.State != AtOperation {
			return false
		}
	}
	return true
}

// AtOperationIDs returns the TaskIDs currently parked at an operation, in
// ascending order — spec.md §4.4's determinism requirement that
// candidates reach the Strategy in a stable order.
func (r *Registry) AtOperationIDs() []int {
	ids := make([]int, 0, len(r.records))
	for id, rec := range r.records {
		if rec.State == AtOperation {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
