package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ConsumesExpectedMultiset(t *testing.T) {
	r := New([]string{"a", "a", "b"})
	require.Equal(t, 3, r.Pending())

	id1, ok := r.Register("a")
	require.True(t, ok)
	id2, ok := r.Register("a")
	require.True(t, ok)
	assert.NotEqual(t, id1, id2)

	_, ok = r.Register("a")
	assert.False(t, ok, "a third copy of a was never declared")

	id3, ok := r.Register("b")
	require.True(t, ok)
	assert.NotEqual(t, id2, id3)

	assert.Equal(t, 0, r.Pending())
}

func TestRegister_UnexpectedName(t *testing.T) {
	r := New([]string{"a"})
	_, ok := r.Register("z")
	assert.False(t, ok)
}

func TestStateTransitions(t *testing.T) {
	r := New([]string{"a"})
	id, ok := r.Register("a")
	require.True(t, ok)

	rec, ok := r.Get(id)
	require.True(t, ok)
	assert.Equal(t, Idle, rec.State)

	from, ok := r.BeginOperation(id, "read")
	require.True(t, ok)
	assert.Equal(t, Idle, from)

	rec, _ = r.Get(id)
	assert.Equal(t, AtOperation, rec.State)
	assert.Equal(t, "read", rec.Operation)

	from, ok = r.EndOperation(id)
	require.True(t, ok)
	assert.Equal(t, AtOperation, from)

	from, ok = r.Exit(id)
	require.True(t, ok)
	assert.Equal(t, Idle, from)

	rec, _ = r.Get(id)
	assert.Equal(t, Finished, rec.State)
}

func TestBeginOperation_RejectsNesting(t *testing.T) {
	r := New([]string{"a"})
	id, _ := r.Register("a")
	_, ok := r.BeginOperation(id, "outer")
	require.True(t, ok)

	_, ok = r.BeginOperation(id, "inner")
	assert.False(t, ok, "a second OperationBegin before EndOperation must be rejected")
}

func TestExit_RequiresIdle(t *testing.T) {
	r := New([]string{"a"})
	id, _ := r.Register("a")
	_, _ = r.BeginOperation(id, "op")

	_, ok := r.Exit(id)
	assert.False(t, ok, "cannot exit while parked at an operation")
}

func TestDone(t *testing.T) {
	r := New([]string{"a", "b"})
	assert.False(t, r.Done())

	idA, _ := r.Register("a")
	idB, _ := r.Register("b")
	assert.False(t, r.Done())

	_, _ = r.Exit(idA)
	assert.False(t, r.Done())

	_, _ = r.Exit(idB)
	assert.True(t, r.Done())
}

func TestQuiescent(t *testing.T) {
	r := New([]string{"a", "b"})
	idA, _ := r.Register("a")
	idB, _ := r.Register("b")

	assert.False(t, r.Quiescent(), "both tasks are Idle, not yet parked at an operation")

	_, _ = r.BeginOperation(idA, "op")
	assert.False(t, r.Quiescent(), "b has not yet entered an operation")

	_, _ = r.BeginOperation(idB, "op")
	assert.True(t, r.Quiescent())

	_, _ = r.EndOperation(idA)
	_, _ = r.Exit(idA)
	assert.True(t, r.Quiescent(), "a finishing doesn't un-quiesce the scenario")
}

func TestQuiescent_NotYetEnteredTasksDontBlock(t *testing.T) {
	r := New([]string{"a", "b"})
	idA, _ := r.Register("a")
	_, _ = r.BeginOperation(idA, "op")

	// b is still in the expected multiset and has never entered: it has
	// no Record at all, so it must not block quiescence.
	assert.True(t, r.Quiescent())
}

func TestAtOperationIDs_AscendingOrder(t *testing.T) {
	r := New([]string{"a", "b", "c"})
	idA, _ := r.Register("a")
	idB, _ := r.Register("b")
	idC, _ := r.Register("c")

	_, _ = r.BeginOperation(idC, "op")
	_, _ = r.BeginOperation(idA, "op")
	_, _ = r.BeginOperation(idB, "op")

	assert.Equal(t, []int{idA, idB, idC}, r.AtOperationIDs())
}
