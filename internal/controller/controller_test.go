package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/lockstep/internal/obslog"
	"github.com/joeycumines/lockstep/internal/rendezvous"
	"github.com/joeycumines/lockstep/internal/strategy"
)

func enter(t *testing.T, inbox rendezvous.Inbox, name string) (id int, down chan rendezvous.Reply) {
	t.Helper()
	down = rendezvous.NewReplyChannel()
	inbox <- rendezvous.Event{Kind: rendezvous.Entered, TaskName: name, Down: down}
	reply := <-down
	require.Equal(t, rendezvous.Proceed, reply.Kind)
	return reply.TaskID, down
}

func beginOp(inbox rendezvous.Inbox, down chan rendezvous.Reply, id int, op string) rendezvous.Reply {
	inbox <- rendezvous.Event{Kind: rendezvous.OperationBegin, TaskID: id, Operation: op, Down: down}
	return <-down
}

func TestController_TwoTasksInterleave(t *testing.T) {
	ctrl := New([]string{"a", "b"}, strategy.Random(1), obslog.Nop())
	inbox := ctrl.Inbox()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	readyA := make(chan struct{})
	go func() {
		id, down := enter(t, inbox, "a")
		close(readyA)
		reply := beginOp(inbox, down, id, "step1")
		require.Equal(t, rendezvous.Proceed, reply.Kind)
		inbox <- rendezvous.Event{Kind: rendezvous.OperationEnd, TaskID: id}
		inbox <- rendezvous.Event{Kind: rendezvous.Exit, TaskID: id}
	}()

	go func() {
		<-readyA
		id, down := enter(t, inbox, "b")
		reply := beginOp(inbox, down, id, "step1")
		require.Equal(t, rendezvous.Proceed, reply.Kind)
		inbox <- rendezvous.Event{Kind: rendezvous.OperationEnd, TaskID: id}
		inbox <- rendezvous.Event{Kind: rendezvous.Exit, TaskID: id}
	}()

	tr, err := ctrl.Run(ctx)
	require.NoError(t, err)
	require.Len(t, tr, 2)
	names := []string{tr[0].TaskName, tr[1].TaskName}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestController_UnexpectedTask(t *testing.T) {
	ctrl := New([]string{"a"}, strategy.Random(1), obslog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		_, err := ctrl.Run(ctx)
		errCh <- err
	}()

	down := rendezvous.NewReplyChannel()
	ctrl.Inbox() <- rendezvous.Event{Kind: rendezvous.Entered, TaskName: "unexpected", Down: down}
	reply := <-down
	assert.Equal(t, rendezvous.Cancel, reply.Kind)

	err := <-errCh
	require.Error(t, err)
}

func TestController_NestedOperationIsProtocolViolation(t *testing.T) {
	ctrl := New([]string{"a"}, strategy.Random(1), obslog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		_, err := ctrl.Run(ctx)
		errCh <- err
	}()

	inbox := ctrl.Inbox()
	id, down := enter(t, inbox, "a")
	first := beginOp(inbox, down, id, "outer")
	require.Equal(t, rendezvous.Proceed, first.Kind)

	second := beginOp(inbox, down, id, "inner")
	assert.Equal(t, rendezvous.Cancel, second.Kind)

	err := <-errCh
	require.Error(t, err)
}

func TestController_CtxCancelSendsCancelToParked(t *testing.T) {
	ctrl := New([]string{"a", "b"}, strategy.Random(1), obslog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := ctrl.Run(ctx)
		errCh <- err
	}()

	inbox := ctrl.Inbox()
	id, down := enter(t, inbox, "a")
	// b enters and stays Idle, so the scenario is never quiescent and a's
	// operation stays parked instead of being released.
	_, _ = enter(t, inbox, "b")

	replyCh := make(chan rendezvous.Reply, 1)
	go func() {
		inbox <- rendezvous.Event{Kind: rendezvous.OperationBegin, TaskID: id, Operation: "stuck", Down: down}
		replyCh <- <-down
	}()

	// Give the goroutine above a moment to park at OperationBegin before
	// cancelling; this is inherently timing-sensitive but generous.
	time.Sleep(20 * time.Millisecond)
	cancel()

	reply := <-replyCh
	assert.Equal(t, rendezvous.Cancel, reply.Kind)

	err := <-errCh
	assert.ErrorIs(t, err, context.Canceled)
}
