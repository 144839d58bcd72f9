// Package rendezvous implements the channel-pair handoff spec.md §4.1
// describes: the protocol by which an instrumented task suspends until the
// controller grants it permission to proceed.
//
// The "per-task up channel" spec.md describes is realized here as one
// shared, multi-producer Inbox owned by the controller — idiomatic Go
// favors a single fan-in channel consumed by one goroutine over selecting
// across a dynamically-sized set of per-task channels. The per-task
// contract ("at most one in-flight up message, followed by a down
// receive before the next up send") is preserved because each task only
// ever has one goroutine driving it, and that goroutine blocks on its own
// Reply channel between sends.
//
// The per-task "down" direction stays genuinely private: each task is
// handed its own Reply channel at Entered time and reuses it for every
// subsequent OperationBegin, so the controller can address a Proceed or
// Cancel to exactly one waiting task.
package rendezvous

// Kind identifies the up-message variants of spec.md §4.1.
type Kind int

const (
	// Entered announces a task-entered event. Blocks for a Reply.
	Entered Kind = iota
	// OperationBegin announces an operation-about-to-execute event.
	// Blocks for a Reply.
	OperationBegin
	// OperationEnd announces an operation's completion. Does not block.
	OperationEnd
	// Exit announces that the task's instrumented body has returned.
	// Does not block.
	Exit
)

func (k Kind) String() string {
	switch k {
	case Entered:
		return "Entered"
	case OperationBegin:
		return "OperationBegin"
	case OperationEnd:
		return "OperationEnd"
	case Exit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// ReplyKind identifies the down-message variants of spec.md §4.1.
type ReplyKind int

const (
	// Proceed grants permission to run the operation (or start the task).
	Proceed ReplyKind = iota
	// Cancel tells the task to stop waiting on the controller and run the
	// remainder of its body uninstrumented.
	Cancel
)

func (k ReplyKind) String() string {
	switch k {
	case Proceed:
		return "Proceed"
	case Cancel:
		return "Cancel"
	default:
		return "Unknown"
	}
}

// Reply is the controller's one-shot response to a blocking Event. TaskID
// is only meaningful on the reply to an Entered event (Proceed): it is how
// the controller hands the task its freshly assigned, stable TaskID, so
// every subsequent event the task sends can identify itself without the
// controller needing to track reply-channel identity.
type Reply struct {
	Kind   ReplyKind
	TaskID int
}

// Event is one up-message, sent by an instrumented task to the
// controller's Inbox. Down is non-nil (and exactly one Reply must
// eventually be sent on it) for the two blocking Kinds, Entered and
// OperationBegin; it is nil for OperationEnd and Exit, which are
// fire-and-forget.
type Event struct {
	Kind      Kind
	TaskID    int    // valid for OperationBegin, OperationEnd, Exit
	TaskName  string // valid for Entered
	Operation string // valid for OperationBegin
	Down      chan Reply
}

// Inbox is the controller's single shared arrival/event queue, spec.md
// §4.3's "shared arrival channel" generalized to carry every up-message
// kind, not just Entered.
type Inbox chan Event

// NewInbox creates an Inbox. Unbuffered: a send blocks until the
// controller's drain loop receives it, which is what makes the controller
// the sole serialization point for the whole scenario.
func NewInbox() Inbox {
	return make(Inbox)
}

// NewReplyChannel creates the Reply channel a task hands the controller at
// Entered time and reuses for every subsequent OperationBegin.
func NewReplyChannel() chan Reply {
	return make(chan Reply)
}
