// Package trace implements the schedule record spec.md §3 and §6 describe:
// an ordered sequence of (TaskID, OperationName) pairs, one per released
// operation, together with the wire format used to feed a recorded
// schedule back into a Replay strategy.
package trace

import (
	"fmt"
	"strconv"
	"strings"
)

// Entry is one released operation: the task that ran it, that task's
// declared name, and the operation's name.
type Entry struct {
	TaskID    int
	TaskName  string
	Operation string
}

// Trace is the total order of released operations across a whole scenario,
// in release order. A zero-value Trace is an empty, valid trace.
type Trace []Entry

// String renders the trace as newline-delimited
// "<task_id>:<task_name>/<operation_name>" records, per spec.md §6. The
// format is a compatibility promise: Parse(t.String()) reproduces t as
// long as no task name contains '/', no name contains a newline, and no
// record begins or ends with whitespace; names are written unescaped, so
// such traces do not round-trip.
func (t Trace) String() string {
	var sb strings.Builder
	for i, e := range t {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strconv.Itoa(e.TaskID))
		sb.WriteByte(':')
		sb.WriteString(e.TaskName)
		sb.WriteByte('/')
		sb.WriteString(e.Operation)
	}
	return sb.String()
}

// Parse reverses Trace.String. Blank lines are skipped so that trailing
// newlines in a trace file round-trip cleanly.
func Parse(s string) (Trace, error) {
	var out Trace
	for i, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			return nil, fmt.Errorf("trace: line %d: missing ':' in %q", i+1, line)
		}
		slash := strings.IndexByte(line[colon+1:], '/')
		if slash < 0 {
			return nil, fmt.Errorf("trace: line %d: missing '/' in %q", i+1, line)
		}
		slash += colon + 1

		id, err := strconv.Atoi(line[:colon])
		if err != nil {
			return nil, fmt.Errorf("trace: line %d: invalid task id in %q: %w", i+1, line, err)
		}
		out = append(out, Entry{
			TaskID:    id,
			TaskName:  line[colon+1 : slash],
			Operation: line[slash+1:],
		})
	}
	return out, nil
}
