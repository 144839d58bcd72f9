// Command lockstep-replay validates and pretty-prints a recorded trace
// file, and prints the reproduction command for driving it back through
// lockstep.Replay. It does not execute any test binary itself — locating
// and invoking the package under test is left to the caller.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/joeycumines/lockstep"
)

type jsonEntry struct {
	TaskID    int    `json:"task_id"`
	TaskName  string `json:"task_name"`
	Operation string `json:"operation"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	flags := pflag.NewFlagSet("lockstep-replay", pflag.ContinueOnError)
	format := flags.String("format", "text", `output format: "text" or "json"`)
	seed := flags.Uint64("seed", 0, "seed to mention in the printed reproduction command")
	iterations := flags.Int("iterations", 1, "iteration count to mention in the printed reproduction command")
	timeout := flags.Duration("timeout", 0, "timeout to mention in the printed reproduction command")
	runFilter := flags.String("run", "", "go test -run pattern to mention in the printed reproduction command")

	flags.SetOutput(stderr)
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: lockstep-replay [flags] <trace-file>")
		return 2
	}

	raw, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "lockstep-replay: %v\n", err)
		return 1
	}

	tr, err := lockstep.ParseTrace(string(raw))
	if err != nil {
		fmt.Fprintf(stderr, "lockstep-replay: malformed trace: %v\n", err)
		return 1
	}

	switch *format {
	case "json":
		if err := printJSON(stdout, tr); err != nil {
			fmt.Fprintf(stderr, "lockstep-replay: %v\n", err)
			return 1
		}
	case "text":
		fmt.Fprintln(stdout, tr.String())
	default:
		fmt.Fprintf(stderr, "lockstep-replay: unknown --format %q\n", *format)
		return 2
	}

	printRepro(stdout, *seed, *iterations, *timeout, *runFilter)
	return 0
}

func printJSON(w *os.File, tr lockstep.Trace) error {
	entries := make([]jsonEntry, len(tr))
	for i, e := range tr {
		entries[i] = jsonEntry{TaskID: e.TaskID, TaskName: e.TaskName, Operation: e.Operation}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func printRepro(w *os.File, seed uint64, iterations int, timeout time.Duration, runFilter string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# reproduce with:")
	fmt.Fprintf(w, "#   lockstep.NewRunner(expected, lockstep.WithStrategy(lockstep.Replay(tr)))\n")
	if seed != 0 {
		fmt.Fprintf(w, "#   original random seed: %d, iterations: %d\n", seed, iterations)
	}
	if timeout > 0 {
		fmt.Fprintf(w, "#   original timeout: %s\n", timeout)
	}
	if runFilter != "" {
		fmt.Fprintf(w, "#   go test -run %q\n", runFilter)
	}
}
