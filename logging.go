package lockstep

import "github.com/joeycumines/lockstep/internal/obslog"

// Logger is the structured-logging sink a Runner may optionally be given,
// spec.md §6: "An optional structured-logging sink may be attached; its
// absence must not affect behavior." Modeled directly on
// eventloop.Logger/eventloop.NewNoOpLogger from the teacher's event-loop
// package, except scoped to one Runner rather than a package-level
// global — concurrent scenarios in one test binary must not share
// logging configuration the way concurrent event loops in one process
// reasonably can.
//
// See package logadapter for a ready-made backend (rs/zerolog).
type Logger = obslog.Logger

// NopLogger returns a Logger whose methods discard everything. It is the
// default for every Runner that isn't given WithLogger.
func NopLogger() Logger { return obslog.Nop() }
