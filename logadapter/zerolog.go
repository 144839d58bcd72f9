// Package logadapter bridges lockstep.Logger to concrete logging
// backends. Zerolog fills the role logiface-zerolog plays for logiface in
// the teacher's monorepo: a thin translation layer so the harness core
// never imports a specific backend directly.
package logadapter

import "github.com/rs/zerolog"

// Zerolog adapts a zerolog.Logger to satisfy lockstep.Logger. kv pairs
// are applied as key/value fields in order; an odd trailing key with no
// value is logged under an empty-string value rather than dropped.
type Zerolog struct {
	log zerolog.Logger
}

// NewZerolog wraps log for use as a lockstep.Logger.
func NewZerolog(log zerolog.Logger) Zerolog {
	return Zerolog{log: log}
}

func (z Zerolog) Debug(msg string, kv ...any) { z.event(z.log.Debug(), kv).Msg(msg) }
func (z Zerolog) Info(msg string, kv ...any)  { z.event(z.log.Info(), kv).Msg(msg) }
func (z Zerolog) Warn(msg string, kv ...any)  { z.event(z.log.Warn(), kv).Msg(msg) }
func (z Zerolog) Error(msg string, kv ...any) { z.event(z.log.Error(), kv).Msg(msg) }

func (z Zerolog) event(e *zerolog.Event, kv []any) *zerolog.Event {
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		if i+1 >= len(kv) {
			e = e.Interface(key, "")
			break
		}
		e = e.Interface(key, kv[i+1])
	}
	return e
}
