// Package obslog provides the one structured logger threaded through
// engine.Config, replacing the teacher's direct fmt.Fprintf(os.Stderr, ...)
// diagnostics with leveled, structured output (SPEC_FULL.md A2).
package obslog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps *zerolog.Logger so call sites depend on this package, not
// directly on zerolog's API, keeping the dependency swappable in one place.
// It holds a pointer (rather than zerolog.Logger by value) so the zero
// Logger{} is comparable and unambiguously "unset" — zerolog.Logger's own
// struct carries slice fields and is not comparable with ==.
type Logger struct {
	z *zerolog.Logger
}

// New builds a logger writing to w at the given minimum level. A nil w
// defaults to os.Stderr.
func New(w io.Writer, level zerolog.Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	z := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return Logger{z: &z}
}

// Nop returns a logger that discards everything, for tests and for
// Config values constructed without an explicit logger.
func Nop() Logger {
	z := zerolog.Nop()
	return Logger{z: &z}
}

// IsZero reports whether this Logger was never initialized via New or Nop.
func (l Logger) IsZero() bool { return l.z == nil }

func (l Logger) Debug(msg string, kv ...any) { l.event(l.z.Debug(), msg, kv) }
func (l Logger) Info(msg string, kv ...any)  { l.event(l.z.Info(), msg, kv) }
func (l Logger) Warn(msg string, kv ...any)  { l.event(l.z.Warn(), msg, kv) }
func (l Logger) Error(msg string, kv ...any) { l.event(l.z.Error(), msg, kv) }

// event applies kv as alternating key/value pairs onto evt before firing
// msg, mirroring zerolog's Fields-style structured call sites used
// elsewhere in the pack.
func (l Logger) event(evt *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		evt = evt.Interface(key, kv[i+1])
	}
	evt.Msg(msg)
}
