// Package trace defines the optional instrumentation hooks consumed by the
// decode layer. Hooks are injected capabilities: their absence removes
// notifications but never changes decode behavior.
package trace

import "time"

// Tracer observes byte, row and timing events at iterator boundaries.
// BatchStarted fires once per iterator construction with the payload's
// serialized byte length. RowsParsed fires with a monotonic row count and
// the elapsed decode time; implementations may receive it once per batch
// rather than per row. BatchFinished fires when the iterator is exhausted
// or released.
type Tracer interface {
	BatchStarted(bytes int)
	RowsParsed(rows int, elapsed time.Duration)
	BatchFinished()
}

// DebugHook receives wire fields that were decoded but matched nothing in
// the warehouse schema. It replaces unconditional logging on the decode
// path: unrecognized fields are dropped silently unless a hook is set.
type DebugHook interface {
	UnknownField(name string, value interface{})
}

type nopTracer struct{}

func (nopTracer) BatchStarted(int)              {}
func (nopTracer) RowsParsed(int, time.Duration) {}
func (nopTracer) BatchFinished()                {}

// Nop returns a Tracer that discards all notifications.
func Nop() Tracer { return nopTracer{} }
