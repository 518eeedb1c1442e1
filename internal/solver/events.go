package solver

import "math"

// ImpulseEvent reports a constraint whose accumulated impulse exceeded its
// configured maximum during a step. At most one event is emitted per
// constraint per step, on the final solver iteration.
type ImpulseEvent struct {
	Type         RecordType
	Impulse      float64 // accumulated impulse at overflow
	Joint        uint64
	BodyA, BodyB int
}

// EventCollector accumulates impulse events for one partition. Collectors
// are single-writer; merge them after all partitions complete. Consumers
// get no ordering guarantee across partitions, only that every event of a
// step is present once the step finishes.
type EventCollector struct {
	events []ImpulseEvent
}

func (c *EventCollector) Events() []ImpulseEvent { return c.events }

func (c *EventCollector) Reset() { c.events = c.events[:0] }

// Merge appends every collector's events into one slice.
func Merge(dst []ImpulseEvent, collectors ...*EventCollector) []ImpulseEvent {
	for _, c := range collectors {
		dst = append(dst, c.events...)
	}
	return dst
}

// emitOverflow fires the overflow event on the final iteration. The
// impulse itself is never clamped; overflow is a report, not a failure.
func emitOverflow(c *EventCollector, t RecordType, acc, maxImpulse float64, enabled bool, jointID uint64, h Header, in StepInput) {
	if c == nil || !in.LastIteration || !enabled {
		return
	}
	if math.Abs(acc) > maxImpulse {
		c.events = append(c.events, ImpulseEvent{
			Type:    t,
			Impulse: acc,
			Joint:   jointID,
			BodyA:   h.BodyA,
			BodyB:   h.BodyB,
		})
	}
}
