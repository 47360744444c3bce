package event

import (
	"fmt"

	"github.com/google/uuid"
	da "github.com/lintang-b-s/Negotiatorx/pkg/datastructure"
	"go.uber.org/zap/zapcore"
)

// RoutingEvent is a pending request to (re)place one segment. The scheduler
// owns it; segments only keep a weak handle.
type RoutingEvent struct {
	id                       uuid.UUID
	segment                  da.SegmentID
	priority                 float64
	level                    uint32
	processed                bool
	invalidated              bool
	invalidatePerpandiculars bool
	invalidateConstraints    bool
	detached                 bool
}

func NewRoutingEvent(segment da.SegmentID, priority float64) *RoutingEvent {
	return &RoutingEvent{
		id:       uuid.New(),
		segment:  segment,
		priority: priority,
	}
}

func (e *RoutingEvent) GetID() uuid.UUID {
	return e.id
}

func (e *RoutingEvent) GetSegment() da.SegmentID {
	return e.segment
}

func (e *RoutingEvent) GetPriority() float64 {
	return e.priority
}

func (e *RoutingEvent) SetPriority(priority float64) {
	e.priority = priority
}

func (e *RoutingEvent) GetEventLevel() uint32 {
	return e.level
}

func (e *RoutingEvent) IncEventLevel() {
	e.level++
}

func (e *RoutingEvent) IsProcessed() bool {
	return e.processed
}

func (e *RoutingEvent) SetProcessed(processed bool) {
	e.processed = processed
}

// Invalidate flags the event for re-evaluation. Flags accumulate until Revalidate.
func (e *RoutingEvent) Invalidate(withPerpandiculars, withConstraints bool) {
	e.invalidated = true
	e.invalidatePerpandiculars = e.invalidatePerpandiculars || withPerpandiculars
	e.invalidateConstraints = e.invalidateConstraints || withConstraints
}

func (e *RoutingEvent) IsInvalidated() bool {
	return e.invalidated
}

// Revalidate clears the invalidation and reports what was requested.
func (e *RoutingEvent) Revalidate() (withPerpandiculars, withConstraints bool) {
	withPerpandiculars, withConstraints = e.invalidatePerpandiculars, e.invalidateConstraints
	e.invalidated = false
	e.invalidatePerpandiculars = false
	e.invalidateConstraints = false
	return withPerpandiculars, withConstraints
}

// Detach marks the event as dead. Holders of a handle must stop using it.
func (e *RoutingEvent) Detach() {
	e.detached = true
}

func (e *RoutingEvent) IsDetached() bool {
	return e.detached
}

func (e *RoutingEvent) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", e.id.String())
	enc.AddInt64("segment", int64(e.segment))
	enc.AddFloat64("priority", e.priority)
	enc.AddUint32("level", e.level)
	enc.AddBool("processed", e.processed)
	enc.AddBool("invalidated", e.invalidated)
	enc.AddBool("detached", e.detached)
	return nil
}

func (e *RoutingEvent) String() string {
	return fmt.Sprintf("<RoutingEvent %s seg:%d pri:%.2f lvl:%d>", e.id.String()[:8], e.segment, e.priority, e.level)
}
