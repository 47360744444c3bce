package negotiation

import (
	"fmt"
	"weak"

	"github.com/lintang-b-s/Negotiatorx/pkg/event"
	"github.com/lintang-b-s/Negotiatorx/pkg/util"
	"go.uber.org/zap/zapcore"
)

// NegotiationState is the per segment negotiation bookkeeping: the strategy
// in use, how many times in a row it was chosen, and the segment's cost.
type NegotiationState struct {
	routingEvent weak.Pointer[event.RoutingEvent]
	segment      TrackSegment
	session      *Session
	cost         SegmentCost
	gcellOrder   uint32
	state        SlackState
	stateCount   uint32
	leftBorder   bool
	rightBorder  bool
	ring         bool
}

// NewNegotiationState requires the initial strategy up front, Unimplemented is
// refused.
func NewNegotiationState(seg TrackSegment, session *Session, initial SlackState) (*NegotiationState, error) {
	if !initial.IsStrategy() {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"negotiation.NewNegotiationState: %s is not a valid initial state", initial)
	}
	return &NegotiationState{
		segment:    seg,
		session:    session,
		cost:       NewSegmentCost(seg),
		state:      initial,
		stateCount: 1,
	}, nil
}

func (n *NegotiationState) IsRing() bool {
	return n.ring
}

func (n *NegotiationState) IsBorder() bool {
	return n.leftBorder || n.rightBorder
}

func (n *NegotiationState) IsLeftBorder() bool {
	return n.leftBorder
}

func (n *NegotiationState) IsRightBorder() bool {
	return n.rightBorder
}

func (n *NegotiationState) HasRoutingEvent() bool {
	return n.GetRoutingEvent() != nil
}

// GetRoutingEvent returns nil once the event is detached or collected.
func (n *NegotiationState) GetRoutingEvent() *event.RoutingEvent {
	ev := n.routingEvent.Value()
	if ev == nil || ev.IsDetached() {
		return nil
	}
	return ev
}

func (n *NegotiationState) GetTrackSegment() TrackSegment {
	return n.segment
}

func (n *NegotiationState) GetCost() *SegmentCost {
	return &n.cost
}

func (n *NegotiationState) GetGCellOrder() uint32 {
	return n.gcellOrder
}

func (n *NegotiationState) GetState() SlackState {
	return n.state
}

func (n *NegotiationState) GetStateCount() uint32 {
	return n.stateCount
}

func (n *NegotiationState) GetRipupCount() uint32 {
	return n.cost.GetRipupCount()
}

func (n *NegotiationState) SetGCellOrder(order uint32) {
	n.gcellOrder = order
}

// SetState switches to state and restarts the repeat counter, or bumps the
// counter when the state is unchanged and reset is false.
func (n *NegotiationState) SetState(state SlackState, reset bool) {
	util.AssertPanic(state != Unimplemented, "NegotiationState.SetState(): Unimplemented strategy reached")
	if n.state != state || reset {
		n.state = state
		n.stateCount = 1
	} else {
		n.stateCount++
	}
}

func (n *NegotiationState) SetRing(ring bool) {
	n.ring = ring
}

func (n *NegotiationState) SetLeftBorder(border bool) {
	n.leftBorder = border
}

func (n *NegotiationState) SetRightBorder(border bool) {
	n.rightBorder = border
}

func (n *NegotiationState) ResetBorder() {
	n.leftBorder = false
	n.rightBorder = false
}

// SetRoutingEvent keeps a weak handle, nil clears it.
func (n *NegotiationState) SetRoutingEvent(ev *event.RoutingEvent) {
	if ev == nil {
		n.routingEvent = weak.Pointer[event.RoutingEvent]{}
		return
	}
	n.routingEvent = weak.Make(ev)
}

func (n *NegotiationState) SetRipupCount(count uint32) {
	n.cost.SetRipupCount(count)
}

func (n *NegotiationState) IncRipupCount() {
	n.cost.IncRipupCount()
}

func (n *NegotiationState) DecRipupCount() {
	n.cost.DecRipupCount()
}

func (n *NegotiationState) ResetRipupCount() {
	n.cost.ResetRipupCount()
}

// Invalidate forwards to the attached routing event, if any.
func (n *NegotiationState) Invalidate(withPerpandiculars, withConstraints bool) {
	if ev := n.GetRoutingEvent(); ev != nil {
		ev.Invalidate(withPerpandiculars, withConstraints)
	}
}

func (n *NegotiationState) Update() {
	n.cost.Update(n.segment, n.session)
}

func StateString(n *NegotiationState) string {
	return n.state.String()
}

func (n *NegotiationState) String() string {
	return fmt.Sprintf("<NegotiationState seg:%d %s:%d ripup:%d>",
		n.segment.GetID(), n.state, n.stateCount, n.cost.GetRipupCount())
}

func (n *NegotiationState) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt64("segment", int64(n.segment.GetID()))
	enc.AddString("state", n.state.String())
	enc.AddUint32("stateCount", n.stateCount)
	enc.AddUint32("gcellOrder", n.gcellOrder)
	enc.AddBool("leftBorder", n.leftBorder)
	enc.AddBool("rightBorder", n.rightBorder)
	enc.AddBool("ring", n.ring)
	if ev := n.GetRoutingEvent(); ev != nil {
		if err := enc.AddObject("routingEvent", ev); err != nil {
			return err
		}
	}
	return enc.AddObject("cost", &n.cost)
}
