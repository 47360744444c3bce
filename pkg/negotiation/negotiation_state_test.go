package negotiation

import (
	"runtime"
	"testing"

	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
	"github.com/lintang-b-s/Negotiatorx/pkg/event"
	"github.com/lintang-b-s/Negotiatorx/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func newTestState(t *testing.T, topo Topology) *NegotiationState {
	n, err := NewNegotiationState(horizontal(100), newTestSession(t, topo), RipupPerpandiculars)
	require.NoError(t, err)
	return n
}

func TestNewNegotiationStateInitialState(t *testing.T) {
	session := newTestSession(t, newFakeTopology())

	testCases := []struct {
		name    string
		initial SlackState
		wantErr bool
	}{
		{name: "mildest", initial: RipupPerpandiculars},
		{name: "maximum slack", initial: MaximumSlack},
		{name: "sentinel", initial: Unimplemented, wantErr: true},
		{name: "zero", initial: 0, wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNegotiationState(horizontal(0), session, tt.initial)
			if tt.wantErr {
				assert.ErrorIs(t, err, util.ErrBadParamInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.initial, n.GetState())
			assert.Equal(t, uint32(1), n.GetStateCount())
		})
	}
}

func TestSetState(t *testing.T) {
	testCases := []struct {
		name      string
		steps     []SlackState
		resetLast bool
		wantState SlackState
		wantCount uint32
	}{
		{name: "same state twice", steps: []SlackState{Minimize, Minimize}, wantState: Minimize, wantCount: 2},
		{name: "repeat three times", steps: []SlackState{DogLeg, DogLeg, DogLeg}, wantState: DogLeg, wantCount: 3},
		{name: "different state resets", steps: []SlackState{Minimize, Minimize, Slacken}, wantState: Slacken, wantCount: 1},
		{name: "reset with same state", steps: []SlackState{Minimize, Minimize, Minimize}, resetLast: true, wantState: Minimize, wantCount: 1},
		{name: "initial state repeated", steps: []SlackState{RipupPerpandiculars}, wantState: RipupPerpandiculars, wantCount: 2},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			n := newTestState(t, newFakeTopology())
			for i, s := range tt.steps {
				n.SetState(s, tt.resetLast && i == len(tt.steps)-1)
			}
			assert.Equal(t, tt.wantState, n.GetState())
			assert.Equal(t, tt.wantCount, n.GetStateCount())
			assert.Equal(t, tt.wantState.String(), StateString(n))
		})
	}
}

func TestSetStateUnimplementedPanics(t *testing.T) {
	n := newTestState(t, newFakeTopology())
	assert.Panics(t, func() { n.SetState(Unimplemented, false) })
}

func TestRipupCountDelegates(t *testing.T) {
	n := newTestState(t, newFakeTopology())

	n.IncRipupCount()
	assert.Equal(t, uint32(1), n.GetRipupCount())
	assert.Equal(t, uint32(1), n.GetCost().GetRipupCount())

	n.SetRipupCount(5)
	n.DecRipupCount()
	assert.Equal(t, uint32(4), n.GetRipupCount())

	n.ResetRipupCount()
	assert.Equal(t, uint32(0), n.GetRipupCount())
}

func TestBorders(t *testing.T) {
	testCases := []struct {
		left, right bool
	}{
		{false, false},
		{true, false},
		{false, true},
		{true, true},
	}

	for _, tt := range testCases {
		n := newTestState(t, newFakeTopology())
		n.SetLeftBorder(tt.left)
		n.SetRightBorder(tt.right)
		assert.Equal(t, tt.left || tt.right, n.IsBorder())
		assert.Equal(t, tt.left, n.IsLeftBorder())
		assert.Equal(t, tt.right, n.IsRightBorder())

		n.ResetBorder()
		assert.False(t, n.IsBorder())
		assert.False(t, n.IsLeftBorder())
		assert.False(t, n.IsRightBorder())
	}
}

func TestFlagsAndOrder(t *testing.T) {
	n := newTestState(t, newFakeTopology())
	assert.False(t, n.IsRing())
	n.SetRing(true)
	assert.True(t, n.IsRing())

	n.SetGCellOrder(12)
	assert.Equal(t, uint32(12), n.GetGCellOrder())
	assert.Equal(t, dbu.Unit(100), n.GetTrackSegment().GetAxis())
}

func TestInvalidateForwardsToEvent(t *testing.T) {
	n := newTestState(t, newFakeTopology())

	assert.False(t, n.HasRoutingEvent())
	assert.NotPanics(t, func() { n.Invalidate(true, true) })

	ev := event.NewRoutingEvent(1, 0)
	n.SetRoutingEvent(ev)
	require.True(t, n.HasRoutingEvent())
	assert.Same(t, ev, n.GetRoutingEvent())

	n.Invalidate(true, false)
	assert.True(t, ev.IsInvalidated())
	p, c := ev.Revalidate()
	assert.True(t, p)
	assert.False(t, c)

	ev.Detach()
	assert.False(t, n.HasRoutingEvent())
	n.Invalidate(true, true)
	assert.False(t, ev.IsInvalidated())

	n.SetRoutingEvent(nil)
	assert.Nil(t, n.GetRoutingEvent())
	runtime.KeepAlive(ev)
}

func TestRoutingEventIsNotKeptAlive(t *testing.T) {
	n := newTestState(t, newFakeTopology())
	func() {
		n.SetRoutingEvent(event.NewRoutingEvent(1, 0))
	}()

	runtime.GC()
	runtime.GC()
	assert.False(t, n.HasRoutingEvent())
}

func TestUpdateDelegatesToCost(t *testing.T) {
	topo := newFakeTopology().perpandicular(2, 100, 100).perpandicular(3, 0, 300)
	n := newTestState(t, topo)

	n.Update()
	assert.True(t, n.GetCost().IsUpdated())
	assert.Equal(t, []dbu.Unit{100, 0, 300}, n.GetCost().GetAttractors())
	assert.Equal(t, dbu.Unit(300), n.GetCost().GetWiringDelta(100))
}

func TestNegotiationStateRecord(t *testing.T) {
	n := newTestState(t, newFakeTopology())
	ev := event.NewRoutingEvent(1, 0)
	n.SetRoutingEvent(ev)
	n.SetState(Slacken, false)
	n.Update()

	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, n.MarshalLogObject(enc))
	assert.Equal(t, "Slacken", enc.Fields["state"])
	assert.Contains(t, enc.Fields, "cost")
	assert.Contains(t, enc.Fields, "routingEvent")
	assert.Equal(t, "<NegotiationState seg:1 Slacken:1 ripup:0>", n.String())
	runtime.KeepAlive(ev)
}
