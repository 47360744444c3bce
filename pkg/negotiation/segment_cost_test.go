package negotiation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	da "github.com/lintang-b-s/Negotiatorx/pkg/datastructure"
	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func horizontal(axis dbu.Unit) *fakeSegment {
	return &fakeSegment{id: 1, net: 7, axis: axis, horizontal: true}
}

func newTestSession(t *testing.T, topo Topology, opts ...SessionOption) *Session {
	require.NoError(t, dbu.SetUnitsPerLambda(100))
	opts = append([]SessionOption{WithMargin(1.5)}, opts...)
	return NewSession(topo, zaptest.NewLogger(t), opts...)
}

func TestSegmentCostInitial(t *testing.T) {
	c := NewSegmentCost(horizontal(100))

	assert.Equal(t, dbu.Max, c.GetLeftMinExtend())
	assert.Equal(t, dbu.Min, c.GetRightMinExtend())
	assert.Equal(t, da.NetID(7), c.GetNet())
	assert.Equal(t, uint32(0), c.GetRipupCount())
	assert.False(t, c.IsUpdated())
}

func TestSegmentCostUpdate(t *testing.T) {
	testCases := []struct {
		name           string
		axis           dbu.Unit
		topo           func() *fakeTopology
		wantAttractors []dbu.Unit
		wantTerminals  uint32
		deltaAxis      dbu.Unit
		wantDelta      dbu.Unit
	}{
		{
			name:           "no perpandiculars",
			axis:           100,
			topo:           newFakeTopology,
			wantAttractors: []dbu.Unit{},
			deltaAxis:      12345,
			wantDelta:      0,
		},
		{
			name: "single punctual perpandicular",
			axis: 0,
			topo: func() *fakeTopology {
				return newFakeTopology().perpandicular(2, 300, 300)
			},
			wantAttractors: []dbu.Unit{300},
			deltaAxis:      120,
			wantDelta:      180,
		},
		{
			name: "opposite spins cancel",
			axis: 0,
			topo: func() *fakeTopology {
				// 2 pulls down to 500 (+1 at its top), 3 pulls up from 500 (-1 at its bottom)
				return newFakeTopology().
					perpandicular(2, 200, 500).
					perpandicular(3, 500, 900)
			},
			wantAttractors: []dbu.Unit{200, 900},
			deltaAxis:      500,
			wantDelta:      700,
		},
		{
			name: "same side spins add up but attract once",
			axis: 0,
			topo: func() *fakeTopology {
				return newFakeTopology().
					perpandicular(2, 200, 500).
					perpandicular(3, 300, 500)
			},
			wantAttractors: []dbu.Unit{200, 300, 500},
			deltaAxis:      0,
			wantDelta:      1000,
		},
		{
			name: "bound on own axis does not attract unless anchored",
			axis: 100,
			topo: func() *fakeTopology {
				f := newFakeTopology().
					perpandicular(2, 100, 400).
					perpandicular(3, -300, 100)
				f.bounds[boundKey{perp: 3, right: true}] = true
				return f
			},
			wantAttractors: []dbu.Unit{-300, 100, 400},
			deltaAxis:      100,
			wantDelta:      700,
		},
		{
			name: "punctual attractors first, duplicates kept",
			axis: 0,
			topo: func() *fakeTopology {
				return newFakeTopology().
					perpandicular(2, 50, 80).
					perpandicular(3, 700, 700).
					perpandicular(4, 10, 10).
					perpandicular(5, 700, 700)
			},
			wantAttractors: []dbu.Unit{700, 10, 700, 50, 80},
			deltaAxis:      0,
			wantDelta:      1540,
		},
		{
			name: "collapsed terminals",
			axis: 100,
			topo: func() *fakeTopology {
				f := newFakeTopology()
				f.collapseds = []da.SegmentID{5, 6}
				f.terminals[1] = 1
				f.terminals[5] = 2
				return f
			},
			wantAttractors: []dbu.Unit{},
			wantTerminals:  3,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			topo := tt.topo()
			seg := horizontal(tt.axis)
			c := NewSegmentCost(seg)
			c.Update(seg, newTestSession(t, topo))

			if diff := cmp.Diff(tt.wantAttractors, c.GetAttractors()); diff != "" {
				t.Errorf("attractors mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantTerminals, c.GetTerminals())
			assert.Equal(t, tt.wantDelta, c.GetWiringDelta(tt.deltaAxis))
		})
	}
}

// Segment on y=100 with one collapsed neighbor carrying two terminals, a
// punctual perpandicular at 100 and a perpandicular covering [90, 110].
func TestSegmentCostScenario(t *testing.T) {
	topo := newFakeTopology().
		perpandicular(2, 100, 100).
		perpandicular(3, 90, 110)
	topo.collapseds = []da.SegmentID{4}
	topo.terminals[4] = 2
	topo.left, topo.right = 0, 2000

	seg := horizontal(100)
	c := NewSegmentCost(seg)
	c.Update(seg, newTestSession(t, topo))

	assert.Equal(t, uint32(2), c.GetTerminals())
	assert.Equal(t, dbu.Unit(0), c.GetLeftMinExtend())
	assert.Equal(t, dbu.Unit(2000), c.GetRightMinExtend())
	// both bounds of [90, 110] are off axis, so both attract
	assert.Equal(t, []dbu.Unit{100, 90, 110}, c.GetAttractors())
	assert.Equal(t, dbu.Unit(5+5+15), c.GetWiringDelta(95))

	// A third, short perpandicular shrinks past its center to [110, 100]: its
	// lower bound spins -1 on 110 and cancels the +1 above, its upper bound sits
	// on the axis unanchored and does not attract.
	topo.perpandicular(5, 110, 100)
	c.Update(seg, newTestSession(t, topo))

	assert.Equal(t, []dbu.Unit{100, 90}, c.GetAttractors())
	assert.Equal(t, dbu.Unit(10), c.GetWiringDelta(95))
}

func TestSegmentCostUnresolvedPerpandicular(t *testing.T) {
	topo := newFakeTopology().perpandicular(2, 300, 300)
	topo.perpandiculars = append(topo.perpandiculars, 3, 4)

	core, logs := observer.New(zapcore.WarnLevel)
	gaps := &gapCounter{}
	session := NewSession(topo, zap.New(core), WithMargin(1.5), WithObserver(gaps), WithDiagnosticInterval(0))

	seg := horizontal(0)
	c := NewSegmentCost(seg)
	assert.NotPanics(t, func() { c.Update(seg, session) })

	assert.Equal(t, []dbu.Unit{300}, c.GetAttractors())
	assert.True(t, c.IsUpdated())
	assert.Equal(t, 2, gaps.gaps)
	assert.Equal(t, 2, logs.FilterMessage("perpandicular is not a track segment, skipped").Len())
}

func TestSegmentCostGapLogThrottled(t *testing.T) {
	topo := newFakeTopology()
	topo.perpandiculars = []da.SegmentID{3, 4, 5}

	core, logs := observer.New(zapcore.WarnLevel)
	gaps := &gapCounter{}
	session := NewSession(topo, zap.New(core), WithObserver(gaps))

	seg := horizontal(0)
	c := NewSegmentCost(seg)
	c.Update(seg, session)

	assert.Equal(t, 3, gaps.gaps)
	assert.Equal(t, 1, logs.Len())
}

func TestSegmentCostUpdateIsIdempotent(t *testing.T) {
	topo := newFakeTopology().
		perpandicular(2, 100, 100).
		perpandicular(3, 50, 400).
		perpandicular(4, 400, 600)
	topo.collapseds = []da.SegmentID{9}
	topo.terminals[9] = 4
	topo.left, topo.right = -10, 10

	seg := horizontal(0)
	session := newTestSession(t, topo)
	c := NewSegmentCost(seg)

	c.Update(seg, session)
	first := c.GetAttractors()
	firstTerminals := c.GetTerminals()
	firstLeft, firstRight := c.GetLeftMinExtend(), c.GetRightMinExtend()

	c.Update(seg, session)
	assert.Equal(t, first, c.GetAttractors())
	assert.Equal(t, firstTerminals, c.GetTerminals())
	assert.Equal(t, firstLeft, c.GetLeftMinExtend())
	assert.Equal(t, firstRight, c.GetRightMinExtend())
	assert.Equal(t, 2, topo.calls)
}

func TestSegmentCostRipupCount(t *testing.T) {
	c := NewSegmentCost(horizontal(0))
	c.IncRipupCount()
	c.IncRipupCount()
	assert.Equal(t, uint32(2), c.GetRipupCount())

	c.DecRipupCount()
	assert.Equal(t, uint32(1), c.GetRipupCount())

	c.SetRipupCount(9)
	assert.Equal(t, uint32(9), c.GetRipupCount())

	c.ResetRipupCount()
	assert.Equal(t, uint32(0), c.GetRipupCount())

	c.DecRipupCount()
	assert.Equal(t, uint32(0), c.GetRipupCount())
}

func TestSegmentCostRipupCountSurvivesUpdate(t *testing.T) {
	seg := horizontal(0)
	c := NewSegmentCost(seg)
	c.IncRipupCount()
	c.Update(seg, newTestSession(t, newFakeTopology()))
	assert.Equal(t, uint32(1), c.GetRipupCount())
}

func TestSegmentCostString(t *testing.T) {
	require.NoError(t, dbu.SetUnitsPerLambda(100))
	c := NewSegmentCost(horizontal(0))
	assert.Equal(t, "<SegmentCost 0 [MAX:MIN]>", c.String())

	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, c.MarshalLogObject(enc))
	assert.Equal(t, "MAX", enc.Fields["leftMinExtend"])
	assert.Equal(t, int64(7), enc.Fields["net"])
}
