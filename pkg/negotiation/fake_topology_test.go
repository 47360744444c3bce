package negotiation

import (
	da "github.com/lintang-b-s/Negotiatorx/pkg/datastructure"
	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
)

type fakeSegment struct {
	id         da.SegmentID
	net        da.NetID
	axis       dbu.Unit
	horizontal bool
}

func (s *fakeSegment) GetID() da.SegmentID { return s.id }
func (s *fakeSegment) GetNet() da.NetID    { return s.net }
func (s *fakeSegment) GetAxis() dbu.Unit   { return s.axis }
func (s *fakeSegment) IsHorizontal() bool  { return s.horizontal }

type boundKey struct {
	perp  da.SegmentID
	right bool
}

// fakeTopology answers every query from fixed tables.
type fakeTopology struct {
	collapseds     []da.SegmentID
	perpandiculars []da.SegmentID
	left, right    dbu.Unit
	terminals      map[da.SegmentID]uint32
	canonicals     map[da.SegmentID]da.CanonicalInfo
	bounds         map[boundKey]bool
	calls          int
}

func newFakeTopology() *fakeTopology {
	return &fakeTopology{
		left:       dbu.Max,
		right:      dbu.Min,
		terminals:  make(map[da.SegmentID]uint32),
		canonicals: make(map[da.SegmentID]da.CanonicalInfo),
		bounds:     make(map[boundKey]bool),
	}
}

// perpandicular registers a vertical crossing neighbor whose shrunk interval
// will be [a, b] once the 150 unit margin is removed.
func (f *fakeTopology) perpandicular(id da.SegmentID, a, b dbu.Unit) *fakeTopology {
	f.perpandiculars = append(f.perpandiculars, id)
	f.canonicals[id] = da.CanonicalInfo{ID: id, Horizontal: false, Span: da.NewInterval(a-150, b+150)}
	return f
}

func (f *fakeTopology) TopologicalInfos(seg da.SegmentID) ([]da.SegmentID, []da.SegmentID, dbu.Unit, dbu.Unit) {
	f.calls++
	return f.collapseds, f.perpandiculars, f.left, f.right
}

func (f *fakeTopology) TerminalCount(seg da.SegmentID, collapseds []da.SegmentID) uint32 {
	count := f.terminals[seg]
	for _, c := range collapseds {
		count += f.terminals[c]
	}
	return count
}

func (f *fakeTopology) Canonical(perp da.SegmentID) (da.CanonicalInfo, bool) {
	c, ok := f.canonicals[perp]
	return c, ok
}

func (f *fakeTopology) IsTopologicalBound(perp da.SegmentID, right bool, horizontal bool) bool {
	return f.bounds[boundKey{perp: perp, right: right}]
}

type gapCounter struct {
	gaps int
}

func (g *gapCounter) TopologyGap() {
	g.gaps++
}
