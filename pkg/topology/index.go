package topology

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	da "github.com/lintang-b-s/Negotiatorx/pkg/datastructure"
	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
	"github.com/lintang-b-s/Negotiatorx/pkg/spatialindex"
	"github.com/lintang-b-s/Negotiatorx/pkg/util"
)

// Index is an in-memory segment topology. Queries are safe for concurrent
// readers; mutations take the write lock.
type Index struct {
	mu       sync.RWMutex
	segments map[da.SegmentID]*Segment
	parts    map[da.SegmentID][]da.SegmentID // canonical -> split parts, canonical excluded
	rt       *spatialindex.Rtree
}

func NewIndex() *Index {
	return &Index{
		segments: make(map[da.SegmentID]*Segment),
		parts:    make(map[da.SegmentID][]da.SegmentID),
		rt:       spatialindex.NewRtree(),
	}
}

func (ix *Index) Add(s *Segment) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.segments[s.id]; ok {
		return util.WrapErrorf(nil, util.ErrConflict, "topology.Add: segment %d already indexed", s.id)
	}
	if s.span.IsEmpty() {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "topology.Add: segment %d has an empty span", s.id)
	}
	ix.segments[s.id] = s
	if !s.IsCanonical() {
		ix.parts[s.canonical] = append(ix.parts[s.canonical], s.id)
	}
	ix.rt.Insert(s.id, s.GetBox())
	return nil
}

func (ix *Index) Remove(id da.SegmentID) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	s, ok := ix.segments[id]
	if !ok {
		return util.WrapErrorf(nil, util.ErrNotFound, "topology.Remove: segment %d", id)
	}
	ix.rt.Delete(id, s.GetBox())
	delete(ix.segments, id)
	if !s.IsCanonical() {
		ix.parts[s.canonical] = slices.DeleteFunc(ix.parts[s.canonical], func(p da.SegmentID) bool { return p == id })
	}
	return nil
}

func (ix *Index) Get(id da.SegmentID) (*Segment, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	s, ok := ix.segments[id]
	return s, ok
}

func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.segments)
}

// Segments returns every indexed segment in id order.
func (ix *Index) Segments() []*Segment {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]*Segment, 0, len(ix.segments))
	for _, s := range ix.segments {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Segment) int { return cmp.Compare(a.id, b.id) })
	return out
}

// SetAxis moves a segment to another track. Perpendicular neighbors whose end
// sat on the old axis follow it, so connectivity is kept.
func (ix *Index) SetAxis(id da.SegmentID, axis dbu.Unit) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	s, ok := ix.segments[id]
	if !ok {
		return util.WrapErrorf(nil, util.ErrNotFound, "topology.SetAxis: segment %d", id)
	}
	if s.axis == axis {
		return nil
	}

	old := s.axis
	for _, pid := range ix.perpandicularsOf([]*Segment{s}) {
		p := ix.segments[pid]
		var span da.Interval
		switch {
		case p.span.GetVMin() == old:
			span = da.NewInterval(axis, p.span.GetVMax())
		case p.span.GetVMax() == old:
			span = da.NewInterval(p.span.GetVMin(), axis)
		default:
			continue
		}
		ix.rt.Delete(p.id, p.GetBox())
		p.span = span
		ix.rt.Insert(p.id, p.GetBox())
	}

	ix.rt.Delete(s.id, s.GetBox())
	s.axis = axis
	ix.rt.Insert(s.id, s.GetBox())
	return nil
}

// TopologicalInfos returns the segments aligned with seg (seg excluded), the
// perpendiculars crossing the aligned set, and the extension the set must keep
// to reach every contact and terminal. Extensions stay {Max, Min} when there
// is nothing to reach.
func (ix *Index) TopologicalInfos(seg da.SegmentID) (collapseds, perpandiculars []da.SegmentID, leftMinExtend, rightMinExtend dbu.Unit) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	leftMinExtend, rightMinExtend = dbu.Max, dbu.Min

	s, ok := ix.segments[seg]
	if !ok {
		return nil, nil, leftMinExtend, rightMinExtend
	}

	aligned := ix.alignedSet(s)
	collapseds = make([]da.SegmentID, 0, len(aligned)-1)
	for _, a := range aligned {
		if a.id != s.id {
			collapseds = append(collapseds, a.id)
		}
		for _, pos := range a.terminals {
			leftMinExtend = min(leftMinExtend, pos)
			rightMinExtend = max(rightMinExtend, pos)
		}
	}

	perpandiculars = ix.perpandicularsOf(aligned)
	for _, pid := range perpandiculars {
		axis := ix.segments[pid].axis
		leftMinExtend = min(leftMinExtend, axis)
		rightMinExtend = max(rightMinExtend, axis)
	}
	return collapseds, perpandiculars, leftMinExtend, rightMinExtend
}

// TerminalCount counts the terminals of seg and of its collapsed set.
func (ix *Index) TerminalCount(seg da.SegmentID, collapseds []da.SegmentID) uint32 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var count uint32
	if s, ok := ix.segments[seg]; ok {
		count += uint32(len(s.terminals))
	}
	for _, id := range collapseds {
		if c, ok := ix.segments[id]; ok && id != seg {
			count += uint32(len(c.terminals))
		}
	}
	return count
}

// Canonical resolves perp to its canonical segment and the interval covered by
// all the parts split from it. It fails when the canonical is not on a track.
func (ix *Index) Canonical(perp da.SegmentID) (da.CanonicalInfo, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	s, ok := ix.segments[perp]
	if !ok {
		return da.CanonicalInfo{}, false
	}
	c, ok := ix.segments[s.GetCanonicalID()]
	if !ok || !c.routed {
		return da.CanonicalInfo{}, false
	}

	span := c.span
	for _, pid := range ix.parts[c.id] {
		if p, ok := ix.segments[pid]; ok {
			span = span.Merge(p.span)
		}
	}
	return da.CanonicalInfo{ID: c.id, Horizontal: c.horizontal, Span: span}, true
}

// IsTopologicalBound reports whether the canonical group of perp is anchored at
// its upper (right) or lower end. Only parts running in the given direction are
// considered.
func (ix *Index) IsTopologicalBound(perp da.SegmentID, right bool, horizontal bool) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	s, ok := ix.segments[perp]
	if !ok {
		return false
	}
	group := []da.SegmentID{s.GetCanonicalID()}
	group = append(group, ix.parts[s.GetCanonicalID()]...)

	span := da.EmptyInterval()
	members := make([]*Segment, 0, len(group))
	for _, id := range group {
		if p, ok := ix.segments[id]; ok && p.horizontal == horizontal {
			members = append(members, p)
			span = span.Merge(p.span)
		}
	}
	for _, p := range members {
		if right && p.targetBound && p.span.GetVMax() == span.GetVMax() {
			return true
		}
		if !right && p.sourceBound && p.span.GetVMin() == span.GetVMin() {
			return true
		}
	}
	return false
}

// alignedSet grows seg into the set of same-net segments sharing its axis and
// touching each other. seg is always first.
func (ix *Index) alignedSet(seg *Segment) []*Segment {
	set := []*Segment{seg}
	seen := map[da.SegmentID]bool{seg.id: true}

	for i := 0; i < len(set); i++ {
		cur := set[i]
		for _, id := range ix.rt.Search(cur.GetBox()) {
			if seen[id] {
				continue
			}
			n := ix.segments[id]
			if n.net != seg.net || n.horizontal != seg.horizontal || n.axis != seg.axis {
				continue
			}
			if !n.span.Intersects(cur.span) {
				continue
			}
			seen[id] = true
			set = append(set, n)
		}
	}
	return set
}

func (ix *Index) perpandicularsOf(aligned []*Segment) []da.SegmentID {
	out := make([]da.SegmentID, 0)
	seen := make(map[da.SegmentID]bool)
	for _, a := range aligned {
		seen[a.id] = true
	}

	for _, a := range aligned {
		for _, id := range ix.rt.Search(a.GetBox()) {
			if seen[id] {
				continue
			}
			p := ix.segments[id]
			if p.net != a.net || p.horizontal == a.horizontal {
				continue
			}
			if !p.span.Contains(a.axis) || !a.span.Contains(p.axis) {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

func (ix *Index) String() string {
	return fmt.Sprintf("<Index segments:%d>", ix.Len())
}
