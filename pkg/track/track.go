package track

import (
	"fmt"
	"slices"

	da "github.com/lintang-b-s/Negotiatorx/pkg/datastructure"
	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
)

// Element is a segment placed on a track.
type Element struct {
	segment da.SegmentID
	net     da.NetID
	span    da.Interval
}

func NewElement(segment da.SegmentID, net da.NetID, span da.Interval) Element {
	return Element{segment: segment, net: net, span: span}
}

func (e Element) GetSegment() da.SegmentID {
	return e.segment
}

func (e Element) GetNet() da.NetID {
	return e.net
}

func (e Element) GetSpan() da.Interval {
	return e.span
}

// Track keeps its elements sorted by span start.
type Track struct {
	index      int
	axis       dbu.Unit
	horizontal bool
	layer      int
	elements   []Element
}

func NewTrack(index int, axis dbu.Unit, horizontal bool, layer int) *Track {
	return &Track{
		index:      index,
		axis:       axis,
		horizontal: horizontal,
		layer:      layer,
		elements:   make([]Element, 0),
	}
}

func (t *Track) GetIndex() int {
	return t.index
}

func (t *Track) GetAxis() dbu.Unit {
	return t.axis
}

func (t *Track) IsHorizontal() bool {
	return t.horizontal
}

func (t *Track) GetLayer() int {
	return t.layer
}

func (t *Track) GetSize() int {
	return len(t.elements)
}

func (t *Track) Elements() []Element {
	return slices.Clone(t.elements)
}

func (t *Track) Insert(e Element) {
	i, _ := slices.BinarySearchFunc(t.elements, e, compareElements)
	t.elements = slices.Insert(t.elements, i, e)
}

// Remove drops the element of segment, reporting whether it was there.
func (t *Track) Remove(segment da.SegmentID) bool {
	i := slices.IndexFunc(t.elements, func(e Element) bool { return e.segment == segment })
	if i < 0 {
		return false
	}
	t.elements = slices.Delete(t.elements, i, i+1)
	return true
}

func (t *Track) Contains(segment da.SegmentID) bool {
	return slices.ContainsFunc(t.elements, func(e Element) bool { return e.segment == segment })
}

// Conflicts returns the elements of other nets overlapping span.
func (t *Track) Conflicts(span da.Interval, net da.NetID) []Element {
	out := make([]Element, 0)
	for _, e := range t.elements {
		if e.span.GetVMin() > span.GetVMax() {
			break
		}
		if e.net != net && e.span.Intersects(span) {
			out = append(out, e)
		}
	}
	return out
}

func (t *Track) IsFree(span da.Interval, net da.NetID) bool {
	return len(t.Conflicts(span, net)) == 0
}

// OverlapCost is the total length of other nets' wires covering span.
func (t *Track) OverlapCost(span da.Interval, net da.NetID) dbu.Unit {
	var cost dbu.Unit
	for _, e := range t.Conflicts(span, net) {
		// touching counts as a conflict, it must cost something
		cost += max(e.span.Overlap(span), 1)
	}
	return cost
}

func (t *Track) String() string {
	dir := "V"
	if t.horizontal {
		dir = "H"
	}
	return fmt.Sprintf("<Track %s%d @%s layer:%d elements:%d>", dir, t.index, dbu.ValueString(t.axis), t.layer, len(t.elements))
}

func compareElements(a, b Element) int {
	if a.span.GetVMin() != b.span.GetVMin() {
		if a.span.GetVMin() < b.span.GetVMin() {
			return -1
		}
		return 1
	}
	if a.segment < b.segment {
		return -1
	}
	if a.segment > b.segment {
		return 1
	}
	return 0
}
