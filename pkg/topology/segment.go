package topology

import (
	"fmt"

	da "github.com/lintang-b-s/Negotiatorx/pkg/datastructure"
	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
)

// Segment is a wire fragment lying on one track. Its span runs along its own
// direction, its axis is the fixed perpendicular coordinate.
type Segment struct {
	id          da.SegmentID
	net         da.NetID
	horizontal  bool
	axis        dbu.Unit
	span        da.Interval
	layer       int
	terminals   []dbu.Unit
	sourceBound bool
	targetBound bool
	canonical   da.SegmentID
	routed      bool
}

func NewSegment(id da.SegmentID, net da.NetID, horizontal bool, axis dbu.Unit, span da.Interval) *Segment {
	return &Segment{
		id:         id,
		net:        net,
		horizontal: horizontal,
		axis:       axis,
		span:       span,
		canonical:  da.INVALID_SEGMENT,
		routed:     true,
	}
}

// WithTerminals records terminal positions along the span.
func (s *Segment) WithTerminals(positions ...dbu.Unit) *Segment {
	s.terminals = append(s.terminals, positions...)
	return s
}

// WithBounds marks the source (vmin) and target (vmax) ends as anchored.
func (s *Segment) WithBounds(source, target bool) *Segment {
	s.sourceBound = source
	s.targetBound = target
	return s
}

// WithCanonical makes s a split part of canonical.
func (s *Segment) WithCanonical(canonical da.SegmentID) *Segment {
	s.canonical = canonical
	return s
}

func (s *Segment) WithLayer(layer int) *Segment {
	s.layer = layer
	return s
}

// WithRouted(false) models a segment that never made it onto a track, canonical
// resolution through it fails.
func (s *Segment) WithRouted(routed bool) *Segment {
	s.routed = routed
	return s
}

func (s *Segment) GetID() da.SegmentID {
	return s.id
}

func (s *Segment) GetNet() da.NetID {
	return s.net
}

func (s *Segment) IsHorizontal() bool {
	return s.horizontal
}

func (s *Segment) GetAxis() dbu.Unit {
	return s.axis
}

func (s *Segment) GetSpan() da.Interval {
	return s.span
}

func (s *Segment) GetLayer() int {
	return s.layer
}

func (s *Segment) GetTerminals() []dbu.Unit {
	return s.terminals
}

func (s *Segment) IsRouted() bool {
	return s.routed
}

func (s *Segment) IsCanonical() bool {
	return s.canonical == da.INVALID_SEGMENT || s.canonical == s.id
}

func (s *Segment) GetCanonicalID() da.SegmentID {
	if s.IsCanonical() {
		return s.id
	}
	return s.canonical
}

func (s *Segment) GetLength() dbu.Unit {
	return s.span.GetSize()
}

func (s *Segment) GetBox() da.Box {
	point := da.NewInterval(s.axis, s.axis)
	if s.horizontal {
		return da.NewBox(s.span, point)
	}
	return da.NewBox(point, s.span)
}

func (s *Segment) String() string {
	dir := "V"
	if s.horizontal {
		dir = "H"
	}
	return fmt.Sprintf("<%s %d net:%d @%s %s>", dir, s.id, s.net, dbu.ValueString(s.axis), s.span)
}
