package negotiation

import (
	"fmt"
	"slices"
	"strings"

	da "github.com/lintang-b-s/Negotiatorx/pkg/datastructure"
	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
	"github.com/lintang-b-s/Negotiatorx/pkg/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SegmentCost caches how a segment is pulled by its perpendiculars and how far
// it must extend. Everything but the ripup count is rebuilt by Update.
type SegmentCost struct {
	terminals      uint32
	ripupCount     uint32
	leftMinExtend  dbu.Unit
	rightMinExtend dbu.Unit
	net            da.NetID
	attractors     []dbu.Unit
	updated        bool
}

func NewSegmentCost(seg TrackSegment) SegmentCost {
	return SegmentCost{
		leftMinExtend:  dbu.Max,
		rightMinExtend: dbu.Min,
		net:            seg.GetNet(),
		attractors:     make([]dbu.Unit, 0),
	}
}

func (c *SegmentCost) GetTerminals() uint32 {
	util.DebugAssert(c.updated, "SegmentCost.GetTerminals(): read before Update()")
	return c.terminals
}

func (c *SegmentCost) GetRipupCount() uint32 {
	return c.ripupCount
}

func (c *SegmentCost) GetLeftMinExtend() dbu.Unit {
	return c.leftMinExtend
}

func (c *SegmentCost) GetRightMinExtend() dbu.Unit {
	return c.rightMinExtend
}

func (c *SegmentCost) GetNet() da.NetID {
	return c.net
}

// GetAttractors returns a copy of the attractors found by the last Update.
func (c *SegmentCost) GetAttractors() []dbu.Unit {
	util.DebugAssert(c.updated, "SegmentCost.GetAttractors(): read before Update()")
	return slices.Clone(c.attractors)
}

func (c *SegmentCost) IsUpdated() bool {
	return c.updated
}

func (c *SegmentCost) SetRipupCount(count uint32) {
	c.ripupCount = count
}

func (c *SegmentCost) IncRipupCount() {
	c.ripupCount++
}

// DecRipupCount must not be called at zero. Debug builds panic, release
// builds keep the count at zero.
func (c *SegmentCost) DecRipupCount() {
	util.DebugAssert(c.ripupCount > 0, "SegmentCost.DecRipupCount(): ripup count already zero")
	if c.ripupCount > 0 {
		c.ripupCount--
	}
}

func (c *SegmentCost) ResetRipupCount() {
	c.ripupCount = 0
}

// GetWiringDelta is the summed distance from axis to every attractor.
func (c *SegmentCost) GetWiringDelta(axis dbu.Unit) dbu.Unit {
	util.DebugAssert(c.updated, "SegmentCost.GetWiringDelta(): read before Update()")
	var attraction dbu.Unit
	for _, a := range c.attractors {
		attraction += util.Abs(a - axis)
	}
	return attraction
}

// Update recomputes terminals, extensions and attractors of seg.
//
// A punctual perpendicular (once shrunk by the session margin) is an attractor
// on its own. Otherwise each bound of the perpendicular interval attracts,
// unless it lies on the segment's axis without being topologically anchored
// there. Lower bounds spin -1, upper bounds +1; coordinates whose spins cancel
// are dropped. Punctual attractors come first, then the others ascending.
func (c *SegmentCost) Update(seg TrackSegment, session *Session) {
	topo := session.topology
	log := session.log

	collapseds, perpandiculars, leftMinExtend, rightMinExtend := topo.TopologicalInfos(seg.GetID())
	c.leftMinExtend = leftMinExtend
	c.rightMinExtend = rightMinExtend
	c.terminals = topo.TerminalCount(seg.GetID(), collapseds)
	c.attractors = c.attractors[:0]

	axis := seg.GetAxis()
	attractorSpins := make(map[dbu.Unit]int)

	for _, perp := range perpandiculars {
		canonical, ok := topo.Canonical(perp)
		if !ok {
			session.topologyGap(seg, perp)
			continue
		}

		interval := canonical.Span.Inflate(-session.margin)

		if ce := log.Check(zap.DebugLevel, "perpandicular"); ce != nil {
			ce.Write(zap.Int64("segment", int64(seg.GetID())),
				zap.Int64("perpandicular", int64(perp)),
				zap.Int64("canonical", int64(canonical.ID)),
				zap.Stringer("interval", interval))
		}

		if interval.IsPonctual() {
			c.attractors = append(c.attractors, interval.GetVMin())
			continue
		}

		if interval.GetVMin() != axis || topo.IsTopologicalBound(perp, false, canonical.Horizontal) {
			attractorSpins[interval.GetVMin()] -= 1
		}
		if interval.GetVMax() != axis || topo.IsTopologicalBound(perp, true, canonical.Horizontal) {
			attractorSpins[interval.GetVMax()] += 1
		}
	}

	spun := make([]dbu.Unit, 0, len(attractorSpins))
	for coord, spin := range attractorSpins {
		if spin != 0 {
			spun = append(spun, coord)
		}
	}
	slices.Sort(spun)
	c.attractors = append(c.attractors, spun...)
	c.updated = true

	if ce := log.Check(zap.DebugLevel, "attractors"); ce != nil {
		ce.Write(zap.Int64("segment", int64(seg.GetID())), zap.String("attractors", attractorsString(c.attractors)))
	}
}

func attractorsString(attractors []dbu.Unit) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, a := range attractors {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(dbu.ValueString(a))
	}
	sb.WriteString("]")
	return sb.String()
}

func (c *SegmentCost) String() string {
	return fmt.Sprintf("<SegmentCost %d [%s:%s]>", c.terminals,
		dbu.ValueString(c.leftMinExtend), dbu.ValueString(c.rightMinExtend))
}

func (c *SegmentCost) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("terminals", c.terminals)
	enc.AddUint32("ripupCount", c.ripupCount)
	enc.AddString("leftMinExtend", dbu.ValueString(c.leftMinExtend))
	enc.AddString("rightMinExtend", dbu.ValueString(c.rightMinExtend))
	enc.AddInt64("net", int64(c.net))
	enc.AddString("attractors", attractorsString(c.attractors))
	return nil
}
