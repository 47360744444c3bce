package datastructure

import (
	"fmt"

	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
)

type SegmentID int64

type NetID int64

const INVALID_SEGMENT SegmentID = -1

// CanonicalInfo is what topology resolution hands back for a perpendicular:
// the canonical segment and the interval covered by all of its aligned parts.
type CanonicalInfo struct {
	ID         SegmentID
	Horizontal bool
	Span       Interval
}

// Box is an axis aligned rectangle in base units.
type Box struct {
	x Interval
	y Interval
}

func NewBox(x, y Interval) Box {
	return Box{x: x, y: y}
}

func (b Box) GetX() Interval {
	return b.x
}

func (b Box) GetY() Interval {
	return b.y
}

func (b Box) Min() [2]float64 {
	return [2]float64{float64(b.x.GetVMin()), float64(b.y.GetVMin())}
}

func (b Box) Max() [2]float64 {
	return [2]float64{float64(b.x.GetVMax()), float64(b.y.GetVMax())}
}

func (b Box) Inflate(d dbu.Unit) Box {
	return Box{x: b.x.Inflate(d), y: b.y.Inflate(d)}
}

func (b Box) String() string {
	return fmt.Sprintf("<%s %s>", b.x, b.y)
}
