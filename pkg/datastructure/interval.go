package datastructure

import (
	"fmt"

	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
)

// Interval is a closed range [vmin, vmax] along one direction. An interval
// with vmax < vmin is empty.
type Interval struct {
	vmin dbu.Unit
	vmax dbu.Unit
}

func NewInterval(a, b dbu.Unit) Interval {
	if a > b {
		a, b = b, a
	}
	return Interval{vmin: a, vmax: b}
}

func EmptyInterval() Interval {
	return Interval{vmin: dbu.Max, vmax: dbu.Min}
}

func (i Interval) GetVMin() dbu.Unit {
	return i.vmin
}

func (i Interval) GetVMax() dbu.Unit {
	return i.vmax
}

func (i Interval) IsEmpty() bool {
	return i.vmax < i.vmin
}

func (i Interval) IsPonctual() bool {
	return i.vmin == i.vmax
}

func (i Interval) GetSize() dbu.Unit {
	if i.IsEmpty() {
		return 0
	}
	return i.vmax - i.vmin
}

func (i Interval) GetCenter() dbu.Unit {
	return i.vmin + (i.vmax-i.vmin)/2
}

// Inflate grows both bounds by d (shrinks when d is negative). Empty intervals
// are left untouched and the result is not re-normalised: shrinking a short
// interval past its center yields an empty one.
func (i Interval) Inflate(d dbu.Unit) Interval {
	if i.IsEmpty() {
		return i
	}
	return Interval{vmin: i.vmin - d, vmax: i.vmax + d}
}

func (i Interval) Contains(v dbu.Unit) bool {
	return !i.IsEmpty() && i.vmin <= v && v <= i.vmax
}

// Intersects reports whether the two intervals share at least one point.
func (i Interval) Intersects(o Interval) bool {
	if i.IsEmpty() || o.IsEmpty() {
		return false
	}
	return i.vmin <= o.vmax && o.vmin <= i.vmax
}

// Overlap returns the length shared by both intervals, 0 when they only touch
// or are disjoint.
func (i Interval) Overlap(o Interval) dbu.Unit {
	if !i.Intersects(o) {
		return 0
	}
	return min(i.vmax, o.vmax) - max(i.vmin, o.vmin)
}

func (i Interval) Merge(o Interval) Interval {
	if o.IsEmpty() {
		return i
	}
	if i.IsEmpty() {
		return o
	}
	return Interval{vmin: min(i.vmin, o.vmin), vmax: max(i.vmax, o.vmax)}
}

func (i Interval) MergeValue(v dbu.Unit) Interval {
	return i.Merge(Interval{vmin: v, vmax: v})
}

func (i Interval) String() string {
	if i.IsEmpty() {
		return "[empty]"
	}
	return fmt.Sprintf("[%s:%s]", dbu.ValueString(i.vmin), dbu.ValueString(i.vmax))
}
