package scheduler

import (
	da "github.com/lintang-b-s/Negotiatorx/pkg/datastructure"
	"github.com/lintang-b-s/Negotiatorx/pkg/topology"
	"github.com/lintang-b-s/Negotiatorx/pkg/track"
)

// Region is one independently negotiated routing area. Nothing in it is
// shared with other regions, so regions can run side by side.
type Region struct {
	Name     string
	Index    *topology.Index
	Planes   []*track.Plane
	Bounds   da.Box
	RingNets map[da.NetID]bool
}

// planeFor returns the plane segments of this orientation and layer live on,
// falling back to any plane with the right orientation.
func (r *Region) planeFor(horizontal bool, layer int) *track.Plane {
	var fallback *track.Plane
	for _, p := range r.Planes {
		if p.IsHorizontal() != horizontal {
			continue
		}
		if p.GetLayer() == layer {
			return p
		}
		if fallback == nil {
			fallback = p
		}
	}
	return fallback
}

// alternatePlanes are the other planes routing in the same direction.
func (r *Region) alternatePlanes(horizontal bool, layer int) []*track.Plane {
	out := make([]*track.Plane, 0)
	for _, p := range r.Planes {
		if p.IsHorizontal() == horizontal && p.GetLayer() != layer {
			out = append(out, p)
		}
	}
	return out
}
