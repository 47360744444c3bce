package track

import (
	"slices"

	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
)

// Plane is the set of parallel tracks of one routing layer, sorted by axis.
type Plane struct {
	layer      int
	horizontal bool
	tracks     []*Track
}

// NewPlane lays count tracks from start, pitch apart.
func NewPlane(layer int, horizontal bool, start, pitch dbu.Unit, count int) *Plane {
	p := &Plane{
		layer:      layer,
		horizontal: horizontal,
		tracks:     make([]*Track, 0, count),
	}
	for i := 0; i < count; i++ {
		p.tracks = append(p.tracks, NewTrack(i, start+dbu.Unit(i)*pitch, horizontal, layer))
	}
	return p
}

func (p *Plane) GetLayer() int {
	return p.layer
}

func (p *Plane) IsHorizontal() bool {
	return p.horizontal
}

func (p *Plane) GetTracks() []*Track {
	return p.tracks
}

func (p *Plane) GetTrack(index int) *Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	return p.tracks[index]
}

// Nearest returns the track closest to axis, the lower one on ties.
func (p *Plane) Nearest(axis dbu.Unit) *Track {
	if len(p.tracks) == 0 {
		return nil
	}
	i, found := slices.BinarySearchFunc(p.tracks, axis, func(t *Track, a dbu.Unit) int {
		switch {
		case t.axis < a:
			return -1
		case t.axis > a:
			return 1
		}
		return 0
	})
	if found {
		return p.tracks[i]
	}
	if i == 0 {
		return p.tracks[0]
	}
	if i == len(p.tracks) {
		return p.tracks[len(p.tracks)-1]
	}
	if axis-p.tracks[i-1].axis <= p.tracks[i].axis-axis {
		return p.tracks[i-1]
	}
	return p.tracks[i]
}

// Within returns the tracks whose axis lies in [lo, hi].
func (p *Plane) Within(lo, hi dbu.Unit) []*Track {
	out := make([]*Track, 0)
	for _, t := range p.tracks {
		if t.axis >= lo && t.axis <= hi {
			out = append(out, t)
		}
	}
	return out
}
