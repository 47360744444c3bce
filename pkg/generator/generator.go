package generator

import (
	"fmt"

	da "github.com/lintang-b-s/Negotiatorx/pkg/datastructure"
	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
	"github.com/lintang-b-s/Negotiatorx/pkg/scheduler"
	"github.com/lintang-b-s/Negotiatorx/pkg/topology"
	"github.com/lintang-b-s/Negotiatorx/pkg/track"
	"github.com/lintang-b-s/Negotiatorx/pkg/util"
	"golang.org/x/exp/rand"
)

const (
	HorizontalLayer = 0
	VerticalLayer   = 1
	UpperLayer      = 2
)

// Params describes a synthetic instance. Every region is a square grid of
// Tracks x Tracks track crossings, Pitch apart.
type Params struct {
	Seed          uint64
	Regions       int
	Nets          int     // per region
	Tracks        int     // per plane
	Pitch         dbu.Unit
	SplitRatio    float64 // share of nets whose vertical wire is split in two parts
	UnroutedRatio float64 // share of split nets whose canonical never made it onto a track
	RingNets      int     // the first RingNets nets of each region are ring nets
}

func DefaultParams() Params {
	return Params{
		Seed:          1,
		Regions:       4,
		Nets:          40,
		Tracks:        32,
		Pitch:         dbu.Lambda(5),
		SplitRatio:    0.3,
		UnroutedRatio: 0.2,
		RingNets:      1,
	}
}

func (p Params) validate() error {
	switch {
	case p.Regions < 1:
		return util.WrapErrorf(nil, util.ErrBadParamInput, "generator: regions must be positive, got %d", p.Regions)
	case p.Nets < 1:
		return util.WrapErrorf(nil, util.ErrBadParamInput, "generator: nets must be positive, got %d", p.Nets)
	case p.Tracks < 4:
		return util.WrapErrorf(nil, util.ErrBadParamInput, "generator: need at least 4 tracks, got %d", p.Tracks)
	case p.Pitch <= 0:
		return util.WrapErrorf(nil, util.ErrBadParamInput, "generator: pitch must be positive")
	case p.SplitRatio < 0 || p.SplitRatio > 1 || p.UnroutedRatio < 0 || p.UnroutedRatio > 1:
		return util.WrapErrorf(nil, util.ErrBadParamInput, "generator: ratios must lie in [0, 1]")
	}
	return nil
}

// Generate builds Regions independent regions. The same Params always yield
// the same instance.
func Generate(p Params) ([]*scheduler.Region, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	rd := rand.New(rand.NewSource(p.Seed))
	regions := make([]*scheduler.Region, 0, p.Regions)
	for r := 0; r < p.Regions; r++ {
		region, err := generateRegion(fmt.Sprintf("region-%d", r), p, rd)
		if err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}
	return regions, nil
}

func generateRegion(name string, p Params, rd *rand.Rand) (*scheduler.Region, error) {
	last := dbu.Unit(p.Tracks-1) * p.Pitch
	region := &scheduler.Region{
		Name:  name,
		Index: topology.NewIndex(),
		Planes: []*track.Plane{
			track.NewPlane(HorizontalLayer, true, 0, p.Pitch, p.Tracks),
			track.NewPlane(VerticalLayer, false, 0, p.Pitch, p.Tracks),
			track.NewPlane(UpperLayer, true, 0, p.Pitch, p.Tracks),
		},
		Bounds:   da.NewBox(da.NewInterval(0, last), da.NewInterval(0, last)),
		RingNets: make(map[da.NetID]bool),
	}

	var next da.SegmentID
	for n := 0; n < p.Nets; n++ {
		net := da.NetID(n)
		if n < p.RingNets {
			region.RingNets[net] = true
		}
		for _, s := range zNet(net, &next, p, rd) {
			if err := region.Index.Add(s); err != nil {
				return nil, err
			}
		}
	}
	return region, nil
}

// zNet draws a Z shaped net: a horizontal wire from the source terminal, a
// vertical jog and a horizontal wire to the target terminal.
func zNet(net da.NetID, next *da.SegmentID, p Params, rd *rand.Rand) []*topology.Segment {
	at := func(i int) dbu.Unit {
		return dbu.Unit(i) * p.Pitch
	}
	id := func() da.SegmentID {
		*next++
		return *next
	}

	x0 := rd.Intn(p.Tracks - 2)
	x1 := x0 + 2 + rd.Intn(p.Tracks-x0-2)
	xm := x0 + 1 + rd.Intn(x1-x0-1)
	y0 := rd.Intn(p.Tracks)
	y1 := rd.Intn(p.Tracks - 1)
	if y1 >= y0 {
		y1++
	}

	source := topology.NewSegment(id(), net, true, at(y0), da.NewInterval(at(x0), at(xm))).
		WithTerminals(at(x0)).
		WithBounds(true, false).
		WithLayer(HorizontalLayer)
	target := topology.NewSegment(id(), net, true, at(y1), da.NewInterval(at(xm), at(x1))).
		WithTerminals(at(x1)).
		WithBounds(false, true).
		WithLayer(HorizontalLayer)

	ylo, yhi := min(y0, y1), max(y0, y1)
	if yhi-ylo < 2 || rd.Float64() >= p.SplitRatio {
		jog := topology.NewSegment(id(), net, false, at(xm), da.NewInterval(at(ylo), at(yhi))).
			WithLayer(VerticalLayer)
		return []*topology.Segment{source, jog, target}
	}

	ymid := ylo + 1 + rd.Intn(yhi-ylo-1)
	canonical := topology.NewSegment(id(), net, false, at(xm), da.NewInterval(at(ylo), at(ymid))).
		WithLayer(VerticalLayer).
		WithRouted(rd.Float64() >= p.UnroutedRatio)
	part := topology.NewSegment(id(), net, false, at(xm), da.NewInterval(at(ymid), at(yhi))).
		WithLayer(VerticalLayer).
		WithCanonical(canonical.GetID())
	return []*topology.Segment{source, canonical, part, target}
}
