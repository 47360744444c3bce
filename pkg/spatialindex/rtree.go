package spatialindex

import (
	"slices"

	da "github.com/lintang-b-s/Negotiatorx/pkg/datastructure"
	"github.com/tidwall/rtree"
)

// Rtree indexes segment footprints so neighbor enumeration only looks at
// segments near the query box.
type Rtree struct {
	tr *rtree.RTreeG[da.SegmentID]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[da.SegmentID]
	return &Rtree{
		tr: &tr,
	}
}

func (rt *Rtree) Insert(id da.SegmentID, box da.Box) {
	rt.tr.Insert(box.Min(), box.Max(), id)
}

func (rt *Rtree) Delete(id da.SegmentID, box da.Box) {
	rt.tr.Delete(box.Min(), box.Max(), id)
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// Search returns the ids of every indexed box touching box, in increasing id
// order so callers see a deterministic neighbor list.
func (rt *Rtree) Search(box da.Box) []da.SegmentID {
	results := make([]da.SegmentID, 0, 8)
	rt.tr.Search(box.Min(), box.Max(),
		func(min, max [2]float64, data da.SegmentID) bool {
			results = append(results, data)
			return true
		})
	slices.Sort(results)
	return slices.Compact(results)
}
