package spatialindex

import (
	"testing"

	da "github.com/lintang-b-s/Negotiatorx/pkg/datastructure"
	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
	"github.com/stretchr/testify/assert"
)

func hbox(axis, a, b int64) da.Box {
	return da.NewBox(da.NewInterval(dbu.Unit(a), dbu.Unit(b)), da.NewInterval(dbu.Unit(axis), dbu.Unit(axis)))
}

func TestRtreeSearch(t *testing.T) {
	rt := NewRtree()
	rt.Insert(3, hbox(100, 0, 500))
	rt.Insert(1, hbox(200, 0, 500))
	rt.Insert(2, da.NewBox(da.NewInterval(250, 250), da.NewInterval(0, 300)))

	testCases := []struct {
		name  string
		query da.Box
		want  []da.SegmentID
	}{
		{name: "crossing vertical query", query: da.NewBox(da.NewInterval(100, 100), da.NewInterval(50, 250)), want: []da.SegmentID{1, 3}},
		{name: "point on vertical", query: da.NewBox(da.NewInterval(250, 250), da.NewInterval(100, 100)), want: []da.SegmentID{2, 3}},
		{name: "nothing", query: hbox(1000, 0, 10), want: []da.SegmentID{}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rt.Search(tt.query))
		})
	}

	rt.Delete(3, hbox(100, 0, 500))
	assert.Equal(t, 2, rt.Len())
	assert.Equal(t, []da.SegmentID{1}, rt.Search(da.NewBox(da.NewInterval(100, 100), da.NewInterval(50, 250))))
}
