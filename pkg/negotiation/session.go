package negotiation

import (
	"time"

	"github.com/lintang-b-s/Negotiatorx/pkg"
	da "github.com/lintang-b-s/Negotiatorx/pkg/datastructure"
	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Topology is the read-only view of the segment graph the cost model needs.
type Topology interface {
	TopologicalInfos(seg da.SegmentID) (collapseds, perpandiculars []da.SegmentID, leftMinExtend, rightMinExtend dbu.Unit)
	TerminalCount(seg da.SegmentID, collapseds []da.SegmentID) uint32
	Canonical(perp da.SegmentID) (da.CanonicalInfo, bool)
	IsTopologicalBound(perp da.SegmentID, right bool, horizontal bool) bool
}

// TrackSegment is a segment placed on a track.
type TrackSegment interface {
	GetID() da.SegmentID
	GetNet() da.NetID
	GetAxis() dbu.Unit
	IsHorizontal() bool
}

type Observer interface {
	TopologyGap()
}

// Session bundles what every cost update needs: the topology, the logger and
// the attractor margin.
type Session struct {
	topology Topology
	log      *zap.Logger
	margin   dbu.Unit
	gapLog   *rate.Sometimes
	observer Observer
}

type SessionOption func(*Session)

// WithMargin sets how much perpendicular intervals are shrunk, in lambda.
func WithMargin(lambda float64) SessionOption {
	return func(s *Session) {
		s.margin = dbu.Lambda(lambda)
	}
}

func WithObserver(o Observer) SessionOption {
	return func(s *Session) {
		s.observer = o
	}
}

// WithDiagnosticInterval throttles topology gap warnings to one per interval.
// Zero logs every gap.
func WithDiagnosticInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		if d <= 0 {
			s.gapLog = &rate.Sometimes{Every: 1}
			return
		}
		s.gapLog = &rate.Sometimes{First: 1, Interval: d}
	}
}

func NewSession(topology Topology, log *zap.Logger, opts ...SessionOption) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		topology: topology,
		log:      log,
		margin:   dbu.Lambda(pkg.ATTRACTOR_MARGIN_LAMBDA),
		gapLog:   &rate.Sometimes{First: 1, Interval: time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) GetTopology() Topology {
	return s.topology
}

func (s *Session) GetLogger() *zap.Logger {
	return s.log
}

func (s *Session) GetMargin() dbu.Unit {
	return s.margin
}

func (s *Session) topologyGap(seg TrackSegment, perp da.SegmentID) {
	if s.observer != nil {
		s.observer.TopologyGap()
	}
	s.gapLog.Do(func() {
		s.log.Warn("perpandicular is not a track segment, skipped",
			zap.Int64("segment", int64(seg.GetID())),
			zap.Int64("perpandicular", int64(perp)))
	})
}
