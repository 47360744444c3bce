package scheduler

import (
	"context"
	"slices"

	"github.com/lintang-b-s/Negotiatorx/pkg/concurrent"
	"github.com/lintang-b-s/Negotiatorx/pkg/config"
	da "github.com/lintang-b-s/Negotiatorx/pkg/datastructure"
	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
	"github.com/lintang-b-s/Negotiatorx/pkg/event"
	"github.com/lintang-b-s/Negotiatorx/pkg/metrics"
	"github.com/lintang-b-s/Negotiatorx/pkg/negotiation"
	"github.com/lintang-b-s/Negotiatorx/pkg/topology"
	"github.com/lintang-b-s/Negotiatorx/pkg/track"
	"github.com/lintang-b-s/Negotiatorx/pkg/util"
	"go.uber.org/zap"
)

// window half widths, in track pitches, for each strategy. MaximumSlack opens
// the whole plane.
var slackWindow = map[negotiation.SlackState]dbu.Unit{
	negotiation.RipupPerpandiculars: 1,
	negotiation.Minimize:            2,
	negotiation.DogLeg:              3,
	negotiation.Desalignate:         4,
	negotiation.Slacken:             5,
	negotiation.ConflictSolve1:      5,
	negotiation.ConflictSolve2:      6,
	negotiation.LocalVsGlobal:       6,
	negotiation.MoveUp:              6,
}

// Negotiator runs the negotiated congestion loop over one region. It is the
// single writer of the region's tracks, topology and negotiation states.
type Negotiator struct {
	cfg     config.Config
	log     *zap.Logger
	metrics *metrics.Collector
	region  *Region
	index   *topology.Index
	session *negotiation.Session
	pitch   dbu.Unit

	states    map[da.SegmentID]*negotiation.NegotiationState
	origins   map[da.SegmentID]dbu.Unit
	placement map[da.SegmentID]*track.Track
	events    map[da.SegmentID]*event.RoutingEvent
	nodes     map[da.SegmentID]*da.PriorityQueueNode[*event.RoutingEvent]
	unrouted  map[da.SegmentID]bool
	queue     *da.MinHeap[*event.RoutingEvent]
	stats     Stats
}

func NewNegotiator(cfg config.Config, region *Region, collector *metrics.Collector, log *zap.Logger) *Negotiator {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("region", region.Name))

	opts := []negotiation.SessionOption{
		negotiation.WithMargin(cfg.AttractorMarginLambda),
		negotiation.WithDiagnosticInterval(cfg.DiagnosticInterval),
	}
	if collector != nil {
		opts = append(opts, negotiation.WithObserver(collector))
	}

	return &Negotiator{
		cfg:       cfg,
		log:       log,
		metrics:   collector,
		region:    region,
		index:     region.Index,
		session:   negotiation.NewSession(region.Index, log, opts...),
		pitch:     dbu.Lambda(cfg.TrackPitchLambda),
		states:    make(map[da.SegmentID]*negotiation.NegotiationState),
		origins:   make(map[da.SegmentID]dbu.Unit),
		placement: make(map[da.SegmentID]*track.Track),
		events:    make(map[da.SegmentID]*event.RoutingEvent),
		nodes:     make(map[da.SegmentID]*da.PriorityQueueNode[*event.RoutingEvent]),
		unrouted:  make(map[da.SegmentID]bool),
		queue:     da.NewFourAryHeap[*event.RoutingEvent](),
		stats:     newStats(region.Name),
	}
}

func (n *Negotiator) GetState(id da.SegmentID) (*negotiation.NegotiationState, bool) {
	st, ok := n.states[id]
	return st, ok
}

// GetPlacement returns the track a segment ended on, nil when unrouted.
func (n *Negotiator) GetPlacement(id da.SegmentID) *track.Track {
	return n.placement[id]
}

func (n *Negotiator) IsUnrouted(id da.SegmentID) bool {
	return n.unrouted[id]
}

// Run negotiates every segment of the region until the queue empties, the
// event budget runs out, or ctx is cancelled.
func (n *Negotiator) Run(ctx context.Context) (Stats, error) {
	segments := n.index.Segments()
	n.stats.Segments = len(segments)
	n.log.Sugar().Infof("Negotiating %d segments...", len(segments))

	if err := n.loadStates(ctx, segments); err != nil {
		return n.stats, err
	}

	for !n.queue.IsEmpty() {
		if util.StopConcurrentOperation(ctx) {
			n.finish()
			return n.stats, ctx.Err()
		}
		if n.stats.Events >= n.cfg.MaxEvents {
			n.stats.Exhausted = true
			n.log.Warn("event budget exhausted", zap.Int("maxEvents", n.cfg.MaxEvents), zap.Int("pending", n.queue.Size()))
			break
		}

		node, err := n.queue.ExtractMin()
		if err != nil {
			return n.stats, util.WrapErrorf(err, util.ErrInternal, "scheduler.Run")
		}
		ev := node.GetItem()
		if ev.IsDetached() {
			continue
		}
		if err := n.process(ev); err != nil {
			return n.stats, err
		}
	}

	n.finish()
	n.log.Info("negotiation done", zap.Object("stats", n.stats))
	return n.stats, nil
}

// loadStates creates a negotiation state and an event per segment. Costs are
// refreshed in parallel, the topology is only read at this point.
func (n *Negotiator) loadStates(ctx context.Context, segments []*topology.Segment) error {
	bounds := n.region.Bounds
	states := make([]*negotiation.NegotiationState, 0, len(segments))

	initial := negotiation.RipupPerpandiculars
	if n.cfg.InitialState != "" {
		var err error
		if initial, err = negotiation.ParseSlackState(n.cfg.InitialState); err != nil {
			return err
		}
	}

	for order, seg := range segments {
		st, err := negotiation.NewNegotiationState(seg, n.session, initial)
		if err != nil {
			return err
		}
		st.SetGCellOrder(uint32(order))
		st.SetRing(n.region.RingNets[seg.GetNet()])

		edge := bounds.GetY()
		if seg.IsHorizontal() {
			edge = bounds.GetX()
		}
		if !edge.IsEmpty() {
			st.SetLeftBorder(seg.GetSpan().GetVMin() <= edge.GetVMin())
			st.SetRightBorder(seg.GetSpan().GetVMax() >= edge.GetVMax())
		}

		n.states[seg.GetID()] = st
		n.origins[seg.GetID()] = seg.GetAxis()
		states = append(states, st)
	}

	_, err := concurrent.Map[*negotiation.NegotiationState, struct{}](ctx, n.cfg.Workers, states, func(st *negotiation.NegotiationState) struct{} {
		st.Update()
		return struct{}{}
	})
	if err != nil {
		return err
	}

	for _, seg := range segments {
		ev := event.NewRoutingEvent(seg.GetID(), n.priority(seg))
		n.events[seg.GetID()] = ev
		n.states[seg.GetID()].SetRoutingEvent(ev)
		n.schedule(seg.GetID())
	}
	return nil
}

// priority favours long, constrained segments. Each ripup lowers it.
func (n *Negotiator) priority(seg *topology.Segment) float64 {
	st := n.states[seg.GetID()]
	p := float64(seg.GetLength())
	if st.IsBorder() {
		p += float64(n.pitch)
	}
	if st.GetCost().IsUpdated() {
		p += float64(st.GetCost().GetTerminals()) * float64(n.pitch)
	}
	return p / float64(1+st.GetRipupCount())
}

// schedule queues the segment's event. An event already queued only moves
// forward, when its priority grew since it was inserted.
func (n *Negotiator) schedule(id da.SegmentID) {
	ev := n.events[id]
	seg, ok := n.index.Get(id)
	if !ok || ev == nil {
		return
	}

	if node := n.nodes[id]; node != nil && node.InQueue() {
		if p := n.priority(seg); -p < node.GetRank() {
			ev.SetPriority(p)
			if err := n.queue.DecreaseKey(node, -p); err != nil {
				n.log.Warn("cannot raise queued event", zap.Int64("segment", int64(id)), zap.Error(err))
			}
		}
		return
	}

	ev.SetPriority(n.priority(seg))
	ev.SetProcessed(false)
	node := da.NewPriorityQueueNode(-ev.GetPriority(), ev)
	n.nodes[id] = node
	n.queue.Insert(node)
}

func (n *Negotiator) process(ev *event.RoutingEvent) error {
	n.stats.Events++
	if n.metrics != nil {
		n.metrics.EventProcessed()
	}
	ev.IncEventLevel()
	withPerpandiculars, _ := ev.Revalidate()

	id := ev.GetSegment()
	seg, ok := n.index.Get(id)
	if !ok {
		return util.WrapErrorf(nil, util.ErrNotFound, "scheduler.process: segment %d", id)
	}
	st := n.states[id]
	if withPerpandiculars {
		n.refreshPerpandiculars(id)
	}

	n.unplace(id)
	st.Update()

	if ce := n.log.Check(zap.DebugLevel, "event"); ce != nil {
		ce.Write(zap.Object("event", ev), zap.Object("negotiation", st))
	}

	if n.tryPlace(seg, st) {
		ev.SetProcessed(true)
		return nil
	}
	return n.fail(seg, st)
}

// refreshPerpandiculars recomputes the costs of the placed perpendiculars of id
// and queues them again, their attractors moved with id.
func (n *Negotiator) refreshPerpandiculars(id da.SegmentID) {
	_, perps, _, _ := n.index.TopologicalInfos(id)
	for _, pid := range perps {
		pst, ok := n.states[pid]
		if !ok || n.placement[pid] == nil {
			continue
		}
		pst.Update()
		n.schedule(pid)
	}
}

type candidate struct {
	track   *track.Track
	overlap dbu.Unit
	delta   dbu.Unit
	dist    dbu.Unit
}

// candidates ranks the tracks the current strategy allows: free tracks first,
// then least overlap, then wiring delta, then distance to the original axis.
func (n *Negotiator) candidates(seg *topology.Segment, st *negotiation.NegotiationState) []candidate {
	origin := n.origins[seg.GetID()]
	planes := []*track.Plane{n.region.planeFor(seg.IsHorizontal(), seg.GetLayer())}
	if st.GetState() >= negotiation.MoveUp {
		planes = append(planes, n.region.alternatePlanes(seg.IsHorizontal(), seg.GetLayer())...)
	}

	tracks := make([]*track.Track, 0)
	for _, p := range planes {
		if p == nil {
			continue
		}
		if st.GetState() == negotiation.MaximumSlack {
			tracks = append(tracks, p.GetTracks()...)
			continue
		}
		w := slackWindow[st.GetState()] * n.pitch
		tracks = append(tracks, p.Within(origin-w, origin+w)...)
		if nearest := p.Nearest(origin); nearest != nil && !slices.Contains(tracks, nearest) {
			tracks = append(tracks, nearest)
		}
	}

	out := make([]candidate, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, candidate{
			track:   t,
			overlap: t.OverlapCost(seg.GetSpan(), seg.GetNet()),
			delta:   st.GetCost().GetWiringDelta(t.GetAxis()),
			dist:    util.Abs(t.GetAxis() - origin),
		})
	}
	slices.SortStableFunc(out, func(a, b candidate) int {
		switch {
		case (a.overlap == 0) != (b.overlap == 0):
			if a.overlap == 0 {
				return -1
			}
			return 1
		case a.overlap != b.overlap:
			return cmpUnit(a.overlap, b.overlap)
		case a.delta != b.delta:
			return cmpUnit(a.delta, b.delta)
		case a.dist != b.dist:
			return cmpUnit(a.dist, b.dist)
		}
		return a.track.GetLayer()*1_000_000 + a.track.GetIndex() - (b.track.GetLayer()*1_000_000 + b.track.GetIndex())
	})
	return out
}

func (n *Negotiator) tryPlace(seg *topology.Segment, st *negotiation.NegotiationState) bool {
	cands := n.candidates(seg, st)
	if len(cands) == 0 {
		return false
	}
	if cands[0].overlap == 0 {
		n.place(seg, cands[0].track)
		return true
	}

	for _, c := range cands {
		conflicts := c.track.Conflicts(seg.GetSpan(), seg.GetNet())
		if !n.canRipAll(seg, st, conflicts) {
			continue
		}
		for _, e := range conflicts {
			n.ripup(e.GetSegment())
		}
		n.place(seg, c.track)
		return true
	}
	return false
}

// canRipAll decides, per strategy, whether every conflicting segment may be
// evicted. Ring nets are never evicted.
func (n *Negotiator) canRipAll(seg *topology.Segment, st *negotiation.NegotiationState, conflicts []track.Element) bool {
	for _, e := range conflicts {
		other := n.states[e.GetSegment()]
		if other == nil || other.IsRing() {
			return false
		}
		switch st.GetState() {
		case negotiation.ConflictSolve1:
			if other.GetRipupCount() >= st.GetRipupCount() {
				return false
			}
		case negotiation.ConflictSolve2, negotiation.MaximumSlack:
			if other.GetRipupCount() > st.GetRipupCount() {
				return false
			}
		case negotiation.LocalVsGlobal:
			o, ok := n.index.Get(e.GetSegment())
			if !ok || o.GetLength() >= seg.GetLength() {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (n *Negotiator) place(seg *topology.Segment, t *track.Track) {
	t.Insert(track.NewElement(seg.GetID(), seg.GetNet(), seg.GetSpan()))
	n.placement[seg.GetID()] = t
	delete(n.unrouted, seg.GetID())

	if seg.GetAxis() == t.GetAxis() {
		return
	}
	_, perps, _, _ := n.index.TopologicalInfos(seg.GetID())
	// SetAxis cannot fail here, the segment was just looked up
	_ = n.index.SetAxis(seg.GetID(), t.GetAxis())

	for _, pid := range perps {
		pst, ok := n.states[pid]
		if !ok || n.unrouted[pid] {
			continue
		}
		pst.Invalidate(true, false)
		if ev := pst.GetRoutingEvent(); ev != nil && ev.IsInvalidated() {
			n.schedule(pid)
		}
	}
}

func (n *Negotiator) unplace(id da.SegmentID) bool {
	t := n.placement[id]
	if t == nil {
		return false
	}
	t.Remove(id)
	delete(n.placement, id)
	return true
}

// ripup evicts a placed segment and queues it again. Ring segments stay.
func (n *Negotiator) ripup(id da.SegmentID) {
	st := n.states[id]
	if st == nil || st.IsRing() {
		return
	}
	if !n.unplace(id) {
		return
	}
	st.IncRipupCount()
	n.stats.Ripups++
	if n.metrics != nil {
		n.metrics.Ripup()
	}
	n.schedule(id)
}

// fail records a failed placement, escalates the strategy when it has been
// repeated too often, and reinserts the event.
func (n *Negotiator) fail(seg *topology.Segment, st *negotiation.NegotiationState) error {
	id := seg.GetID()
	st.IncRipupCount()
	n.stats.Ripups++
	if n.metrics != nil {
		n.metrics.Ripup()
	}

	if st.GetState() == negotiation.RipupPerpandiculars {
		_, perps, _, _ := n.index.TopologicalInfos(id)
		for _, pid := range perps {
			n.ripup(pid)
		}
	}

	next := st.GetState()
	if int(st.GetStateCount()) >= n.cfg.StateRepeatLimit {
		next = next.Next()
	}
	if int(st.GetRipupCount()) >= n.cfg.RipupLimit && next < negotiation.MaximumSlack {
		next = negotiation.MaximumSlack
	}

	if next == negotiation.Unimplemented {
		n.unrouted[id] = true
		n.events[id].SetProcessed(true)
		n.log.Debug("segment left unrouted", zap.Object("negotiation", st))
		return nil
	}
	util.AssertPanic(next.IsStrategy(), "scheduler.fail(): escalated to a non strategy state")

	if next != st.GetState() {
		n.stats.Transitions[next]++
		if n.metrics != nil {
			n.metrics.StateEntered(next.String())
		}
	}
	st.SetState(next, false)
	n.schedule(id)
	return nil
}

// finish detaches every event and drops whatever is still queued.
func (n *Negotiator) finish() {
	for id, node := range n.nodes {
		if node.InQueue() {
			_ = n.queue.Remove(node)
		}
		delete(n.nodes, id)
	}
	for id, ev := range n.events {
		ev.Detach()
		n.states[id].SetRoutingEvent(nil)
	}

	n.stats.Placed = len(n.placement)
	n.stats.Unrouted = n.stats.Segments - n.stats.Placed
	if n.metrics != nil {
		n.metrics.AddUnrouted(n.stats.Unrouted)
	}
}

func cmpUnit(a, b dbu.Unit) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
