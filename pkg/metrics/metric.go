package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const StateLabel = "state"

// Collector counts what happens during negotiation. It is registered on the
// caller's registerer so several negotiators (or tests) can each own one.
type Collector struct {
	eventsProcessed  prometheus.Counter
	ripups           prometheus.Counter
	stateTransitions *prometheus.CounterVec
	topologyGaps     prometheus.Counter
	unrouted         prometheus.Gauge
}

func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		eventsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "negotiator_events_processed_total",
			Help: "Count of routing events dequeued by the negotiation loop",
		}),
		ripups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "negotiator_ripups_total",
			Help: "Count of segment ripups",
		}),
		stateTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "negotiator_state_transitions_total",
				Help: "Count of slack state changes, by the state entered",
			},
			[]string{StateLabel},
		),
		topologyGaps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "negotiator_topology_gaps_total",
			Help: "Count of perpendicular neighbors skipped because no canonical segment could be resolved",
		}),
		unrouted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "negotiator_unrouted_segments",
			Help: "Number of segments left unrouted by the last negotiation, summed over regions",
		}),
	}

	if reg == nil {
		return c, nil
	}
	for _, col := range []prometheus.Collector{c.eventsProcessed, c.ripups, c.stateTransitions, c.topologyGaps, c.unrouted} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) EventProcessed() {
	c.eventsProcessed.Inc()
}

func (c *Collector) Ripup() {
	c.ripups.Inc()
}

func (c *Collector) StateEntered(state string) {
	c.stateTransitions.WithLabelValues(state).Inc()
}

func (c *Collector) TopologyGap() {
	c.topologyGaps.Inc()
}

func (c *Collector) SetUnrouted(n int) {
	c.unrouted.Set(float64(n))
}

// AddUnrouted accumulates one region's unrouted segments into the gauge.
func (c *Collector) AddUnrouted(n int) {
	c.unrouted.Add(float64(n))
}
