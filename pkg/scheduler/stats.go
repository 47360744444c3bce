package scheduler

import (
	"github.com/lintang-b-s/Negotiatorx/pkg/negotiation"
	"go.uber.org/zap/zapcore"
)

type Stats struct {
	Region      string
	Segments    int
	Events      int
	Ripups      int
	Placed      int
	Unrouted    int
	Transitions map[negotiation.SlackState]int
	Exhausted   bool // the event budget ran out before the queue emptied
}

func newStats(region string) Stats {
	return Stats{
		Region:      region,
		Transitions: make(map[negotiation.SlackState]int),
	}
}

func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("region", s.Region)
	enc.AddInt("segments", s.Segments)
	enc.AddInt("events", s.Events)
	enc.AddInt("ripups", s.Ripups)
	enc.AddInt("placed", s.Placed)
	enc.AddInt("unrouted", s.Unrouted)
	enc.AddBool("exhausted", s.Exhausted)
	for _, st := range negotiation.SlackStates() {
		if n := s.Transitions[st]; n > 0 {
			enc.AddInt("to"+st.String(), n)
		}
	}
	return nil
}
