package controllers

import (
	"github.com/lintang-b-s/Negotiatorx/pkg/negotiation"
	"github.com/lintang-b-s/Negotiatorx/pkg/scheduler"
)

type regionStatsRequest struct {
	Region string `validate:"required,max=64,printascii"`
}

type statsResponse struct {
	Running bool                  `json:"running"`
	Regions []regionStatsResponse `json:"regions"`
}

type regionStatsResponse struct {
	Region      string         `json:"region"`
	Segments    int            `json:"segments"`
	Events      int            `json:"events"`
	Ripups      int            `json:"ripups"`
	Placed      int            `json:"placed"`
	Unrouted    int            `json:"unrouted"`
	Exhausted   bool           `json:"exhausted"`
	Transitions map[string]int `json:"transitions"`
}

func newRegionStatsResponse(st scheduler.Stats) regionStatsResponse {
	transitions := make(map[string]int)
	for _, s := range negotiation.SlackStates() {
		if n := st.Transitions[s]; n > 0 {
			transitions[s.String()] = n
		}
	}
	return regionStatsResponse{
		Region:      st.Region,
		Segments:    st.Segments,
		Events:      st.Events,
		Ripups:      st.Ripups,
		Placed:      st.Placed,
		Unrouted:    st.Unrouted,
		Exhausted:   st.Exhausted,
		Transitions: transitions,
	}
}
